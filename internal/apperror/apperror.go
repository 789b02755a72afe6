// Package apperror defines the closed set of domain error kinds used across
// the service. Every expected failure is one of these kinds; repository-level
// driver errors are normalized via From before they cross a package boundary.
// The Kind field is the discriminant: the optional fields carry meaning only
// for the kinds that set them.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Kind discriminates the error taxonomy.
type Kind string

const (
	KindValidation     Kind = "ValidationError"
	KindNotFound       Kind = "NotFoundError"
	KindAuthorization  Kind = "AuthorizationError"
	KindAuthentication Kind = "AuthenticationError"
	KindBusinessRule   Kind = "BusinessRuleError"
	KindDatabase       Kind = "DatabaseError"
	KindNetwork        Kind = "NetworkError"
	KindConfiguration  Kind = "ConfigurationError"
	KindRateLimit      Kind = "RateLimitError"
	KindPayment        Kind = "PaymentError"
	KindTenant         Kind = "TenantError"
	KindStorage        Kind = "StorageError"
)

// AuthReason enumerates the causes an AuthenticationError can carry.
type AuthReason string

const (
	AuthInvalidCredentials AuthReason = "invalid_credentials"
	AuthExpired            AuthReason = "expired"
	AuthMissingToken       AuthReason = "missing_token"
	AuthInvalidToken       AuthReason = "invalid_token"
)

// Error is the single concrete error type of the taxonomy. Factories always
// produce fully populated values; callers never assemble one by hand.
type Error struct {
	Kind      Kind           `json:"type"`
	Message   string         `json:"message"`
	Details   any            `json:"details,omitempty"`
	Cause     error          `json:"-"`
	Timestamp time.Time      `json:"timestamp"`
	Context   map[string]any `json:"context,omitempty"`

	// Kind-specific fields.
	Field      string     `json:"field,omitempty"`      // Validation
	Resource   string     `json:"resource,omitempty"`   // NotFound
	ResourceID string     `json:"resourceId,omitempty"` // NotFound
	Required   string     `json:"required,omitempty"`   // Authorization
	UserID     string     `json:"userId,omitempty"`     // Authorization
	Reason     AuthReason `json:"reason,omitempty"`     // Authentication
	Rule       string     `json:"rule,omitempty"`       // BusinessRule
	Code       string     `json:"code,omitempty"`       // BusinessRule, Payment
	Operation  string     `json:"operation,omitempty"`  // Database, Tenant, Storage
	Query      string     `json:"query,omitempty"`      // Database
	Endpoint   string     `json:"endpoint,omitempty"`   // Network
	StatusCode int        `json:"statusCode,omitempty"` // Network
	Setting    string     `json:"setting,omitempty"`    // Configuration
	Limit      int        `json:"limit,omitempty"`      // RateLimit
	Window     string     `json:"window,omitempty"`     // RateLimit
	RetryAfter int        `json:"retryAfter,omitempty"` // RateLimit, seconds
	TenantID   string     `json:"tenantId,omitempty"`   // Tenant
	Path       string     `json:"path,omitempty"`       // Storage
	Provider   string     `json:"provider,omitempty"`   // Payment, Storage
	PaymentID  string     `json:"paymentId,omitempty"`  // Payment
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the wrapped lower-level error to errors.Is / errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetails returns a copy carrying structured details for the caller.
func (e *Error) WithDetails(details any) *Error {
	clone := *e
	clone.Details = details
	return &clone
}

// WithContext returns a copy carrying additional request context.
func (e *Error) WithContext(ctx map[string]any) *Error {
	clone := *e
	clone.Context = ctx
	return &clone
}

func newError(kind Kind, message string) *Error {
	return &Error{
		Kind:      kind,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

// Validation builds a ValidationError. field may be empty for whole-payload
// failures.
func Validation(message, field string) *Error {
	e := newError(KindValidation, message)
	e.Field = field
	return e
}

// NotFound builds a NotFoundError for a resource, optionally with its id.
func NotFound(resource, resourceID string) *Error {
	msg := resource + " not found"
	if resourceID != "" {
		msg = fmt.Sprintf("%s with ID %s not found", resource, resourceID)
	}
	e := newError(KindNotFound, msg)
	e.Resource = resource
	e.ResourceID = resourceID
	return e
}

// Authorization builds an AuthorizationError.
func Authorization(message, required, userID string) *Error {
	e := newError(KindAuthorization, message)
	e.Required = required
	e.UserID = userID
	return e
}

// Authentication builds an AuthenticationError for the given reason.
func Authentication(reason AuthReason, message string) *Error {
	if message == "" {
		message = fmt.Sprintf("Authentication failed: %s", reason)
	}
	e := newError(KindAuthentication, message)
	e.Reason = reason
	return e
}

// BusinessRule builds a BusinessRuleError. rule names the violated rule,
// code is the machine-readable identifier surfaced to API clients.
func BusinessRule(rule, message, code string) *Error {
	e := newError(KindBusinessRule, message)
	e.Rule = rule
	e.Code = code
	return e
}

// Database builds a DatabaseError wrapping a driver failure.
func Database(operation, message string, cause error) *Error {
	e := newError(KindDatabase, fmt.Sprintf("Database error during %s: %s", operation, message))
	e.Operation = operation
	e.Cause = cause
	return e
}

// Network builds a NetworkError.
func Network(message, endpoint string, statusCode int, cause error) *Error {
	e := newError(KindNetwork, message)
	e.Endpoint = endpoint
	e.StatusCode = statusCode
	e.Cause = cause
	return e
}

// Configuration builds a ConfigurationError for a setting.
func Configuration(setting, message string) *Error {
	e := newError(KindConfiguration, fmt.Sprintf("Configuration error for %s: %s", setting, message))
	e.Setting = setting
	return e
}

// RateLimit builds a RateLimitError. retryAfter is in seconds.
func RateLimit(limit int, window string, retryAfter int) *Error {
	e := newError(KindRateLimit, fmt.Sprintf("Rate limit exceeded: %d requests per %s", limit, window))
	e.Limit = limit
	e.Window = window
	e.RetryAfter = retryAfter
	return e
}

// Payment builds a PaymentError.
func Payment(message, paymentID, provider, code string) *Error {
	e := newError(KindPayment, message)
	e.PaymentID = paymentID
	e.Provider = provider
	e.Code = code
	return e
}

// Tenant builds a TenantError.
func Tenant(operation, message, tenantID string) *Error {
	e := newError(KindTenant, fmt.Sprintf("Tenant error during %s: %s", operation, message))
	e.Operation = operation
	e.TenantID = tenantID
	return e
}

// Storage builds a StorageError.
func Storage(operation, message, path, provider string, cause error) *Error {
	e := newError(KindStorage, fmt.Sprintf("Storage error during %s: %s", operation, message))
	e.Operation = operation
	e.Path = path
	e.Provider = provider
	e.Cause = cause
	return e
}

// Is type guards. They match on Kind, following errors.As through wrapping.

func is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

func IsValidation(err error) bool     { return is(err, KindValidation) }
func IsNotFound(err error) bool       { return is(err, KindNotFound) }
func IsAuthorization(err error) bool  { return is(err, KindAuthorization) }
func IsAuthentication(err error) bool { return is(err, KindAuthentication) }
func IsBusinessRule(err error) bool   { return is(err, KindBusinessRule) }
func IsDatabase(err error) bool       { return is(err, KindDatabase) }
func IsNetwork(err error) bool        { return is(err, KindNetwork) }
func IsConfiguration(err error) bool  { return is(err, KindConfiguration) }
func IsRateLimit(err error) bool      { return is(err, KindRateLimit) }
func IsPayment(err error) bool        { return is(err, KindPayment) }
func IsTenant(err error) bool         { return is(err, KindTenant) }
func IsStorage(err error) bool        { return is(err, KindStorage) }

// From normalizes an arbitrary error into the taxonomy: a *Error anywhere in
// the chain passes through unchanged, any other non-nil error is wrapped as a
// DatabaseError, and a nil error yields a ValidationError carrying
// defaultMessage. Mirrors the strict discriminant check the taxonomy demands
// instead of structural duck-typing.
func From(err error, defaultMessage string) *Error {
	if defaultMessage == "" {
		defaultMessage = "Unknown error"
	}

	var e *Error
	if errors.As(err, &e) {
		return e
	}

	if err != nil {
		msg := err.Error()
		if msg == "" {
			msg = defaultMessage
		}
		return Database("unknown", msg, err)
	}

	return Validation(defaultMessage, "")
}

// HTTPStatus projects an error kind onto a transport status code. Total over
// the taxonomy; anything unrecognized maps to 500.
func HTTPStatus(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}

	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization, KindTenant:
		return http.StatusForbidden
	case KindBusinessRule:
		return http.StatusUnprocessableEntity
	case KindRateLimit:
		return http.StatusTooManyRequests
	case KindPayment:
		return http.StatusPaymentRequired
	case KindDatabase, KindStorage, KindNetwork, KindConfiguration:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
