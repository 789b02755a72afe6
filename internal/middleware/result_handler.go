// Package middleware adapts Result-returning handlers onto HTTP. Every
// response, success or failure, is the same JSON envelope; the status code is
// projected from the error taxonomy. Panics inside a handler are the only
// path that bypasses the Result contract, and they are caught here.
package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/glowdesk/inventory-service/internal/apperror"
	"github.com/glowdesk/inventory-service/internal/result"
	"github.com/glowdesk/inventory-service/pkg/logger"
)

// APIError is the error half of the response envelope.
type APIError struct {
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
	Details any    `json:"details,omitempty"`
	Code    string `json:"code,omitempty"`
}

// Meta carries request metadata on every response.
type Meta struct {
	RequestID string `json:"requestId,omitempty"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version,omitempty"`
}

// APIResponse is the uniform envelope. Clients branch on Success alone;
// status codes are still set correctly for tooling that inspects them.
type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
	Meta    Meta      `json:"meta"`
}

// Options tunes the wrappers. The zero value logs through a no-op logger
// with version "1.0.0".
type Options struct {
	Version     string
	LogResults  bool
	Development bool
	Logger      logger.Logger
}

func (o Options) withDefaults() Options {
	if o.Version == "" {
		o.Version = "1.0.0"
	}
	if o.Logger == nil {
		o.Logger = logger.NewNop()
	}
	return o
}

// Handler is a request handler in the Result contract.
type Handler[T any] func(r *http.Request) result.Result[T]

func requestID() string {
	return fmt.Sprintf("req_%d_%s", time.Now().UnixMilli(), randomSuffix(9))
}

const requestIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

func randomSuffix(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = requestIDAlphabet[rand.Intn(len(requestIDAlphabet))]
	}
	return string(b)
}

// WithResult wraps a Result-returning handler into an http.HandlerFunc
// producing the envelope. Panics become a DatabaseError("unexpected_error")
// surfaced as a generic 500 with details suppressed outside development.
func WithResult[T any](h Handler[T], opts Options) http.HandlerFunc {
	o := opts.withDefaults()

	return func(w http.ResponseWriter, r *http.Request) {
		reqID := requestID()
		meta := Meta{
			RequestID: reqID,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   o.Version,
		}

		defer func() {
			if rec := recover(); rec != nil {
				cause, ok := rec.(error)
				if !ok {
					cause = fmt.Errorf("%v", rec)
				}
				domainErr := apperror.Database("unexpected_error", cause.Error(), cause)

				if o.LogResults {
					o.Logger.Error("unexpected error in API handler",
						zap.String("request_id", reqID),
						zap.String("url", r.URL.Path),
						zap.String("method", r.Method),
						zap.Error(cause),
					)
				}

				apiErr := &APIError{
					Message: "Internal server error",
					Type:    string(domainErr.Kind),
				}
				if o.Development {
					apiErr.Details = cause.Error()
				}
				writeJSON(w, http.StatusInternalServerError, APIResponse{
					Success: false,
					Error:   apiErr,
					Meta:    meta,
				})
			}
		}()

		res := h(r)

		data, err := res.Unwrap()
		if err == nil {
			if o.LogResults {
				o.Logger.Info("API request succeeded",
					zap.String("request_id", reqID),
					zap.String("url", r.URL.Path),
					zap.String("method", r.Method),
				)
			}
			writeJSON(w, http.StatusOK, APIResponse{
				Success: true,
				Data:    data,
				Meta:    meta,
			})
			return
		}

		domainErr := apperror.From(err, "Request failed")
		status := apperror.HTTPStatus(domainErr)

		if o.LogResults {
			o.Logger.Error("API request failed",
				zap.String("request_id", reqID),
				zap.String("url", r.URL.Path),
				zap.String("method", r.Method),
				zap.String("error_type", string(domainErr.Kind)),
				zap.Int("status", status),
				zap.Error(domainErr),
			)
		}

		if domainErr.Kind == apperror.KindRateLimit && domainErr.RetryAfter > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(domainErr.RetryAfter))
		}

		writeJSON(w, status, APIResponse{
			Success: false,
			Error: &APIError{
				Message: domainErr.Message,
				Type:    string(domainErr.Kind),
				Details: domainErr.Details,
				Code:    domainErr.Code,
			},
			Meta: meta,
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, payload APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// ErrorListDetails flattens a combinator ErrorList into envelope-friendly
// details so aggregated validation failures surface individually.
func ErrorListDetails(err error) any {
	var list result.ErrorList
	if !errors.As(err, &list) {
		return nil
	}
	details := make([]APIError, 0, len(list))
	for _, e := range list {
		de := apperror.From(e, "")
		details = append(details, APIError{
			Message: de.Message,
			Type:    string(de.Kind),
			Code:    de.Code,
		})
	}
	return details
}
