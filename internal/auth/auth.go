// Package auth defines the authentication collaborator contract. The shipped
// implementation is a stub: any request carrying a bearer header is accepted
// and mapped to the identity named in the gateway headers. Deployments
// needing real verification swap the Authenticator.
package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/glowdesk/inventory-service/internal/apperror"
	"github.com/glowdesk/inventory-service/internal/result"
)

// Identity is the resolved caller.
type Identity struct {
	UserID   string
	TenantID string
}

// Authenticator resolves a request into an Identity or fails with an
// AuthenticationError.
type Authenticator func(r *http.Request) result.Result[Identity]

// PermissionChecker reports whether the identity holds every listed
// permission inside the tenant.
type PermissionChecker func(ctx context.Context, userID, tenantID string, permissions []string) result.Result[bool]

// BearerStub accepts any syntactically-present bearer token and reads the
// identity from X-User-Id / X-Tenant-Id, trusting the upstream gateway.
func BearerStub(r *http.Request) result.Result[Identity] {
	header := r.Header.Get("Authorization")
	if header == "" {
		return result.Err[Identity](apperror.Authentication(apperror.AuthMissingToken, ""))
	}
	if !strings.HasPrefix(header, "Bearer ") || strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")) == "" {
		return result.Err[Identity](apperror.Authentication(apperror.AuthInvalidToken, ""))
	}

	return result.Ok(Identity{
		UserID:   r.Header.Get("X-User-Id"),
		TenantID: r.Header.Get("X-Tenant-Id"),
	})
}

// AllowAll is a PermissionChecker that grants everything. Used until a real
// RBAC collaborator is plugged in.
func AllowAll(ctx context.Context, userID, tenantID string, permissions []string) result.Result[bool] {
	return result.Ok(true)
}
