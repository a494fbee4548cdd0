package internal

import (
	"context"
)

// Principal is the authenticated caller attached to a request context after
// token validation. Permissions are resolved live from the store on every
// request, never trusted from the token payload.
type Principal struct {
	ID          int64    `json:"id"`
	Email       string   `json:"email"`
	Permissions []string `json:"permissions,omitempty"`
}

// HasPermission reports whether the principal holds the given tag.
func (p *Principal) HasPermission(permission string) bool {
	for _, held := range p.Permissions {
		if held == permission {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether the principal holds every required tag.
// An empty requirement always passes.
func (p *Principal) HasAllPermissions(required []string) bool {
	for _, tag := range required {
		if !p.HasPermission(tag) {
			return false
		}
	}
	return true
}

type ctxKey string

const ContextPrincipalKey ctxKey = "principal"

func ContextWithPrincipal(ctx context.Context, principal *Principal) context.Context {
	return context.WithValue(ctx, ContextPrincipalKey, principal)
}

func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(ContextPrincipalKey).(*Principal)
	return p, ok && p != nil
}
