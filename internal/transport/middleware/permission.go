package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"

	internal "github.com/ramishka-devx/inquiry-system-api/internal"
	"github.com/ramishka-devx/inquiry-system-api/internal/auth"
)

// Authorize gates a route on the permission tags declared for its operation.
// The principal must hold every declared tag; an operation with no tags only
// requires an authenticated principal. Permissions were already resolved
// from the store during token validation, so no lookup happens here.
func Authorize(op auth.Operation) func(http.Handler) http.Handler {
	required := auth.RequiredPermissions(op)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := internal.PrincipalFromContext(r.Context())
			if !ok || principal == nil {
				writeAppError(w, internal.NewUnauthorizedError("authentication required", internal.ErrCodeInvalidToken))
				return
			}

			if !principal.HasAllPermissions(required) {
				slog.Warn("access denied",
					"user_id", principal.ID,
					"operation", string(op),
					"required_permissions", required,
					"user_permissions", principal.Permissions)
				writeAppError(w, internal.NewForbiddenError("insufficient permissions", internal.ErrCodePermissionDenied))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeAppError(w http.ResponseWriter, appErr *internal.AppError) {
	status, body := appErr.ToHTTPResponse()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
