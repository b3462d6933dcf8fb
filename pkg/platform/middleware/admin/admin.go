package admin

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	request "backoffice/pkg/platform/middleware/request"
	"backoffice/pkg/requestcontext"
)

// ActorAdmin is recorded as the audit actor for admin-token requests.
const ActorAdmin = "admin"

// ValidToken reports whether token matches expected in constant time.
func ValidToken(token, expected string) bool {
	if expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(expected)) == 1
}

func RequireAdminToken(expectedToken string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get("X-Admin-Token")
			if !ValidToken(token, expectedToken) {
				ctx := r.Context()
				requestID := request.GetRequestID(ctx)
				logger.WarnContext(ctx, "admin token mismatch",
					"request_id", requestID,
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"admin token required"}`))
				return
			}

			ctx := requestcontext.WithActor(r.Context(), ActorAdmin)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
