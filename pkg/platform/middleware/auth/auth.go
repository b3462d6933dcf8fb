package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"backoffice/pkg/platform/middleware/admin"
	request "backoffice/pkg/platform/middleware/request"
	"backoffice/pkg/requestcontext"
)

// JWTValidator validates bearer tokens issued by the identity collaborator.
type JWTValidator interface {
	ValidateToken(tokenString string) (*JWTClaims, error)
}

// JWTClaims represents the claims we expect from the JWT validator.
type JWTClaims struct {
	Subject     string
	Authorities []string
}

// RequireAuth accepts either the admin token or a valid bearer token. A nil
// validator disables bearer tokens.
func RequireAuth(validator JWTValidator, adminToken string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := request.GetRequestID(ctx)

			if admin.ValidToken(r.Header.Get("X-Admin-Token"), adminToken) {
				next.ServeHTTP(w, r.WithContext(requestcontext.WithActor(ctx, admin.ActorAdmin)))
				return
			}

			const bearerPrefix = "Bearer "
			if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), bearerPrefix); ok && validator != nil {
				claims, err := validator.ValidateToken(token)
				if err != nil {
					logger.WarnContext(ctx, "unauthorized access - invalid token",
						"error", err,
						"request_id", requestID,
					)
					writeUnauthorized(w, "Invalid or expired token")
					return
				}
				next.ServeHTTP(w, r.WithContext(requestcontext.WithActor(ctx, claims.Subject)))
				return
			}

			logger.WarnContext(ctx, "unauthorized access - missing credentials",
				"request_id", requestID,
			)
			writeUnauthorized(w, "Missing or invalid credentials")
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"` + description + `"}`))
}
