package middleware

import (
	"context"
	"net/http"
	"roomly/pkg/logger"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

const UserIDKey contextKey = "user_id"

// Claims is the token shape the presentation layer issues. The engine only
// needs the subject's user id; role and grants are resolved from the user
// directory, never trusted from the token.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

func Authenticate(secret string, log *logger.Logger) func(http.Handler) http.Handler {
	key := []byte(secret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				writeAuthError(w, "Missing bearer token")
				return
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), claims, func(token *jwt.Token) (any, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return key, nil
			})
			if err != nil || !token.Valid || claims.UserID == "" {
				log.Warn("Rejected request with invalid token", "path", r.URL.Path, "error", err)
				writeAuthError(w, "Invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"` + message + `"}`))
}

// UserID returns the authenticated user id from the request context, or
// empty when the request was not authenticated.
func UserID(ctx context.Context) string {
	if v := ctx.Value(UserIDKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
