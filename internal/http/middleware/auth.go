package middleware

import (
	"context"
	"net/http"

	"github.com/shamimfewd/job-provider-server/internal/common"
	"github.com/shamimfewd/job-provider-server/internal/http/response"
	"github.com/shamimfewd/job-provider-server/internal/security"
)

type contextKey string

const ContextEmailKey contextKey = "email"

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "token"

type AuthMiddleware struct {
	jwt *security.JWTProvider
}

func NewAuthMiddleware(jwt *security.JWTProvider) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt}
}

// Authenticate extracts the session cookie, verifies it, and stashes the
// token email in the request context. Missing, tampered, or expired tokens
// all terminate with 401.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil || cookie.Value == "" {
			response.Error(w, common.NewError(common.CodeUnauthorized, "unauthorized access", nil))
			return
		}
		claims, err := m.jwt.Parse(cookie.Value)
		if err != nil {
			response.Error(w, common.NewError(common.CodeUnauthorized, "unauthorized access", err))
			return
		}
		ctx := context.WithValue(r.Context(), ContextEmailKey, claims.Email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func EmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(ContextEmailKey).(string)
	return email, ok && email != ""
}
