package auth

import (
	"context"
	"net/http"
	"strings"

	"feedbackboard/internal/apperr"
	"feedbackboard/internal/http/response"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the session cookie set after a valid access code.
const CookieName = "session"

type ctxKey string

const claimsKey ctxKey = "session_claims"

func ClaimsFromContext(ctx context.Context) (*jwt.RegisteredClaims, bool) {
	c, ok := ctx.Value(claimsKey).(*jwt.RegisteredClaims)
	return c, ok
}

func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value
	}
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

// RequireAuth rejects requests without a valid session cookie or bearer token.
func RequireAuth(jwtSvc *JWT) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				unauthorized(w)
				return
			}

			claims, err := jwtSvc.Verify(token)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	response.HandleError(w, apperr.Unauthorized("unauthorized"), nil)
}

// SessionCookie builds the cookie carrying token. An empty token clears it.
func SessionCookie(token string, secure bool) *http.Cookie {
	c := &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(SessionTTL.Seconds()),
	}
	if token == "" {
		c.MaxAge = -1
	}
	return c
}
