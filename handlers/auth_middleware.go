package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"productcatalog/auth"

	"github.com/sirupsen/logrus"
)

var ErrMissingToken = errors.New("missing or malformed authorization header")

type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type claimsKey struct{}

// ClaimsFromContext returns the identity attached by RequireAuth.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*auth.Claims)
	return c, ok
}

// RequireAuth rejects the request with 403 unless it carries a valid
// "Authorization: Bearer <token>" header. next only runs after the token
// has been verified.
func RequireAuth(tokens TokenVerifier, log *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := bearerToken(r.Header.Get("Authorization"))
			if err != nil {
				writeError(w, http.StatusForbidden, err.Error())
				return
			}

			claims, err := tokens.Verify(token)
			if err != nil {
				requestLogger(log, r).WithError(err).Debug("token rejected")
				if errors.Is(err, auth.ErrTokenExpired) {
					writeError(w, http.StatusForbidden, "token expired")
					return
				}
				writeError(w, http.StatusForbidden, "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(header string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrMissingToken
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}
