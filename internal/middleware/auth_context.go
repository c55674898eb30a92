package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"pet-shop-api/internal/platform/httpx"
	"pet-shop-api/internal/ports/auth"
)

type ctxKey string

const claimsKey ctxKey = "claims"

const (
	msgMissingToken  = "missing token"
	msgInvalidFormat = "invalid token format"
	msgInvalidToken  = "invalid or expired token"
	msgConfigError   = "internal configuration error"
)

// RequireAuth corta el request si no hay un Bearer token válido:
// - sin header Authorization => 401
// - header que no es exactamente "Bearer <token>" => 401
// - verifier sin secreto => 500 (se loguea, no se expone)
// - token inválido o expirado => 401
// Si el token es válido deja los claims en el contexto.
func RequireAuth(verifier auth.AuthVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if strings.TrimSpace(header) == "" {
				httpx.WriteError(w, http.StatusUnauthorized, msgMissingToken)
				return
			}

			token, ok := bearerToken(header)
			if !ok {
				httpx.WriteError(w, http.StatusUnauthorized, msgInvalidFormat)
				return
			}

			if verifier == nil {
				Log(r.Context()).Error("auth verifier not configured", nil)
				httpx.WriteError(w, http.StatusInternalServerError, msgConfigError)
				return
			}

			claims, err := verifier.Verify(r.Context(), token)
			if err != nil {
				if errors.Is(err, auth.ErrNotConfigured) {
					Log(r.Context()).Error("JWT_SECRET is not set; protected routes are unavailable", nil)
					httpx.WriteError(w, http.StatusInternalServerError, msgConfigError)
					return
				}
				Log(r.Context()).Debug("token rejected", map[string]any{"err": err})
				httpx.WriteError(w, http.StatusUnauthorized, msgInvalidToken)
				return
			}

			ctx := WithClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func WithClaims(ctx context.Context, c auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

func GetClaims(ctx context.Context) (auth.Claims, bool) {
	v := ctx.Value(claimsKey)
	if v == nil {
		return auth.Claims{}, false
	}
	c, ok := v.(auth.Claims)
	return c, ok
}

// bearerToken exige exactamente "Bearer <token>".
func bearerToken(authHeader string) (string, bool) {
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 {
		return "", false
	}
	if parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
