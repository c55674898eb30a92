package auth

import (
	"context"
	"time"
)

// AuthVerifier verifica un token y devuelve claims o error.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}

// TokenIssuer firma claims y devuelve el token junto a su expiración.
type TokenIssuer interface {
	Issue(ctx context.Context, claims Claims) (string, time.Time, error)
}

// PasswordHasher hashea y compara credenciales. Verify nunca falla por contraseña incorrecta: devuelve false.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}
