package bcrypt

import (
	"errors"

	"pet-shop-api/internal/ports/auth"

	"golang.org/x/crypto/bcrypt"
)

// MinCost es el costo mínimo aceptado (10 rondas, igual que bcrypt.DefaultCost).
const MinCost = bcrypt.DefaultCost

// MaxPasswordBytes: bcrypt ignora lo que pase de 72 bytes, así que lo rechazamos.
const MaxPasswordBytes = 72

var (
	ErrEmptyPassword   = errors.New("password is empty")
	ErrPasswordTooLong = auth.ErrPasswordTooLong
)

var _ auth.PasswordHasher = (*Hasher)(nil)

// Hasher implementa auth.PasswordHasher con bcrypt (salt embebido en el hash).
type Hasher struct {
	cost int
}

func NewHasher(cost int) *Hasher {
	if cost < MinCost {
		cost = MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &Hasher{cost: cost}
}

func (h *Hasher) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPassword
	}
	if len(plaintext) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}

	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify compara en tiempo constante (lo hace bcrypt). Cualquier error => false.
func (h *Hasher) Verify(plaintext, hash string) bool {
	if plaintext == "" || hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
