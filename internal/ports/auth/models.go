package auth

import (
	"errors"
	"strconv"
)

var (
	// ErrInvalidToken cubre firma inválida, token malformado o expirado.
	ErrInvalidToken = errors.New("invalid token")
	// ErrNotConfigured: falta el secreto de firma. Es un error del servidor, no del cliente.
	ErrNotConfigured = errors.New("token signer not configured")
	// ErrPasswordTooLong lo devuelve un PasswordHasher cuando el texto supera su límite.
	ErrPasswordTooLong = errors.New("password too long")
)

// Claims representa la información extraída del token.
type Claims struct {
	AttendantID int64
	Email       string
}

func (c Claims) Subject() string {
	return strconv.FormatInt(c.AttendantID, 10)
}
