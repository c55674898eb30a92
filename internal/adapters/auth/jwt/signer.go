package jwt

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"pet-shop-api/internal/ports/auth"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTTL de los tokens emitidos en login.
const DefaultTTL = time.Hour

var (
	_ auth.AuthVerifier = (*Signer)(nil)
	_ auth.TokenIssuer  = (*Signer)(nil)
)

type Config struct {
	// Secret HMAC. Vacío => Signer no configurado (Issue/Verify devuelven auth.ErrNotConfigured).
	Secret string
	TTL    time.Duration
	Issuer string
	// Now reemplaza al reloj del sistema; nil => time.Now.
	Now func() time.Time
}

// Signer emite y verifica JWT HS256 sin estado.
type Signer struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

type tokenClaims struct {
	AttendantID int64  `json:"id"`
	Email       string `json:"email"`
	gojwt.RegisteredClaims
}

func NewSigner(cfg Config) *Signer {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Signer{
		secret: []byte(strings.TrimSpace(cfg.Secret)),
		ttl:    ttl,
		issuer: strings.TrimSpace(cfg.Issuer),
		now:    now,
	}
}

func (s *Signer) IsConfigured() bool {
	return s != nil && len(s.secret) > 0
}

func (s *Signer) Issue(_ context.Context, claims auth.Claims) (string, time.Time, error) {
	if !s.IsConfigured() {
		return "", time.Time{}, auth.ErrNotConfigured
	}
	if claims.AttendantID <= 0 {
		return "", time.Time{}, errors.New("jwt: attendant id required")
	}

	now := s.now()
	exp := now.Add(s.ttl)

	tc := tokenClaims{
		AttendantID: claims.AttendantID,
		Email:       claims.Email,
		RegisteredClaims: gojwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   claims.Subject(),
			Issuer:    s.issuer,
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(exp),
		},
	}

	signed, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, tc).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("jwt: sign: %w", err)
	}
	return signed, exp, nil
}

func (s *Signer) Verify(_ context.Context, token string) (auth.Claims, error) {
	if !s.IsConfigured() {
		return auth.Claims{}, auth.ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, auth.ErrInvalidToken
	}

	var tc tokenClaims
	_, err := gojwt.ParseWithClaims(token, &tc, func(*gojwt.Token) (any, error) {
		return s.secret, nil
	},
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithExpirationRequired(),
		gojwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("%w: %v", auth.ErrInvalidToken, err)
	}

	// El sub y el id deben coincidir; si no, alguien armó el token a mano.
	if tc.AttendantID <= 0 || tc.Subject != strconv.FormatInt(tc.AttendantID, 10) {
		return auth.Claims{}, fmt.Errorf("%w: subject mismatch", auth.ErrInvalidToken)
	}

	return auth.Claims{
		AttendantID: tc.AttendantID,
		Email:       tc.Email,
	}, nil
}
