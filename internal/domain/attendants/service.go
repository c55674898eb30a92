package attendants

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-shop-api/internal/ports/auth"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("attendant not found")
	ErrConflict     = errors.New("email already registered")

	// ErrPasswordTooLong: bcrypt solo mira los primeros 72 bytes.
	ErrPasswordTooLong = errors.New("password must be at most 72 bytes")

	// ErrForbidden: un attendant solo puede darse de baja a sí mismo.
	ErrForbidden = errors.New("attendants can only delete their own account")

	// ErrInvalidCredentials es el mismo para email inexistente y contraseña incorrecta.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type Service struct {
	repo   Repository
	hasher auth.PasswordHasher
	tokens auth.TokenIssuer
}

func NewService(repo Repository, hasher auth.PasswordHasher, tokens auth.TokenIssuer) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (Attendant, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return Attendant{}, ErrInvalidInput
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return Attendant{}, ErrConflict
	} else if !errors.Is(err, ErrNotFound) {
		return Attendant{}, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return Attendant{}, ErrPasswordTooLong
		}
		return Attendant{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// Si otro request ganó la carrera, el repo devuelve ErrConflict por el índice único.
	return s.repo.Create(ctx, Attendant{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	})
}

type LoginResult struct {
	Attendant Attendant
	Token     string
	ExpiresAt time.Time
}

func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return LoginResult{}, ErrInvalidInput
	}

	a, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	if !s.hasher.Verify(password, a.PasswordHash) {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, exp, err := s.tokens.Issue(ctx, auth.Claims{
		AttendantID: a.ID,
		Email:       a.Email,
	})
	if err != nil {
		return LoginResult{}, err
	}

	return LoginResult{Attendant: a, Token: token, ExpiresAt: exp}, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (Attendant, error) {
	if id <= 0 {
		return Attendant{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// Exists lo usa pets para validar el attendant al escribir.
func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	_, err := s.GetByID(ctx, id)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return false, err
}

// Delete da de baja al attendant id en nombre de actorID (el del token).
func (s *Service) Delete(ctx context.Context, actorID, id int64) error {
	if id <= 0 {
		return ErrNotFound
	}
	if actorID != id {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}
