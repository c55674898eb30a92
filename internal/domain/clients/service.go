package clients

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("client not found")
	ErrConflict     = errors.New("client email already registered")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateInput struct {
	Name  string
	Email string
	Phone *string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Client, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	if name == "" || email == "" {
		return Client{}, ErrInvalidInput
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return Client{}, ErrConflict
	} else if !errors.Is(err, ErrNotFound) {
		return Client{}, err
	}

	return s.repo.Create(ctx, Client{
		Name:  name,
		Email: email,
		Phone: optional(in.Phone),
	})
}

func (s *Service) List(ctx context.Context) ([]Client, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetByID(ctx context.Context, id int64) (Client, error) {
	if id <= 0 {
		return Client{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// Exists lo usa pets para validar clientId antes de escribir.
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

// UpdateInput: nil = no tocar. Para Phone, "" lo limpia.
type UpdateInput struct {
	Name  *string
	Email *string
	Phone *string
}

// Update hace merge de los campos enviados sobre la fila actual.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (Client, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return Client{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Client{}, ErrInvalidInput
		}
		current.Name = name
	}
	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if email == "" {
			return Client{}, ErrInvalidInput
		}
		if email != current.Email {
			other, err := s.repo.GetByEmail(ctx, email)
			if err == nil && other.ID != current.ID {
				return Client{}, ErrConflict
			}
			if err != nil && !errors.Is(err, ErrNotFound) {
				return Client{}, err
			}
		}
		current.Email = email
	}
	if in.Phone != nil {
		current.Phone = optional(in.Phone)
	}

	return s.repo.Update(ctx, current)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}

func optional(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}
