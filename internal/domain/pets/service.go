package pets

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("pet not found")
	ErrClientNotFound    = errors.New("client not found")
	ErrAttendantNotFound = errors.New("attendant not found")
)

type Service struct {
	repo       Repository
	clients    ClientLookup
	attendants AttendantLookup
}

func NewService(repo Repository, clients ClientLookup, attendants AttendantLookup) *Service {
	return &Service{
		repo:       repo,
		clients:    clients,
		attendants: attendants,
	}
}

type CreateInput struct {
	Name      string
	Species   string
	Breed     *string
	BirthDate *time.Time
	ClientID  int64
}

// Create registra la mascota a nombre del attendant autenticado (attendantID).
// El attendant no se puede elegir desde el body.
func (s *Service) Create(ctx context.Context, attendantID int64, in CreateInput) (Pet, error) {
	name := strings.TrimSpace(in.Name)
	species := strings.TrimSpace(in.Species)
	if name == "" || species == "" || in.ClientID <= 0 {
		return Pet{}, ErrInvalidInput
	}

	if err := s.ensureClient(ctx, in.ClientID); err != nil {
		return Pet{}, err
	}
	if err := s.ensureAttendant(ctx, attendantID); err != nil {
		return Pet{}, err
	}

	return s.repo.Create(ctx, Pet{
		Name:        name,
		Species:     species,
		Breed:       optional(in.Breed),
		BirthDate:   in.BirthDate,
		ClientID:    in.ClientID,
		AttendantID: &attendantID,
	})
}

func (s *Service) List(ctx context.Context) ([]Pet, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetByID(ctx context.Context, id int64) (Pet, error) {
	if id <= 0 {
		return Pet{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// DateField distingue "no enviado" de "enviado vacío" (limpiar).
type DateField struct {
	Set   bool
	Value *time.Time
}

// UpdateInput: nil = no tocar. Breed "" limpia la raza.
type UpdateInput struct {
	Name      *string
	Species   *string
	Breed     *string
	BirthDate DateField
	ClientID  *int64
}

// Update hace merge sobre la mascota actual y reasigna el attendant al que hace el cambio.
func (s *Service) Update(ctx context.Context, id, attendantID int64, in UpdateInput) (Pet, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return Pet{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Pet{}, ErrInvalidInput
		}
		current.Name = name
	}
	if in.Species != nil {
		species := strings.TrimSpace(*in.Species)
		if species == "" {
			return Pet{}, ErrInvalidInput
		}
		current.Species = species
	}
	if in.Breed != nil {
		current.Breed = optional(in.Breed)
	}
	if in.BirthDate.Set {
		current.BirthDate = in.BirthDate.Value
	}
	if in.ClientID != nil && *in.ClientID != current.ClientID {
		if *in.ClientID <= 0 {
			return Pet{}, ErrInvalidInput
		}
		if err := s.ensureClient(ctx, *in.ClientID); err != nil {
			return Pet{}, err
		}
		current.ClientID = *in.ClientID
	}

	if err := s.ensureAttendant(ctx, attendantID); err != nil {
		return Pet{}, err
	}
	current.AttendantID = &attendantID

	return s.repo.Update(ctx, current)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) ensureClient(ctx context.Context, clientID int64) error {
	ok, err := s.clients.Exists(ctx, clientID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrClientNotFound
	}
	return nil
}

func (s *Service) ensureAttendant(ctx context.Context, attendantID int64) error {
	if attendantID <= 0 {
		return ErrAttendantNotFound
	}
	ok, err := s.attendants.Exists(ctx, attendantID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAttendantNotFound
	}
	return nil
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
