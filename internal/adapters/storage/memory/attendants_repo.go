package memory

import (
	"context"

	"pet-shop-api/internal/domain/attendants"
)

type AttendantsRepo struct {
	s *Store
}

var _ attendants.Repository = (*AttendantsRepo)(nil)

func (r *AttendantsRepo) Create(ctx context.Context, a attendants.Attendant) (attendants.Attendant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.attendants {
		if existing.Email == a.Email {
			return attendants.Attendant{}, attendants.ErrConflict
		}
	}

	r.s.attendantSeq++
	row := attendantRow{
		ID:           r.s.attendantSeq,
		Name:         a.Name,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
	}
	r.s.attendants[row.ID] = row
	return toAttendant(row), nil
}

func (r *AttendantsRepo) GetByID(ctx context.Context, id int64) (attendants.Attendant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	row, ok := r.s.attendants[id]
	if !ok {
		return attendants.Attendant{}, attendants.ErrNotFound
	}
	return toAttendant(row), nil
}

func (r *AttendantsRepo) GetByEmail(ctx context.Context, email string) (attendants.Attendant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, row := range r.s.attendants {
		if row.Email == email {
			return toAttendant(row), nil
		}
	}
	return attendants.Attendant{}, attendants.ErrNotFound
}

// Delete deja huérfanas (attendant NULL) las mascotas que tenía asignadas.
func (r *AttendantsRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.attendants[id]; !ok {
		return attendants.ErrNotFound
	}
	delete(r.s.attendants, id)

	for pid, p := range r.s.pets {
		if p.AttendantID != nil && *p.AttendantID == id {
			p.AttendantID = nil
			r.s.pets[pid] = p
		}
	}
	return nil
}

func toAttendant(row attendantRow) attendants.Attendant {
	return attendants.Attendant{
		ID:           row.ID,
		Name:         row.Name,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
	}
}
