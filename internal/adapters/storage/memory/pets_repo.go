package memory

import (
	"context"

	"pet-shop-api/internal/domain/pets"
)

type PetsRepo struct {
	s *Store
}

var _ pets.Repository = (*PetsRepo)(nil)

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) (pets.Pet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.checkRefs(p); err != nil {
		return pets.Pet{}, err
	}

	r.s.petSeq++
	row := petRow{
		ID:          r.s.petSeq,
		Name:        p.Name,
		Species:     p.Species,
		Breed:       copyString(p.Breed),
		BirthDate:   copyTime(p.BirthDate),
		ClientID:    p.ClientID,
		AttendantID: copyInt64(p.AttendantID),
	}
	r.s.pets[row.ID] = row
	return r.toPet(row), nil
}

func (r *PetsRepo) List(ctx context.Context) ([]pets.Pet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]pets.Pet, 0, len(r.s.pets))
	for _, id := range sortedIDs(r.s.pets) {
		out = append(out, r.toPet(r.s.pets[id]))
	}
	return out, nil
}

func (r *PetsRepo) GetByID(ctx context.Context, id int64) (pets.Pet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	row, ok := r.s.pets[id]
	if !ok {
		return pets.Pet{}, pets.ErrNotFound
	}
	return r.toPet(row), nil
}

func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) (pets.Pet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row, ok := r.s.pets[p.ID]
	if !ok {
		return pets.Pet{}, pets.ErrNotFound
	}
	if err := r.checkRefs(p); err != nil {
		return pets.Pet{}, err
	}

	row.Name = p.Name
	row.Species = p.Species
	row.Breed = copyString(p.Breed)
	row.BirthDate = copyTime(p.BirthDate)
	row.ClientID = p.ClientID
	row.AttendantID = copyInt64(p.AttendantID)
	r.s.pets[row.ID] = row
	return r.toPet(row), nil
}

func (r *PetsRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.pets[id]; !ok {
		return pets.ErrNotFound
	}
	delete(r.s.pets, id)
	return nil
}

// checkRefs emula las FKs de la tabla pets.
func (r *PetsRepo) checkRefs(p pets.Pet) error {
	if _, ok := r.s.clients[p.ClientID]; !ok {
		return pets.ErrClientNotFound
	}
	if p.AttendantID != nil {
		if _, ok := r.s.attendants[*p.AttendantID]; !ok {
			return pets.ErrAttendantNotFound
		}
	}
	return nil
}

func (r *PetsRepo) toPet(row petRow) pets.Pet {
	p := pets.Pet{
		ID:          row.ID,
		Name:        row.Name,
		Species:     row.Species,
		Breed:       copyString(row.Breed),
		BirthDate:   copyTime(row.BirthDate),
		ClientID:    row.ClientID,
		AttendantID: copyInt64(row.AttendantID),
	}
	if c, ok := r.s.clients[row.ClientID]; ok {
		p.Client = &pets.ClientRef{
			ID:    c.ID,
			Name:  c.Name,
			Email: c.Email,
			Phone: copyString(c.Phone),
		}
	}
	if row.AttendantID != nil {
		if a, ok := r.s.attendants[*row.AttendantID]; ok {
			p.Attendant = &pets.AttendantRef{
				ID:    a.ID,
				Name:  a.Name,
				Email: a.Email,
			}
		}
	}
	return p
}
