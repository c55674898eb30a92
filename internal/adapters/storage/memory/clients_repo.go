package memory

import (
	"context"

	"pet-shop-api/internal/domain/clients"
)

type ClientsRepo struct {
	s *Store
}

var _ clients.Repository = (*ClientsRepo)(nil)

func (r *ClientsRepo) Create(ctx context.Context, c clients.Client) (clients.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.emailTaken(c.Email, 0) {
		return clients.Client{}, clients.ErrConflict
	}

	r.s.clientSeq++
	row := clientRow{
		ID:    r.s.clientSeq,
		Name:  c.Name,
		Email: c.Email,
		Phone: copyString(c.Phone),
	}
	r.s.clients[row.ID] = row
	return r.toClient(row), nil
}

func (r *ClientsRepo) List(ctx context.Context) ([]clients.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]clients.Client, 0, len(r.s.clients))
	for _, id := range sortedIDs(r.s.clients) {
		out = append(out, r.toClient(r.s.clients[id]))
	}
	return out, nil
}

func (r *ClientsRepo) GetByID(ctx context.Context, id int64) (clients.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	row, ok := r.s.clients[id]
	if !ok {
		return clients.Client{}, clients.ErrNotFound
	}
	return r.toClient(row), nil
}

func (r *ClientsRepo) GetByEmail(ctx context.Context, email string) (clients.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, id := range sortedIDs(r.s.clients) {
		if row := r.s.clients[id]; row.Email == email {
			return r.toClient(row), nil
		}
	}
	return clients.Client{}, clients.ErrNotFound
}

func (r *ClientsRepo) Update(ctx context.Context, c clients.Client) (clients.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row, ok := r.s.clients[c.ID]
	if !ok {
		return clients.Client{}, clients.ErrNotFound
	}
	if r.emailTaken(c.Email, c.ID) {
		return clients.Client{}, clients.ErrConflict
	}

	row.Name = c.Name
	row.Email = c.Email
	row.Phone = copyString(c.Phone)
	r.s.clients[row.ID] = row
	return r.toClient(row), nil
}

// Delete borra el cliente y, en cascada, todas sus mascotas.
func (r *ClientsRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.clients[id]; !ok {
		return clients.ErrNotFound
	}
	delete(r.s.clients, id)

	for pid, p := range r.s.pets {
		if p.ClientID == id {
			delete(r.s.pets, pid)
		}
	}
	return nil
}

func (r *ClientsRepo) emailTaken(email string, exceptID int64) bool {
	for id, row := range r.s.clients {
		if id != exceptID && row.Email == email {
			return true
		}
	}
	return false
}

func (r *ClientsRepo) toClient(row clientRow) clients.Client {
	c := clients.Client{
		ID:    row.ID,
		Name:  row.Name,
		Email: row.Email,
		Phone: copyString(row.Phone),
		Pets:  []clients.Pet{},
	}
	for _, p := range r.s.petsOf(row.ID) {
		c.Pets = append(c.Pets, clients.Pet{
			ID:        p.ID,
			Name:      p.Name,
			Species:   p.Species,
			Breed:     copyString(p.Breed),
			BirthDate: copyTime(p.BirthDate),
		})
	}
	return c
}
