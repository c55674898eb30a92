package memory

import (
	"sort"
	"sync"
	"time"
)

// Store guarda las tres tablas en memoria detrás de un único lock, así los
// borrados en cascada y los SET NULL se aplican de forma atómica igual que en Postgres.
type Store struct {
	mu sync.RWMutex

	attendants map[int64]attendantRow
	clients    map[int64]clientRow
	pets       map[int64]petRow

	attendantSeq int64
	clientSeq    int64
	petSeq       int64
}

type attendantRow struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
}

type clientRow struct {
	ID    int64
	Name  string
	Email string
	Phone *string
}

type petRow struct {
	ID          int64
	Name        string
	Species     string
	Breed       *string
	BirthDate   *time.Time
	ClientID    int64
	AttendantID *int64
}

func NewStore() *Store {
	return &Store{
		attendants: make(map[int64]attendantRow),
		clients:    make(map[int64]clientRow),
		pets:       make(map[int64]petRow),
	}
}

func (s *Store) Attendants() *AttendantsRepo { return &AttendantsRepo{s: s} }
func (s *Store) Clients() *ClientsRepo       { return &ClientsRepo{s: s} }
func (s *Store) Pets() *PetsRepo             { return &PetsRepo{s: s} }

// petsOf devuelve las mascotas de un cliente por id asc. Requiere el lock tomado.
func (s *Store) petsOf(clientID int64) []petRow {
	out := make([]petRow, 0)
	for _, p := range s.pets {
		if p.ClientID == clientID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func sortedIDs[T any](m map[int64]T) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Los punteros se copian para que el caller no pueda mutar el store.

func copyString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyTime(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyInt64(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
