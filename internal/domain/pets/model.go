package pets

import "time"

// Pet pertenece siempre a un cliente; el attendant es opcional y puede quedar
// en nil si el attendant se elimina.
type Pet struct {
	ID        int64
	Name      string
	Species   string
	Breed     *string
	BirthDate *time.Time

	ClientID    int64
	AttendantID *int64

	// Relaciones cargadas por el repositorio en las lecturas.
	Client    *ClientRef
	Attendant *AttendantRef
}

type ClientRef struct {
	ID    int64
	Name  string
	Email string
	Phone *string
}

type AttendantRef struct {
	ID    int64
	Name  string
	Email string
}
