package clients

import "time"

// Client es el dueño de las mascotas. Pets viene cargado en List/GetByID.
type Client struct {
	ID    int64
	Name  string
	Email string
	Phone *string

	Pets []Pet
}

// Pet es la vista de una mascota dentro de su cliente (sin relaciones).
type Pet struct {
	ID        int64
	Name      string
	Species   string
	Breed     *string
	BirthDate *time.Time
}
