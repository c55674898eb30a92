package pets

import "context"

// Repository devuelve las mascotas con Client y Attendant cargados.
// Si una FK no existe al escribir devuelve ErrClientNotFound / ErrAttendantNotFound.
type Repository interface {
	Create(ctx context.Context, p Pet) (Pet, error)
	List(ctx context.Context) ([]Pet, error)
	GetByID(ctx context.Context, id int64) (Pet, error)
	Update(ctx context.Context, p Pet) (Pet, error)
	Delete(ctx context.Context, id int64) error
}
