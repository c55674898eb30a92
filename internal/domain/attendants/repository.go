package attendants

import "context"

// Repository devuelve ErrNotFound / ErrConflict; los adapters traducen los errores del driver.
type Repository interface {
	Create(ctx context.Context, a Attendant) (Attendant, error)
	GetByID(ctx context.Context, id int64) (Attendant, error)
	GetByEmail(ctx context.Context, email string) (Attendant, error)
	// Delete deja en NULL el attendant de las mascotas que atendía (no las borra).
	Delete(ctx context.Context, id int64) error
}
