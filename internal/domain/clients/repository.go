package clients

import "context"

type Repository interface {
	Create(ctx context.Context, c Client) (Client, error)
	List(ctx context.Context) ([]Client, error)
	GetByID(ctx context.Context, id int64) (Client, error)
	GetByEmail(ctx context.Context, email string) (Client, error)
	// Update reemplaza name/email/phone de la fila c.ID (el merge lo hace el Service).
	Update(ctx context.Context, c Client) (Client, error)
	// Delete borra también las mascotas del cliente (cascade del store).
	Delete(ctx context.Context, id int64) error
}
