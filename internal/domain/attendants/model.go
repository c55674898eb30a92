package attendants

// Attendant es un miembro del staff que se autentica y atiende mascotas.
// PasswordHash nunca sale por la API.
type Attendant struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
}
