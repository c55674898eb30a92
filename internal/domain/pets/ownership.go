package pets

import "context"

// ClientLookup y AttendantLookup evitan importar clients/attendants (rompe ciclos).
// clients.Service y attendants.Service los implementan.
type ClientLookup interface {
	Exists(ctx context.Context, clientID int64) (bool, error)
}

type AttendantLookup interface {
	Exists(ctx context.Context, attendantID int64) (bool, error)
}
