package postgres

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

// Códigos SQLSTATE que traducimos a errores de dominio.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// Nombres de constraints definidos en migrations/0001_initial_schema.sql.
const (
	constraintPetsClient     = "fk_pets_client"
	constraintPetsAttendant  = "fk_pets_attendant"
	constraintClientsEmail   = "uq_clients_email"
	constraintAttendantEmail = "uq_attendants_email"
)

// psql arma queries con placeholders $1, $2...
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Open abre una conexión pool a Postgres usando pgx (database/sql) envuelto en sqlx.
func Open(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	// defaults razonables para MVP (ajustable luego)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Repositories agrupa los tres repos sobre la misma conexión.
type Repositories struct {
	Attendants *AttendantsRepo
	Clients    *ClientsRepo
	Pets       *PetsRepo
}

func NewRepositories(db *sqlx.DB) Repositories {
	return Repositories{
		Attendants: NewAttendantsRepo(db),
		Clients:    NewClientsRepo(db),
		Pets:       NewPetsRepo(db),
	}
}

// pgError devuelve el *pgconn.PgError si err lo envuelve con el código pedido.
func pgError(err error, code string) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == code {
		return pgErr, true
	}
	return nil, false
}
