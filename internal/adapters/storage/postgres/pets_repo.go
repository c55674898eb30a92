package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"pet-shop-api/internal/domain/pets"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

type PetsRepo struct {
	db *sqlx.DB
}

var _ pets.Repository = (*PetsRepo)(nil)

func NewPetsRepo(db *sqlx.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

// petRow es una fila de pets con cliente (JOIN) y attendant (LEFT JOIN).
type petRow struct {
	ID          int64          `db:"id"`
	Name        string         `db:"name"`
	Species     string         `db:"species"`
	Breed       sql.NullString `db:"breed"`
	BirthDate   sql.NullTime   `db:"birth_date"`
	ClientID    int64          `db:"client_id"`
	AttendantID sql.NullInt64  `db:"attendant_id"`

	ClientName     string         `db:"client_name"`
	ClientEmail    string         `db:"client_email"`
	ClientPhone    sql.NullString `db:"client_phone"`
	AttendantName  sql.NullString `db:"attendant_name"`
	AttendantEmail sql.NullString `db:"attendant_email"`
}

func selectPets() sq.SelectBuilder {
	return psql.Select(
		"p.id", "p.name", "p.species", "p.breed", "p.birth_date",
		"p.client_id", "p.attendant_id",
		"c.name AS client_name", "c.email AS client_email", "c.phone AS client_phone",
		"a.name AS attendant_name", "a.email AS attendant_email",
	).
		From("pets p").
		Join("clients c ON c.id = p.client_id").
		LeftJoin("attendants a ON a.id = p.attendant_id")
}

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) (pets.Pet, error) {
	q, args, err := psql.Insert("pets").
		Columns("name", "species", "breed", "birth_date", "client_id", "attendant_id").
		Values(p.Name, p.Species, nullString(p.Breed), nullDate(p.BirthDate), p.ClientID, nullInt64(p.AttendantID)).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return pets.Pet{}, err
	}

	var id int64
	if err := r.db.QueryRowxContext(ctx, q, args...).Scan(&id); err != nil {
		return pets.Pet{}, translatePetErr(err)
	}
	return r.GetByID(ctx, id)
}

func (r *PetsRepo) List(ctx context.Context) ([]pets.Pet, error) {
	q, args, err := selectPets().OrderBy("p.id").ToSql()
	if err != nil {
		return nil, err
	}

	var rows []petRow
	if err := r.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, err
	}

	out := make([]pets.Pet, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *PetsRepo) GetByID(ctx context.Context, id int64) (pets.Pet, error) {
	q, args, err := selectPets().Where(sq.Eq{"p.id": id}).ToSql()
	if err != nil {
		return pets.Pet{}, err
	}

	var row petRow
	if err := r.db.GetContext(ctx, &row, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pets.Pet{}, pets.ErrNotFound
		}
		return pets.Pet{}, err
	}
	return row.toDomain(), nil
}

func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) (pets.Pet, error) {
	q, args, err := psql.Update("pets").
		Set("name", p.Name).
		Set("species", p.Species).
		Set("breed", nullString(p.Breed)).
		Set("birth_date", nullDate(p.BirthDate)).
		Set("client_id", p.ClientID).
		Set("attendant_id", nullInt64(p.AttendantID)).
		Where(sq.Eq{"id": p.ID}).
		ToSql()
	if err != nil {
		return pets.Pet{}, err
	}

	if err := execAffectingOne(ctx, r.db, pets.ErrNotFound, q, args...); err != nil {
		return pets.Pet{}, translatePetErr(err)
	}
	return r.GetByID(ctx, p.ID)
}

func (r *PetsRepo) Delete(ctx context.Context, id int64) error {
	q, args, err := psql.Delete("pets").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	return execAffectingOne(ctx, r.db, pets.ErrNotFound, q, args...)
}

func (row petRow) toDomain() pets.Pet {
	p := pets.Pet{
		ID:        row.ID,
		Name:      row.Name,
		Species:   row.Species,
		Breed:     stringPtr(row.Breed),
		BirthDate: timePtr(row.BirthDate),
		ClientID:  row.ClientID,
		Client: &pets.ClientRef{
			ID:    row.ClientID,
			Name:  row.ClientName,
			Email: row.ClientEmail,
			Phone: stringPtr(row.ClientPhone),
		},
	}
	if row.AttendantID.Valid {
		id := row.AttendantID.Int64
		p.AttendantID = &id
		p.Attendant = &pets.AttendantRef{
			ID:    id,
			Name:  row.AttendantName.String,
			Email: row.AttendantEmail.String,
		}
	}
	return p
}

// translatePetErr mapea la violación de FK al recurso que falta.
func translatePetErr(err error) error {
	pgErr, ok := pgError(err, codeForeignKeyViolation)
	if !ok {
		return err
	}
	switch pgErr.ConstraintName {
	case constraintPetsAttendant:
		return pets.ErrAttendantNotFound
	case constraintPetsClient:
		return pets.ErrClientNotFound
	default:
		return err
	}
}

// -------------------------
// NULL helpers
// -------------------------

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

// birth_date es DATE: se guarda solo la parte de fecha, en UTC.
func nullDate(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	y, m, d := t.Date()
	return sql.NullTime{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Valid: true}
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	y, m, d := nt.Time.Date()
	v := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &v
}

func nullInt64(p *int64) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *p, Valid: true}
}
