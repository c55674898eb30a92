package postgres

import (
	"context"
	"database/sql"
	"errors"

	"pet-shop-api/internal/domain/attendants"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

type AttendantsRepo struct {
	db *sqlx.DB
}

var _ attendants.Repository = (*AttendantsRepo)(nil)

func NewAttendantsRepo(db *sqlx.DB) *AttendantsRepo {
	return &AttendantsRepo{db: db}
}

type attendantRow struct {
	ID           int64  `db:"id"`
	Name         string `db:"name"`
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
}

func (row attendantRow) toDomain() attendants.Attendant {
	return attendants.Attendant{
		ID:           row.ID,
		Name:         row.Name,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
	}
}

func (r *AttendantsRepo) Create(ctx context.Context, a attendants.Attendant) (attendants.Attendant, error) {
	q, args, err := psql.Insert("attendants").
		Columns("name", "email", "password_hash").
		Values(a.Name, a.Email, a.PasswordHash).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return attendants.Attendant{}, err
	}

	if err := r.db.QueryRowxContext(ctx, q, args...).Scan(&a.ID); err != nil {
		if pgErr, ok := pgError(err, codeUniqueViolation); ok && pgErr.ConstraintName == constraintAttendantEmail {
			return attendants.Attendant{}, attendants.ErrConflict
		}
		return attendants.Attendant{}, err
	}
	return a, nil
}

func (r *AttendantsRepo) GetByID(ctx context.Context, id int64) (attendants.Attendant, error) {
	return r.getOne(ctx, sq.Eq{"id": id})
}

func (r *AttendantsRepo) GetByEmail(ctx context.Context, email string) (attendants.Attendant, error) {
	return r.getOne(ctx, sq.Eq{"email": email})
}

func (r *AttendantsRepo) getOne(ctx context.Context, where sq.Eq) (attendants.Attendant, error) {
	q, args, err := psql.Select("id", "name", "email", "password_hash").
		From("attendants").
		Where(where).
		ToSql()
	if err != nil {
		return attendants.Attendant{}, err
	}

	var row attendantRow
	if err := r.db.GetContext(ctx, &row, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return attendants.Attendant{}, attendants.ErrNotFound
		}
		return attendants.Attendant{}, err
	}
	return row.toDomain(), nil
}

// Delete confía en fk_pets_attendant (ON DELETE SET NULL) para soltar las mascotas.
func (r *AttendantsRepo) Delete(ctx context.Context, id int64) error {
	q, args, err := psql.Delete("attendants").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	return execAffectingOne(ctx, r.db, attendants.ErrNotFound, q, args...)
}

// execAffectingOne ejecuta q y devuelve notFound si no tocó ninguna fila.
func execAffectingOne(ctx context.Context, db *sqlx.DB, notFound error, q string, args ...any) error {
	res, err := db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
