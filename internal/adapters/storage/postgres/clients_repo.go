package postgres

import (
	"context"
	"database/sql"
	"errors"

	"pet-shop-api/internal/domain/clients"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

type ClientsRepo struct {
	db *sqlx.DB
}

var _ clients.Repository = (*ClientsRepo)(nil)

func NewClientsRepo(db *sqlx.DB) *ClientsRepo {
	return &ClientsRepo{db: db}
}

type clientRow struct {
	ID    int64          `db:"id"`
	Name  string         `db:"name"`
	Email string         `db:"email"`
	Phone sql.NullString `db:"phone"`
}

type clientPetRow struct {
	ID        int64          `db:"id"`
	ClientID  int64          `db:"client_id"`
	Name      string         `db:"name"`
	Species   string         `db:"species"`
	Breed     sql.NullString `db:"breed"`
	BirthDate sql.NullTime   `db:"birth_date"`
}

func (r *ClientsRepo) Create(ctx context.Context, c clients.Client) (clients.Client, error) {
	q, args, err := psql.Insert("clients").
		Columns("name", "email", "phone").
		Values(c.Name, c.Email, nullString(c.Phone)).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return clients.Client{}, err
	}

	if err := r.db.QueryRowxContext(ctx, q, args...).Scan(&c.ID); err != nil {
		return clients.Client{}, translateClientErr(err)
	}
	c.Pets = []clients.Pet{}
	return c, nil
}

func (r *ClientsRepo) List(ctx context.Context) ([]clients.Client, error) {
	q, args, err := psql.Select("id", "name", "email", "phone").
		From("clients").
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []clientRow
	if err := r.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []clients.Client{}, nil
	}

	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	byClient, err := r.petsByClient(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]clients.Client, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain(byClient[row.ID]))
	}
	return out, nil
}

func (r *ClientsRepo) GetByID(ctx context.Context, id int64) (clients.Client, error) {
	row, err := r.getOne(ctx, sq.Eq{"id": id})
	if err != nil {
		return clients.Client{}, err
	}

	byClient, err := r.petsByClient(ctx, []int64{row.ID})
	if err != nil {
		return clients.Client{}, err
	}
	return row.toDomain(byClient[row.ID]), nil
}

// GetByEmail no carga mascotas: solo se usa para chequear unicidad.
func (r *ClientsRepo) GetByEmail(ctx context.Context, email string) (clients.Client, error) {
	row, err := r.getOne(ctx, sq.Eq{"email": email})
	if err != nil {
		return clients.Client{}, err
	}
	return row.toDomain(nil), nil
}

func (r *ClientsRepo) Update(ctx context.Context, c clients.Client) (clients.Client, error) {
	q, args, err := psql.Update("clients").
		Set("name", c.Name).
		Set("email", c.Email).
		Set("phone", nullString(c.Phone)).
		Where(sq.Eq{"id": c.ID}).
		ToSql()
	if err != nil {
		return clients.Client{}, err
	}

	if err := execAffectingOne(ctx, r.db, clients.ErrNotFound, q, args...); err != nil {
		return clients.Client{}, translateClientErr(err)
	}
	return r.GetByID(ctx, c.ID)
}

// Delete borra el cliente; fk_pets_client (ON DELETE CASCADE) borra sus mascotas.
func (r *ClientsRepo) Delete(ctx context.Context, id int64) error {
	q, args, err := psql.Delete("clients").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	return execAffectingOne(ctx, r.db, clients.ErrNotFound, q, args...)
}

func (r *ClientsRepo) getOne(ctx context.Context, where sq.Eq) (clientRow, error) {
	q, args, err := psql.Select("id", "name", "email", "phone").
		From("clients").
		Where(where).
		ToSql()
	if err != nil {
		return clientRow{}, err
	}

	var row clientRow
	if err := r.db.GetContext(ctx, &row, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return clientRow{}, clients.ErrNotFound
		}
		return clientRow{}, err
	}
	return row, nil
}

func (r *ClientsRepo) petsByClient(ctx context.Context, clientIDs []int64) (map[int64][]clients.Pet, error) {
	q, args, err := psql.Select("id", "client_id", "name", "species", "breed", "birth_date").
		From("pets").
		Where(sq.Eq{"client_id": clientIDs}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []clientPetRow
	if err := r.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, err
	}

	out := make(map[int64][]clients.Pet, len(clientIDs))
	for _, p := range rows {
		out[p.ClientID] = append(out[p.ClientID], clients.Pet{
			ID:        p.ID,
			Name:      p.Name,
			Species:   p.Species,
			Breed:     stringPtr(p.Breed),
			BirthDate: timePtr(p.BirthDate),
		})
	}
	return out, nil
}

func (row clientRow) toDomain(pets []clients.Pet) clients.Client {
	if pets == nil {
		pets = []clients.Pet{}
	}
	return clients.Client{
		ID:    row.ID,
		Name:  row.Name,
		Email: row.Email,
		Phone: stringPtr(row.Phone),
		Pets:  pets,
	}
}

func translateClientErr(err error) error {
	if pgErr, ok := pgError(err, codeUniqueViolation); ok && pgErr.ConstraintName == constraintClientsEmail {
		return clients.ErrConflict
	}
	return err
}
