package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"pet-shop-api/internal/domain/attendants"
	"pet-shop-api/internal/domain/clients"
	"pet-shop-api/internal/domain/pets"
	"pet-shop-api/internal/platform/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlx.NewDb(db, "pgx"), mock
}

var petColumns = []string{
	"id", "name", "species", "breed", "birth_date", "client_id", "attendant_id",
	"client_name", "client_email", "client_phone", "attendant_name", "attendant_email",
}

func TestAttendantsRepo_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAttendantsRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO attendants (name,email,password_hash) VALUES ($1,$2,$3) RETURNING id")).
		WithArgs("Ana", "ana@shop.com", "hash").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	a, err := repo.Create(context.Background(), attendants.Attendant{Name: "Ana", Email: "ana@shop.com", PasswordHash: "hash"})
	require.NoError(t, err)
	require.Equal(t, int64(7), a.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendantsRepo_Create_DuplicateEmail(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAttendantsRepo(db)

	mock.ExpectQuery("INSERT INTO attendants").
		WillReturnError(&pgconn.PgError{Code: codeUniqueViolation, ConstraintName: constraintAttendantEmail})

	_, err := repo.Create(context.Background(), attendants.Attendant{Name: "Ana", Email: "ana@shop.com", PasswordHash: "hash"})
	require.ErrorIs(t, err, attendants.ErrConflict)
}

func TestAttendantsRepo_GetByEmail_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAttendantsRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, email, password_hash FROM attendants WHERE email = $1")).
		WithArgs("nobody@shop.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash"}))

	_, err := repo.GetByEmail(context.Background(), "nobody@shop.com")
	require.ErrorIs(t, err, attendants.ErrNotFound)
}

func TestAttendantsRepo_Delete(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAttendantsRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM attendants WHERE id = $1")).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM attendants").
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), 3))
	require.ErrorIs(t, repo.Delete(context.Background(), 4), attendants.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClientsRepo_GetByID_LoadsPets(t *testing.T) {
	db, mock := newMock(t)
	repo := NewClientsRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, email, phone FROM clients WHERE id = $1")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "phone"}).AddRow(1, "Carlos", "c@mail.com", nil))
	mock.ExpectQuery(regexp.QuoteMeta("FROM pets WHERE client_id IN ($1) ORDER BY id")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "client_id", "name", "species", "breed", "birth_date"}).
			AddRow(10, 1, "Rex", "dog", "lab", time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)).
			AddRow(11, 1, "Mia", "cat", nil, nil))

	c, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, "Carlos", c.Name)
	require.Nil(t, c.Phone)
	require.Len(t, c.Pets, 2)
	require.Equal(t, "lab", *c.Pets[0].Breed)
	require.Equal(t, "2020-01-02", c.Pets[0].BirthDate.Format("2006-01-02"))
	require.Nil(t, c.Pets[1].Breed)
	require.Nil(t, c.Pets[1].BirthDate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClientsRepo_List_Empty(t *testing.T) {
	db, mock := newMock(t)
	repo := NewClientsRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, email, phone FROM clients ORDER BY id")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "phone"}))

	items, err := repo.List(context.Background())
	require.NoError(t, err)
	require.NotNil(t, items)
	require.Empty(t, items)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClientsRepo_Update_DuplicateEmail(t *testing.T) {
	db, mock := newMock(t)
	repo := NewClientsRepo(db)

	mock.ExpectExec("UPDATE clients SET").
		WillReturnError(&pgconn.PgError{Code: codeUniqueViolation, ConstraintName: constraintClientsEmail})

	_, err := repo.Update(context.Background(), clients.Client{ID: 1, Name: "C", Email: "taken@mail.com"})
	require.ErrorIs(t, err, clients.ErrConflict)
}

func TestClientsRepo_Delete_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewClientsRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM clients WHERE id = $1")).
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.ErrorIs(t, repo.Delete(context.Background(), 9), clients.ErrNotFound)
}

func TestPetsRepo_GetByID_WithoutAttendant(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPetsRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM pets p JOIN clients c ON c.id = p.client_id LEFT JOIN attendants a ON a.id = p.attendant_id WHERE p.id = $1")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(petColumns).
			AddRow(5, "Rex", "dog", nil, nil, 1, nil, "Carlos", "c@mail.com", "555", nil, nil))

	p, err := repo.GetByID(context.Background(), 5)
	require.NoError(t, err)
	require.Equal(t, "Rex", p.Name)
	require.NotNil(t, p.Client)
	require.Equal(t, int64(1), p.Client.ID)
	require.Equal(t, "555", *p.Client.Phone)
	require.Nil(t, p.AttendantID)
	require.Nil(t, p.Attendant)
}

func TestPetsRepo_GetByID_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPetsRepo(db)

	mock.ExpectQuery("FROM pets p").
		WillReturnRows(sqlmock.NewRows(petColumns))

	_, err := repo.GetByID(context.Background(), 5)
	require.ErrorIs(t, err, pets.ErrNotFound)
}

func TestPetsRepo_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPetsRepo(db)
	attendantID := int64(2)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO pets (name,species,breed,birth_date,client_id,attendant_id) VALUES ($1,$2,$3,$4,$5,$6) RETURNING id")).
		WithArgs("Rex", "dog", nil, nil, int64(1), int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectQuery("FROM pets p").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(petColumns).
			AddRow(5, "Rex", "dog", nil, nil, 1, 2, "Carlos", "c@mail.com", nil, "Ana", "ana@shop.com"))

	p, err := repo.Create(context.Background(), pets.Pet{Name: "Rex", Species: "dog", ClientID: 1, AttendantID: &attendantID})
	require.NoError(t, err)
	require.Equal(t, int64(5), p.ID)
	require.NotNil(t, p.Attendant)
	require.Equal(t, "Ana", p.Attendant.Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPetsRepo_Create_ForeignKeys(t *testing.T) {
	cases := []struct {
		constraint string
		want       error
	}{
		{constraintPetsClient, pets.ErrClientNotFound},
		{constraintPetsAttendant, pets.ErrAttendantNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.constraint, func(t *testing.T) {
			db, mock := newMock(t)
			repo := NewPetsRepo(db)

			mock.ExpectQuery("INSERT INTO pets").
				WillReturnError(&pgconn.PgError{Code: codeForeignKeyViolation, ConstraintName: tc.constraint})

			_, err := repo.Create(context.Background(), pets.Pet{Name: "Rex", Species: "dog", ClientID: 1})
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestMigrator_Up(t *testing.T) {
	db, mock := newMock(t)
	m := NewMigrator(db, logger.NewNop())

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT version FROM schema_migrations").
		WillReturnRows(sqlmock.NewRows([]string{"version"}))
	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS attendants").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schema_migrations (version,name) VALUES ($1,$2)")).
		WithArgs(1, "0001_initial_schema.sql").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	n, err := m.Up(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrator_Up_AlreadyApplied(t *testing.T) {
	db, mock := newMock(t)
	m := NewMigrator(db, logger.NewNop())

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT version FROM schema_migrations").
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(1))

	n, err := m.Up(context.Background())
	require.NoError(t, err)
	require.Zero(t, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScriptVersion(t *testing.T) {
	v, err := scriptVersion("0002_add_notes.sql")
	require.NoError(t, err)
	require.Equal(t, 2, v)

	_, err = scriptVersion("notes.sql")
	require.Error(t, err)
}
