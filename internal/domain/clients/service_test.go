package clients

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type testRepo struct {
	byID   map[int64]Client
	nextID int64
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[int64]Client{}}
}

func (r *testRepo) Create(_ context.Context, c Client) (Client, error) {
	r.nextID++
	c.ID = r.nextID
	c.Pets = []Pet{}
	r.byID[c.ID] = c
	return c, nil
}

func (r *testRepo) List(_ context.Context) ([]Client, error) {
	out := make([]Client, 0, len(r.byID))
	for id := int64(1); id <= r.nextID; id++ {
		if c, ok := r.byID[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *testRepo) GetByID(_ context.Context, id int64) (Client, error) {
	c, ok := r.byID[id]
	if !ok {
		return Client{}, ErrNotFound
	}
	return c, nil
}

func (r *testRepo) GetByEmail(_ context.Context, email string) (Client, error) {
	for _, c := range r.byID {
		if c.Email == email {
			return c, nil
		}
	}
	return Client{}, ErrNotFound
}

func (r *testRepo) Update(_ context.Context, c Client) (Client, error) {
	if _, ok := r.byID[c.ID]; !ok {
		return Client{}, ErrNotFound
	}
	r.byID[c.ID] = c
	return c, nil
}

func (r *testRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func strPtr(s string) *string { return &s }

func TestService_Create(t *testing.T) {
	svc := NewService(newTestRepo())

	c, err := svc.Create(context.Background(), CreateInput{Name: " C ", Email: "c@x.com", Phone: strPtr("")})
	require.NoError(t, err)
	require.Equal(t, int64(1), c.ID)
	require.Equal(t, "C", c.Name)
	require.Nil(t, c.Phone, "phone vacío se guarda como null")

	_, err = svc.Create(context.Background(), CreateInput{Name: "C"})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_Create_DuplicateEmail(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	first, err := svc.Create(context.Background(), CreateInput{Name: "C", Email: "c@x.com", Phone: strPtr("123")})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateInput{Name: "Other", Email: "c@x.com"})
	require.ErrorIs(t, err, ErrConflict)

	require.Len(t, repo.byID, 1)
	require.Equal(t, first, repo.byID[first.ID])
}

func TestService_Update_MergesOnlyProvidedFields(t *testing.T) {
	svc := NewService(newTestRepo())

	c, err := svc.Create(context.Background(), CreateInput{Name: "C", Email: "c@x.com", Phone: strPtr("123")})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), c.ID, UpdateInput{Name: strPtr("C2")})
	require.NoError(t, err)
	require.Equal(t, "C2", updated.Name)
	require.Equal(t, "c@x.com", updated.Email)
	require.Equal(t, "123", *updated.Phone)

	// "" limpia el teléfono
	updated, err = svc.Update(context.Background(), c.ID, UpdateInput{Phone: strPtr("")})
	require.NoError(t, err)
	require.Nil(t, updated.Phone)
	require.Equal(t, "C2", updated.Name)
}

func TestService_Update_Validation(t *testing.T) {
	svc := NewService(newTestRepo())

	a, err := svc.Create(context.Background(), CreateInput{Name: "A", Email: "a@x.com"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), CreateInput{Name: "B", Email: "b@x.com"})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), 99, UpdateInput{Name: strPtr("X")})
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Update(context.Background(), a.ID, UpdateInput{Name: strPtr("  ")})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Update(context.Background(), a.ID, UpdateInput{Email: strPtr("b@x.com")})
	require.ErrorIs(t, err, ErrConflict)

	// mismo email propio no es conflicto
	_, err = svc.Update(context.Background(), a.ID, UpdateInput{Email: strPtr("a@x.com")})
	require.NoError(t, err)
}

func TestService_DeleteAndExists(t *testing.T) {
	svc := NewService(newTestRepo())

	c, err := svc.Create(context.Background(), CreateInput{Name: "C", Email: "c@x.com"})
	require.NoError(t, err)

	ok, err := svc.Exists(context.Background(), c.ID)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, svc.Delete(context.Background(), c.ID))
	require.ErrorIs(t, svc.Delete(context.Background(), c.ID), ErrNotFound)

	ok, err = svc.Exists(context.Background(), c.ID)
	require.NoError(t, err)
	require.False(t, ok)
}
