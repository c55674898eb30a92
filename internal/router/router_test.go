package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"pet-shop-api/internal/adapters/auth/jwt"
	"pet-shop-api/internal/ports/auth"
	"pet-shop-api/internal/router"

	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newServer(t *testing.T, secret string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(router.NewRouter(router.Options{
		Tokens: jwt.NewSigner(jwt.Config{Secret: secret, TTL: time.Hour}),
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestHTTP_EndToEnd_PetShop(t *testing.T) {
	ts := newServer(t, testSecret)

	// 1) Registro
	{
		st, body := doReq(t, ts.URL, "POST", "/api/auth/register", "", map[string]any{
			"name": "Ana", "email": "ana@shop.com", "password": "s3cret!",
		})
		require.Equal(t, http.StatusCreated, st, string(body))

		var out map[string]any
		require.NoError(t, json.Unmarshal(body, &out))
		require.Equal(t, "ana@shop.com", out["email"])
		require.Equal(t, "attendant registered", out["message"])
		require.NotContains(t, out, "password")
		require.NotContains(t, string(body), "s3cret!")
	}

	// 2) Login
	token := login(t, ts.URL, "ana@shop.com", "s3cret!")

	// 3) Cliente
	clientID := createClient(t, ts.URL, token, map[string]any{
		"name": "Carlos", "email": "carlos@mail.com", "phone": "555-1234",
	})

	// 4) Mascota del cliente, atendida por el attendant logueado
	var petID int64
	{
		st, body := doReq(t, ts.URL, "POST", "/api/pets", token, map[string]any{
			"name": "Rex", "species": "dog", "breed": "lab", "birthDate": "2020-05-01", "clientId": clientID,
		})
		require.Equal(t, http.StatusCreated, st, string(body))

		var out petDTO
		require.NoError(t, json.Unmarshal(body, &out))
		petID = out.ID
		require.NotNil(t, out.Client)
		require.Equal(t, clientID, out.Client.ID)
		require.NotNil(t, out.Attendant)
		require.Equal(t, "ana@shop.com", out.Attendant.Email)
		require.Equal(t, "2020-05-01", *out.BirthDate)
	}

	// 5) El cliente lista su mascota
	{
		st, body := doReq(t, ts.URL, "GET", "/api/clients/"+itoa(clientID), token, nil)
		require.Equal(t, http.StatusOK, st, string(body))

		var out struct {
			Pets []struct {
				ID   int64  `json:"id"`
				Name string `json:"name"`
			} `json:"pets"`
		}
		require.NoError(t, json.Unmarshal(body, &out))
		require.Len(t, out.Pets, 1)
		require.Equal(t, petID, out.Pets[0].ID)
	}

	// 6) Merge: solo cambia el nombre
	{
		st, body := doReq(t, ts.URL, "PUT", "/api/pets/"+itoa(petID), token, map[string]any{"name": "Max"})
		require.Equal(t, http.StatusOK, st, string(body))

		var out petDTO
		require.NoError(t, json.Unmarshal(body, &out))
		require.Equal(t, "Max", out.Name)
		require.Equal(t, "dog", out.Species)
		require.Equal(t, "lab", *out.Breed)
	}

	// 7) Borrar cliente borra sus mascotas
	{
		st, body := doReq(t, ts.URL, "DELETE", "/api/clients/"+itoa(clientID), token, nil)
		require.Equal(t, http.StatusNoContent, st, string(body))

		st, body = doReq(t, ts.URL, "GET", "/api/pets/"+itoa(petID), token, nil)
		require.Equal(t, http.StatusNotFound, st, string(body))
		require.Equal(t, "pet not found", message(t, body))
	}
}

func TestHTTP_DeleteAttendant_NullsPetAttendant(t *testing.T) {
	ts := newServer(t, testSecret)

	register(t, ts.URL, "Ana", "ana@shop.com", "pw-ana")
	register(t, ts.URL, "Beto", "beto@shop.com", "pw-beto")
	anaToken := login(t, ts.URL, "ana@shop.com", "pw-ana")
	betoToken := login(t, ts.URL, "beto@shop.com", "pw-beto")

	clientID := createClient(t, ts.URL, anaToken, map[string]any{"name": "C", "email": "c@mail.com"})

	st, body := doReq(t, ts.URL, "POST", "/api/pets", anaToken, map[string]any{
		"name": "Rex", "species": "dog", "clientId": clientID,
	})
	require.Equal(t, http.StatusCreated, st, string(body))
	var pet petDTO
	require.NoError(t, json.Unmarshal(body, &pet))
	require.NotNil(t, pet.Attendant)

	// Beto no puede dar de baja a Ana
	st, body = doReq(t, ts.URL, "DELETE", "/api/attendants/"+itoa(pet.Attendant.ID), betoToken, nil)
	require.Equal(t, http.StatusForbidden, st, string(body))
	require.Equal(t, "attendants can only delete their own account", message(t, body))
	login(t, ts.URL, "ana@shop.com", "pw-ana")

	// Ana se da de baja a sí misma
	st, body = doReq(t, ts.URL, "DELETE", "/api/attendants/"+itoa(pet.Attendant.ID), anaToken, nil)
	require.Equal(t, http.StatusNoContent, st, string(body))

	st, body = doReq(t, ts.URL, "GET", "/api/pets/"+itoa(pet.ID), betoToken, nil)
	require.Equal(t, http.StatusOK, st, string(body))
	require.NoError(t, json.Unmarshal(body, &pet))
	require.Nil(t, pet.Attendant)
	require.NotNil(t, pet.Client)

	// El token de Ana sigue siendo válido pero su attendant ya no existe.
	st, body = doReq(t, ts.URL, "POST", "/api/pets", anaToken, map[string]any{
		"name": "Mia", "species": "cat", "clientId": clientID,
	})
	require.Equal(t, http.StatusNotFound, st, string(body))
	require.Equal(t, "attendant not found", message(t, body))
}

func TestHTTP_Login_SameMessageForUnknownEmailAndWrongPassword(t *testing.T) {
	ts := newServer(t, testSecret)
	register(t, ts.URL, "Ana", "ana@shop.com", "right")

	st1, b1 := doReq(t, ts.URL, "POST", "/api/auth/login", "", map[string]any{"email": "nobody@shop.com", "password": "right"})
	st2, b2 := doReq(t, ts.URL, "POST", "/api/auth/login", "", map[string]any{"email": "ana@shop.com", "password": "wrong"})

	require.Equal(t, http.StatusUnauthorized, st1)
	require.Equal(t, http.StatusUnauthorized, st2)
	require.Equal(t, message(t, b1), message(t, b2))
}

func TestHTTP_Register_Errors(t *testing.T) {
	ts := newServer(t, testSecret)
	register(t, ts.URL, "Ana", "ana@shop.com", "pw")

	st, body := doReq(t, ts.URL, "POST", "/api/auth/register", "", map[string]any{
		"name": "Otra", "email": "ana@shop.com", "password": "pw2",
	})
	require.Equal(t, http.StatusConflict, st, string(body))

	st, body = doReq(t, ts.URL, "POST", "/api/auth/register", "", map[string]any{"name": "X", "email": "x@shop.com"})
	require.Equal(t, http.StatusBadRequest, st, string(body))
	require.Equal(t, "name, email and password are required", message(t, body))

	st, body = doReq(t, ts.URL, "POST", "/api/auth/register", "", map[string]any{
		"name": "Largo", "email": "largo@shop.com", "password": strings.Repeat("x", 73),
	})
	require.Equal(t, http.StatusBadRequest, st, string(body))
	require.Equal(t, "password must be at most 72 bytes", message(t, body))

	// el primer registro sigue intacto
	login(t, ts.URL, "ana@shop.com", "pw")
}

func TestHTTP_AuthGate(t *testing.T) {
	ts := newServer(t, testSecret)

	cases := []struct {
		name   string
		header string
		want   string
	}{
		{"missing", "", "missing token"},
		{"bad scheme", "Token abc", "invalid token format"},
		{"garbage", "Bearer not-a-jwt", "invalid or expired token"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := http.NewRequest("GET", ts.URL+"/api/clients", nil)
			require.NoError(t, err)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			res, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer res.Body.Close()
			body, _ := io.ReadAll(res.Body)

			require.Equal(t, http.StatusUnauthorized, res.StatusCode)
			require.Equal(t, tc.want, message(t, body))
		})
	}

	// token firmado con otro secreto
	other := jwt.NewSigner(jwt.Config{Secret: "other-secret"})
	forged := httptest.NewServer(router.NewRouter(router.Options{Tokens: other}))
	defer forged.Close()
	register(t, forged.URL, "Ana", "ana@shop.com", "pw")
	foreign := login(t, forged.URL, "ana@shop.com", "pw")

	st, body := doReq(t, ts.URL, "GET", "/api/clients", foreign, nil)
	require.Equal(t, http.StatusUnauthorized, st)
	require.Equal(t, "invalid or expired token", message(t, body))
}

func TestHTTP_AuthGate_ExpiredToken(t *testing.T) {
	ts := newServer(t, testSecret)
	register(t, ts.URL, "Ana", "ana@shop.com", "pw")
	fresh := login(t, ts.URL, "ana@shop.com", "pw")

	st, body := doReq(t, ts.URL, "GET", "/api/clients", fresh, nil)
	require.Equal(t, http.StatusOK, st, string(body))

	// mismo secreto, pero emitido hace dos horas con TTL de una
	past := jwt.NewSigner(jwt.Config{
		Secret: testSecret,
		TTL:    time.Hour,
		Now:    func() time.Time { return time.Now().Add(-2 * time.Hour) },
	})
	expired, exp, err := past.Issue(context.Background(), auth.Claims{AttendantID: 1, Email: "ana@shop.com"})
	require.NoError(t, err)
	require.True(t, exp.Before(time.Now()))

	st, body = doReq(t, ts.URL, "GET", "/api/clients", expired, nil)
	require.Equal(t, http.StatusUnauthorized, st)
	require.Equal(t, "invalid or expired token", message(t, body))
}

func TestHTTP_MissingSecret_Is500(t *testing.T) {
	ts := newServer(t, "")
	register(t, ts.URL, "Ana", "ana@shop.com", "pw")

	st, body := doReq(t, ts.URL, "POST", "/api/auth/login", "", map[string]any{"email": "ana@shop.com", "password": "pw"})
	require.Equal(t, http.StatusInternalServerError, st)
	require.Equal(t, "internal configuration error", message(t, body))

	st, body = doReq(t, ts.URL, "GET", "/api/pets", "whatever", nil)
	require.Equal(t, http.StatusInternalServerError, st)
	require.Equal(t, "internal configuration error", message(t, body))
}

func TestHTTP_PetValidation(t *testing.T) {
	ts := newServer(t, testSecret)
	register(t, ts.URL, "Ana", "ana@shop.com", "pw")
	token := login(t, ts.URL, "ana@shop.com", "pw")

	st, body := doReq(t, ts.URL, "POST", "/api/pets", token, map[string]any{"name": "Rex", "species": "dog", "clientId": 99})
	require.Equal(t, http.StatusNotFound, st, string(body))
	require.Equal(t, "client not found", message(t, body))

	st, body = doReq(t, ts.URL, "POST", "/api/pets", token, map[string]any{"name": "Rex", "clientId": 1})
	require.Equal(t, http.StatusBadRequest, st, string(body))

	clientID := createClient(t, ts.URL, token, map[string]any{"name": "C", "email": "c@mail.com"})
	st, body = doReq(t, ts.URL, "POST", "/api/pets", token, map[string]any{
		"name": "Rex", "species": "dog", "clientId": clientID, "birthDate": "01/05/2020",
	})
	require.Equal(t, http.StatusBadRequest, st, string(body))

	st, _ = doReq(t, ts.URL, "GET", "/api/pets/abc", token, nil)
	require.Equal(t, http.StatusBadRequest, st)
}

func TestHTTP_HealthAndMetrics(t *testing.T) {
	ts := newServer(t, testSecret)

	for _, path := range []string{"/", "/health"} {
		st, body := doReq(t, ts.URL, "GET", path, "", nil)
		require.Equal(t, http.StatusOK, st)
		require.Equal(t, "ok", string(body))
	}

	st, body := doReq(t, ts.URL, "GET", "/metrics", "", nil)
	require.Equal(t, http.StatusOK, st)
	require.True(t, strings.Contains(string(body), "petshop_http_requests_total"))

	st, body = doReq(t, ts.URL, "GET", "/nope", "", nil)
	require.Equal(t, http.StatusNotFound, st)
	require.Equal(t, "route not found", message(t, body))
}

// -------------------------
// Helpers
// -------------------------

type petDTO struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Species   string  `json:"species"`
	Breed     *string `json:"breed"`
	BirthDate *string `json:"birthDate"`
	Client    *struct {
		ID int64 `json:"id"`
	} `json:"client"`
	Attendant *struct {
		ID    int64  `json:"id"`
		Email string `json:"email"`
	} `json:"attendant"`
}

func register(t *testing.T, baseURL, name, email, password string) {
	t.Helper()
	st, body := doReq(t, baseURL, "POST", "/api/auth/register", "", map[string]any{
		"name": name, "email": email, "password": password,
	})
	require.Equal(t, http.StatusCreated, st, string(body))
}

func login(t *testing.T, baseURL, email, password string) string {
	t.Helper()
	st, body := doReq(t, baseURL, "POST", "/api/auth/login", "", map[string]any{"email": email, "password": password})
	require.Equal(t, http.StatusOK, st, string(body))

	var out struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expiresAt"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	require.NotEmpty(t, out.Token)
	require.True(t, out.ExpiresAt.After(time.Now()))
	return out.Token
}

func createClient(t *testing.T, baseURL, token string, payload map[string]any) int64 {
	t.Helper()
	st, body := doReq(t, baseURL, "POST", "/api/clients", token, payload)
	require.Equal(t, http.StatusCreated, st, string(body))

	var out struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	require.NotZero(t, out.ID)
	return out.ID
}

func message(t *testing.T, body []byte) string {
	t.Helper()
	var out struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(body, &out), string(body))
	return out.Message
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }

func doReq(t *testing.T, baseURL, method, path, token string, payload any) (int, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, body)
	require.NoError(t, err)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	b, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, b
}
