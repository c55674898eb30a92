package attendants

import (
	"errors"
	"net/http"
	"time"

	"pet-shop-api/internal/middleware"
	"pet-shop-api/internal/platform/httpx"
	"pet-shop-api/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes: /api/auth es público (es donde se obtiene el token),
// /api/attendants pasa por el gate.
func RegisterRoutes(r chi.Router, svc *Service, gate func(http.Handler) http.Handler) {
	r.Route("/api/auth", func(ar chi.Router) {
		ar.Post("/register", registerHandler(svc))
		ar.Post("/login", loginHandler(svc))
	})

	r.Route("/api/attendants", func(ar chi.Router) {
		ar.Use(gate)
		ar.Get("/me", meHandler(svc))
		ar.Delete("/{id}", deleteAttendantHandler(svc))
	})
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type attendantResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// registerHandler godoc
// @Summary Registrar attendant
// @Description Crea un attendant. La contraseña se guarda hasheada (bcrypt) y nunca se devuelve.
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body registerRequest true "name, email y password son obligatorios"
// @Success 201 {object} registerResponse
// @Failure 400 {object} httpx.ErrorResponse "campos faltantes"
// @Failure 409 {object} httpx.ErrorResponse "email ya registrado"
// @Failure 500 {object} httpx.ErrorResponse "internal error"
// @Router /api/auth/register [post]
func registerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid json")
			return
		}

		a, err := svc.Register(r.Context(), RegisterInput{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				httpx.WriteError(w, http.StatusBadRequest, "name, email and password are required")
			case errors.Is(err, ErrPasswordTooLong):
				httpx.WriteError(w, http.StatusBadRequest, ErrPasswordTooLong.Error())
			case errors.Is(err, ErrConflict):
				httpx.WriteError(w, http.StatusConflict, "email already registered")
			default:
				middleware.Log(r.Context()).Error("register attendant", map[string]any{"err": err})
				httpx.WriteError(w, http.StatusInternalServerError, "error registering attendant")
			}
			return
		}

		httpx.WriteJSON(w, http.StatusCreated, registerResponse{
			ID:      a.ID,
			Name:    a.Name,
			Email:   a.Email,
			Message: "attendant registered",
		})
	}
}

// loginHandler godoc
// @Summary Login de attendant
// @Description Devuelve un JWT válido por 1 hora. El mismo 401 para email inexistente y contraseña incorrecta.
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body loginRequest true "email y password"
// @Success 200 {object} loginResponse
// @Failure 400 {object} httpx.ErrorResponse "campos faltantes"
// @Failure 401 {object} httpx.ErrorResponse "invalid email or password"
// @Failure 500 {object} httpx.ErrorResponse "internal error"
// @Router /api/auth/login [post]
func loginHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid json")
			return
		}

		res, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				httpx.WriteError(w, http.StatusBadRequest, "email and password are required")
			case errors.Is(err, ErrInvalidCredentials):
				httpx.WriteError(w, http.StatusUnauthorized, ErrInvalidCredentials.Error())
			case errors.Is(err, auth.ErrNotConfigured):
				middleware.Log(r.Context()).Error("JWT_SECRET is not set; cannot issue tokens", nil)
				httpx.WriteError(w, http.StatusInternalServerError, "internal configuration error")
			default:
				middleware.Log(r.Context()).Error("login attendant", map[string]any{"err": err})
				httpx.WriteError(w, http.StatusInternalServerError, "error logging in")
			}
			return
		}

		httpx.WriteJSON(w, http.StatusOK, loginResponse{
			Token:     res.Token,
			ExpiresAt: res.ExpiresAt.UTC(),
		})
	}
}

// meHandler godoc
// @Summary Attendant autenticado
// @Tags attendants
// @Produce json
// @Security BearerAuth
// @Success 200 {object} attendantResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse "el attendant del token ya no existe"
// @Router /api/attendants/me [get]
func meHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			httpx.WriteError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		a, err := svc.GetByID(r.Context(), claims.AttendantID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				httpx.WriteError(w, http.StatusNotFound, "attendant not found")
				return
			}
			middleware.Log(r.Context()).Error("get attendant", map[string]any{"err": err})
			httpx.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		httpx.WriteJSON(w, http.StatusOK, toAttendantResponse(a))
	}
}

// deleteAttendantHandler godoc
// @Summary Eliminar attendant
// @Description Solo el propio attendant puede darse de baja. Las mascotas que atendía quedan con attendant null.
// @Tags attendants
// @Security BearerAuth
// @Param id path int true "ID del attendant"
// @Success 204
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 403 {object} httpx.ErrorResponse "id de otro attendant"
// @Failure 404 {object} httpx.ErrorResponse
// @Router /api/attendants/{id} [delete]
func deleteAttendantHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			httpx.WriteError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		id, err := httpx.IDParam(r, "id")
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid id")
			return
		}

		if err := svc.Delete(r.Context(), claims.AttendantID, id); err != nil {
			switch {
			case errors.Is(err, ErrForbidden):
				httpx.WriteError(w, http.StatusForbidden, ErrForbidden.Error())
				return
			case errors.Is(err, ErrNotFound):
				httpx.WriteError(w, http.StatusNotFound, "attendant not found")
				return
			}
			middleware.Log(r.Context()).Error("delete attendant", map[string]any{"err": err, "id": id})
			httpx.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func toAttendantResponse(a Attendant) attendantResponse {
	return attendantResponse{
		ID:    a.ID,
		Name:  a.Name,
		Email: a.Email,
	}
}
