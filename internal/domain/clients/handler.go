package clients

import (
	"errors"
	"net/http"

	"pet-shop-api/internal/middleware"
	"pet-shop-api/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta /api/clients. Todas las rutas requieren token.
func RegisterRoutes(r chi.Router, svc *Service, gate func(http.Handler) http.Handler) {
	r.Route("/api/clients", func(cr chi.Router) {
		cr.Use(gate)

		cr.Post("/", createClientHandler(svc))
		cr.Get("/", listClientsHandler(svc))
		cr.Get("/{id}", getClientHandler(svc))
		cr.Put("/{id}", updateClientHandler(svc))
		cr.Delete("/{id}", deleteClientHandler(svc))
	})
}

type createClientRequest struct {
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone"`
}

type updateClientRequest struct {
	// Punteros para merge: nil (omitido o null) = no tocar.
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"` // "" limpia el teléfono
}

type clientResponse struct {
	ID    int64             `json:"id"`
	Name  string            `json:"name"`
	Email string            `json:"email"`
	Phone *string           `json:"phone"`
	Pets  []clientPetResult `json:"pets"`
}

type clientPetResult struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Species   string  `json:"species"`
	Breed     *string `json:"breed"`
	BirthDate *string `json:"birthDate"`
}

// createClientHandler godoc
// @Summary Crear cliente
// @Tags clients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body createClientRequest true "name y email obligatorios"
// @Success 201 {object} clientResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse "email ya registrado"
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/clients [post]
func createClientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createClientRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid json")
			return
		}

		c, err := svc.Create(r.Context(), CreateInput{
			Name:  req.Name,
			Email: req.Email,
			Phone: req.Phone,
		})
		if err != nil {
			writeServiceError(w, r, "create client", err)
			return
		}

		httpx.WriteJSON(w, http.StatusCreated, toClientResponse(c))
	}
}

// listClientsHandler godoc
// @Summary Listar clientes (con sus mascotas)
// @Tags clients
// @Produce json
// @Security BearerAuth
// @Success 200 {array} clientResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/clients [get]
func listClientsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			writeServiceError(w, r, "list clients", err)
			return
		}

		out := make([]clientResponse, 0, len(items))
		for _, c := range items {
			out = append(out, toClientResponse(c))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

// getClientHandler godoc
// @Summary Obtener cliente
// @Tags clients
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID del cliente"
// @Success 200 {object} clientResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /api/clients/{id} [get]
func getClientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpx.IDParam(r, "id")
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid id")
			return
		}

		c, err := svc.GetByID(r.Context(), id)
		if err != nil {
			writeServiceError(w, r, "get client", err)
			return
		}

		httpx.WriteJSON(w, http.StatusOK, toClientResponse(c))
	}
}

// updateClientHandler godoc
// @Summary Actualizar cliente (merge)
// @Description Solo se modifican los campos enviados. phone "" limpia el teléfono.
// @Tags clients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID del cliente"
// @Param payload body updateClientRequest true "campos a modificar"
// @Success 200 {object} clientResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /api/clients/{id} [put]
func updateClientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpx.IDParam(r, "id")
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid id")
			return
		}

		var req updateClientRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid json")
			return
		}

		c, err := svc.Update(r.Context(), id, UpdateInput{
			Name:  req.Name,
			Email: req.Email,
			Phone: req.Phone,
		})
		if err != nil {
			writeServiceError(w, r, "update client", err)
			return
		}

		httpx.WriteJSON(w, http.StatusOK, toClientResponse(c))
	}
}

// deleteClientHandler godoc
// @Summary Eliminar cliente
// @Description Borra también sus mascotas (ON DELETE CASCADE).
// @Tags clients
// @Security BearerAuth
// @Param id path int true "ID del cliente"
// @Success 204
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /api/clients/{id} [delete]
func deleteClientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpx.IDParam(r, "id")
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid id")
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			writeServiceError(w, r, "delete client", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		httpx.WriteError(w, http.StatusBadRequest, "name and email are required")
	case errors.Is(err, ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "client not found")
	case errors.Is(err, ErrConflict):
		httpx.WriteError(w, http.StatusConflict, "client email already registered")
	default:
		middleware.Log(r.Context()).Error(op, map[string]any{"err": err})
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}

func toClientResponse(c Client) clientResponse {
	pets := make([]clientPetResult, 0, len(c.Pets))
	for _, p := range c.Pets {
		pets = append(pets, clientPetResult{
			ID:        p.ID,
			Name:      p.Name,
			Species:   p.Species,
			Breed:     p.Breed,
			BirthDate: httpx.FormatDate(p.BirthDate),
		})
	}
	return clientResponse{
		ID:    c.ID,
		Name:  c.Name,
		Email: c.Email,
		Phone: c.Phone,
		Pets:  pets,
	}
}
