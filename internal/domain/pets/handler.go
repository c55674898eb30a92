package pets

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"pet-shop-api/internal/middleware"
	"pet-shop-api/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta /api/pets. Todas las rutas requieren token.
func RegisterRoutes(r chi.Router, svc *Service, gate func(http.Handler) http.Handler) {
	r.Route("/api/pets", func(pr chi.Router) {
		pr.Use(gate)

		pr.Post("/", createPetHandler(svc))
		pr.Get("/", listPetsHandler(svc))
		pr.Get("/{id}", getPetHandler(svc))
		pr.Put("/{id}", updatePetHandler(svc))
		pr.Delete("/{id}", deletePetHandler(svc))
	})
}

type createPetRequest struct {
	Name      string  `json:"name"`
	Species   string  `json:"species"`
	Breed     *string `json:"breed"`
	BirthDate *string `json:"birthDate"` // YYYY-MM-DD opcional
	ClientID  int64   `json:"clientId"`
}

type updatePetRequest struct {
	// Punteros para merge: nil (omitido o null) = no tocar.
	Name      *string `json:"name"`
	Species   *string `json:"species"`
	Breed     *string `json:"breed"`     // "" limpia
	BirthDate *string `json:"birthDate"` // YYYY-MM-DD, "" limpia
	ClientID  *int64  `json:"clientId"`
}

type petResponse struct {
	ID        int64              `json:"id"`
	Name      string             `json:"name"`
	Species   string             `json:"species"`
	Breed     *string            `json:"breed"`
	BirthDate *string            `json:"birthDate"`
	Client    *petClientResponse `json:"client"`
	Attendant *petAttendantRef   `json:"attendant"`
}

type petClientResponse struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone"`
}

type petAttendantRef struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// createPetHandler godoc
// @Summary Crear mascota
// @Description El attendant de la mascota es siempre el attendant autenticado.
// @Tags pets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body createPetRequest true "name, species y clientId obligatorios; birthDate YYYY-MM-DD"
// @Success 201 {object} petResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse "client not found / attendant not found"
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/pets [post]
func createPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			httpx.WriteError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req createPetRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid json")
			return
		}

		var bd *time.Time
		if req.BirthDate != nil && strings.TrimSpace(*req.BirthDate) != "" {
			t, err := httpx.ParseDate(*req.BirthDate)
			if err != nil {
				httpx.WriteError(w, http.StatusBadRequest, "birthDate must be YYYY-MM-DD")
				return
			}
			bd = &t
		}

		p, err := svc.Create(r.Context(), claims.AttendantID, CreateInput{
			Name:      req.Name,
			Species:   req.Species,
			Breed:     req.Breed,
			BirthDate: bd,
			ClientID:  req.ClientID,
		})
		if err != nil {
			writeServiceError(w, r, "create pet", err)
			return
		}

		httpx.WriteJSON(w, http.StatusCreated, toPetResponse(p))
	}
}

// listPetsHandler godoc
// @Summary Listar mascotas (con cliente y attendant)
// @Tags pets
// @Produce json
// @Security BearerAuth
// @Success 200 {array} petResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/pets [get]
func listPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			writeServiceError(w, r, "list pets", err)
			return
		}

		out := make([]petResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPetResponse(p))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

// getPetHandler godoc
// @Summary Obtener mascota
// @Tags pets
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID de la mascota"
// @Success 200 {object} petResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /api/pets/{id} [get]
func getPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpx.IDParam(r, "id")
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid id")
			return
		}

		p, err := svc.GetByID(r.Context(), id)
		if err != nil {
			writeServiceError(w, r, "get pet", err)
			return
		}

		httpx.WriteJSON(w, http.StatusOK, toPetResponse(p))
	}
}

// updatePetHandler godoc
// @Summary Actualizar mascota (merge)
// @Description Solo se modifican los campos enviados. breed/birthDate "" los limpia. El attendant pasa a ser el autenticado.
// @Tags pets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID de la mascota"
// @Param payload body updatePetRequest true "campos a modificar"
// @Success 200 {object} petResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse "pet / client / attendant not found"
// @Router /api/pets/{id} [put]
func updatePetHandler(svc *Service) http.HandlerFunc {
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

		var req updatePetRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid json")
			return
		}

		var bd DateField
		if req.BirthDate != nil {
			bd.Set = true
			if strings.TrimSpace(*req.BirthDate) != "" {
				t, err := httpx.ParseDate(*req.BirthDate)
				if err != nil {
					httpx.WriteError(w, http.StatusBadRequest, "birthDate must be YYYY-MM-DD")
					return
				}
				bd.Value = &t
			}
		}

		p, err := svc.Update(r.Context(), id, claims.AttendantID, UpdateInput{
			Name:      req.Name,
			Species:   req.Species,
			Breed:     req.Breed,
			BirthDate: bd,
			ClientID:  req.ClientID,
		})
		if err != nil {
			writeServiceError(w, r, "update pet", err)
			return
		}

		httpx.WriteJSON(w, http.StatusOK, toPetResponse(p))
	}
}

// deletePetHandler godoc
// @Summary Eliminar mascota
// @Tags pets
// @Security BearerAuth
// @Param id path int true "ID de la mascota"
// @Success 204
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /api/pets/{id} [delete]
func deletePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpx.IDParam(r, "id")
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid id")
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			writeServiceError(w, r, "delete pet", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		httpx.WriteError(w, http.StatusBadRequest, "name, species and clientId are required")
	case errors.Is(err, ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "pet not found")
	case errors.Is(err, ErrClientNotFound):
		httpx.WriteError(w, http.StatusNotFound, "client not found")
	case errors.Is(err, ErrAttendantNotFound):
		httpx.WriteError(w, http.StatusNotFound, "attendant not found")
	default:
		middleware.Log(r.Context()).Error(op, map[string]any{"err": err})
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}

func toPetResponse(p Pet) petResponse {
	out := petResponse{
		ID:        p.ID,
		Name:      p.Name,
		Species:   p.Species,
		Breed:     p.Breed,
		BirthDate: httpx.FormatDate(p.BirthDate),
	}
	if p.Client != nil {
		out.Client = &petClientResponse{
			ID:    p.Client.ID,
			Name:  p.Client.Name,
			Email: p.Client.Email,
			Phone: p.Client.Phone,
		}
	}
	if p.Attendant != nil {
		out.Attendant = &petAttendantRef{
			ID:    p.Attendant.ID,
			Name:  p.Attendant.Name,
			Email: p.Attendant.Email,
		}
	}
	return out
}
