package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apperrors "github.com/ezequiel-arevalo/uba-bedelia/internal/errors"
	"github.com/ezequiel-arevalo/uba-bedelia/pkg/contracts/domain"
)

// DiplomaturasHandler serves diplomatura CRUD and per-diplomatura summaries.
type DiplomaturasHandler struct {
	service      AttendanceServiceInterface
	logger       *slog.Logger
	errorHandler *apperrors.ErrorHandler
}

// NewDiplomaturasHandler creates a new diplomaturas handler
func NewDiplomaturasHandler(service AttendanceServiceInterface, logger *slog.Logger, errorHandler *apperrors.ErrorHandler) *DiplomaturasHandler {
	return &DiplomaturasHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "diplomaturas_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the diplomatura routes
func (h *DiplomaturasHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.ListDiplomaturas)
	r.Post("/", h.CreateDiplomatura)
	r.Get("/summaries", h.Summaries)
	r.Route("/{id}", func(r chi.Router) {
		r.Put("/", h.UpdateDiplomatura)
		r.Delete("/", h.DeleteDiplomatura)
	})
	return r
}

type diplomaturaItem struct {
	domain.Diplomatura
	Students int `json:"students"`
}

// ListDiplomaturas handles GET /api/diplomaturas. Each item carries its
// enrolled student count, which the delete confirmation shows.
func (h *DiplomaturasHandler) ListDiplomaturas(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.Diplomaturas(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	items := make([]diplomaturaItem, 0, len(list))
	for _, d := range list {
		n, err := h.service.StudentCountByDiplomatura(r.Context(), d.Name)
		if err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		items = append(items, diplomaturaItem{Diplomatura: d, Students: n})
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   items,
		"count":  len(items),
	})
}

// CreateDiplomatura handles POST /api/diplomaturas
func (h *DiplomaturasHandler) CreateDiplomatura(w http.ResponseWriter, r *http.Request) {
	var in domain.DiplomaturaInput
	if err := render.DecodeJSON(r.Body, &in); err != nil {
		h.errorHandler.HandleError(w, r, apperrors.InvalidRequestWithError(err))
		return
	}

	d, err := h.service.AddDiplomatura(r.Context(), in)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   d,
	})
}

// UpdateDiplomatura handles PUT /api/diplomaturas/{id}
func (h *DiplomaturasHandler) UpdateDiplomatura(w http.ResponseWriter, r *http.Request) {
	var in domain.DiplomaturaInput
	if err := render.DecodeJSON(r.Body, &in); err != nil {
		h.errorHandler.HandleError(w, r, apperrors.InvalidRequestWithError(err))
		return
	}

	d, err := h.service.UpdateDiplomatura(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   d,
	})
}

// DeleteDiplomatura handles DELETE /api/diplomaturas/{id}. The students and
// sessions of the diplomatura go with it.
func (h *DiplomaturasHandler) DeleteDiplomatura(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.DeleteDiplomatura(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "diplomatura deleted",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("diplomatura", result.Diplomatura.Name),
		slog.Int("students_removed", result.StudentsRemoved),
		slog.Int("sessions_removed", result.SessionsRemoved),
	)
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   result,
	})
}

// Summaries handles GET /api/diplomaturas/summaries
func (h *DiplomaturasHandler) Summaries(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.service.DiplomaturaSummaries(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   summaries,
		"count":  len(summaries),
	})
}
