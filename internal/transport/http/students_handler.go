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

// StudentsHandler serves the student list and its CRUD operations.
type StudentsHandler struct {
	service      AttendanceServiceInterface
	logger       *slog.Logger
	errorHandler *apperrors.ErrorHandler
}

// NewStudentsHandler creates a new students handler
func NewStudentsHandler(service AttendanceServiceInterface, logger *slog.Logger, errorHandler *apperrors.ErrorHandler) *StudentsHandler {
	return &StudentsHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "students_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the student routes
func (h *StudentsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.ListStudents)
	r.Post("/", h.CreateStudent)
	r.Route("/{id}", func(r chi.Router) {
		r.Put("/", h.UpdateStudent)
		r.Delete("/", h.DeleteStudent)
	})
	return r
}

// ListStudents handles GET /api/students with the view query parameters.
func (h *StudentsHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	filters, sortCfg, err := parseViewQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	view, err := h.service.View(r.Context(), filters, sortCfg)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   view.Students,
		"stats":  view.Stats,
		"count":  len(view.Students),
	})
}

// CreateStudent handles POST /api/students
func (h *StudentsHandler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	var in domain.StudentInput
	if err := render.DecodeJSON(r.Body, &in); err != nil {
		h.errorHandler.HandleError(w, r, apperrors.InvalidRequestWithError(err))
		return
	}

	student, err := h.service.AddStudent(r.Context(), in)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "student created",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("student_id", student.ID),
	)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   student,
	})
}

// UpdateStudent handles PUT /api/students/{id}
func (h *StudentsHandler) UpdateStudent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var in domain.StudentInput
	if err := render.DecodeJSON(r.Body, &in); err != nil {
		h.errorHandler.HandleError(w, r, apperrors.InvalidRequestWithError(err))
		return
	}

	student, err := h.service.UpdateStudent(r.Context(), id, in)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   student,
	})
}

// DeleteStudent handles DELETE /api/students/{id}
func (h *StudentsHandler) DeleteStudent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.DeleteStudent(r.Context(), id); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "student deleted",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("student_id", id),
	)
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"id":     id,
	})
}
