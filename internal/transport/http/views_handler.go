package http

import (
	"bytes"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apperrors "github.com/ezequiel-arevalo/uba-bedelia/internal/errors"
	"github.com/ezequiel-arevalo/uba-bedelia/internal/exporter"
)

// ContentTypeCSV is the media type of the student list download.
const ContentTypeCSV = "text/csv; charset=utf-8"

// ViewsHandler serves the aggregate stats and the spreadsheet downloads.
type ViewsHandler struct {
	service      AttendanceServiceInterface
	logger       *slog.Logger
	errorHandler *apperrors.ErrorHandler
	now          func() time.Time
}

// NewViewsHandler creates a new views handler
func NewViewsHandler(service AttendanceServiceInterface, logger *slog.Logger, errorHandler *apperrors.ErrorHandler) *ViewsHandler {
	return &ViewsHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "views_handler")),
		errorHandler: errorHandler,
		now:          time.Now,
	}
}

// StatsRoutes returns the stats routes
func (h *ViewsHandler) StatsRoutes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/", h.GetStats)
	return r
}

// ExportRoutes returns the download routes
func (h *ViewsHandler) ExportRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/backup", h.ExportBackup)
	r.Get("/students", h.ExportStudents)
	return r
}

// GetStats handles GET /api/stats. The stats describe the students that
// pass the query filters.
func (h *ViewsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
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
		"status":  "success",
		"data":    view.Stats,
		"filters": view.Filters,
	})
}

// ExportBackup handles GET /api/export/backup
func (h *ViewsHandler) ExportBackup(w http.ResponseWriter, r *http.Request) {
	now := h.now()

	var buf bytes.Buffer
	if err := h.service.ExportBackup(r.Context(), &buf, now); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "backup exported", slog.Int("bytes", buf.Len()))
	writeAttachment(w, ContentTypeXLSX, exporter.BackupFileName(now), buf.Bytes())
}

// ExportStudents handles GET /api/export/students, the filtered list as CSV.
func (h *ViewsHandler) ExportStudents(w http.ResponseWriter, r *http.Request) {
	filters, sortCfg, err := parseViewQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := h.service.ExportStudentsCSV(r.Context(), &buf, filters, sortCfg); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	writeAttachment(w, ContentTypeCSV, "estudiantes_"+h.now().Format("02-01-2006")+".csv", buf.Bytes())
}
