package http

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apperrors "github.com/ezequiel-arevalo/uba-bedelia/internal/errors"
	"github.com/ezequiel-arevalo/uba-bedelia/internal/exporter"
	"github.com/ezequiel-arevalo/uba-bedelia/internal/services"
)

const (
	// ContentTypeXLSX is the media type of every workbook download.
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	// MultipartOverhead is the room allowed above the file size limit for
	// form fields and multipart framing.
	MultipartOverhead = 1 << 20
)

// SessionsHandler serves class sessions: listing, import, export and delete.
type SessionsHandler struct {
	service        AttendanceServiceInterface
	logger         *slog.Logger
	errorHandler   *apperrors.ErrorHandler
	maxUploadBytes int64
}

// NewSessionsHandler creates a new sessions handler. Uploads larger than
// maxUploadBytes are refused.
func NewSessionsHandler(service AttendanceServiceInterface, logger *slog.Logger, errorHandler *apperrors.ErrorHandler, maxUploadBytes int64) *SessionsHandler {
	return &SessionsHandler{
		service:        service,
		logger:         logger.With(slog.String("component", "sessions_handler")),
		errorHandler:   errorHandler,
		maxUploadBytes: maxUploadBytes,
	}
}

// Routes returns the session routes
func (h *SessionsHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(render.SetContentType(render.ContentTypeJSON)).Get("/", h.ListSessions)
	r.With(render.SetContentType(render.ContentTypeJSON)).Post("/import", h.ImportSession)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/export", h.ExportSession)
		r.With(render.SetContentType(render.ContentTypeJSON)).Delete("/", h.DeleteSession)
	})
	return r
}

// ListSessions handles GET /api/sessions
func (h *SessionsHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.service.Sessions(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   sessions,
		"count":  len(sessions),
	})
}

// ImportSession handles POST /api/sessions/import. The multipart form
// carries the spreadsheet in "file", the target "diplomatura" and an
// optional "date" (YYYY-MM-DD) that overrides the one in the file name.
func (h *SessionsHandler) ImportSession(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	// One extra MiB for the other form fields and multipart framing.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+MultipartOverhead)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.errorHandler.HandleError(w, r, apperrors.NewIOError(
				fmt.Sprintf("El archivo supera el tamaño máximo de %d bytes", h.maxUploadBytes), err))
			return
		}
		h.errorHandler.HandleError(w, r, apperrors.InvalidRequestWithError(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		h.errorHandler.HandleError(w, r, apperrors.MissingParameter("file"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.errorHandler.HandleError(w, r, apperrors.NewIOError("No se pudo leer el archivo", err))
		return
	}

	h.logger.InfoContext(r.Context(), "importing attendance file",
		slog.String("request_id", reqID),
		slog.String("file", header.Filename),
		slog.Int64("size", header.Size),
	)

	session, err := h.service.ImportSession(r.Context(), services.ImportRequest{
		FileName:    header.Filename,
		Diplomatura: r.FormValue("diplomatura"),
		Date:        r.FormValue("date"),
		Data:        data,
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   session,
	})
}

// ExportSession handles GET /api/sessions/{id}/export and streams the
// session workbook as an attachment.
func (h *SessionsHandler) ExportSession(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	session, err := h.service.ExportSession(r.Context(), chi.URLParam(r, "id"), &buf)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	writeAttachment(w, ContentTypeXLSX, exporter.SessionFileName(session), buf.Bytes())
}

// DeleteSession handles DELETE /api/sessions/{id}
func (h *SessionsHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.DeleteSession(r.Context(), id); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"id":     id,
	})
}

// writeAttachment sends body as a download named fileName. Bodies are
// rendered fully before the first byte goes out so failures still get a
// problem response.
func writeAttachment(w http.ResponseWriter, contentType, fileName string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	w.Header().Set("Content-Length", fmt.Sprint(len(body)))
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
