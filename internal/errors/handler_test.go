package errors

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(includeStack bool) (*ErrorHandler, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	return NewErrorHandler(logger, includeStack), &buf
}

func TestErrorHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"format", NewFormatError(`falta "Nombre completo"`), http.StatusUnprocessableEntity, TypeFormat},
		{"io", NewIOError("archivo ilegible", nil), http.StatusBadRequest, TypeIO},
		{"duplicate date", fmt.Errorf("import: %w", NewDuplicateDateError("TANGO", "2024-03-15")), http.StatusConflict, TypeDuplicateDate},
		{"validation", NewValidationFailure("datos inválidos"), http.StatusBadRequest, TypeValidation},
		{"not found", NewNotFoundError("diplomatura", "d-1"), http.StatusNotFound, TypeNotFound},
		{"storage", NewStorageError("write", assert.AnError), http.StatusInternalServerError, TypeStorage},
		{"api error", MissingParameter("file"), http.StatusBadRequest, TypeBadRequest},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout, TypeTimeout},
		{"generic", fmt.Errorf("boom"), http.StatusInternalServerError, TypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, logs := newTestHandler(false)

			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/api/test", nil)
			r = r.WithContext(context.WithValue(r.Context(), middleware.RequestIDKey, "req-1"))

			handler.HandleError(w, r, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantType, body["type"])
			assert.Equal(t, "req-1", body["trace_id"])
			assert.Equal(t, "/api/test", body["instance"])
			assert.Contains(t, logs.String(), "request failed")
		})
	}
}

func TestErrorHandler_HandleErrorNil(t *testing.T) {
	handler, _ := newTestHandler(false)
	w := httptest.NewRecorder()
	handler.HandleError(w, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	assert.Zero(t, w.Body.Len())
}

func TestErrorHandler_ValidationFields(t *testing.T) {
	handler, _ := newTestHandler(false)
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/students", nil)

	handler.HandleError(w, r, NewValidationFailure("datos inválidos",
		ValidationError{Field: "email", Message: "El email no tiene un formato válido"}))

	var body struct {
		Errors []ValidationError `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "email", body.Errors[0].Field)
}

func TestErrorHandler_HandlePanic(t *testing.T) {
	handler, logs := newTestHandler(true)
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/stats", nil)

	handler.HandlePanic(w, r, "kaboom")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "kaboom")
	assert.Contains(t, logs.String(), "panic recovered")
}

func TestErrorHandler_NotFoundAndMethod(t *testing.T) {
	handler, _ := newTestHandler(false)

	w := httptest.NewRecorder()
	handler.NotFound(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	handler.MethodNotAllowed(w, httptest.NewRequest(http.MethodPatch, "/api/students", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Contains(t, w.Body.String(), "PATCH")
}
