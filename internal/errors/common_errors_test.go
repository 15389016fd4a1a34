package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name:     "without cause",
			err:      NewFormatError(`el archivo debe tener "Nombre completo" en la celda A1`),
			expected: `[FORMAT] el archivo debe tener "Nombre completo" en la celda A1`,
		},
		{
			name:     "with cause",
			err:      NewIOError("no se pudo leer el archivo", fmt.Errorf("zip: not a valid zip file")),
			expected: "[IO] no se pudo leer el archivo: zip: not a valid zip file",
		},
		{
			name:     "not found",
			err:      NewNotFoundError("student", "s-1"),
			expected: "[NOT_FOUND] student not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := NewStorageError("save failed", cause)

	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, cause, err.Unwrap())
}

func TestAppError_WithContext_NilContext(t *testing.T) {
	err := &AppError{Type: ErrTypeIO, Message: "x"}
	err.WithContext("file", "tango.csv")
	assert.Equal(t, "tango.csv", err.Context["file"])
}

func TestIsType(t *testing.T) {
	dup := NewDuplicateDateError("TANGO", "2024-03-15")
	wrapped := fmt.Errorf("import tango_15-03-24.csv: %w", dup)

	assert.True(t, IsType(wrapped, ErrTypeDuplicateDate))
	assert.False(t, IsType(wrapped, ErrTypeFormat))
	assert.False(t, IsType(errors.New("plain"), ErrTypeIO))
	assert.False(t, IsType(nil, ErrTypeIO))

	appErr, ok := AsAppError(wrapped)
	require.True(t, ok)
	assert.Equal(t, "TANGO", appErr.Context["diplomatura"])
	assert.Equal(t, "2024-03-15", appErr.Context["date"])
}

func TestNewValidationFailure(t *testing.T) {
	err := NewValidationFailure("datos inválidos",
		ValidationError{Field: "nombre", Message: "El nombre es requerido"},
		ValidationError{Field: "email", Message: "El email no tiene un formato válido"},
	)

	assert.Equal(t, ErrTypeValidation, err.Type)
	require.Len(t, err.Fields, 2)
	assert.Equal(t, "email", err.Fields[1].Field)
}
