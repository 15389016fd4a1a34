package validation

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/ezequiel-arevalo/uba-bedelia/internal/errors"
	"github.com/ezequiel-arevalo/uba-bedelia/pkg/contracts/domain"
)

// Messages shown next to each form field, keyed by json field name and tag.
var fieldMessages = map[string]map[string]string{
	"nombre":       {"required": "El nombre es requerido"},
	"apellido":     {"required": "El apellido es requerido"},
	"telefono":     {"required": "El teléfono es requerido"},
	"email":        {"required": "El email es requerido", "email": "El email no tiene un formato válido"},
	"diplomatura":  {"required": "La diplomatura es requerida"},
	"idEstudiante": {"required": "El ID de estudiante es requerido"},
	"name":         {"required": "El nombre de la diplomatura es requerido"},
	"totalClasses": {"min": "El número de clases debe ser mayor a 0"},
	"date":         {"iso8601": "La fecha debe tener el formato AAAA-MM-DD"},
	"fileName":     {"required": "El archivo es requerido", "filename": "Nombre de archivo inválido"},
}

const (
	msgDuplicateDiplomatura = "Ya existe una diplomatura con este nombre"
	msgTooManyClasses       = "El número de clases no puede ser mayor a %d"
)

// EntityValidator validates student and diplomatura form input.
type EntityValidator struct {
	validator       *validator.Validate
	maxTotalClasses int
}

// NewEntityValidator creates a validator. maxTotalClasses bounds a
// diplomatura's class count.
func NewEntityValidator(maxTotalClasses int) *EntityValidator {
	v := validator.New()

	v.RegisterValidation("iso8601", isISO8601)
	v.RegisterValidation("filename", isValidFilename)

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &EntityValidator{
		validator:       v,
		maxTotalClasses: maxTotalClasses,
	}
}

// ValidateStudent trims the input and checks every field.
func (e *EntityValidator) ValidateStudent(in domain.StudentInput) (domain.StudentInput, error) {
	in = in.Trimmed()
	return in, e.validate(in, "Datos del estudiante inválidos")
}

// ValidateDiplomatura trims the input and checks it against the existing
// diplomaturas. selfID excludes the diplomatura being edited from the
// unique-name check.
func (e *EntityValidator) ValidateDiplomatura(in domain.DiplomaturaInput, existing []domain.Diplomatura, selfID string) (domain.DiplomaturaInput, error) {
	in = in.Trimmed()

	fields := e.fieldErrors(in)
	if in.Name != "" && !hasField(fields, "name") {
		for _, d := range existing {
			if d.ID != selfID && strings.EqualFold(d.Name, in.Name) {
				fields = append(fields, apperrors.ValidationError{Field: "name", Message: msgDuplicateDiplomatura})
				break
			}
		}
	}
	if e.maxTotalClasses > 0 && in.TotalClasses > e.maxTotalClasses {
		fields = append(fields, apperrors.ValidationError{
			Field:   "totalClasses",
			Message: fmt.Sprintf(msgTooManyClasses, e.maxTotalClasses),
		})
	}

	if len(fields) > 0 {
		return in, apperrors.NewValidationFailure("Datos de la diplomatura inválidos", fields...)
	}
	return in, nil
}

// ValidateStruct checks any struct carrying validate tags.
func (e *EntityValidator) ValidateStruct(v interface{}) error {
	return e.validate(v, "Datos inválidos")
}

func (e *EntityValidator) validate(v interface{}, message string) error {
	if fields := e.fieldErrors(v); len(fields) > 0 {
		return apperrors.NewValidationFailure(message, fields...)
	}
	return nil
}

func (e *EntityValidator) fieldErrors(v interface{}) []apperrors.ValidationError {
	err := e.validator.Struct(v)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []apperrors.ValidationError{{Field: "", Message: err.Error()}}
	}

	out := make([]apperrors.ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, apperrors.ValidationError{
			Field:   fe.Field(),
			Message: formatValidationError(fe),
		})
	}
	return out
}

func hasField(fields []apperrors.ValidationError, name string) bool {
	for _, f := range fields {
		if f.Field == name {
			return true
		}
	}
	return false
}

// formatValidationError formats validation error messages
func formatValidationError(fe validator.FieldError) string {
	if msg, ok := fieldMessages[fe.Field()][fe.Tag()]; ok {
		return msg
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s es requerido", fe.Field())
	case "min":
		return fmt.Sprintf("%s debe ser al menos %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s no puede ser mayor a %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s no es válido (%s)", fe.Field(), fe.Tag())
	}
}

// isISO8601 accepts an empty value or a real YYYY-MM-DD date.
func isISO8601(fl validator.FieldLevel) bool {
	date := fl.Field().String()
	if date == "" {
		return true
	}
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}

// isValidFilename accepts a bare file name: no directory part and not a
// dot entry. Dots inside the name are fine.
func isValidFilename(fl validator.FieldLevel) bool {
	filename := fl.Field().String()
	if filename == "" || filename == "." || filename == ".." {
		return false
	}
	if strings.ContainsAny(filename, `/\`) {
		return false
	}
	return len(filename) <= 255
}
