package domain

import "strings"

// Student is a person enrolled in a diplomatura. Diplomatura is matched by
// name, not by id.
type Student struct {
	ID           string `json:"id"`
	Nombre       string `json:"nombre"`
	Apellido     string `json:"apellido"`
	Telefono     string `json:"telefono"`
	Email        string `json:"email"`
	Diplomatura  string `json:"diplomatura"`
	IDEstudiante string `json:"idEstudiante"`
}

// FullName returns the display name used to match attendance records.
func (s Student) FullName() string {
	return s.Nombre + " " + s.Apellido
}

// StudentInput carries the editable fields of a student
type StudentInput struct {
	Nombre       string `json:"nombre" validate:"required"`
	Apellido     string `json:"apellido" validate:"required"`
	Telefono     string `json:"telefono" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Diplomatura  string `json:"diplomatura" validate:"required"`
	IDEstudiante string `json:"idEstudiante" validate:"required"`
}

// Trimmed returns the input with surrounding whitespace removed from every
// field.
func (in StudentInput) Trimmed() StudentInput {
	return StudentInput{
		Nombre:       strings.TrimSpace(in.Nombre),
		Apellido:     strings.TrimSpace(in.Apellido),
		Telefono:     strings.TrimSpace(in.Telefono),
		Email:        strings.TrimSpace(in.Email),
		Diplomatura:  strings.TrimSpace(in.Diplomatura),
		IDEstudiante: strings.TrimSpace(in.IDEstudiante),
	}
}

// ToStudent builds a Student with the given id from the input fields.
func (in StudentInput) ToStudent(id string) Student {
	return Student{
		ID:           id,
		Nombre:       in.Nombre,
		Apellido:     in.Apellido,
		Telefono:     in.Telefono,
		Email:        in.Email,
		Diplomatura:  in.Diplomatura,
		IDEstudiante: in.IDEstudiante,
	}
}

// StudentWithAttendance is the derived per-student attendance view. It is
// never persisted.
type StudentWithAttendance struct {
	Student
	AttendedClasses            int     `json:"attendedClasses"`
	TotalClassesForDiplomatura int     `json:"totalClassesForDiplomatura"`
	AttendancePercentage       float64 `json:"attendancePercentage"`
	Aprobado                   bool    `json:"aprobado"`
}
