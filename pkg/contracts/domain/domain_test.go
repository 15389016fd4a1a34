package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiplomaturaRequiredClasses(t *testing.T) {
	tests := []struct {
		total    int
		expected int
	}{
		{20, 15},
		{15, 12},
		{10, 8},
		{1, 1},
		{3, 3},
		{100, 75},
	}

	for _, tt := range tests {
		d := Diplomatura{Name: "TANGO", TotalClasses: tt.total}
		assert.Equal(t, tt.expected, d.RequiredClasses(), "totalClasses=%d", tt.total)
	}
}

func TestSortConfigToggle(t *testing.T) {
	var s SortConfig

	s = s.Toggle(SortIDEstudiante)
	assert.Equal(t, SortConfig{Key: SortIDEstudiante, Direction: SortAsc}, s)

	s = s.Toggle(SortIDEstudiante)
	assert.Equal(t, SortConfig{Key: SortIDEstudiante, Direction: SortDesc}, s)

	s = s.Toggle(SortIDEstudiante)
	assert.Equal(t, SortAsc, s.Direction)

	s = s.Toggle(SortIDEstudiante).Toggle(SortAprobado)
	assert.Equal(t, SortConfig{Key: SortAprobado, Direction: SortAsc}, s)
}

func TestFiltersAllDiplomaturas(t *testing.T) {
	assert.True(t, Filters{}.AllDiplomaturas())
	assert.True(t, Filters{Diplomatura: []string{"TANGO", DiplomaturaAll}}.AllDiplomaturas())
	assert.False(t, Filters{Diplomatura: []string{"TANGO"}}.AllDiplomaturas())
}

func TestClassSessionSetDate(t *testing.T) {
	s := ClassSession{
		Date: "2024-01-01",
		AttendanceRecords: []AttendanceRecord{
			{StudentName: "Ana Diaz", Date: "2024-01-01", Present: true},
			{StudentName: "Juan Perez", Date: "2024-01-01", Present: true},
		},
		TotalStudents:   2,
		PresentStudents: 2,
	}

	s.SetDate("2024-03-15")

	assert.Equal(t, "2024-03-15", s.Date)
	for _, r := range s.AttendanceRecords {
		assert.Equal(t, "2024-03-15", r.Date)
	}
	assert.Zero(t, s.AbsentStudents())
}

func TestStudentFullName(t *testing.T) {
	s := StudentInput{Nombre: "Ana", Apellido: "Diaz", Diplomatura: "TANGO"}.ToStudent("s-1")
	assert.Equal(t, "s-1", s.ID)
	assert.Equal(t, "Ana Diaz", s.FullName())
}
