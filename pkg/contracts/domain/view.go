package domain

import "slices"

// ApprovalFilter narrows the view by pass/fail status.
type ApprovalFilter string

const (
	ApprovalAll        ApprovalFilter = "all"
	ApprovalAprobado   ApprovalFilter = "aprobado"
	ApprovalNoAprobado ApprovalFilter = "no-aprobado"
)

// DiplomaturaAll in a diplomatura filter lets every student through.
const DiplomaturaAll = "all"

// Filters selects which students appear in the attendance view. Zero values
// mean "no restriction" for every field.
type Filters struct {
	Search      string         `json:"search"`
	Diplomatura []string       `json:"diplomatura"`
	Aprobado    ApprovalFilter `json:"aprobado"`
}

// AllDiplomaturas reports whether the diplomatura filter lets everyone through.
func (f Filters) AllDiplomaturas() bool {
	return len(f.Diplomatura) == 0 || slices.Contains(f.Diplomatura, DiplomaturaAll)
}

// SortKey names a sortable column of the attendance view.
type SortKey string

const (
	SortNone         SortKey = ""
	SortIDEstudiante SortKey = "idEstudiante"
	SortAprobado     SortKey = "aprobado"
)

// SortDirection is asc or desc.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortConfig is the active sort. An empty Key disables sorting.
type SortConfig struct {
	Key       SortKey       `json:"key"`
	Direction SortDirection `json:"direction"`
}

// Toggle returns the config that results from selecting key: the same key
// flips direction, a different key starts ascending.
func (s SortConfig) Toggle(key SortKey) SortConfig {
	if s.Key == key && s.Direction == SortAsc {
		return SortConfig{Key: key, Direction: SortDesc}
	}
	return SortConfig{Key: key, Direction: SortAsc}
}

// Valid reports whether the key is one the view can sort by.
func (k SortKey) Valid() bool {
	switch k {
	case SortNone, SortIDEstudiante, SortAprobado:
		return true
	}
	return false
}

// Stats summarizes a filtered attendance view.
type Stats struct {
	TotalStudents       int     `json:"totalStudents"`
	ApprovedStudents    int     `json:"approvedStudents"`
	NotApprovedStudents int     `json:"notApprovedStudents"`
	AverageAttendance   float64 `json:"averageAttendance"`
}
