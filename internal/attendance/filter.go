package attendance

import (
	"slices"
	"strings"

	"github.com/ezequiel-arevalo/uba-bedelia/pkg/contracts/domain"
)

// FilterAndSort returns the students matching filters, ordered by sortCfg.
// The input slice is never modified and ties keep their input order.
func FilterAndSort(all []domain.StudentWithAttendance, filters domain.Filters, sortCfg domain.SortConfig) []domain.StudentWithAttendance {
	out := make([]domain.StudentWithAttendance, 0, len(all))
	for _, s := range all {
		if Matches(s, filters) {
			out = append(out, s)
		}
	}

	if sortCfg.Key == domain.SortNone {
		return out
	}

	desc := sortCfg.Direction == domain.SortDesc
	slices.SortStableFunc(out, func(a, b domain.StudentWithAttendance) int {
		c := compareBy(sortCfg.Key, a, b)
		if desc {
			return -c
		}
		return c
	})
	return out
}

// Matches reports whether a single student passes every filter.
func Matches(s domain.StudentWithAttendance, f domain.Filters) bool {
	return matchesSearch(s, f.Search) && matchesDiplomatura(s, f) && matchesApproval(s, f.Aprobado)
}

func matchesSearch(s domain.StudentWithAttendance, search string) bool {
	if search == "" {
		return true
	}
	term := strings.ToLower(search)
	for _, field := range []string{s.Nombre, s.Apellido, s.IDEstudiante, s.Telefono, s.Email, s.Diplomatura} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func matchesDiplomatura(s domain.StudentWithAttendance, f domain.Filters) bool {
	return f.AllDiplomaturas() || slices.Contains(f.Diplomatura, s.Diplomatura)
}

func matchesApproval(s domain.StudentWithAttendance, a domain.ApprovalFilter) bool {
	switch a {
	case "", domain.ApprovalAll:
		return true
	case domain.ApprovalAprobado:
		return s.Aprobado
	default:
		return !s.Aprobado
	}
}

func compareBy(key domain.SortKey, a, b domain.StudentWithAttendance) int {
	switch key {
	case domain.SortIDEstudiante:
		return strings.Compare(strings.ToLower(a.IDEstudiante), strings.ToLower(b.IDEstudiante))
	case domain.SortAprobado:
		return boolRank(a.Aprobado) - boolRank(b.Aprobado)
	}
	return 0
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}
