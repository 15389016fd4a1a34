package attendance

import (
	"github.com/ezequiel-arevalo/uba-bedelia/pkg/contracts/domain"
)

// ComputeStats summarizes a (usually filtered) attendance view. Empty input
// yields zero stats.
func ComputeStats(students []domain.StudentWithAttendance) domain.Stats {
	var stats domain.Stats
	stats.TotalStudents = len(students)
	if stats.TotalStudents == 0 {
		return stats
	}

	sum := 0.0
	for _, s := range students {
		if s.Aprobado {
			stats.ApprovedStudents++
		}
		sum += s.AttendancePercentage
	}
	stats.NotApprovedStudents = stats.TotalStudents - stats.ApprovedStudents
	stats.AverageAttendance = sum / float64(stats.TotalStudents)
	return stats
}

// SummarizeDiplomaturas reports enrollment and approval per configured
// diplomatura, in the order given. Students must already be aggregated.
func SummarizeDiplomaturas(diplomaturas []domain.Diplomatura, students []domain.StudentWithAttendance) []domain.DiplomaturaSummary {
	type tally struct{ enrolled, approved int }
	counts := make(map[string]*tally, len(diplomaturas))
	for _, s := range students {
		t, ok := counts[s.Diplomatura]
		if !ok {
			t = &tally{}
			counts[s.Diplomatura] = t
		}
		t.enrolled++
		if s.Aprobado {
			t.approved++
		}
	}

	out := make([]domain.DiplomaturaSummary, 0, len(diplomaturas))
	for _, d := range diplomaturas {
		sum := domain.DiplomaturaSummary{
			Name:            d.Name,
			TotalClasses:    d.TotalClasses,
			RequiredClasses: d.RequiredClasses(),
			CreatedAt:       d.CreatedAt,
		}
		if t, ok := counts[d.Name]; ok {
			sum.Students = t.enrolled
			sum.Approved = t.approved
			sum.ApprovalRate = float64(t.approved) / float64(t.enrolled) * 100
		}
		out = append(out, sum)
	}
	return out
}
