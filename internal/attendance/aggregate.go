package attendance

import "github.com/ezequiel-arevalo/uba-bedelia/pkg/contracts/domain"

const (
	// DefaultPassPercentage is the attendance percentage needed to pass.
	DefaultPassPercentage = 75.0
	// DefaultTotalClasses is used for students whose diplomatura has no
	// configuration or a non-positive class count.
	DefaultTotalClasses = 20
)

// Policy holds the pass/fail rules applied by Aggregate.
type Policy struct {
	PassPercentage      float64
	DefaultTotalClasses int
}

// DefaultPolicy returns the 75% / 20 classes policy.
func DefaultPolicy() Policy {
	return Policy{
		PassPercentage:      DefaultPassPercentage,
		DefaultTotalClasses: DefaultTotalClasses,
	}
}

// Aggregate joins students with their diplomatura configuration and the
// recorded sessions. The result has one entry per student in input order.
func Aggregate(students []domain.Student, diplomaturas []domain.Diplomatura, sessions []domain.ClassSession, policy Policy) []domain.StudentWithAttendance {
	totals := make(map[string]int, len(diplomaturas))
	for _, d := range diplomaturas {
		if _, seen := totals[d.Name]; !seen {
			totals[d.Name] = d.TotalClasses
		}
	}

	byDiplomatura := indexSessions(sessions)

	out := make([]domain.StudentWithAttendance, 0, len(students))
	for _, s := range students {
		total, ok := totals[s.Diplomatura]
		if !ok || total <= 0 {
			total = policy.DefaultTotalClasses
		}

		key := Normalize(s.FullName())
		attended := 0
		for _, names := range byDiplomatura[s.Diplomatura] {
			if _, present := names[key]; present {
				attended++
			}
		}

		pct := 0.0
		if total > 0 {
			pct = float64(attended) / float64(total) * 100
		}

		out = append(out, domain.StudentWithAttendance{
			Student:                    s,
			AttendedClasses:            attended,
			TotalClassesForDiplomatura: total,
			AttendancePercentage:       pct,
			Aprobado:                   pct >= policy.PassPercentage,
		})
	}
	return out
}

// indexSessions groups sessions by diplomatura, reducing each one to the set
// of normalized names it lists.
func indexSessions(sessions []domain.ClassSession) map[string][]map[string]struct{} {
	idx := make(map[string][]map[string]struct{})
	for _, sess := range sessions {
		names := make(map[string]struct{}, len(sess.AttendanceRecords))
		for _, r := range sess.AttendanceRecords {
			names[Normalize(r.StudentName)] = struct{}{}
		}
		idx[sess.Diplomatura] = append(idx[sess.Diplomatura], names)
	}
	return idx
}
