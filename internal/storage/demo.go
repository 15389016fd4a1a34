package storage

import (
	"time"

	"github.com/ezequiel-arevalo/uba-bedelia/pkg/contracts/domain"
)

// DemoSnapshot is the sample state offered on first run: one diplomatura,
// one student and one session where that student attended.
func DemoSnapshot() Snapshot {
	duration := 90
	return Snapshot{
		Diplomaturas: []domain.Diplomatura{{
			ID:           "1",
			Name:         "TANGO",
			TotalClasses: 20,
			CreatedAt:    time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC),
		}},
		Students: []domain.Student{{
			ID:           "1",
			Nombre:       "Ezequiel",
			Apellido:     "Arevalo",
			Telefono:     "+54 11 1234-5678",
			Email:        "ezequiel.arevalo@economicas.com",
			Diplomatura:  "TANGO",
			IDEstudiante: "001",
		}},
		Sessions: []domain.ClassSession{{
			ID:          "1",
			Date:        "2024-02-29",
			FileName:    "tango.csv",
			Diplomatura: "TANGO",
			AttendanceRecords: []domain.AttendanceRecord{{
				ID:          "1",
				StudentName: "Ezequiel Arevalo",
				Date:        "2024-02-29",
				Present:     true,
				Duration:    &duration,
			}},
			TotalStudents:   1,
			PresentStudents: 1,
		}},
	}
}
