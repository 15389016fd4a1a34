package exporter

import (
	"strconv"

	"github.com/ezequiel-arevalo/uba-bedelia/internal/attendance"
	"github.com/ezequiel-arevalo/uba-bedelia/pkg/contracts/domain"
)

// StudentHeaders are the columns of the student list in both the backup
// workbook and the CSV export.
var StudentHeaders = []string{
	"ID Estudiante", "Nombre", "Apellido", "Email", "Teléfono", "Diplomatura",
	"Clases Asistidas", "Total Clases", "Porcentaje Asistencia", "Estado",
}

var diplomaturaHeaders = []string{
	"Nombre", "Total Clases", "Clases Mínimas (75%)", "Estudiantes Inscriptos",
	"Estudiantes Aprobados", "Tasa Aprobación", "Fecha Creación",
}

var sessionHeaders = []string{
	"Fecha", "Diplomatura", "Archivo", "Total Estudiantes", "Presentes", "Ausentes",
	"Porcentaje Asistencia",
}

var detailHeaders = []string{
	"Fecha", "Diplomatura", "Estudiante", "ID Estudiante", "Presente", "Archivo",
}

var summaryHeaders = []string{"Métrica", "Valor"}

func studentRow(s domain.StudentWithAttendance) []interface{} {
	return []interface{}{
		s.IDEstudiante,
		s.Nombre,
		s.Apellido,
		s.Email,
		s.Telefono,
		s.Diplomatura,
		s.AttendedClasses,
		s.TotalClassesForDiplomatura,
		formatPercent(s.AttendancePercentage),
		formatEstado(s.Aprobado),
	}
}

// StudentRecords renders students as CSV records matching StudentHeaders.
func StudentRecords(students []domain.StudentWithAttendance) [][]string {
	out := make([][]string, 0, len(students))
	for _, s := range students {
		row := studentRow(s)
		rec := make([]string, len(row))
		for i, v := range row {
			switch x := v.(type) {
			case string:
				rec[i] = x
			case int:
				rec[i] = strconv.Itoa(x)
			}
		}
		out = append(out, rec)
	}
	return out
}

func diplomaturaRows(data ExportData) [][]interface{} {
	summaries := attendance.SummarizeDiplomaturas(data.Diplomaturas, data.Students)
	out := make([][]interface{}, 0, len(summaries))
	for _, d := range summaries {
		out = append(out, []interface{}{
			d.Name,
			d.TotalClasses,
			d.RequiredClasses,
			d.Students,
			d.Approved,
			formatRate(d.Approved, d.Students),
			d.CreatedAt.Format(DateLayout),
		})
	}
	return out
}

func sessionRows(sessions []domain.ClassSession) [][]interface{} {
	out := make([][]interface{}, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, []interface{}{
			formatSessionDate(s.Date),
			s.Diplomatura,
			s.FileName,
			s.TotalStudents,
			s.PresentStudents,
			s.AbsentStudents(),
			formatRoundedRate(s.PresentStudents, s.TotalStudents),
		})
	}
	return out
}

// detailRows lists every attendance record, resolving the student id by
// normalized full name. Unmatched names get N/A.
func detailRows(data ExportData) [][]interface{} {
	ids := make(map[string]string, len(data.Students))
	for _, s := range data.Students {
		key := attendance.Normalize(s.FullName())
		if _, seen := ids[key]; !seen {
			ids[key] = s.IDEstudiante
		}
	}

	var out [][]interface{}
	for _, session := range data.Sessions {
		for _, r := range session.AttendanceRecords {
			id := ids[attendance.Normalize(r.StudentName)]
			if id == "" {
				id = "N/A"
			}
			out = append(out, []interface{}{
				formatSessionDate(session.Date),
				session.Diplomatura,
				r.StudentName,
				id,
				formatPresent(r.Present),
				session.FileName,
			})
		}
	}
	return out
}

func summaryRows(data ExportData, now string) [][]interface{} {
	stats := attendance.ComputeStats(data.Students)
	return [][]interface{}{
		{"Total Estudiantes", stats.TotalStudents},
		{"Estudiantes Aprobados", stats.ApprovedStudents},
		{"Estudiantes No Aprobados", stats.NotApprovedStudents},
		{"Tasa de Aprobación", formatRate(stats.ApprovedStudents, stats.TotalStudents)},
		{"Promedio de Asistencia", formatPercent(stats.AverageAttendance)},
		{"Total Diplomaturas", len(data.Diplomaturas)},
		{"Total Clases Registradas", len(data.Sessions)},
		{"Fecha de Exportación", now},
	}
}
