package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "github.com/ezequiel-arevalo/uba-bedelia/internal/errors"
	"github.com/ezequiel-arevalo/uba-bedelia/internal/storage"
	"github.com/ezequiel-arevalo/uba-bedelia/pkg/contracts/domain"
)

// seedTango records 15 TANGO sessions; Ana attends the first anaPresent.
func seedTango(t *testing.T, env *testEnv, totalClasses, anaPresent int) {
	t.Helper()
	env.addDiplomatura(t, "TANGO", totalClasses)
	env.addStudent(t, "Ana", "Diaz", "TANGO", "A1")
	env.addStudent(t, "Luis", "Paz", "TANGO", "L2")

	reqs := make([]ImportRequest, 15)
	for i := range reqs {
		names := []string{"Luis Paz"}
		if i < anaPresent {
			names = append(names, "MARÍA x", "ana  diaz")
		}
		reqs[i] = ImportRequest{
			FileName:    fmt.Sprintf("tango_%02d-03-24.csv", i+1),
			Diplomatura: "TANGO",
			Data:        attendanceCSV(names...),
		}
	}
	_, err := env.svc.ImportBatch(context.Background(), reqs)
	require.NoError(t, err)
}

func findStudent(t *testing.T, students []domain.StudentWithAttendance, id string) domain.StudentWithAttendance {
	t.Helper()
	for _, s := range students {
		if s.IDEstudiante == id {
			return s
		}
	}
	t.Fatalf("student %s not in view", id)
	return domain.StudentWithAttendance{}
}

func TestViewAttendanceScenario(t *testing.T) {
	env := newTestEnv(t)
	seedTango(t, env, 20, 12)

	view, err := env.svc.View(context.Background(), domain.Filters{}, domain.SortConfig{})
	require.NoError(t, err)
	require.Len(t, view.Students, 2)

	ana := findStudent(t, view.Students, "A1")
	assert.Equal(t, 12, ana.AttendedClasses)
	assert.Equal(t, 20, ana.TotalClassesForDiplomatura)
	assert.InDelta(t, 60.0, ana.AttendancePercentage, 1e-9)
	assert.False(t, ana.Aprobado)

	luis := findStudent(t, view.Students, "L2")
	assert.Equal(t, 15, luis.AttendedClasses)
	assert.True(t, luis.Aprobado)

	assert.Equal(t, 2, view.Stats.TotalStudents)
	assert.Equal(t, 1, view.Stats.ApprovedStudents)
	assert.Equal(t, 1, view.Stats.NotApprovedStudents)
	assert.InDelta(t, 67.5, view.Stats.AverageAttendance, 1e-9)
}

func TestViewFilterAndSort(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	seedTango(t, env, 20, 12)
	env.addStudent(t, "Eva", "Sol", "SALSA", "E3")

	view, err := env.svc.View(ctx, domain.Filters{Aprobado: domain.ApprovalNoAprobado}, domain.SortConfig{})
	require.NoError(t, err)
	var ids []string
	for _, s := range view.Students {
		ids = append(ids, s.IDEstudiante)
	}
	assert.Equal(t, []string{"A1", "E3"}, ids, "input order kept")
	assert.Equal(t, 2, view.Stats.NotApprovedStudents)

	eva := findStudent(t, view.Students, "E3")
	assert.Equal(t, 20, eva.TotalClassesForDiplomatura, "unconfigured diplomatura defaults to 20")

	view, err = env.svc.View(ctx, domain.Filters{Diplomatura: []string{"TANGO"}}, domain.SortConfig{Key: domain.SortIDEstudiante, Direction: domain.SortDesc})
	require.NoError(t, err)
	require.Len(t, view.Students, 2)
	assert.Equal(t, "L2", view.Students[0].IDEstudiante)

	_, err = env.svc.View(ctx, domain.Filters{}, domain.SortConfig{Key: "telefono"})
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
}

func TestExportBackup(t *testing.T) {
	env := newTestEnv(t)
	seedTango(t, env, 15, 15)

	var buf bytes.Buffer
	require.NoError(t, env.svc.ExportBackup(context.Background(), &buf, time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Estudiantes")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "100.0%", rows[1][8])
	assert.Equal(t, "Aprobado", rows[1][9])

	detail, err := f.GetRows("Asistencia Detallada")
	require.NoError(t, err)
	assert.Len(t, detail, 1+15*3)
}

func TestExportStudentsCSV(t *testing.T) {
	env := newTestEnv(t)
	seedTango(t, env, 20, 12)

	var buf bytes.Buffer
	err := env.svc.ExportStudentsCSV(context.Background(), &buf,
		domain.Filters{Aprobado: domain.ApprovalAprobado}, domain.SortConfig{})
	require.NoError(t, err)

	data := buf.Bytes()
	require.True(t, bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}))
	records, err := csv.NewReader(bytes.NewReader(data[3:])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "L2", records[1][0])
}

func TestExportSession(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.addDiplomatura(t, "TANGO", 20)
	imported, err := env.svc.ImportSession(ctx, ImportRequest{FileName: "tango_15-03-24.csv", Diplomatura: "TANGO", Data: attendanceCSV("Ana Diaz")})
	require.NoError(t, err)

	var buf bytes.Buffer
	session, err := env.svc.ExportSession(ctx, imported.ID, &buf)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", session.Date)
	assert.NotZero(t, buf.Len())

	_, err = env.svc.ExportSession(ctx, "missing", &buf)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
}

func TestViewDuringDiplomaturaDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seed := storage.Snapshot{
		Diplomaturas: []domain.Diplomatura{{ID: "d1", Name: "TANGO", TotalClasses: 4, CreatedAt: fixedNow}},
		Students:     []domain.Student{{ID: "s1", Nombre: "Ana", Apellido: "Diaz", Diplomatura: "TANGO", IDEstudiante: "A1"}},
	}

	done := make(chan struct{})
	orphans := make(chan int, 1)
	go func() {
		n := 0
		for {
			select {
			case <-done:
				orphans <- n
				return
			default:
			}
			view, err := env.svc.View(ctx, domain.Filters{}, domain.SortConfig{})
			if err != nil {
				continue
			}
			for _, s := range view.Students {
				if s.TotalClassesForDiplomatura != 4 {
					n++
				}
			}
		}
	}()

	for i := 0; i < 2000; i++ {
		require.NoError(t, env.repo.Replace(ctx, seed))
		_, err := env.svc.DeleteDiplomatura(ctx, "d1")
		require.NoError(t, err)
	}
	close(done)

	assert.Zero(t, <-orphans, "a view saw a student whose diplomatura was already deleted")
}
