package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ezequiel-arevalo/uba-bedelia/internal/errors"
	"github.com/ezequiel-arevalo/uba-bedelia/internal/storage"
	"github.com/ezequiel-arevalo/uba-bedelia/pkg/contracts/domain"
)

func TestInitialize(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	wrote, err := env.svc.Initialize(ctx, true)
	require.NoError(t, err)
	assert.True(t, wrote)

	students, err := env.svc.Students(ctx)
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "Ezequiel", students[0].Nombre)

	wrote, err = env.svc.Initialize(ctx, false)
	require.NoError(t, err)
	assert.False(t, wrote, "existing data is never overwritten")
}

func TestStudentCRUD(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	ana := env.addStudent(t, " Ana ", "Diaz", "TANGO", "A1")
	assert.Equal(t, "Ana", ana.Nombre, "input is trimmed")
	assert.NotEmpty(t, ana.ID)

	in := domain.StudentInput{
		Nombre: "Ana", Apellido: "Díaz", Telefono: "1", Email: "ana@example.com",
		Diplomatura: "SALSA", IDEstudiante: "A1",
	}
	updated, err := env.svc.UpdateStudent(ctx, ana.ID, in)
	require.NoError(t, err)
	assert.Equal(t, ana.ID, updated.ID)
	assert.Equal(t, "SALSA", updated.Diplomatura)

	_, err = env.svc.UpdateStudent(ctx, "missing", in)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))

	require.NoError(t, env.svc.DeleteStudent(ctx, ana.ID))
	students, err := env.svc.Students(ctx)
	require.NoError(t, err)
	assert.Empty(t, students)

	err = env.svc.DeleteStudent(ctx, ana.ID)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))

	assert.Equal(t, 1.0, counterValue(t, env.reg, "bedelia_mutations_total", map[string]string{"entity": "student", "op": "delete"}))
}

func TestAddStudentValidation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.AddStudent(context.Background(), domain.StudentInput{Nombre: "Ana"})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrTypeValidation, appErr.Type)
	assert.Len(t, appErr.Fields, 5)

	students, err := env.svc.Students(context.Background())
	require.NoError(t, err)
	assert.Empty(t, students, "nothing saved")
}

func TestDiplomaturaLifecycle(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	tango := env.addDiplomatura(t, "TANGO", 20)
	assert.Equal(t, fixedNow, tango.CreatedAt)
	env.addDiplomatura(t, "SALSA", 10)

	_, err := env.svc.AddDiplomatura(ctx, domain.DiplomaturaInput{Name: "tango", TotalClasses: 5})
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))

	updated, err := env.svc.UpdateDiplomatura(ctx, tango.ID, domain.DiplomaturaInput{Name: "TANGO", TotalClasses: 24})
	require.NoError(t, err)
	assert.Equal(t, 24, updated.TotalClasses)
	assert.True(t, tango.CreatedAt.Equal(updated.CreatedAt))

	_, err = env.svc.UpdateDiplomatura(ctx, tango.ID, domain.DiplomaturaInput{Name: "Salsa", TotalClasses: 24})
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))

	_, err = env.svc.UpdateDiplomatura(ctx, "missing", domain.DiplomaturaInput{Name: "X", TotalClasses: 1})
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
}

func TestDeleteDiplomaturaCascade(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	tango := env.addDiplomatura(t, "TANGO", 20)
	env.addDiplomatura(t, "SALSA", 10)
	env.addStudent(t, "Ana", "Diaz", "TANGO", "A1")
	env.addStudent(t, "Luis", "Paz", "TANGO", "L2")
	keep := env.addStudent(t, "Eva", "Sol", "SALSA", "E3")

	_, err := env.svc.ImportSession(ctx, ImportRequest{FileName: "tango_15-03-24.csv", Diplomatura: "TANGO", Data: attendanceCSV("Ana Diaz")})
	require.NoError(t, err)
	salsa, err := env.svc.ImportSession(ctx, ImportRequest{FileName: "salsa_15-03-24.csv", Diplomatura: "SALSA", Data: attendanceCSV("Eva Sol")})
	require.NoError(t, err)

	count, err := env.svc.StudentCountByDiplomatura(ctx, "TANGO")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	result, err := env.svc.DeleteDiplomatura(ctx, tango.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, result.StudentsRemoved)
	assert.Equal(t, 1, result.SessionsRemoved)

	snap, err := env.repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Students, 1)
	assert.Equal(t, keep.ID, snap.Students[0].ID)
	require.Len(t, snap.Sessions, 1)
	assert.Equal(t, salsa.ID, snap.Sessions[0].ID)
	require.Len(t, snap.Diplomaturas, 1)
	assert.Equal(t, "SALSA", snap.Diplomaturas[0].Name)

	_, err = env.svc.DeleteDiplomatura(ctx, tango.ID)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
}

func TestDeleteDiplomaturaStorageFailureLeavesState(t *testing.T) {
	ctx := context.Background()
	kv := &mockKV{inner: storage.NewMemoryKV()}
	env := newTestEnvWithKV(t, kv)

	kv.On("PutAll", mock.Anything, mock.Anything).Return(nil).Times(2)
	tango := env.addDiplomatura(t, "TANGO", 20)
	env.addStudent(t, "Ana", "Diaz", "TANGO", "A1")

	kv.On("PutAll", mock.Anything, mock.Anything).Return(assert.AnError).Once()
	_, err := env.svc.DeleteDiplomatura(ctx, tango.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeStorage))
	assert.ErrorIs(t, err, assert.AnError)

	snap, err := env.repo.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Students, 1)
	assert.Len(t, snap.Diplomaturas, 1)
	kv.AssertExpectations(t)
}

func TestDiplomaturaSummaries(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.addDiplomatura(t, "TANGO", 1)
	env.addStudent(t, "Ana", "Diaz", "TANGO", "A1")
	env.addStudent(t, "Luis", "Paz", "TANGO", "L2")

	_, err := env.svc.ImportSession(ctx, ImportRequest{FileName: "clase.csv", Diplomatura: "TANGO", Date: "2024-03-01", Data: attendanceCSV("ana diaz")})
	require.NoError(t, err)

	summaries, err := env.svc.DiplomaturaSummaries(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, 2, summaries[0].Students)
	assert.Equal(t, 1, summaries[0].Approved)
	assert.Equal(t, 50.0, summaries[0].ApprovalRate)
	assert.Equal(t, 1, summaries[0].RequiredClasses)
}
