package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ezequiel-arevalo/uba-bedelia/internal/dataprocessing"
	"github.com/ezequiel-arevalo/uba-bedelia/internal/shared/testutil"
	"github.com/ezequiel-arevalo/uba-bedelia/internal/storage"
	"github.com/ezequiel-arevalo/uba-bedelia/pkg/contracts/domain"
)

var fixedNow = time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sequentialIDs(prefix string) func() string {
	var n atomic.Int64
	return func() string {
		return fmt.Sprintf("%s-%d", prefix, n.Add(1))
	}
}

type testEnv struct {
	svc  *AttendanceService
	repo *storage.Repository
	reg  *prometheus.Registry
	logs *testutil.LogCapture
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithKV(t, storage.NewMemoryKV())
}

func newTestEnvWithKV(t *testing.T, kv storage.KV) *testEnv {
	t.Helper()
	logger, logs := testutil.NewTestLogger(t)
	repo := storage.NewRepository(kv)
	reg := prometheus.NewRegistry()
	parser := dataprocessing.NewParser(logger,
		dataprocessing.WithClock(func() time.Time { return fixedNow }),
		dataprocessing.WithIDGenerator(sequentialIDs("rec")))

	svc := NewAttendanceService(repo,
		WithLogger(logger),
		WithParser(parser),
		WithMetrics(NewMetrics(reg)),
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(sequentialIDs("id")),
	)
	return &testEnv{svc: svc, repo: repo, reg: reg, logs: logs}
}

func (e *testEnv) addDiplomatura(t *testing.T, name string, classes int) domain.Diplomatura {
	t.Helper()
	d, err := e.svc.AddDiplomatura(context.Background(), domain.DiplomaturaInput{Name: name, TotalClasses: classes})
	require.NoError(t, err)
	return d
}

func (e *testEnv) addStudent(t *testing.T, nombre, apellido, diplomatura, id string) domain.Student {
	t.Helper()
	s, err := e.svc.AddStudent(context.Background(), testutil.StudentInput(nombre, apellido, diplomatura, id))
	require.NoError(t, err)
	return s
}

var attendanceCSV = testutil.AttendanceCSV

// counterValue reads a counter from the registry by name and labels.
func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			match := true
			for _, lp := range m.GetLabel() {
				if want, ok := labels[lp.GetName()]; ok && want != lp.GetValue() {
					match = false
				}
			}
			if match {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

// mockKV lets tests fail storage writes.
type mockKV struct {
	mock.Mock
	inner *storage.MemoryKV
}

func (m *mockKV) Get(ctx context.Context, slot storage.Slot) ([]byte, bool, error) {
	return m.inner.Get(ctx, slot)
}

func (m *mockKV) GetAll(ctx context.Context, slots []storage.Slot) (map[storage.Slot][]byte, error) {
	return m.inner.GetAll(ctx, slots)
}

func (m *mockKV) PutAll(ctx context.Context, values map[storage.Slot][]byte) error {
	args := m.Called(ctx, values)
	if err := args.Error(0); err != nil {
		return err
	}
	return m.inner.PutAll(ctx, values)
}
