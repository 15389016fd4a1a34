package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ezequiel-arevalo/uba-bedelia/internal/errors"
	"github.com/ezequiel-arevalo/uba-bedelia/pkg/contracts/domain"
)

func TestRepositoryEmptyLoad(t *testing.T) {
	repo := NewRepository(NewMemoryKV())

	snap, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, snap.Students)
	assert.Empty(t, snap.Students)
	assert.Empty(t, snap.Sessions)
	assert.Empty(t, snap.Diplomaturas)
}

func TestRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv, _ := newFileKV(t)
	repo := NewRepository(kv)

	demo := DemoSnapshot()
	require.NoError(t, repo.Replace(ctx, demo))

	got, err := NewRepository(kv).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, demo.Students, got.Students)
	assert.Equal(t, demo.Sessions, got.Sessions)
	require.Len(t, got.Diplomaturas, 1)
	assert.Equal(t, "TANGO", got.Diplomaturas[0].Name)
	assert.True(t, demo.Diplomaturas[0].CreatedAt.Equal(got.Diplomaturas[0].CreatedAt))
}

func TestRepositorySavePartial(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(NewMemoryKV())
	require.NoError(t, repo.Replace(ctx, DemoSnapshot()))

	require.NoError(t, repo.Save(ctx, Changes{Students: []domain.Student{}}))

	snap, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap.Students)
	assert.Len(t, snap.Sessions, 1, "untouched collections stay")
	assert.Len(t, snap.Diplomaturas, 1)

	assert.NoError(t, repo.Save(ctx, Changes{}))
}

func TestRepositoryCorruptSlot(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	require.NoError(t, kv.PutAll(ctx, map[Slot][]byte{SlotSessions: []byte("{not json")}))

	_, err := NewRepository(kv).Load(ctx)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeStorage))
}

func TestDemoSnapshotConsistent(t *testing.T) {
	demo := DemoSnapshot()
	require.Len(t, demo.Sessions, 1)
	s := demo.Sessions[0]
	assert.Equal(t, len(s.AttendanceRecords), s.TotalStudents)
	assert.Equal(t, s.TotalStudents, s.PresentStudents)
	assert.Equal(t, demo.Diplomaturas[0].Name, demo.Students[0].Diplomatura)
}

func TestRepositoryInitialized(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(NewMemoryKV())

	ok, err := repo.Initialized(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Save(ctx, Changes{Diplomaturas: []domain.Diplomatura{}}))
	ok, err = repo.Initialized(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRepositoryLoadSeesWholeSaves(t *testing.T) {
	fileKV, _ := newFileKV(t)
	stores := map[string]KV{
		"memory": NewMemoryKV(),
		"file":   fileKV,
	}

	full := Snapshot{
		Students:     []domain.Student{{ID: "s1", Diplomatura: "TANGO"}},
		Sessions:     []domain.ClassSession{{ID: "c1", Diplomatura: "TANGO"}},
		Diplomaturas: []domain.Diplomatura{{ID: "d1", Name: "TANGO", TotalClasses: 4}},
	}

	for name, kv := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := NewRepository(kv)
			require.NoError(t, repo.Replace(ctx, full))

			done := make(chan struct{})
			torn := make(chan int, 1)
			go func() {
				n := 0
				for {
					select {
					case <-done:
						torn <- n
						return
					default:
					}
					snap, err := repo.Load(ctx)
					if err != nil {
						continue
					}
					// Every collection is either fully seeded or fully cleared.
					if len(snap.Students) != len(snap.Diplomaturas) || len(snap.Sessions) != len(snap.Diplomaturas) {
						n++
					}
				}
			}()

			for i := 0; i < 500; i++ {
				require.NoError(t, repo.Replace(ctx, Snapshot{}))
				require.NoError(t, repo.Replace(ctx, full))
			}
			close(done)

			assert.Zero(t, <-torn, "Load returned collections from different saves")
		})
	}
}
