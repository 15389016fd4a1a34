package storage

import (
	"context"
	"encoding/json"
	"fmt"

	apperrors "github.com/ezequiel-arevalo/uba-bedelia/internal/errors"
	"github.com/ezequiel-arevalo/uba-bedelia/pkg/contracts/domain"
)

// Snapshot is the full persisted state.
type Snapshot struct {
	Students     []domain.Student
	Sessions     []domain.ClassSession
	Diplomaturas []domain.Diplomatura
}

// Changes holds whole-collection replacements. Nil fields are left alone;
// an empty non-nil slice clears the collection.
type Changes struct {
	Students     []domain.Student
	Sessions     []domain.ClassSession
	Diplomaturas []domain.Diplomatura
}

// Empty reports whether no collection is replaced.
func (c Changes) Empty() bool {
	return c.Students == nil && c.Sessions == nil && c.Diplomaturas == nil
}

// Repository reads and writes typed collections through a KV.
type Repository struct {
	kv KV
}

// NewRepository creates a repository over kv
func NewRepository(kv KV) *Repository {
	return &Repository{kv: kv}
}

// Load reads all three collections from one KV generation, so a reader
// racing a multi-collection Save sees the state before or after it.
// Slots never written load as empty.
func (r *Repository) Load(ctx context.Context) (Snapshot, error) {
	values, err := r.kv.GetAll(ctx, Slots)
	if err != nil {
		return Snapshot{}, apperrors.NewStorageError("failed to read data", err)
	}

	snap := Snapshot{
		Students:     []domain.Student{},
		Sessions:     []domain.ClassSession{},
		Diplomaturas: []domain.Diplomatura{},
	}
	if err := decode(values[SlotStudents], SlotStudents, &snap.Students); err != nil {
		return Snapshot{}, err
	}
	if err := decode(values[SlotSessions], SlotSessions, &snap.Sessions); err != nil {
		return Snapshot{}, err
	}
	if err := decode(values[SlotDiplomaturas], SlotDiplomaturas, &snap.Diplomaturas); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// Initialized reports whether any collection has ever been written.
func (r *Repository) Initialized(ctx context.Context) (bool, error) {
	for _, slot := range Slots {
		_, ok, err := r.kv.Get(ctx, slot)
		if err != nil {
			return false, apperrors.NewStorageError(fmt.Sprintf("failed to read %s", slot), err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// Students returns the persisted students.
func (r *Repository) Students(ctx context.Context) ([]domain.Student, error) {
	out := []domain.Student{}
	return out, r.read(ctx, SlotStudents, &out)
}

// Sessions returns the persisted class sessions.
func (r *Repository) Sessions(ctx context.Context) ([]domain.ClassSession, error) {
	out := []domain.ClassSession{}
	return out, r.read(ctx, SlotSessions, &out)
}

// Diplomaturas returns the persisted diplomaturas.
func (r *Repository) Diplomaturas(ctx context.Context) ([]domain.Diplomatura, error) {
	out := []domain.Diplomatura{}
	return out, r.read(ctx, SlotDiplomaturas, &out)
}

// Save writes every non-nil collection in one PutAll.
func (r *Repository) Save(ctx context.Context, c Changes) error {
	if c.Empty() {
		return nil
	}

	values := make(map[Slot][]byte, 3)
	if c.Students != nil {
		if err := encode(values, SlotStudents, c.Students); err != nil {
			return err
		}
	}
	if c.Sessions != nil {
		if err := encode(values, SlotSessions, c.Sessions); err != nil {
			return err
		}
	}
	if c.Diplomaturas != nil {
		if err := encode(values, SlotDiplomaturas, c.Diplomaturas); err != nil {
			return err
		}
	}

	if err := r.kv.PutAll(ctx, values); err != nil {
		return apperrors.NewStorageError("failed to save data", err)
	}
	return nil
}

// Replace overwrites the whole state with snap.
func (r *Repository) Replace(ctx context.Context, snap Snapshot) error {
	c := Changes{
		Students:     snap.Students,
		Sessions:     snap.Sessions,
		Diplomaturas: snap.Diplomaturas,
	}
	if c.Students == nil {
		c.Students = []domain.Student{}
	}
	if c.Sessions == nil {
		c.Sessions = []domain.ClassSession{}
	}
	if c.Diplomaturas == nil {
		c.Diplomaturas = []domain.Diplomatura{}
	}
	return r.Save(ctx, c)
}

func (r *Repository) read(ctx context.Context, slot Slot, dst interface{}) error {
	data, ok, err := r.kv.Get(ctx, slot)
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to read %s", slot), err)
	}
	if !ok {
		return nil
	}
	return decode(data, slot, dst)
}

func decode(data []byte, slot Slot, dst interface{}) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("corrupt %s", slot), err)
	}
	return nil
}

func encode(values map[Slot][]byte, slot Slot, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to encode %s", slot), err)
	}
	values[slot] = data
	return nil
}
