package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/ezequiel-arevalo/uba-bedelia/internal/files"
)

// Slot names a persisted collection.
type Slot string

const (
	SlotStudents     Slot = "students-data"
	SlotSessions     Slot = "class-sessions"
	SlotDiplomaturas Slot = "diplomaturas-data"
)

// Slots lists every slot in load order.
var Slots = []Slot{SlotStudents, SlotSessions, SlotDiplomaturas}

// KV is a whole-value key-value store keyed by slot.
type KV interface {
	// Get returns the stored bytes and whether the slot has ever been written.
	Get(ctx context.Context, slot Slot) ([]byte, bool, error)
	// GetAll reads the given slots as one consistent generation. Slots
	// never written are absent from the result.
	GetAll(ctx context.Context, slots []Slot) (map[Slot][]byte, error)
	// PutAll replaces every given slot. GetAll never observes a subset.
	PutAll(ctx context.Context, values map[Slot][]byte) error
}

// MemoryKV is an in-memory implementation of KV
type MemoryKV struct {
	mu     sync.RWMutex
	values map[Slot][]byte
}

// NewMemoryKV creates a new in-memory store
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[Slot][]byte)}
}

// Get retrieves a copy of the slot value
func (m *MemoryKV) Get(ctx context.Context, slot Slot) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[slot]
	if !ok {
		return nil, false, nil
	}
	// Return a copy to prevent external modification
	return append([]byte(nil), v...), true, nil
}

// GetAll copies the requested slots under one read lock
func (m *MemoryKV) GetAll(ctx context.Context, slots []Slot) (map[Slot][]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[Slot][]byte, len(slots))
	for _, slot := range slots {
		if v, ok := m.values[slot]; ok {
			out[slot] = append([]byte(nil), v...)
		}
	}
	return out, nil
}

// PutAll stores copies of all values under one lock
func (m *MemoryKV) PutAll(ctx context.Context, values map[Slot][]byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for slot, v := range values {
		m.values[slot] = append([]byte(nil), v...)
	}
	return nil
}

// FileKV stores each slot as <slot>.json in the data directory.
type FileKV struct {
	mu    sync.RWMutex
	files *files.Manager
}

// NewFileKV creates a file-backed store on top of the file manager
func NewFileKV(fm *files.Manager) *FileKV {
	return &FileKV{files: fm}
}

func slotFile(slot Slot) string {
	return string(slot) + ".json"
}

// Get reads the slot file. A missing file means the slot was never written.
func (f *FileKV) Get(ctx context.Context, slot Slot) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.read(slot)
}

// GetAll reads every requested slot file under one read lock, so a
// concurrent PutAll lands either before or after the whole read.
func (f *FileKV) GetAll(ctx context.Context, slots []Slot) (map[Slot][]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make(map[Slot][]byte, len(slots))
	for _, slot := range slots {
		data, ok, err := f.read(slot)
		if err != nil {
			return nil, err
		}
		if ok {
			out[slot] = data
		}
	}
	return out, nil
}

func (f *FileKV) read(slot Slot) ([]byte, bool, error) {
	name := slotFile(slot)
	if !f.files.FileExists(name) {
		return nil, false, nil
	}
	data, err := f.files.ReadFile(name)
	if err != nil {
		return nil, false, fmt.Errorf("read slot %s: %w", slot, err)
	}
	return data, true, nil
}

// PutAll writes each slot file atomically while holding the write lock.
// A crash between two files can still leave slots from different
// generations on disk. Within this process GetAll never sees that.
func (f *FileKV) PutAll(ctx context.Context, values map[Slot][]byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, slot := range Slots {
		v, ok := values[slot]
		if !ok {
			continue
		}
		if err := f.files.WriteFileAtomic(slotFile(slot), v); err != nil {
			return fmt.Errorf("write slot %s: %w", slot, err)
		}
	}
	return nil
}
