package services

import (
	"context"
	"log/slog"
	"slices"

	"github.com/ezequiel-arevalo/uba-bedelia/internal/attendance"
	apperrors "github.com/ezequiel-arevalo/uba-bedelia/internal/errors"
	"github.com/ezequiel-arevalo/uba-bedelia/internal/storage"
	"github.com/ezequiel-arevalo/uba-bedelia/pkg/contracts/domain"
)

// CascadeResult reports what a diplomatura deletion removed.
type CascadeResult struct {
	Diplomatura     domain.Diplomatura `json:"diplomatura"`
	StudentsRemoved int                `json:"studentsRemoved"`
	SessionsRemoved int                `json:"sessionsRemoved"`
}

// Diplomaturas returns every diplomatura.
func (s *AttendanceService) Diplomaturas(ctx context.Context) ([]domain.Diplomatura, error) {
	return s.repo.Diplomaturas(ctx)
}

// AddDiplomatura validates the input and stores a new diplomatura.
func (s *AttendanceService) AddDiplomatura(ctx context.Context, in domain.DiplomaturaInput) (domain.Diplomatura, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	diplomaturas, err := s.repo.Diplomaturas(ctx)
	if err != nil {
		return domain.Diplomatura{}, err
	}
	in, err = s.entities.ValidateDiplomatura(in, diplomaturas, "")
	if err != nil {
		return domain.Diplomatura{}, err
	}

	d := domain.Diplomatura{
		ID:           s.newID(),
		Name:         in.Name,
		TotalClasses: in.TotalClasses,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repo.Save(ctx, storage.Changes{Diplomaturas: append(diplomaturas, d)}); err != nil {
		return domain.Diplomatura{}, err
	}

	s.metrics.mutation("diplomatura", "create")
	s.logger.InfoContext(ctx, "diplomatura added",
		slog.String("diplomatura_id", d.ID),
		slog.String("name", d.Name),
		slog.Int("total_classes", d.TotalClasses))
	return d, nil
}

// UpdateDiplomatura changes name and class count of diplomatura id.
// Students and sessions keep the name they were stored with.
func (s *AttendanceService) UpdateDiplomatura(ctx context.Context, id string, in domain.DiplomaturaInput) (domain.Diplomatura, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	diplomaturas, err := s.repo.Diplomaturas(ctx)
	if err != nil {
		return domain.Diplomatura{}, err
	}
	i := slices.IndexFunc(diplomaturas, func(d domain.Diplomatura) bool { return d.ID == id })
	if i < 0 {
		return domain.Diplomatura{}, apperrors.NewNotFoundError("diplomatura", id)
	}
	in, err = s.entities.ValidateDiplomatura(in, diplomaturas, id)
	if err != nil {
		return domain.Diplomatura{}, err
	}

	diplomaturas[i].Name = in.Name
	diplomaturas[i].TotalClasses = in.TotalClasses
	if err := s.repo.Save(ctx, storage.Changes{Diplomaturas: diplomaturas}); err != nil {
		return domain.Diplomatura{}, err
	}

	s.metrics.mutation("diplomatura", "update")
	s.logger.InfoContext(ctx, "diplomatura updated", slog.String("diplomatura_id", id))
	return diplomaturas[i], nil
}

// DeleteDiplomatura removes diplomatura id together with every student and
// class session that references its name. All three collections are
// written in one Save.
func (s *AttendanceService) DeleteDiplomatura(ctx context.Context, id string) (CascadeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.repo.Load(ctx)
	if err != nil {
		return CascadeResult{}, err
	}
	i := slices.IndexFunc(snap.Diplomaturas, func(d domain.Diplomatura) bool { return d.ID == id })
	if i < 0 {
		return CascadeResult{}, apperrors.NewNotFoundError("diplomatura", id)
	}
	target := snap.Diplomaturas[i]

	students := slices.DeleteFunc(slices.Clone(snap.Students), func(st domain.Student) bool {
		return st.Diplomatura == target.Name
	})
	sessions := slices.DeleteFunc(slices.Clone(snap.Sessions), func(cs domain.ClassSession) bool {
		return cs.Diplomatura == target.Name
	})
	diplomaturas := slices.Delete(slices.Clone(snap.Diplomaturas), i, i+1)

	err = s.repo.Save(ctx, storage.Changes{
		Students:     nonNil(students),
		Sessions:     nonNil(sessions),
		Diplomaturas: nonNil(diplomaturas),
	})
	if err != nil {
		return CascadeResult{}, err
	}

	result := CascadeResult{
		Diplomatura:     target,
		StudentsRemoved: len(snap.Students) - len(students),
		SessionsRemoved: len(snap.Sessions) - len(sessions),
	}
	s.metrics.mutation("diplomatura", "delete")
	s.logger.InfoContext(ctx, "diplomatura deleted",
		slog.String("diplomatura_id", id),
		slog.String("name", target.Name),
		slog.Int("students_removed", result.StudentsRemoved),
		slog.Int("sessions_removed", result.SessionsRemoved))
	return result, nil
}

// StudentCountByDiplomatura counts students enrolled in the named
// diplomatura, which is what a deletion would remove.
func (s *AttendanceService) StudentCountByDiplomatura(ctx context.Context, name string) (int, error) {
	students, err := s.repo.Students(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, st := range students {
		if st.Diplomatura == name {
			n++
		}
	}
	return n, nil
}

// DiplomaturaSummaries reports enrollment and approval per diplomatura.
func (s *AttendanceService) DiplomaturaSummaries(ctx context.Context) ([]domain.DiplomaturaSummary, error) {
	snap, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	students := attendance.Aggregate(snap.Students, snap.Diplomaturas, snap.Sessions, s.policy)
	return attendance.SummarizeDiplomaturas(snap.Diplomaturas, students), nil
}

// nonNil turns a nil slice into an empty one so Save still replaces the
// collection.
func nonNil[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}
