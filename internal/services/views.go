package services

import (
	"context"
	"io"
	"time"

	"github.com/ezequiel-arevalo/uba-bedelia/internal/attendance"
	apperrors "github.com/ezequiel-arevalo/uba-bedelia/internal/errors"
	"github.com/ezequiel-arevalo/uba-bedelia/internal/exporter"
	"github.com/ezequiel-arevalo/uba-bedelia/pkg/contracts/domain"
)

// ViewResult is the filtered attendance view with its stats.
type ViewResult struct {
	Students []domain.StudentWithAttendance `json:"students"`
	Stats    domain.Stats                   `json:"stats"`
	Filters  domain.Filters                 `json:"filters"`
	Sort     domain.SortConfig              `json:"sort"`
}

// View aggregates attendance for every student, then filters and sorts.
// Stats describe the filtered list.
func (s *AttendanceService) View(ctx context.Context, filters domain.Filters, sortCfg domain.SortConfig) (ViewResult, error) {
	all, err := s.aggregated(ctx)
	if err != nil {
		return ViewResult{}, err
	}
	if !sortCfg.Key.Valid() {
		return ViewResult{}, apperrors.NewValidationFailure("Orden inválido", apperrors.ValidationError{
			Field:   "sort",
			Message: "Solo se puede ordenar por idEstudiante o aprobado",
		})
	}

	filtered := attendance.FilterAndSort(all, filters, sortCfg)
	return ViewResult{
		Students: filtered,
		Stats:    attendance.ComputeStats(filtered),
		Filters:  filters,
		Sort:     sortCfg,
	}, nil
}

// ExportBackup writes the full backup workbook for every student.
func (s *AttendanceService) ExportBackup(ctx context.Context, w io.Writer, now time.Time) error {
	snap, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}
	data := exporter.ExportData{
		Students:     attendance.Aggregate(snap.Students, snap.Diplomaturas, snap.Sessions, s.policy),
		Sessions:     snap.Sessions,
		Diplomaturas: snap.Diplomaturas,
	}
	if err := exporter.WriteBackup(w, data, now); err != nil {
		return apperrors.NewIOError("failed to write backup", err)
	}
	return nil
}

// ExportStudentsCSV writes the filtered, sorted student list as CSV.
func (s *AttendanceService) ExportStudentsCSV(ctx context.Context, w io.Writer, filters domain.Filters, sortCfg domain.SortConfig) error {
	view, err := s.View(ctx, filters, sortCfg)
	if err != nil {
		return err
	}
	err = exporter.EncodeCSV(w, exporter.WriteOptions{
		Headers:   exporter.StudentHeaders,
		Records:   exporter.StudentRecords(view.Students),
		BOMPrefix: true,
	})
	if err != nil {
		return apperrors.NewIOError("failed to write CSV", err)
	}
	return nil
}

// ExportSession writes the attendance workbook of session id and returns
// the session so callers can name the file.
func (s *AttendanceService) ExportSession(ctx context.Context, id string, w io.Writer) (domain.ClassSession, error) {
	sessions, err := s.repo.Sessions(ctx)
	if err != nil {
		return domain.ClassSession{}, err
	}
	for _, cs := range sessions {
		if cs.ID != id {
			continue
		}
		if err := exporter.WriteSessionWorkbook(w, cs); err != nil {
			return domain.ClassSession{}, apperrors.NewIOError("failed to write session workbook", err)
		}
		return cs, nil
	}
	return domain.ClassSession{}, apperrors.NewNotFoundError("session", id)
}

func (s *AttendanceService) aggregated(ctx context.Context) ([]domain.StudentWithAttendance, error) {
	snap, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	return attendance.Aggregate(snap.Students, snap.Diplomaturas, snap.Sessions, s.policy), nil
}
