package http

import (
	"context"
	"io"
	"time"

	"github.com/ezequiel-arevalo/uba-bedelia/internal/services"
	"github.com/ezequiel-arevalo/uba-bedelia/pkg/contracts/domain"
)

// AttendanceServiceInterface is the part of the attendance service the desk
// API calls.
type AttendanceServiceInterface interface {
	AddStudent(ctx context.Context, in domain.StudentInput) (domain.Student, error)
	UpdateStudent(ctx context.Context, id string, in domain.StudentInput) (domain.Student, error)
	DeleteStudent(ctx context.Context, id string) error

	Diplomaturas(ctx context.Context) ([]domain.Diplomatura, error)
	AddDiplomatura(ctx context.Context, in domain.DiplomaturaInput) (domain.Diplomatura, error)
	UpdateDiplomatura(ctx context.Context, id string, in domain.DiplomaturaInput) (domain.Diplomatura, error)
	DeleteDiplomatura(ctx context.Context, id string) (services.CascadeResult, error)
	StudentCountByDiplomatura(ctx context.Context, name string) (int, error)
	DiplomaturaSummaries(ctx context.Context) ([]domain.DiplomaturaSummary, error)

	Sessions(ctx context.Context) ([]domain.ClassSession, error)
	ImportSession(ctx context.Context, req services.ImportRequest) (*domain.ClassSession, error)
	DeleteSession(ctx context.Context, id string) error

	View(ctx context.Context, filters domain.Filters, sortCfg domain.SortConfig) (services.ViewResult, error)
	ExportBackup(ctx context.Context, w io.Writer, now time.Time) error
	ExportStudentsCSV(ctx context.Context, w io.Writer, filters domain.Filters, sortCfg domain.SortConfig) error
	ExportSession(ctx context.Context, id string, w io.Writer) (domain.ClassSession, error)
}

var _ AttendanceServiceInterface = (*services.AttendanceService)(nil)
