package services

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ezequiel-arevalo/uba-bedelia/internal/attendance"
	"github.com/ezequiel-arevalo/uba-bedelia/internal/dataprocessing"
	apperrors "github.com/ezequiel-arevalo/uba-bedelia/internal/errors"
	"github.com/ezequiel-arevalo/uba-bedelia/internal/storage"
	"github.com/ezequiel-arevalo/uba-bedelia/internal/validation"
	"github.com/ezequiel-arevalo/uba-bedelia/pkg/contracts/domain"
)

// AttendanceService orchestrates students, diplomaturas and class sessions
// over the repository. Mutations are serialized; reads work on a fresh
// snapshot.
type AttendanceService struct {
	mu sync.Mutex

	repo     *storage.Repository
	parser   *dataprocessing.Parser
	entities *validation.EntityValidator
	files    *validation.FileValidator
	policy   attendance.Policy
	metrics  *Metrics
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string

	importWorkers int
}

// Option configures an AttendanceService.
type Option func(*AttendanceService)

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *AttendanceService) { s.logger = logger }
}

// WithPolicy sets the pass/fail policy.
func WithPolicy(p attendance.Policy) Option {
	return func(s *AttendanceService) { s.policy = p }
}

// WithParser replaces the attendance file parser.
func WithParser(p *dataprocessing.Parser) Option {
	return func(s *AttendanceService) { s.parser = p }
}

// WithValidators replaces the entity and file validators.
func WithValidators(entities *validation.EntityValidator, files *validation.FileValidator) Option {
	return func(s *AttendanceService) {
		s.entities = entities
		s.files = files
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *Metrics) Option {
	return func(s *AttendanceService) { s.metrics = m }
}

// WithClock sets the clock used for creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *AttendanceService) { s.now = now }
}

// WithIDGenerator sets the id generator for new entities.
func WithIDGenerator(newID func() string) Option {
	return func(s *AttendanceService) { s.newID = newID }
}

// WithImportWorkers bounds how many files ImportBatch parses at once.
func WithImportWorkers(n int) Option {
	return func(s *AttendanceService) { s.importWorkers = n }
}

// NewAttendanceService creates the service over repo.
func NewAttendanceService(repo *storage.Repository, opts ...Option) *AttendanceService {
	s := &AttendanceService{
		repo:          repo,
		policy:        attendance.DefaultPolicy(),
		logger:        slog.Default(),
		now:           time.Now,
		newID:         uuid.NewString,
		importWorkers: 4,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.parser == nil {
		s.parser = dataprocessing.NewParser(s.logger)
	}
	if s.entities == nil {
		s.entities = validation.NewEntityValidator(100)
	}
	if s.files == nil {
		s.files = validation.NewFileValidator(s.logger, 0)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics(nil)
	}
	if s.importWorkers < 1 {
		s.importWorkers = 1
	}
	s.logger = s.logger.With(slog.String("component", "attendance_service"))
	return s
}

// Initialize writes the first state when nothing has been stored yet:
// the demo data when withDemo is set, empty collections otherwise. It
// reports whether anything was written.
func (s *AttendanceService) Initialize(ctx context.Context, withDemo bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	initialized, err := s.repo.Initialized(ctx)
	if err != nil || initialized {
		return false, err
	}

	snap := storage.Snapshot{}
	if withDemo {
		snap = storage.DemoSnapshot()
	}
	if err := s.repo.Replace(ctx, snap); err != nil {
		return false, err
	}
	s.logger.InfoContext(ctx, "data initialized", slog.Bool("demo", withDemo))
	return true, nil
}

// Students returns every student.
func (s *AttendanceService) Students(ctx context.Context) ([]domain.Student, error) {
	return s.repo.Students(ctx)
}

// AddStudent validates the input and stores a new student.
func (s *AttendanceService) AddStudent(ctx context.Context, in domain.StudentInput) (domain.Student, error) {
	in, err := s.entities.ValidateStudent(in)
	if err != nil {
		return domain.Student{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	students, err := s.repo.Students(ctx)
	if err != nil {
		return domain.Student{}, err
	}
	student := in.ToStudent(s.newID())
	if err := s.repo.Save(ctx, storage.Changes{Students: append(students, student)}); err != nil {
		return domain.Student{}, err
	}

	s.metrics.mutation("student", "create")
	s.logger.InfoContext(ctx, "student added",
		slog.String("student_id", student.ID),
		slog.String("diplomatura", student.Diplomatura))
	return student, nil
}

// UpdateStudent replaces the editable fields of student id.
func (s *AttendanceService) UpdateStudent(ctx context.Context, id string, in domain.StudentInput) (domain.Student, error) {
	in, err := s.entities.ValidateStudent(in)
	if err != nil {
		return domain.Student{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	students, err := s.repo.Students(ctx)
	if err != nil {
		return domain.Student{}, err
	}
	i := slices.IndexFunc(students, func(st domain.Student) bool { return st.ID == id })
	if i < 0 {
		return domain.Student{}, apperrors.NewNotFoundError("student", id)
	}
	students[i] = in.ToStudent(id)
	if err := s.repo.Save(ctx, storage.Changes{Students: students}); err != nil {
		return domain.Student{}, err
	}

	s.metrics.mutation("student", "update")
	s.logger.InfoContext(ctx, "student updated", slog.String("student_id", id))
	return students[i], nil
}

// DeleteStudent removes student id.
func (s *AttendanceService) DeleteStudent(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	students, err := s.repo.Students(ctx)
	if err != nil {
		return err
	}
	n := len(students)
	students = slices.DeleteFunc(students, func(st domain.Student) bool { return st.ID == id })
	if len(students) == n {
		return apperrors.NewNotFoundError("student", id)
	}
	if err := s.repo.Save(ctx, storage.Changes{Students: students}); err != nil {
		return err
	}

	s.metrics.mutation("student", "delete")
	s.logger.InfoContext(ctx, "student deleted", slog.String("student_id", id))
	return nil
}
