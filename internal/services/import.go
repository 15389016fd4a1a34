package services

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/ezequiel-arevalo/uba-bedelia/internal/dataprocessing"
	apperrors "github.com/ezequiel-arevalo/uba-bedelia/internal/errors"
	"github.com/ezequiel-arevalo/uba-bedelia/internal/storage"
	"github.com/ezequiel-arevalo/uba-bedelia/pkg/contracts/domain"
)

// ImportRequest is one attendance file to record as a class session.
type ImportRequest struct {
	FileName    string `json:"fileName" validate:"required,filename"`
	Diplomatura string `json:"diplomatura" validate:"required"`
	// Date overrides the date taken from the file name (YYYY-MM-DD).
	Date string `json:"date" validate:"iso8601"`
	Data []byte `json:"-"`
}

// ImportSession parses one attendance file and stores it as a new class
// session. An existing session for the same diplomatura and date rejects
// the import with a DUPLICATE_DATE error and nothing is written.
func (s *AttendanceService) ImportSession(ctx context.Context, req ImportRequest) (*domain.ClassSession, error) {
	session, err := s.importSession(ctx, req)
	s.metrics.importDone(err, recordCount(session))
	if err != nil {
		s.logger.WarnContext(ctx, "attendance import rejected",
			slog.String("file", req.FileName),
			slog.String("diplomatura", req.Diplomatura),
			slog.String("error", err.Error()))
		return nil, err
	}
	return session, nil
}

func (s *AttendanceService) importSession(ctx context.Context, req ImportRequest) (*domain.ClassSession, error) {
	req.FileName = filepath.Base(req.FileName)
	session, err := s.parseRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkDiplomatura(snap.Diplomaturas, req.Diplomatura); err != nil {
		return nil, err
	}
	sessions := snap.Sessions
	if dup := findSession(sessions, session.Diplomatura, session.Date); dup != nil {
		return nil, apperrors.NewDuplicateDateError(session.Diplomatura, session.Date).
			WithContext("existing_file", dup.FileName)
	}

	if err := s.repo.Save(ctx, storage.Changes{Sessions: append(sessions, *session)}); err != nil {
		return nil, err
	}

	s.metrics.mutation("session", "create")
	s.logger.InfoContext(ctx, "class session imported",
		slog.String("session_id", session.ID),
		slog.String("diplomatura", session.Diplomatura),
		slog.String("date", session.Date),
		slog.Int("present", session.PresentStudents))
	return session, nil
}

// ImportBatch parses several files concurrently and stores them all, or
// none when any file fails to parse or collides on diplomatura and date
// (with stored sessions or within the batch).
func (s *AttendanceService) ImportBatch(ctx context.Context, reqs []ImportRequest) ([]domain.ClassSession, error) {
	sessions, err := s.importBatch(ctx, reqs)
	if err != nil {
		s.metrics.importDone(err, 0)
		s.logger.WarnContext(ctx, "attendance batch rejected",
			slog.Int("files", len(reqs)),
			slog.String("error", err.Error()))
		return nil, err
	}
	for _, cs := range sessions {
		s.metrics.importDone(nil, len(cs.AttendanceRecords))
	}
	return sessions, nil
}

func (s *AttendanceService) importBatch(ctx context.Context, reqs []ImportRequest) ([]domain.ClassSession, error) {
	if len(reqs) == 0 {
		return []domain.ClassSession{}, nil
	}

	parsed := make([]domain.ClassSession, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.importWorkers)
	for i := range reqs {
		i := i
		req := reqs[i]
		req.FileName = filepath.Base(req.FileName)
		g.Go(func() error {
			session, err := s.parseRequest(gctx, req)
			if err != nil {
				return withFile(err, req.FileName)
			}
			parsed[i] = *session
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	sessions := snap.Sessions
	for i := range parsed {
		cs := parsed[i]
		if err := checkDiplomatura(snap.Diplomaturas, cs.Diplomatura); err != nil {
			return nil, withFile(err, cs.FileName)
		}
		if dup := findSession(sessions, cs.Diplomatura, cs.Date); dup != nil {
			return nil, apperrors.NewDuplicateDateError(cs.Diplomatura, cs.Date).
				WithContext("file", cs.FileName).
				WithContext("existing_file", dup.FileName)
		}
		sessions = append(sessions, cs)
	}

	if err := s.repo.Save(ctx, storage.Changes{Sessions: sessions}); err != nil {
		return nil, err
	}

	s.metrics.mutation("session", "create")
	s.logger.InfoContext(ctx, "class sessions imported", slog.Int("count", len(parsed)))
	return parsed, nil
}

// DeleteSession removes class session id, so a wrong import can be redone.
func (s *AttendanceService) DeleteSession(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := s.repo.Sessions(ctx)
	if err != nil {
		return err
	}
	kept := make([]domain.ClassSession, 0, len(sessions))
	for _, cs := range sessions {
		if cs.ID != id {
			kept = append(kept, cs)
		}
	}
	if len(kept) == len(sessions) {
		return apperrors.NewNotFoundError("session", id)
	}
	if err := s.repo.Save(ctx, storage.Changes{Sessions: kept}); err != nil {
		return err
	}

	s.metrics.mutation("session", "delete")
	s.logger.InfoContext(ctx, "class session deleted", slog.String("session_id", id))
	return nil
}

// Sessions returns every class session.
func (s *AttendanceService) Sessions(ctx context.Context) ([]domain.ClassSession, error) {
	return s.repo.Sessions(ctx)
}

// parseRequest validates and parses one file. It takes no lock.
func (s *AttendanceService) parseRequest(ctx context.Context, req ImportRequest) (*domain.ClassSession, error) {
	if err := s.entities.ValidateStruct(req); err != nil {
		return nil, err
	}
	if err := s.files.ValidateUpload(req.FileName, int64(len(req.Data))); err != nil {
		return nil, err
	}

	session, err := s.parser.Parse(ctx, req.FileName, req.Data, dataprocessing.DetectCSV(req.FileName))
	if err != nil {
		return nil, err
	}
	session.Diplomatura = req.Diplomatura
	if req.Date != "" {
		session.SetDate(req.Date)
	}
	return session, nil
}

// checkDiplomatura requires the target diplomatura to be configured.
func checkDiplomatura(diplomaturas []domain.Diplomatura, name string) error {
	for _, d := range diplomaturas {
		if d.Name == name {
			return nil
		}
	}
	return apperrors.NewValidationFailure("Diplomatura desconocida", apperrors.ValidationError{
		Field:   "diplomatura",
		Message: fmt.Sprintf("La diplomatura %q no existe", name),
	})
}

func findSession(sessions []domain.ClassSession, diplomatura, date string) *domain.ClassSession {
	for i := range sessions {
		if sessions[i].Diplomatura == diplomatura && sessions[i].Date == date {
			return &sessions[i]
		}
	}
	return nil
}

func withFile(err error, fileName string) error {
	if appErr, ok := apperrors.AsAppError(err); ok {
		return appErr.WithContext("file", fileName)
	}
	return fmt.Errorf("%s: %w", fileName, err)
}

func recordCount(s *domain.ClassSession) int {
	if s == nil {
		return 0
	}
	return len(s.AttendanceRecords)
}
