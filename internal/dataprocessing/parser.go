package dataprocessing

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ezequiel-arevalo/uba-bedelia/internal/attendance"
	"github.com/ezequiel-arevalo/uba-bedelia/internal/errors"
	"github.com/ezequiel-arevalo/uba-bedelia/pkg/contracts/domain"
)

// HeaderCell is the literal text required in A1 of every attendance export.
const HeaderCell = "Nombre completo"

// DateLayout is the ISO date format used for session dates.
const DateLayout = "2006-01-02"

// Parser builds class sessions from attendance exports. It keeps no state
// between calls and is safe for concurrent use.
type Parser struct {
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

// Option configures a Parser.
type Option func(*Parser)

// WithClock sets the clock used when the file name carries no date.
func WithClock(now func() time.Time) Option {
	return func(p *Parser) { p.now = now }
}

// WithIDGenerator sets the generator for session and record ids.
func WithIDGenerator(newID func() string) Option {
	return func(p *Parser) { p.newID = newID }
}

// NewParser creates a parser. A nil logger falls back to slog.Default.
func NewParser(logger *slog.Logger, opts ...Option) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Parser{
		logger: logger.With(slog.String("component", "attendance_parser")),
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// DetectCSV reports whether a file should be read as CSV, judged by its
// extension.
func DetectCSV(fileName string) bool {
	return strings.EqualFold(filepath.Ext(fileName), ".csv")
}

// Parse decodes one attendance export. The returned session has no
// diplomatura; the caller assigns it along with any date override.
func (p *Parser) Parse(ctx context.Context, fileName string, data []byte, isCSV bool) (*domain.ClassSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	grid, err := decodeGrid(data, isCSV)
	if err != nil {
		p.logger.WarnContext(ctx, "attendance file unreadable",
			slog.String("file", fileName),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	if len(grid) > 0 && (len(grid[0]) == 0 || grid[0][0] != HeaderCell) {
		return nil, errors.NewFormatError(`El archivo debe tener "Nombre completo" en la celda A1`).
			WithContext("file", fileName)
	}

	date, fromName := ExtractDate(fileName)
	if !fromName {
		date = p.now().Format(DateLayout)
	}

	durationCol := -1
	if len(grid) > 0 {
		durationCol = findDurationColumn(grid[0])
	}

	seen := make(map[string]struct{})
	records := make([]domain.AttendanceRecord, 0, len(grid))
	for i := 1; i < len(grid); i++ {
		row := grid[i]
		if len(row) == 0 {
			continue
		}
		key := attendance.Normalize(row[0])
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		rec := domain.AttendanceRecord{
			ID:          p.newID(),
			StudentName: strings.TrimSpace(row[0]),
			Date:        date,
			Present:     true,
		}
		if durationCol > 0 && durationCol < len(row) {
			if minutes, ok := ParseDuration(row[durationCol]); ok {
				rec.Duration = &minutes
			}
		}
		records = append(records, rec)
	}

	present := 0
	for _, r := range records {
		if r.Present {
			present++
		}
	}

	session := &domain.ClassSession{
		ID:                p.newID(),
		Date:              date,
		FileName:          fileName,
		AttendanceRecords: records,
		TotalStudents:     len(records),
		PresentStudents:   present,
	}

	p.logger.InfoContext(ctx, "attendance file parsed",
		slog.String("file", fileName),
		slog.String("date", date),
		slog.Bool("date_from_name", fromName),
		slog.Int("records", len(records)),
		slog.Int("rows", len(grid)),
	)
	return session, nil
}

// findDurationColumn locates a "Duración" or "Duration" header, or -1.
func findDurationColumn(header []string) int {
	for i, h := range header {
		h = attendance.Normalize(h)
		if strings.HasPrefix(h, "duración") || strings.HasPrefix(h, "duracion") || strings.HasPrefix(h, "duration") {
			return i
		}
	}
	return -1
}
