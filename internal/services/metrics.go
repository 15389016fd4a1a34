package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	apperrors "github.com/ezequiel-arevalo/uba-bedelia/internal/errors"
)

// Metrics counts imports and mutations.
type Metrics struct {
	imports       *prometheus.CounterVec
	importRecords prometheus.Histogram
	mutations     *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg. A nil reg
// keeps them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		imports: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bedelia_imports_total",
			Help: "Attendance file imports by result.",
		}, []string{"result"}),
		importRecords: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "bedelia_import_records",
			Help:    "Attendance records per imported session.",
			Buckets: []float64{0, 5, 10, 20, 40, 80, 160},
		}),
		mutations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bedelia_mutations_total",
			Help: "Persisted changes by entity and operation.",
		}, []string{"entity", "op"}),
	}
}

func (m *Metrics) importDone(err error, records int) {
	m.imports.WithLabelValues(importResult(err)).Inc()
	if err == nil {
		m.importRecords.Observe(float64(records))
	}
}

func (m *Metrics) mutation(entity, op string) {
	m.mutations.WithLabelValues(entity, op).Inc()
}

func importResult(err error) string {
	if err == nil {
		return "ok"
	}
	if appErr, ok := apperrors.AsAppError(err); ok {
		switch appErr.Type {
		case apperrors.ErrTypeFormat:
			return "format_error"
		case apperrors.ErrTypeIO:
			return "io_error"
		case apperrors.ErrTypeDuplicateDate:
			return "duplicate_date"
		case apperrors.ErrTypeValidation:
			return "invalid"
		}
	}
	return "error"
}
