package services

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/ezequiel-arevalo/uba-bedelia/internal/config"
	"github.com/ezequiel-arevalo/uba-bedelia/internal/storage"
	"github.com/ezequiel-arevalo/uba-bedelia/pkg/contracts"
)

// HealthService provides health check functionality
type HealthService struct {
	paths     *config.Paths
	repo      *storage.Repository
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Runtime   map[string]interface{}   `json:"runtime,omitempty"`
	Services  map[string]ServiceHealth `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// DataStats describes the persisted data.
type DataStats struct {
	Students       int   `json:"students"`
	Sessions       int   `json:"sessions"`
	Diplomaturas   int   `json:"diplomaturas"`
	TotalFiles     int   `json:"total_files"`
	TotalSizeBytes int64 `json:"total_size_bytes"`
}

// NewHealthService creates a new health service
func NewHealthService(paths *config.Paths, repo *storage.Repository, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		paths:     paths,
		repo:      repo,
		startTime: time.Now(),
		logger:    logger.With(slog.String("component", "health_service")),
	}
}

// HealthCheck reports whether the data directory and the stored
// collections are readable.
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   contracts.Version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
		Services: map[string]ServiceHealth{
			"data_dir": hs.checkDataDir(),
			"storage":  hs.checkStorage(ctx),
		},
	}

	for _, sh := range status.Services {
		if sh.Status != "ready" {
			status.Status = "degraded"
			break
		}
	}

	hs.logger.DebugContext(ctx, "health check completed",
		slog.String("status", status.Status))
	return status
}

// DataStats counts stored entities and the files in the data directory.
func (hs *HealthService) DataStats(ctx context.Context) (DataStats, error) {
	snap, err := hs.repo.Load(ctx)
	if err != nil {
		return DataStats{}, err
	}
	stats := DataStats{
		Students:     len(snap.Students),
		Sessions:     len(snap.Sessions),
		Diplomaturas: len(snap.Diplomaturas),
	}

	filepath.Walk(hs.paths.DataDir, func(path string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			stats.TotalFiles++
			stats.TotalSizeBytes += info.Size()
		}
		return nil
	})
	return stats, nil
}

func (hs *HealthService) checkDataDir() ServiceHealth {
	info, err := os.Stat(hs.paths.DataDir)
	if err != nil {
		return ServiceHealth{Status: "not_ready", Message: err.Error()}
	}
	if !info.IsDir() {
		return ServiceHealth{Status: "not_ready", Message: "data path is not a directory"}
	}
	return ServiceHealth{Status: "ready"}
}

func (hs *HealthService) checkStorage(ctx context.Context) ServiceHealth {
	if _, err := hs.repo.Load(ctx); err != nil {
		return ServiceHealth{Status: "not_ready", Message: err.Error()}
	}
	return ServiceHealth{Status: "ready"}
}
