package service

import (
	"context"
	"sync"
	"time"

	"github.com/itchan-dev/attachstore/shared/domain"
	"github.com/itchan-dev/attachstore/shared/logger"
)

// OrphanCollector removes objects that no message references.
// They appear when a compensating or record delete fails.
type OrphanCollector struct {
	storage         GCStorage
	files           GCFileStorage
	safetyThreshold time.Duration
	now             func() time.Time

	mu        sync.Mutex
	lastStats CleanupStats
}

// CleanupStats tracks metrics from the last collection run.
type CleanupStats struct {
	RunAt          time.Time
	FilesScanned   int
	OrphanedFiles  int
	FilesDeleted   int
	BytesReclaimed int64
	DurationMs     int64
	Errors         []string
}

// GCStorage lists every path referenced by a persisted message.
type GCStorage interface {
	GetAllFilePaths(ctx context.Context) ([]domain.FilePath, error)
}

type GCFileStorage interface {
	ObjectLister
	Delete(ctx context.Context, path domain.FilePath) error
}

// NewOrphanCollector creates a collector. safetyThreshold is the minimum object age
// before deletion, so files of a message still being saved are left alone.
func NewOrphanCollector(storage GCStorage, files GCFileStorage, safetyThreshold time.Duration) *OrphanCollector {
	return &OrphanCollector{
		storage:         storage,
		files:           files,
		safetyThreshold: safetyThreshold,
		now:             time.Now,
	}
}

// StartBackgroundCleanup runs RunCleanup every interval until ctx is done.
func (gc *OrphanCollector) StartBackgroundCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	logger.Log.Info("started orphan collector", "interval", interval, "safety_threshold", gc.safetyThreshold)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := gc.RunCleanup(ctx); err != nil {
					logger.Log.Error("orphan cleanup failed", "error", err)
					continue
				}
				stats := gc.LastCleanupStats()
				logger.Log.Info("orphan cleanup completed",
					"scanned", stats.FilesScanned,
					"orphans", stats.OrphanedFiles,
					"deleted", stats.FilesDeleted,
					"bytes_reclaimed", stats.BytesReclaimed,
					"duration_ms", stats.DurationMs,
					"errors", len(stats.Errors))
			case <-ctx.Done():
				logger.Log.Info("orphan collector stopped")
				return
			}
		}
	}()
}

// RunCleanup executes a single collection cycle.
func (gc *OrphanCollector) RunCleanup(ctx context.Context) error {
	start := gc.now()
	stats := CleanupStats{RunAt: start, Errors: []string{}}

	// objects are listed before references are read: a file uploaded in between is
	// either referenced already or too young to delete
	objects, err := gc.files.ListObjects(ctx)
	if err != nil {
		return err
	}
	stats.FilesScanned = len(objects)

	referenced, err := gc.storage.GetAllFilePaths(ctx)
	if err != nil {
		return err
	}
	refSet := make(map[domain.FilePath]struct{}, len(referenced))
	for _, p := range referenced {
		refSet[p] = struct{}{}
	}

	for _, obj := range objects {
		if _, ok := refSet[obj.Path]; ok {
			continue
		}
		if start.Sub(obj.ModTime) < gc.safetyThreshold {
			continue
		}

		stats.OrphanedFiles++
		if err := gc.files.Delete(ctx, obj.Path); err != nil {
			fileDeleteFailures.WithLabelValues(reasonOrphaned).Inc()
			stats.Errors = append(stats.Errors, "delete error: "+obj.Path+": "+err.Error())
			continue
		}
		filesDeleted.WithLabelValues(reasonOrphaned).Inc()
		stats.FilesDeleted++
		stats.BytesReclaimed += obj.Size
	}

	stats.DurationMs = gc.now().Sub(start).Milliseconds()
	gc.mu.Lock()
	gc.lastStats = stats
	gc.mu.Unlock()

	return nil
}

// LastCleanupStats returns statistics from the last cleanup run.
func (gc *OrphanCollector) LastCleanupStats() CleanupStats {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.lastStats
}
