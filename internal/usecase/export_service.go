package usecase

import (
	"context"
	"sync"
	"time"

	crerr "github.com/cockroachdb/errors"

	"github.com/statpulse/harvester/internal/domain/competition"
	"github.com/statpulse/harvester/internal/domain/match"
	"github.com/statpulse/harvester/internal/domain/statistics"
	"github.com/statpulse/harvester/internal/platform/logging"
)

// ResolvedRecord is one fully resolved, quality-assessed match observation.
// This is the unit the exporter batches and the archive persists.
type ResolvedRecord struct {
	CollectedAt time.Time
	Match       match.Summary
	Tier        competition.Tier
	Resolution  statistics.Resolution
	Verdict     statistics.Verdict
}

// BatchWriter persists a batch of resolved records and returns where it
// landed.
type BatchWriter interface {
	WriteBatch(ctx context.Context, records []ResolvedRecord) (string, error)
}

// ExportSummary aggregates a flushed batch for the cycle log line. The
// success rate is the share of records resolved from real data rather than
// estimation.
type ExportSummary struct {
	Records         int
	HighQuality     int
	Estimated       int
	Tier1           int
	Tier2           int
	SuccessRate     float64
	HighQualityRate float64
	AvgCompleteness float64
	BySource        map[string]int
}

// ExportService buffers resolved records across collection cycles and
// flushes them as one batch every Nth cycle. The buffer survives cycles
// that collect nothing, so a quiet night still exports once enough cycles
// pass.
type ExportService struct {
	writer      BatchWriter
	everyCycles int
	logger      *logging.Logger

	mu     sync.Mutex
	buffer []ResolvedRecord
}

func NewExportService(writer BatchWriter, everyCycles int, logger *logging.Logger) *ExportService {
	if everyCycles < 1 {
		everyCycles = 1
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ExportService{
		writer:      writer,
		everyCycles: everyCycles,
		logger:      logger,
	}
}

func (s *ExportService) Append(records ...ResolvedRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buffer = append(s.buffer, records...)
}

func (s *ExportService) Buffered() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buffer)
}

// ShouldFlush reports whether the given 1-based cycle number is a flush
// cycle.
func (s *ExportService) ShouldFlush(cycleNumber int) bool {
	return cycleNumber > 0 && cycleNumber%s.everyCycles == 0
}

// Flush writes the buffered records as one batch and clears the buffer.
// The buffer is only cleared after the write succeeds; a failed flush
// keeps the records for the next attempt.
func (s *ExportService) Flush(ctx context.Context) (ExportSummary, string, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ExportService.Flush")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.buffer) == 0 {
		return ExportSummary{}, "", nil
	}

	path, err := s.writer.WriteBatch(ctx, s.buffer)
	if err != nil {
		return ExportSummary{}, "", crerr.Wrap(err, "write export batch")
	}

	summary := summarize(s.buffer)
	s.buffer = nil

	s.logger.InfoContext(ctx, "export batch written",
		"path", path,
		"records", summary.Records,
		"success_rate", summary.SuccessRate,
		"high_quality_rate", summary.HighQualityRate,
		"avg_completeness", summary.AvgCompleteness,
		"by_source", summary.BySource,
		"tier1", summary.Tier1,
		"tier2", summary.Tier2,
	)

	return summary, path, nil
}

func summarize(records []ResolvedRecord) ExportSummary {
	summary := ExportSummary{
		Records:  len(records),
		BySource: make(map[string]int),
	}

	totalCompleteness := 0.0
	for _, record := range records {
		summary.BySource[record.Resolution.Source]++
		totalCompleteness += record.Verdict.Completeness
		if record.Verdict.HighQuality {
			summary.HighQuality++
		}
		if statistics.IsEstimated(record.Resolution.Source) {
			summary.Estimated++
		}
		switch record.Tier {
		case competition.Tier1:
			summary.Tier1++
		case competition.Tier2:
			summary.Tier2++
		}
	}
	total := float64(len(records))
	summary.SuccessRate = float64(summary.Records-summary.Estimated) / total * 100
	summary.HighQualityRate = float64(summary.HighQuality) / total * 100
	summary.AvgCompleteness = totalCompleteness / total

	return summary
}
