package usecase

import (
	"context"
	"time"

	crerr "github.com/cockroachdb/errors"

	"github.com/statpulse/harvester/internal/domain/competition"
	"github.com/statpulse/harvester/internal/domain/match"
	"github.com/statpulse/harvester/internal/domain/statistics"
	"github.com/statpulse/harvester/internal/platform/logging"
)

// RecordArchive persists resolved records to durable storage. Archival is
// best effort: a failing archive never takes the collection loop down.
type RecordArchive interface {
	SaveRecords(ctx context.Context, records []ResolvedRecord) error
}

// CycleReport summarizes one collection cycle.
type CycleReport struct {
	Number      int
	Discovered  int
	Dropped     int
	Collected   int
	Tier1       int
	Tier2       int
	Estimated   int
	HighQuality int
	Flushed     bool
	ExportPath  string
}

type CollectorConfig struct {
	CycleInterval      time.Duration
	MaxMatchesPerCycle int
}

// CollectorService runs the harvest loop: discover live matches, resolve
// statistics for each, assess quality, buffer for export. The loop is
// deliberately single threaded; upstream rate limits make the feed the
// bottleneck, not the CPU, and sequential probing keeps request pacing
// predictable.
type CollectorService struct {
	feed       StatisticsFeed
	resolution *ResolutionService
	quality    *QualityService
	exporter   *ExportService
	archive    RecordArchive
	logger     *logging.Logger

	interval    time.Duration
	maxPerCycle int

	cycleNumber int
	now         func() time.Time
}

func NewCollectorService(
	feed StatisticsFeed,
	resolution *ResolutionService,
	quality *QualityService,
	exporter *ExportService,
	archive RecordArchive,
	cfg CollectorConfig,
	logger *logging.Logger,
) *CollectorService {
	if cfg.CycleInterval <= 0 {
		cfg.CycleInterval = 5 * time.Minute
	}
	if cfg.MaxMatchesPerCycle < 1 {
		cfg.MaxMatchesPerCycle = 12
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &CollectorService{
		feed:        feed,
		resolution:  resolution,
		quality:     quality,
		exporter:    exporter,
		archive:     archive,
		logger:      logger,
		interval:    cfg.CycleInterval,
		maxPerCycle: cfg.MaxMatchesPerCycle,
		now:         time.Now,
	}
}

// Run executes cycles until the context is cancelled, then flushes whatever
// is still buffered so a shutdown never loses collected records.
func (s *CollectorService) Run(ctx context.Context) error {
	s.logger.InfoContext(ctx, "collector started",
		"cycle_interval", s.interval.String(),
		"max_matches_per_cycle", s.maxPerCycle,
	)

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.finalFlush()
			s.logger.Info("collector stopped", "cycles_completed", s.cycleNumber)
			return nil
		case <-timer.C:
		}

		report, err := s.RunCycle(ctx)
		if err != nil {
			if ctx.Err() != nil {
				s.finalFlush()
				s.logger.Info("collector stopped", "cycles_completed", s.cycleNumber)
				return nil
			}
			s.logger.ErrorContext(ctx, "collection cycle failed", "cycle", report.Number, "error", err)
		}

		timer.Reset(s.interval)
	}
}

// RunCycle performs one full discover-resolve-assess-buffer pass. A failure
// on one match is logged and the cycle moves on to the next; only discovery
// failure aborts the cycle.
func (s *CollectorService) RunCycle(ctx context.Context) (CycleReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CollectorService.RunCycle")
	defer span.End()

	s.cycleNumber++
	report := CycleReport{Number: s.cycleNumber}
	started := s.now()

	matches, err := s.feed.LiveMatches(ctx)
	if err != nil {
		return report, crerr.Wrap(err, "discover live matches")
	}

	report.Discovered = len(matches)
	if len(matches) > s.maxPerCycle {
		report.Dropped = len(matches) - s.maxPerCycle
		matches = matches[:s.maxPerCycle]
	}

	records := make([]ResolvedRecord, 0, len(matches))
	for _, m := range matches {
		if ctx.Err() != nil {
			break
		}

		record, ok := s.collectMatch(ctx, m)
		if !ok {
			continue
		}
		records = append(records, record)

		report.Collected++
		switch record.Tier {
		case competition.Tier1:
			report.Tier1++
		case competition.Tier2:
			report.Tier2++
		}
		if statistics.IsEstimated(record.Resolution.Source) {
			report.Estimated++
		}
		if record.Verdict.HighQuality {
			report.HighQuality++
		}
	}

	s.exporter.Append(records...)
	s.archiveRecords(ctx, records)

	if s.exporter.ShouldFlush(s.cycleNumber) {
		if _, path, flushErr := s.exporter.Flush(ctx); flushErr != nil {
			s.logger.ErrorContext(ctx, "export flush failed", "cycle", s.cycleNumber, "error", flushErr)
		} else if path != "" {
			report.Flushed = true
			report.ExportPath = path
		}
	}

	s.logger.InfoContext(ctx, "collection cycle finished",
		"cycle", report.Number,
		"discovered", report.Discovered,
		"dropped", report.Dropped,
		"collected", report.Collected,
		"tier1", report.Tier1,
		"tier2", report.Tier2,
		"estimated", report.Estimated,
		"high_quality", report.HighQuality,
		"buffered", s.exporter.Buffered(),
		"duration", s.now().Sub(started).String(),
	)

	return report, nil
}

// collectMatch resolves and assesses one match. A panic inside resolution
// is contained here so one malformed payload cannot end the cycle.
func (s *CollectorService) collectMatch(ctx context.Context, m match.Summary) (record ResolvedRecord, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "match resolution panicked",
				"match_id", m.ID, "home", m.HomeTeam, "away", m.AwayTeam, "panic", r)
			ok = false
		}
	}()

	resolution := s.resolution.Resolve(ctx, m)
	if resolution.Source == statistics.SourceNoData {
		return ResolvedRecord{}, false
	}

	return ResolvedRecord{
		CollectedAt: s.now().UTC(),
		Match:       m,
		Tier:        competition.Classify(m.Competition),
		Resolution:  resolution,
		Verdict:     s.quality.Assess(resolution.Stats, m),
	}, true
}

func (s *CollectorService) archiveRecords(ctx context.Context, records []ResolvedRecord) {
	if s.archive == nil || len(records) == 0 {
		return
	}
	if err := s.archive.SaveRecords(ctx, records); err != nil {
		s.logger.WarnContext(ctx, "record archival failed", "records", len(records), "error", err)
	}
}

func (s *CollectorService) finalFlush() {
	flushCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if _, _, err := s.exporter.Flush(flushCtx); err != nil {
		s.logger.Error("final export flush failed", "error", err)
	}
}
