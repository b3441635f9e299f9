package usecase

import (
	"context"
	"sync"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"

	"github.com/statpulse/harvester/internal/domain/competition"
	"github.com/statpulse/harvester/internal/domain/match"
	"github.com/statpulse/harvester/internal/domain/statistics"
	"github.com/statpulse/harvester/internal/platform/logging"
)

// MatchLookup resolves a match id into its summary when no live discovery
// feed supplies one.
type MatchLookup interface {
	MatchSummary(ctx context.Context, matchID int64) (match.Summary, error)
}

// BackfillReport summarizes one backfill run.
type BackfillReport struct {
	Requested  int
	Resolved   int
	Failed     int
	ExportPath string
}

// BackfillService resolves historical matches on demand and exports them as
// one batch. Unlike the live loop it fans out across a bounded worker pool;
// historical endpoints are not subject to the live feed's tight pacing, and
// backfills arrive as one large request rather than a steady trickle.
type BackfillService struct {
	lookup     MatchLookup
	resolution *ResolutionService
	quality    *QualityService
	writer     BatchWriter
	archive    RecordArchive
	workers    int
	logger     *logging.Logger
	now        func() time.Time
}

func NewBackfillService(
	lookup MatchLookup,
	resolution *ResolutionService,
	quality *QualityService,
	writer BatchWriter,
	archive RecordArchive,
	workers int,
	logger *logging.Logger,
) *BackfillService {
	if workers < 1 {
		workers = 4
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &BackfillService{
		lookup:     lookup,
		resolution: resolution,
		quality:    quality,
		writer:     writer,
		archive:    archive,
		workers:    workers,
		logger:     logger,
		now:        time.Now,
	}
}

// Backfill resolves the given match ids concurrently and writes one export
// batch with everything that resolved. Individual failures are counted, not
// fatal; the run only errors when the pool cannot start or the batch write
// fails.
func (s *BackfillService) Backfill(ctx context.Context, matchIDs []int64) (BackfillReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BackfillService.Backfill")
	defer span.End()

	report := BackfillReport{Requested: len(matchIDs)}
	if len(matchIDs) == 0 {
		return report, crerr.Wrap(ErrInvalidInput, "no match ids given")
	}

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return report, crerr.Wrap(err, "create backfill worker pool")
	}
	defer pool.Release()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		records []ResolvedRecord
		failed  int
	)

	for _, matchID := range matchIDs {
		matchID := matchID
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()

			record, ok := s.backfillMatch(ctx, matchID)

			mu.Lock()
			defer mu.Unlock()
			if ok {
				records = append(records, record)
			} else {
				failed++
			}
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			failed++
			mu.Unlock()
		}
	}
	wg.Wait()

	report.Resolved = len(records)
	report.Failed = failed

	if len(records) == 0 {
		s.logger.WarnContext(ctx, "backfill resolved nothing", "requested", report.Requested)
		return report, nil
	}

	if s.archive != nil {
		if archiveErr := s.archive.SaveRecords(ctx, records); archiveErr != nil {
			s.logger.WarnContext(ctx, "backfill archival failed", "records", len(records), "error", archiveErr)
		}
	}

	path, err := s.writer.WriteBatch(ctx, records)
	if err != nil {
		return report, crerr.Wrap(err, "write backfill batch")
	}
	report.ExportPath = path

	s.logger.InfoContext(ctx, "backfill finished",
		"requested", report.Requested,
		"resolved", report.Resolved,
		"failed", report.Failed,
		"path", path,
	)

	return report, nil
}

func (s *BackfillService) backfillMatch(ctx context.Context, matchID int64) (record ResolvedRecord, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "backfill resolution panicked", "match_id", matchID, "panic", r)
			ok = false
		}
	}()

	summary, err := s.lookup.MatchSummary(ctx, matchID)
	if err != nil {
		s.logger.DebugContext(ctx, "backfill match lookup failed", "match_id", matchID, "error", err)
		return ResolvedRecord{}, false
	}

	resolution := s.resolution.Resolve(ctx, summary)
	if resolution.Source == statistics.SourceNoData {
		return ResolvedRecord{}, false
	}

	return ResolvedRecord{
		CollectedAt: s.now().UTC(),
		Match:       summary,
		Tier:        competition.Classify(summary.Competition),
		Resolution:  resolution,
		Verdict:     s.quality.Assess(resolution.Stats, summary),
	}, true
}
