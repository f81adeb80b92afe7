package aurige

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"candilib/internal/booking/service"
	dErrors "candilib/pkg/domain-errors"
)

//go:generate mockgen -source=sync.go -destination=mocks/mocks.go -package=mocks

// Registry applies one registry status to the matching candidate.
type Registry interface {
	ApplyRegistryStatus(ctx context.Context, st service.RegistryStatus, actingUser string) (service.RegistryResult, error)
}

// VerdictCache remembers the last status applied per candidate so that
// repeated exports skip unchanged records.
type VerdictCache interface {
	Unchanged(ctx context.Context, codeNEPH, fingerprint string) (bool, error)
	Remember(ctx context.Context, codeNEPH, fingerprint string) error
}

const (
	defaultConcurrency = 8
	systemActor        = "aurige-sync"
)

// Report summarises one Apply run.
type Report struct {
	Total     int             `json:"total"`
	Updated   int             `json:"updated"`
	Cancelled int             `json:"cancelled"`
	Unknown   int             `json:"unknown"`
	Unchanged int             `json:"unchanged"`
	Failed    int             `json:"failed"`
	Failures  []RecordFailure `json:"failures,omitempty"`
}

// RecordFailure names a record that could not be applied.
type RecordFailure struct {
	CodeNEPH string `json:"codeNeph"`
	Error    string `json:"error"`
}

type Syncer struct {
	registry    Registry
	cache       VerdictCache
	location    *time.Location
	concurrency int
	logger      *slog.Logger
}

type Option func(*Syncer)

func WithCache(c VerdictCache) Option {
	return func(s *Syncer) { s.cache = c }
}

func WithConcurrency(n int) Option {
	return func(s *Syncer) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

func WithLocation(loc *time.Location) Option {
	return func(s *Syncer) { s.location = loc }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Syncer) { s.logger = logger }
}

func NewSyncer(registry Registry, opts ...Option) *Syncer {
	s := &Syncer{
		registry:    registry,
		location:    time.UTC,
		concurrency: defaultConcurrency,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Apply updates every candidate named by records. Failures of single
// records are reported, not returned; only cancellation of ctx aborts the run.
func (s *Syncer) Apply(ctx context.Context, records []Record) (Report, error) {
	var (
		mu     sync.Mutex
		report = Report{Total: len(records)}
	)
	tally := func(fn func(r *Report)) {
		mu.Lock()
		defer mu.Unlock()
		fn(&report)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i := range records {
		rec := records[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcome, err := s.applyOne(gctx, &rec)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				tally(func(r *Report) {
					r.Failed++
					r.Failures = append(r.Failures, RecordFailure{CodeNEPH: rec.CodeNEPH, Error: err.Error()})
				})
				return nil
			}
			tally(outcome.count)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, dErrors.Wrap(err, dErrors.CodeTimeout, "aurige sync interrupted")
	}

	s.logger.InfoContext(ctx, "aurige export applied",
		"total", report.Total,
		"updated", report.Updated,
		"cancelled", report.Cancelled,
		"unknown", report.Unknown,
		"unchanged", report.Unchanged,
		"failed", report.Failed,
	)
	return report, nil
}

type outcome int

const (
	outcomeUpdated outcome = iota
	outcomeCancelled
	outcomeUnknown
	outcomeUnchanged
)

func (o outcome) count(r *Report) {
	switch o {
	case outcomeUpdated:
		r.Updated++
	case outcomeCancelled:
		r.Updated++
		r.Cancelled++
	case outcomeUnknown:
		r.Unknown++
	case outcomeUnchanged:
		r.Unchanged++
	}
}

func (s *Syncer) applyOne(ctx context.Context, rec *Record) (outcome, error) {
	if err := rec.prepare(s.location); err != nil {
		return 0, err
	}
	fp := fingerprint(rec)
	if s.cache != nil {
		same, err := s.cache.Unchanged(ctx, rec.normalizedNEPH, fp)
		if err != nil {
			s.logger.WarnContext(ctx, "aurige verdict cache unavailable", "error", err)
		} else if same {
			return outcomeUnchanged, nil
		}
	}

	res, err := s.registry.ApplyRegistryStatus(ctx, service.RegistryStatus{
		CodeNEPH:       rec.normalizedNEPH,
		Validated:      rec.Validated(),
		TheoryPassedAt: rec.theoryPassedAt,
	}, systemActor)
	if dErrors.HasCode(err, dErrors.CodeNotFound) {
		return outcomeUnknown, nil
	}
	if err != nil {
		return 0, err
	}

	if s.cache != nil {
		if err := s.cache.Remember(ctx, rec.normalizedNEPH, fp); err != nil {
			s.logger.WarnContext(ctx, "aurige verdict cache write failed", "error", err)
		}
	}
	if res.Cancelled != nil {
		s.logger.InfoContext(ctx, "booking cancelled after registry update",
			"candidate_id", res.Candidate.ID.String(),
			"place_id", res.Cancelled.SlotID.String(),
		)
		return outcomeCancelled, nil
	}
	return outcomeUpdated, nil
}

// fingerprint identifies the registry facts a record carries.
func fingerprint(rec *Record) string {
	fp := "nok"
	if rec.Validated() {
		fp = "ok"
	}
	if rec.theoryPassedAt != nil {
		fp += "|" + rec.theoryPassedAt.Format(time.DateOnly)
	}
	return fp
}
