// Package app provides the application service wiring the scorecard engine
// to its external collaborators: the validated registry, the scorecard
// store with its latest pointer, logging, and metrics. All scoring itself
// stays pure and lives under internal/domain.
package app

import (
	"context"
	"errors"
	"time"

	"github.com/primehealth/scorecard/internal/adapters/repository"
	"github.com/primehealth/scorecard/internal/domain/confidence"
	"github.com/primehealth/scorecard/internal/domain/evidence"
	"github.com/primehealth/scorecard/internal/domain/registry"
	"github.com/primehealth/scorecard/internal/domain/scorecard"
	"github.com/primehealth/scorecard/pkg/logger"
	"github.com/primehealth/scorecard/pkg/metrics"
)

const defaultBatchWorkers = 4

// Service generates scorecards for subjects, consulting the reuse guard
// against the store's latest pointer before recomputing.
type Service struct {
	reg         *registry.Registry
	engine      *scorecard.Engine
	store       repository.Store
	revision    string
	reuseWindow time.Duration

	minDomains   int
	stability    confidence.StabilityFunc
	batchWorkers int

	logger  logger.Logger
	metrics *metrics.Manager
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the scorecard store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics sets the metrics manager.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithReuseWindow overrides the reuse guard's maximum cached-scorecard age.
func WithReuseWindow(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.reuseWindow = d
		}
	}
}

// WithMinDomains sets how many domains must score before a Prime Score is
// produced.
func WithMinDomains(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.minDomains = n
		}
	}
}

// WithStability replaces the stability hook of the confidence calculator.
func WithStability(fn confidence.StabilityFunc) Option {
	return func(s *Service) {
		s.stability = fn
	}
}

// WithBatchWorkers bounds concurrent subject computations in GenerateBatch.
func WithBatchWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.batchWorkers = n
		}
	}
}

// New creates a Service. The registry is validated here: a rule set that
// fails validation can never produce a meaningful scorecard, so this is the
// single fail-fast point for configuration errors.
func New(reg *registry.Registry, revision string, opts ...Option) (*Service, error) {
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	s := &Service{
		reg:          reg,
		revision:     revision,
		reuseWindow:  scorecard.DefaultReuseWindow,
		minDomains:   0,
		batchWorkers: defaultBatchWorkers,
		logger:       logger.Nop(),
		metrics:      metrics.Get(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}

	engineOpts := []scorecard.Option{}
	if s.minDomains > 0 {
		engineOpts = append(engineOpts, scorecard.WithMinDomains(s.minDomains))
	}
	if s.stability != nil {
		engineOpts = append(engineOpts, scorecard.WithStability(s.stability))
	}
	s.engine = scorecard.NewEngine(reg, engineOpts...)
	return s, nil
}

// Compute evaluates an evidence set without touching the store. Exposed for
// callers that manage persistence themselves.
func (s *Service) Compute(set evidence.Set, now time.Time) scorecard.Scorecard {
	return s.engine.Compute(set, now, s.revision)
}

// GenerateOrReuse returns the subject's latest scorecard when the reuse
// guard allows it, otherwise computes a fresh one and appends it as the new
// latest. cached reports which path was taken.
func (s *Service) GenerateOrReuse(ctx context.Context, subjectID string, set evidence.Set, now time.Time) (repository.Record, bool, error) {
	latest, err := s.store.GetLatest(ctx, subjectID)
	switch {
	case err == nil:
		if scorecard.ShouldReuse(&latest.Card, set.FreshestMeasuredAt(), now, s.revision, s.reuseWindow) {
			s.metrics.RecordReused()
			s.logger.Debug(ctx, "scorecard reused",
				logger.String("subject_id", subjectID),
				logger.String("record_id", latest.ID))
			return latest, true, nil
		}
	case errors.Is(err, repository.ErrNotFound):
		// First scorecard for this subject.
	default:
		return repository.Record{}, false, err
	}

	start := time.Now()
	card := s.engine.Compute(set, now, s.revision)
	rec, err := s.store.Append(ctx, subjectID, card)
	if err != nil {
		return repository.Record{}, false, err
	}

	s.metrics.RecordComputed(time.Since(start), len(set.Items), card.PrimeScore == nil)
	s.metrics.RecordExcludedEvidence(s.excludedCount(set))
	s.metrics.SetSubjectsTracked(s.store.Count(ctx))
	s.logger.Info(ctx, "scorecard computed",
		logger.String("subject_id", subjectID),
		logger.String("record_id", rec.ID),
		logger.Int("evidence_items", len(set.Items)),
		logger.Bool("prime_score_present", card.PrimeScore != nil))
	return rec, false, nil
}

// excludedCount tallies evidence items the calculators treated as absent:
// out-of-range values, unknown categories, unestimable markers, and items
// targeting suppressed or unknown drivers.
func (s *Service) excludedCount(set evidence.Set) int {
	excluded := 0
	for _, d := range evidence.Domains() {
		items := set.ForDomain(d)
		drivers, _ := s.reg.EffectiveDrivers(d, items)
		excluded += len(items) - len(registry.Usable(drivers, items))
	}
	return excluded
}
