package scorecard

import (
	"time"

	"github.com/primehealth/scorecard/internal/domain/confidence"
	"github.com/primehealth/scorecard/internal/domain/evidence"
	"github.com/primehealth/scorecard/internal/domain/registry"
	"github.com/primehealth/scorecard/internal/domain/score"
)

// defaultMinDomains requires every domain to be scored before a Prime Score
// is produced. Product policy, not a mathematical necessity; tune with
// WithMinDomains.
const defaultMinDomains = 5

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithMinDomains sets how many domains must carry a score before the Prime
// Score is produced.
func WithMinDomains(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.minDomains = n
		}
	}
}

// WithStability replaces the stability hook of the confidence calculator.
func WithStability(fn confidence.StabilityFunc) Option {
	return func(e *Engine) {
		e.stability = fn
	}
}

// Engine computes scorecards against one validated registry. It holds no
// state between invocations: Compute is a pure function of (evidence set,
// registry, now, revision).
type Engine struct {
	reg        *registry.Registry
	conf       *confidence.Calculator
	stability  confidence.StabilityFunc
	minDomains int
}

// NewEngine creates an Engine. The registry must already be validated; a
// broken rule set is a configuration error, never something Compute papers
// over.
func NewEngine(reg *registry.Registry, opts ...Option) *Engine {
	e := &Engine{
		reg:        reg,
		minDomains: defaultMinDomains,
	}
	for _, opt := range opts {
		opt(e)
	}
	confOpts := []confidence.Option{}
	if e.stability != nil {
		confOpts = append(confOpts, confidence.WithStability(e.stability))
	}
	e.conf = confidence.New(reg, confOpts...)
	return e
}

// Compute evaluates the full evidence snapshot into a Scorecard.
func (e *Engine) Compute(set evidence.Set, now time.Time, revision string) Scorecard {
	domains := evidence.Domains()
	results := make([]DomainResult, 0, len(domains))

	card := Scorecard{
		GeneratedAt:      now,
		ScoringRevision:  revision,
		DomainScores:     make(map[evidence.Domain]*float64, len(domains)),
		DomainConfidence: make(map[evidence.Domain]float64, len(domains)),
		HowCalculated:    make(map[evidence.Domain][]string, len(domains)),
		EvidenceSummary: EvidenceSummary{
			TotalMetrics:       len(set.Items),
			DomainsWithData:    set.DomainsWithData(),
			FreshestMeasuredAt: set.FreshestMeasuredAt(),
			FreshestPerDomain:  make(map[evidence.Domain]time.Time, len(domains)),
		},
	}

	for _, d := range domains {
		items := set.ForDomain(d)

		s, scoreNotes := score.Compute(d, items, e.reg)
		conf, confNotes := e.conf.Compute(d, items, now)

		explanation := make([]string, 0, len(confNotes)+len(scoreNotes))
		explanation = append(explanation, confNotes...)
		explanation = append(explanation, scoreNotes...)

		results = append(results, DomainResult{
			Domain:      d,
			Score:       s,
			Confidence:  conf,
			Explanation: explanation,
		})

		card.DomainScores[d] = s
		card.DomainConfidence[d] = conf
		card.HowCalculated[d] = explanation
		if freshest := set.FreshestForDomain(d); !freshest.IsZero() {
			card.EvidenceSummary.FreshestPerDomain[d] = freshest
		}
	}

	card.PrimeScore, card.PrimeConfidence = Aggregate(results, e.minDomains)
	return card
}
