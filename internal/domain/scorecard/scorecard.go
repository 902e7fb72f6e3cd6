// Package scorecard assembles domain scores and confidences into the Prime
// Scorecard output record, aggregates the Prime Score, and implements the
// idempotent re-generation guard.
package scorecard

import (
	"time"

	"github.com/primehealth/scorecard/internal/domain/evidence"
)

// DefaultReuseWindow bounds how old a cached scorecard may be before the
// reuse guard forces recomputation.
const DefaultReuseWindow = 10 * time.Minute

// DomainResult is one domain's computed outcome.
type DomainResult struct {
	Domain      evidence.Domain `json:"domain"`
	Score       *float64        `json:"score"`
	Confidence  float64         `json:"confidence"`
	Explanation []string        `json:"explanation"`
}

// EvidenceSummary carries the counts and timestamps used for idempotence
// comparisons.
type EvidenceSummary struct {
	TotalMetrics       int                           `json:"total_metrics"`
	DomainsWithData    int                           `json:"domains_with_data"`
	FreshestMeasuredAt time.Time                     `json:"freshest_measured_at"`
	FreshestPerDomain  map[evidence.Domain]time.Time `json:"freshest_per_domain,omitempty"`
}

// Scorecard is the immutable output record of one generation. Persistence
// and the per-subject latest pointer live outside the engine.
type Scorecard struct {
	GeneratedAt      time.Time                     `json:"generated_at"`
	ScoringRevision  string                        `json:"scoring_revision"`
	DomainScores     map[evidence.Domain]*float64  `json:"domain_scores"`
	DomainConfidence map[evidence.Domain]float64   `json:"domain_confidence"`
	PrimeScore       *float64                      `json:"prime_score"`
	PrimeConfidence  float64                       `json:"prime_confidence"`
	HowCalculated    map[evidence.Domain][]string  `json:"how_calculated"`
	EvidenceSummary  EvidenceSummary               `json:"evidence_summary"`
}

// Aggregate combines domain results into the Prime Score and its confidence.
// The score is the unweighted mean over scored domains but only when at
// least minDomains of them are non-nil; otherwise nil. The confidence is the
// unweighted mean over all domains regardless, it describes how much data
// exists even when too little of it to produce a number.
func Aggregate(results []DomainResult, minDomains int) (*float64, float64) {
	var confSum float64
	var scoreSum float64
	scored := 0
	for _, r := range results {
		confSum += r.Confidence
		if r.Score != nil {
			scoreSum += *r.Score
			scored++
		}
	}

	var confidence float64
	if len(results) > 0 {
		confidence = confSum / float64(len(results))
	}
	if scored == 0 || scored < minDomains {
		return nil, confidence
	}
	prime := scoreSum / float64(scored)
	return &prime, confidence
}

// ShouldReuse reports whether an existing scorecard may be returned instead
// of recomputing: same revision, younger than maxAge, and the freshest
// evidence timestamp exactly equal to the freshest timestamp of the newly
// loaded set. The timestamp equality is the correctness guarantee; a
// mismatch simply triggers recomputation, it is never an error.
func ShouldReuse(existing *Scorecard, freshestNew time.Time, now time.Time, revision string, maxAge time.Duration) bool {
	if existing == nil {
		return false
	}
	if existing.ScoringRevision != revision {
		return false
	}
	if now.Sub(existing.GeneratedAt) >= maxAge {
		return false
	}
	return existing.EvidenceSummary.FreshestMeasuredAt.Equal(freshestNew)
}
