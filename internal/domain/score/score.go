// Package score converts available driver evidence into 0-100 domain scores
// using the mapping curves defined in the registry. It is a pure computation:
// no I/O, no shared state, deterministic for identical inputs.
package score

import (
	"fmt"
	"math"

	"github.com/primehealth/scorecard/internal/domain/evidence"
	"github.com/primehealth/scorecard/internal/domain/registry"
)

// Compute calculates the domain score for one domain from its evidence.
// The returned score is nil when no driver has usable evidence. The weighted
// average is renormalized over the drivers that actually scored, so coverage
// gaps lower confidence but never drag the score toward zero. The score
// retains full float precision; rounding is a display concern.
func Compute(d evidence.Domain, items []evidence.Item, reg *registry.Registry) (*float64, []string) {
	drivers, notes := reg.EffectiveDrivers(d, items)
	explanation := append([]string(nil), notes...)

	usable, exclusions := partition(drivers, items)
	explanation = append(explanation, exclusions...)

	best := evidence.BestPerDriver(usable, reg.QualityFunc())

	var weightedSum, weightTotal float64
	scored := 0
	for _, drv := range drivers {
		it, ok := best[drv.Key]
		if !ok {
			continue
		}
		sub, ok := Evaluate(drv.Curve, it.Value)
		if !ok {
			// partition already filtered shape mismatches; defensive skip.
			continue
		}
		weightedSum += drv.Weight * sub
		weightTotal += drv.Weight
		scored++
		explanation = append(explanation, fmt.Sprintf(
			"%s: %s (%s) -> %.1f, weight %.0f%%", drv.Key, it.Value, it.SourceType, sub, drv.Weight*100))
	}

	if scored == 0 || weightTotal <= 0 {
		explanation = append(explanation, "No usable evidence: domain score unavailable")
		return nil, explanation
	}

	s := clamp(weightedSum/weightTotal, 0, 100)
	explanation = append(explanation, fmt.Sprintf(
		"Domain score %.1f from %d of %d drivers (weights renormalized)", s, scored, len(drivers)))
	return &s, explanation
}

// Rounded renders a score pointer for display: nearest integer, or nil.
func Rounded(s *float64) *int {
	if s == nil {
		return nil
	}
	r := int(math.Round(*s))
	return &r
}

// partition splits a domain's items into usable evidence and explanation
// notes for everything excluded: out-of-range readings are flagged rather
// than clamped, unestimable markers are surfaced as attempted measurements,
// and items for unknown drivers are dropped silently (registry mismatch,
// not subject data).
func partition(drivers []registry.Driver, items []evidence.Item) ([]evidence.Item, []string) {
	byKey := make(map[string]registry.Driver, len(drivers))
	for _, drv := range drivers {
		byKey[drv.Key] = drv
	}

	var usable []evidence.Item
	var notes []string
	for _, it := range items {
		drv, ok := byKey[it.DriverKey]
		if !ok {
			continue
		}
		if it.Value.Kind() == evidence.KindUnestimable {
			notes = append(notes, fmt.Sprintf("%s: measurement attempted but could not be estimated", it.DriverKey))
			continue
		}
		if !drv.Accepts(it.Value) {
			notes = append(notes, fmt.Sprintf(
				"%s: value %s outside valid range, excluded", it.DriverKey, it.Value))
			continue
		}
		usable = append(usable, it)
	}
	return usable, notes
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
