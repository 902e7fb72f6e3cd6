// Package confidence computes the per-domain confidence rating: a weighted
// blend of Coverage, Quality, Freshness, and Stability sub-scores, followed
// by the domain's declarative cap/floor rules. Pure computation over its
// inputs, deterministic for identical inputs including `now`.
package confidence

import (
	"fmt"
	"math"
	"time"

	"github.com/primehealth/scorecard/internal/domain/evidence"
	"github.com/primehealth/scorecard/internal/domain/registry"
)

// Blend weights for the four sub-scores. They sum to 1.0; the blended value
// is scaled to [0,100].
const (
	coverageWeight  = 0.35
	qualityWeight   = 0.25
	freshnessWeight = 0.25
	stabilityWeight = 0.15
)

const hoursPerDay = 24

// StabilityFunc scores time-series consistency for one driver in [0,1].
// Real stability needs repeated measurements of the same driver spanning at
// least the driver's stability window; no such history exists in a single
// evidence snapshot, so the default is NoStability. The hook stays in the
// formula so adding history later does not change the blend.
type StabilityFunc func(drv registry.Driver, items []evidence.Item, now time.Time) float64

// NoStability is the default StabilityFunc: always 0.
func NoStability(registry.Driver, []evidence.Item, time.Time) float64 { return 0 }

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithStability replaces the stability scoring hook.
func WithStability(fn StabilityFunc) Option {
	return func(c *Calculator) {
		if fn != nil {
			c.stability = fn
		}
	}
}

// Calculator computes domain confidence against one registry.
type Calculator struct {
	reg       *registry.Registry
	stability StabilityFunc
}

// New creates a Calculator for the given registry.
func New(reg *registry.Registry, opts ...Option) *Calculator {
	c := &Calculator{
		reg:       reg,
		stability: NoStability,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compute returns the 0-100 confidence for one domain plus its explanation
// trail. Zero usable evidence always yields 0.
func (c *Calculator) Compute(d evidence.Domain, items []evidence.Item, now time.Time) (float64, []string) {
	drivers, _ := c.reg.EffectiveDrivers(d, items)
	usable := registry.Usable(drivers, items)

	byDriver := make(map[string][]evidence.Item)
	for _, it := range usable {
		byDriver[it.DriverKey] = append(byDriver[it.DriverKey], it)
	}

	// Recency-selected item per driver drives Freshness; the highest-quality
	// item per driver drives Quality.
	newest := evidence.BestPerDriver(usable, c.reg.QualityFunc())
	finest := evidence.HighestQualityPerDriver(usable, c.reg.QualityFunc())

	var coverage, presentWeight float64
	var qualitySum, freshSum, stabSum float64
	present := 0
	for _, drv := range drivers {
		if _, ok := byDriver[drv.Key]; !ok {
			continue
		}
		present++
		coverage += drv.Weight
		presentWeight += drv.Weight
		qualitySum += drv.Weight * c.reg.Quality(finest[drv.Key].SourceType)
		freshSum += drv.Weight * freshness(drv, newest[drv.Key], now)
		stabSum += drv.Weight * clamp(c.stability(drv, byDriver[drv.Key], now), 0, 1)
	}

	var quality, fresh, stab float64
	if presentWeight > 0 {
		quality = qualitySum / presentWeight
		fresh = freshSum / presentWeight
		stab = stabSum / presentWeight
	}

	raw := 100 * (coverageWeight*coverage + qualityWeight*quality + freshnessWeight*fresh + stabilityWeight*stab)
	conf := clamp(raw, 0, 100)

	explanation := []string{
		fmt.Sprintf("Coverage %.0f%% (%d of %d drivers with data)", coverage*100, present, len(drivers)),
		fmt.Sprintf("Quality %.0f%%", quality*100),
		fmt.Sprintf("Freshness %.0f%%", fresh*100),
		fmt.Sprintf("Stability %.0f%% (no repeated-measurement history)", stab*100),
	}

	conf, ruleNotes := applyRules(c.reg, d, usable, conf)
	explanation = append(explanation, ruleNotes...)
	explanation = append(explanation, fmt.Sprintf("Confidence %.0f%% (%s)", conf, Level(conf)))
	return conf, explanation
}

// freshness decays by half every half-life; items without a timestamp are
// maximally stale.
func freshness(drv registry.Driver, it evidence.Item, now time.Time) float64 {
	if it.MeasuredAt == nil {
		return 0
	}
	ageDays := it.Age(now).Hours() / hoursPerDay
	return math.Pow(0.5, ageDays/drv.FreshnessHalfLifeDays)
}

// applyRules runs the domain's declarative cap/floor rules in order against
// the raw blend. A fired rule's note is recorded verbatim.
func applyRules(reg *registry.Registry, d evidence.Domain, usable []evidence.Item, conf float64) (float64, []string) {
	var notes []string
	for _, rule := range reg.Domain(d).Rules {
		ok := satisfied(reg, rule, usable)
		switch rule.Kind {
		case registry.RuleCap:
			if !ok && conf > rule.Value {
				conf = rule.Value
				notes = append(notes, rule.Note)
			}
		case registry.RuleFloor:
			if ok && conf < rule.Value {
				conf = rule.Value
				notes = append(notes, rule.Note)
			}
		}
	}
	return clamp(conf, 0, 100), notes
}

// satisfied reports whether any usable item meets the rule's minimum source
// quality, optionally restricted to one driver.
func satisfied(reg *registry.Registry, rule registry.Rule, usable []evidence.Item) bool {
	threshold := reg.Quality(rule.MinSource)
	for _, it := range usable {
		if rule.Driver != "" && it.DriverKey != rule.Driver {
			continue
		}
		if reg.Quality(it.SourceType) >= threshold {
			return true
		}
	}
	return false
}

// Level classifies a confidence value for display purposes only.
func Level(conf float64) string {
	switch {
	case conf < 40:
		return "Low"
	case conf < 70:
		return "Medium"
	default:
		return "High"
	}
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
