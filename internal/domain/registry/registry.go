// Package registry holds the static scoring-rule data: drivers and their
// weights per domain, the source-quality table, declarative confidence
// post-rules, and driver suppression rules. A Registry is immutable once
// validated; one Registry corresponds to one scoring revision.
//
// Conventions:
// - Violating configurations fail Validate, they are never renormalized.
// - External errors are wrapped onto this package's sentinel kinds.
package registry

import (
	"fmt"
	"math"
	"sort"

	"github.com/primehealth/scorecard/internal/domain/evidence"
)

// weightTolerance bounds the floating-point slack allowed when checking that
// driver weights within a domain sum to 1.0.
const weightTolerance = 1e-9

// CurveKind discriminates how a driver's raw value maps to a 0-100 sub-score.
type CurveKind string

// Curve kinds.
const (
	CurvePiecewise   CurveKind = "piecewise"
	CurveThreshold   CurveKind = "threshold"
	CurveCategorical CurveKind = "categorical"
)

// Point is one node of a piecewise or threshold curve.
type Point struct {
	X     float64 `koanf:"x" json:"x"`
	Score float64 `koanf:"score" json:"score"`
}

// Curve maps a raw driver value to a sub-score.
//
// piecewise: linear interpolation between Points (sorted by X), clamped to
// the end scores outside the point range.
// threshold: the score of the first Point whose X the value is strictly
// below; Default when the value clears every threshold.
// categorical: direct lookup in Categories; unknown labels are invalid.
type Curve struct {
	Kind       CurveKind          `koanf:"kind" json:"kind"`
	Points     []Point            `koanf:"points" json:"points,omitempty"`
	Default    float64            `koanf:"default" json:"default,omitempty"`
	Categories map[string]float64 `koanf:"categories" json:"categories,omitempty"`
}

// Driver is one measurable factor within a domain.
type Driver struct {
	Key                   string  `koanf:"key" json:"key"`
	Weight                float64 `koanf:"weight" json:"weight"`
	FreshnessHalfLifeDays float64 `koanf:"freshness_half_life_days" json:"freshness_half_life_days"`
	StabilityWindowDays   float64 `koanf:"stability_window_days" json:"stability_window_days"`
	// ValidMin/ValidMax bound the physiologically plausible numeric range.
	// Values outside are excluded from scoring, never clamped into range.
	// Ignored for categorical curves.
	ValidMin float64 `koanf:"valid_min" json:"valid_min"`
	ValidMax float64 `koanf:"valid_max" json:"valid_max"`
	Curve    Curve   `koanf:"curve" json:"curve"`
}

// Accepts reports whether a value is usable as evidence for this driver:
// a numeric value inside the physiologically valid range for numeric curves,
// or a known label for categorical curves. Unestimable values are never
// usable.
func (d Driver) Accepts(v evidence.Value) bool {
	if d.Curve.Kind == CurveCategorical {
		label, ok := v.Category()
		if !ok {
			return false
		}
		_, known := d.Curve.Categories[label]
		return known
	}
	x, ok := v.Number()
	if !ok {
		return false
	}
	return x >= d.ValidMin && x <= d.ValidMax
}

// RuleKind discriminates confidence post-rules.
type RuleKind string

// Rule kinds: a cap clamps confidence down unless satisfied, a floor lifts
// it when satisfied.
const (
	RuleCap   RuleKind = "cap"
	RuleFloor RuleKind = "floor"
)

// Rule is one declarative confidence post-processing rule. A rule is
// satisfied when the domain's evidence contains at least one estimable item
// whose source quality is at least MinSource's quality, optionally
// restricted to a single driver.
//
// cap: confidence is clamped to at most Value unless the rule is satisfied.
// floor: confidence is lifted to at least Value when the rule is satisfied.
type Rule struct {
	Kind      RuleKind            `koanf:"kind" json:"kind"`
	Value     float64             `koanf:"value" json:"value"`
	MinSource evidence.SourceType `koanf:"min_source" json:"min_source"`
	Driver    string              `koanf:"driver" json:"driver,omitempty"`
	Note      string              `koanf:"note" json:"note"`
}

// Suppression removes a fallback driver from all calculations whenever a
// preferred driver has estimable evidence; the suppressed weight is
// redistributed proportionally across the remaining drivers.
type Suppression struct {
	Driver         string   `koanf:"driver" json:"driver"`
	WhenAnyPresent []string `koanf:"when_any_present" json:"when_any_present"`
	Note           string   `koanf:"note" json:"note"`
}

// DomainSpec bundles one domain's drivers, post-rules, and suppressions.
type DomainSpec struct {
	Drivers      []Driver      `koanf:"drivers" json:"drivers"`
	Rules        []Rule        `koanf:"rules" json:"rules,omitempty"`
	Suppressions []Suppression `koanf:"suppressions" json:"suppressions,omitempty"`
}

// Registry is the full rule set for one scoring revision.
type Registry struct {
	Domains       map[evidence.Domain]DomainSpec  `koanf:"domains" json:"domains"`
	SourceQuality map[evidence.SourceType]float64 `koanf:"source_quality" json:"source_quality"`
}

// Quality returns the reliability multiplier for a source type. Validate
// guarantees every known source type is present, so the zero fallback only
// matters for registries that skipped validation.
func (r *Registry) Quality(s evidence.SourceType) float64 {
	return r.SourceQuality[s]
}

// QualityFunc returns Quality as a standalone function for the evidence
// selection helpers.
func (r *Registry) QualityFunc() func(evidence.SourceType) float64 {
	return r.Quality
}

// Domain returns the spec for a domain. Callers should only pass domains
// from evidence.Domains(); Validate guarantees those all exist.
func (r *Registry) Domain(d evidence.Domain) DomainSpec {
	return r.Domains[d]
}

// EffectiveDrivers applies the domain's suppression rules against the given
// evidence and returns the surviving drivers with weights renormalized to
// sum to 1.0 again. With no suppression triggered it returns the drivers
// unchanged. The returned notes record each suppression that fired.
func (r *Registry) EffectiveDrivers(d evidence.Domain, items []evidence.Item) ([]Driver, []string) {
	spec := r.Domains[d]
	suppressed := make(map[string]string)
	for _, sup := range spec.Suppressions {
		for _, trigger := range sup.WhenAnyPresent {
			if hasEstimable(items, trigger) {
				suppressed[sup.Driver] = sup.Note
				break
			}
		}
	}
	if len(suppressed) == 0 {
		return spec.Drivers, nil
	}

	var kept []Driver
	var notes []string
	var removed float64
	for _, drv := range spec.Drivers {
		if note, ok := suppressed[drv.Key]; ok {
			removed += drv.Weight
			notes = append(notes, note)
			continue
		}
		kept = append(kept, drv)
	}
	if removed <= 0 || len(kept) == 0 {
		return kept, notes
	}
	scale := 1.0 / (1.0 - removed)
	out := make([]Driver, len(kept))
	for i, drv := range kept {
		drv.Weight *= scale
		out[i] = drv
	}
	return out, notes
}

// Usable filters items down to those accepted by one of the given drivers.
// Out-of-range values, unknown categories, unestimable markers, and items
// for drivers outside the list are all dropped; both calculators treat such
// items as absent.
func Usable(drivers []Driver, items []evidence.Item) []evidence.Item {
	byKey := make(map[string]Driver, len(drivers))
	for _, drv := range drivers {
		byKey[drv.Key] = drv
	}
	var out []evidence.Item
	for _, it := range items {
		drv, ok := byKey[it.DriverKey]
		if !ok {
			continue
		}
		if drv.Accepts(it.Value) {
			out = append(out, it)
		}
	}
	return out
}

func hasEstimable(items []evidence.Item, driverKey string) bool {
	for _, it := range items {
		if it.DriverKey == driverKey && it.Value.Kind() != evidence.KindUnestimable {
			return true
		}
	}
	return false
}

// Validate checks every configuration invariant. Any violation makes the
// whole registry unusable; nothing is ever silently repaired.
func (r *Registry) Validate() error {
	if len(r.Domains) == 0 {
		return fmt.Errorf("%w: no domains defined", ErrInvalidRegistry)
	}
	for _, d := range evidence.Domains() {
		if _, ok := r.Domains[d]; !ok {
			return fmt.Errorf("%w: domain %q missing", ErrInvalidRegistry, d)
		}
	}
	for _, s := range evidence.SourceTypes() {
		q, ok := r.SourceQuality[s]
		if !ok {
			return fmt.Errorf("%w: source type %q missing from quality table", ErrInvalidRegistry, s)
		}
		if q < 0 || q > 1 {
			return fmt.Errorf("%w: source type %q quality %v outside [0,1]", ErrInvalidRegistry, s, q)
		}
	}
	for name, spec := range r.Domains {
		if err := validateDomain(name, spec, r.SourceQuality); err != nil {
			return err
		}
	}
	return nil
}

func validateDomain(name evidence.Domain, spec DomainSpec, quality map[evidence.SourceType]float64) error {
	if len(spec.Drivers) == 0 {
		return fmt.Errorf("%w: domain %q has no drivers", ErrInvalidRegistry, name)
	}
	keys := make(map[string]struct{}, len(spec.Drivers))
	var sum float64
	for _, drv := range spec.Drivers {
		if drv.Key == "" {
			return fmt.Errorf("%w: domain %q has a driver with an empty key", ErrInvalidRegistry, name)
		}
		if _, dup := keys[drv.Key]; dup {
			return fmt.Errorf("%w: domain %q driver %q defined twice", ErrInvalidRegistry, name, drv.Key)
		}
		keys[drv.Key] = struct{}{}
		if drv.Weight <= 0 || drv.Weight > 1 {
			return fmt.Errorf("%w: domain %q driver %q weight %v outside (0,1]", ErrInvalidRegistry, name, drv.Key, drv.Weight)
		}
		sum += drv.Weight
		if drv.FreshnessHalfLifeDays <= 0 {
			return fmt.Errorf("%w: domain %q driver %q freshness half-life must be positive", ErrInvalidRegistry, name, drv.Key)
		}
		if drv.StabilityWindowDays <= 0 {
			return fmt.Errorf("%w: domain %q driver %q stability window must be positive", ErrInvalidRegistry, name, drv.Key)
		}
		if err := validateCurve(name, drv); err != nil {
			return err
		}
	}
	if math.Abs(sum-1.0) > weightTolerance {
		return fmt.Errorf("%w: domain %q driver weights sum to %v, want 1.0", ErrInvalidRegistry, name, sum)
	}
	for _, rule := range spec.Rules {
		if rule.Kind != RuleCap && rule.Kind != RuleFloor {
			return fmt.Errorf("%w: domain %q rule has unknown kind %q", ErrInvalidRegistry, name, rule.Kind)
		}
		if rule.Value < 0 || rule.Value > 100 {
			return fmt.Errorf("%w: domain %q rule value %v outside [0,100]", ErrInvalidRegistry, name, rule.Value)
		}
		if _, ok := quality[rule.MinSource]; !ok {
			return fmt.Errorf("%w: domain %q rule references unknown source %q", ErrInvalidRegistry, name, rule.MinSource)
		}
		if rule.Driver != "" {
			if _, ok := keys[rule.Driver]; !ok {
				return fmt.Errorf("%w: domain %q rule references unknown driver %q", ErrInvalidRegistry, name, rule.Driver)
			}
		}
	}
	for _, sup := range spec.Suppressions {
		if _, ok := keys[sup.Driver]; !ok {
			return fmt.Errorf("%w: domain %q suppression targets unknown driver %q", ErrInvalidRegistry, name, sup.Driver)
		}
		if len(sup.WhenAnyPresent) == 0 {
			return fmt.Errorf("%w: domain %q suppression of %q has no trigger drivers", ErrInvalidRegistry, name, sup.Driver)
		}
		for _, trg := range sup.WhenAnyPresent {
			if _, ok := keys[trg]; !ok {
				return fmt.Errorf("%w: domain %q suppression trigger %q is not a driver", ErrInvalidRegistry, name, trg)
			}
			if trg == sup.Driver {
				return fmt.Errorf("%w: domain %q suppression of %q triggers on itself", ErrInvalidRegistry, name, sup.Driver)
			}
		}
	}
	return nil
}

func validateCurve(name evidence.Domain, drv Driver) error {
	c := drv.Curve
	switch c.Kind {
	case CurvePiecewise:
		if len(c.Points) < 2 {
			return fmt.Errorf("%w: domain %q driver %q piecewise curve needs at least 2 points", ErrInvalidRegistry, name, drv.Key)
		}
	case CurveThreshold:
		if len(c.Points) == 0 {
			return fmt.Errorf("%w: domain %q driver %q threshold curve needs at least 1 point", ErrInvalidRegistry, name, drv.Key)
		}
	case CurveCategorical:
		if len(c.Categories) == 0 {
			return fmt.Errorf("%w: domain %q driver %q categorical curve has no categories", ErrInvalidRegistry, name, drv.Key)
		}
		for label, score := range c.Categories {
			if score < 0 || score > 100 {
				return fmt.Errorf("%w: domain %q driver %q category %q score %v outside [0,100]", ErrInvalidRegistry, name, drv.Key, label, score)
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: domain %q driver %q has unknown curve kind %q", ErrInvalidRegistry, name, drv.Key, c.Kind)
	}
	if !sort.SliceIsSorted(c.Points, func(i, j int) bool { return c.Points[i].X < c.Points[j].X }) {
		return fmt.Errorf("%w: domain %q driver %q curve points must be sorted by x", ErrInvalidRegistry, name, drv.Key)
	}
	for i := 1; i < len(c.Points); i++ {
		if c.Points[i].X == c.Points[i-1].X {
			return fmt.Errorf("%w: domain %q driver %q curve has duplicate x %v", ErrInvalidRegistry, name, drv.Key, c.Points[i].X)
		}
	}
	for _, p := range c.Points {
		if p.Score < 0 || p.Score > 100 {
			return fmt.Errorf("%w: domain %q driver %q curve score %v outside [0,100]", ErrInvalidRegistry, name, drv.Key, p.Score)
		}
	}
	if drv.ValidMin >= drv.ValidMax {
		return fmt.Errorf("%w: domain %q driver %q valid range [%v,%v] is empty", ErrInvalidRegistry, name, drv.Key, drv.ValidMin, drv.ValidMax)
	}
	return nil
}
