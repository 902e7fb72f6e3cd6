// Package evidence contains the measurement model consumed by the scoring
// engine: individual sourced measurements, the tagged value union, and the
// evidence-set view the calculators read from.
package evidence

import (
	"time"
)

// Domain identifies one of the five fixed health domains.
type Domain string

// The five health domains. The set is fixed per scoring revision.
const (
	Heart      Domain = "heart"
	Frame      Domain = "frame"
	Metabolism Domain = "metabolism"
	Recovery   Domain = "recovery"
	Mind       Domain = "mind"
)

// Domains lists all domains in canonical order.
func Domains() []Domain {
	return []Domain{Heart, Frame, Metabolism, Recovery, Mind}
}

// SourceType is the provenance category of a measurement.
type SourceType string

// Known source types, from most to least reliable.
const (
	SourceLab                SourceType = "lab"
	SourceTest               SourceType = "test"
	SourceDevice             SourceType = "device"
	SourceMeasuredSelfReport SourceType = "measured_self_report"
	SourceImageEstimate      SourceType = "image_estimate"
	SourceSelfReportProxy    SourceType = "self_report_proxy"
	SourcePrior              SourceType = "prior"
)

// SourceTypes lists all known source types.
func SourceTypes() []SourceType {
	return []SourceType{
		SourceLab,
		SourceTest,
		SourceDevice,
		SourceMeasuredSelfReport,
		SourceImageEstimate,
		SourceSelfReportProxy,
		SourcePrior,
	}
}

// Item is a single measurement for one driver.
// MeasuredAt may be nil, meaning the age is unknown and the item is treated
// as maximally stale.
type Item struct {
	Domain     Domain     `json:"domain"`
	DriverKey  string     `json:"driver_key"`
	Value      Value      `json:"value"`
	SourceType SourceType `json:"source_type"`
	MeasuredAt *time.Time `json:"measured_at"`
}

// Age returns the item's age relative to now. Items without a timestamp
// report an effectively infinite age.
func (it Item) Age(now time.Time) time.Duration {
	if it.MeasuredAt == nil {
		return maxAge
	}
	age := now.Sub(*it.MeasuredAt)
	if age < 0 {
		return 0
	}
	return age
}

// maxAge stands in for "unknown, maximally stale".
const maxAge = time.Duration(1<<63 - 1)

// Set is an unordered snapshot of measurements for one subject.
// Multiple items may exist for the same driver; the calculators pick the
// most relevant one via BestPerDriver.
type Set struct {
	Items []Item `json:"items"`
}

// ForDomain returns the subset of items tagged with the given domain.
func (s Set) ForDomain(d Domain) []Item {
	var out []Item
	for _, it := range s.Items {
		if it.Domain == d {
			out = append(out, it)
		}
	}
	return out
}

// FreshestMeasuredAt returns the most recent measurement timestamp across
// the whole set, or the zero time when no item carries a timestamp.
func (s Set) FreshestMeasuredAt() time.Time {
	var freshest time.Time
	for _, it := range s.Items {
		if it.MeasuredAt != nil && it.MeasuredAt.After(freshest) {
			freshest = *it.MeasuredAt
		}
	}
	return freshest
}

// FreshestForDomain returns the most recent measurement timestamp within one
// domain, or the zero time.
func (s Set) FreshestForDomain(d Domain) time.Time {
	var freshest time.Time
	for _, it := range s.Items {
		if it.Domain != d || it.MeasuredAt == nil {
			continue
		}
		if it.MeasuredAt.After(freshest) {
			freshest = *it.MeasuredAt
		}
	}
	return freshest
}

// DomainsWithData counts domains with at least one item present.
func (s Set) DomainsWithData() int {
	seen := make(map[Domain]struct{})
	for _, it := range s.Items {
		seen[it.Domain] = struct{}{}
	}
	return len(seen)
}

// BestPerDriver reduces a slice of items to at most one item per driver.
// The winner is the item with the most recent MeasuredAt (nil counts as
// oldest); ties go to the higher-quality source as ranked by the quality
// function. Items are not filtered for validity here; range checks belong to
// the calculators, which know each driver's valid range.
func BestPerDriver(items []Item, quality func(SourceType) float64) map[string]Item {
	best := make(map[string]Item)
	for _, it := range items {
		cur, ok := best[it.DriverKey]
		if !ok {
			best[it.DriverKey] = it
			continue
		}
		if newerThan(it, cur) {
			best[it.DriverKey] = it
			continue
		}
		if sameTime(it, cur) && quality(it.SourceType) > quality(cur.SourceType) {
			best[it.DriverKey] = it
		}
	}
	return best
}

// HighestQualityPerDriver reduces items to the single highest-quality item
// per driver, used by the Quality sub-score. Recency breaks quality ties.
func HighestQualityPerDriver(items []Item, quality func(SourceType) float64) map[string]Item {
	best := make(map[string]Item)
	for _, it := range items {
		cur, ok := best[it.DriverKey]
		if !ok {
			best[it.DriverKey] = it
			continue
		}
		qi, qc := quality(it.SourceType), quality(cur.SourceType)
		if qi > qc || (qi == qc && newerThan(it, cur)) {
			best[it.DriverKey] = it
		}
	}
	return best
}

func newerThan(a, b Item) bool {
	if a.MeasuredAt == nil {
		return false
	}
	if b.MeasuredAt == nil {
		return true
	}
	return a.MeasuredAt.After(*b.MeasuredAt)
}

func sameTime(a, b Item) bool {
	if a.MeasuredAt == nil || b.MeasuredAt == nil {
		return a.MeasuredAt == nil && b.MeasuredAt == nil
	}
	return a.MeasuredAt.Equal(*b.MeasuredAt)
}
