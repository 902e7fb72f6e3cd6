package score

import (
	"github.com/primehealth/scorecard/internal/domain/evidence"
	"github.com/primehealth/scorecard/internal/domain/registry"
)

// Evaluate maps a raw evidence value through a driver's curve to a 0-100
// sub-score. ok is false when the value's shape does not fit the curve
// (categorical label on a numeric curve and vice versa, unknown label,
// unestimable).
func Evaluate(c registry.Curve, v evidence.Value) (float64, bool) {
	switch c.Kind {
	case registry.CurveCategorical:
		label, isCat := v.Category()
		if !isCat {
			return 0, false
		}
		s, known := c.Categories[label]
		return s, known
	case registry.CurvePiecewise:
		x, isNum := v.Number()
		if !isNum {
			return 0, false
		}
		return evalPiecewise(c.Points, x), true
	case registry.CurveThreshold:
		x, isNum := v.Number()
		if !isNum {
			return 0, false
		}
		return evalThreshold(c.Points, c.Default, x), true
	default:
		return 0, false
	}
}

// evalPiecewise interpolates linearly between points and clamps to the end
// scores outside the covered range.
func evalPiecewise(points []registry.Point, x float64) float64 {
	if x <= points[0].X {
		return points[0].Score
	}
	last := points[len(points)-1]
	if x >= last.X {
		return last.Score
	}
	for i := 1; i < len(points); i++ {
		if x <= points[i].X {
			lo, hi := points[i-1], points[i]
			frac := (x - lo.X) / (hi.X - lo.X)
			return lo.Score + frac*(hi.Score-lo.Score)
		}
	}
	return last.Score
}

// evalThreshold returns the score of the first threshold the value is
// strictly below, or the default once every threshold is cleared.
func evalThreshold(points []registry.Point, def, x float64) float64 {
	for _, p := range points {
		if x < p.X {
			return p.Score
		}
	}
	return def
}
