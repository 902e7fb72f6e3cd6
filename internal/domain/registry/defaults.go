package registry

import (
	"github.com/primehealth/scorecard/internal/domain/evidence"
)

// Default returns the built-in scoring rule set. The data here is owned by
// the scoring revision: changing any number means shipping a new revision
// string alongside it.
func Default() *Registry {
	return &Registry{
		SourceQuality: map[evidence.SourceType]float64{
			evidence.SourceLab:                1.0,
			evidence.SourceTest:               0.9,
			evidence.SourceDevice:             0.8,
			evidence.SourceMeasuredSelfReport: 0.7,
			evidence.SourceImageEstimate:      0.55,
			evidence.SourceSelfReportProxy:    0.4,
			evidence.SourcePrior:              0.2,
		},
		Domains: map[evidence.Domain]DomainSpec{
			evidence.Heart: {
				Drivers: []Driver{
					{
						Key: "resting_heart_rate", Weight: 0.35,
						FreshnessHalfLifeDays: 30, StabilityWindowDays: 90,
						ValidMin: 25, ValidMax: 120,
						Curve: Curve{Kind: CurvePiecewise, Points: []Point{
							{X: 45, Score: 100}, {X: 55, Score: 92}, {X: 65, Score: 80},
							{X: 75, Score: 60}, {X: 85, Score: 38}, {X: 100, Score: 12},
						}},
					},
					{
						Key: "systolic_bp", Weight: 0.30,
						FreshnessHalfLifeDays: 60, StabilityWindowDays: 180,
						ValidMin: 70, ValidMax: 250,
						Curve: Curve{Kind: CurvePiecewise, Points: []Point{
							{X: 105, Score: 100}, {X: 115, Score: 90}, {X: 125, Score: 74},
							{X: 135, Score: 54}, {X: 150, Score: 30}, {X: 170, Score: 10},
						}},
					},
					{
						Key: "vo2_max", Weight: 0.20,
						FreshnessHalfLifeDays: 180, StabilityWindowDays: 365,
						ValidMin: 10, ValidMax: 90,
						Curve: Curve{Kind: CurvePiecewise, Points: []Point{
							{X: 25, Score: 22}, {X: 35, Score: 52}, {X: 45, Score: 78},
							{X: 55, Score: 95}, {X: 62, Score: 100},
						}},
					},
					{
						Key: "ldl_cholesterol", Weight: 0.15,
						FreshnessHalfLifeDays: 365, StabilityWindowDays: 730,
						ValidMin: 20, ValidMax: 400,
						Curve: Curve{Kind: CurveThreshold, Points: []Point{
							{X: 80, Score: 95}, {X: 100, Score: 85}, {X: 130, Score: 65},
							{X: 160, Score: 40},
						}, Default: 15},
					},
				},
			},
			evidence.Frame: {
				Drivers: []Driver{
					{
						Key: "body_fat_pct", Weight: 0.35,
						FreshnessHalfLifeDays: 90, StabilityWindowDays: 180,
						ValidMin: 3, ValidMax: 60,
						Curve: Curve{Kind: CurvePiecewise, Points: []Point{
							{X: 10, Score: 95}, {X: 15, Score: 90}, {X: 20, Score: 76},
							{X: 25, Score: 58}, {X: 30, Score: 42}, {X: 38, Score: 20},
						}},
					},
					{
						Key: "waist_to_height", Weight: 0.25,
						FreshnessHalfLifeDays: 90, StabilityWindowDays: 180,
						ValidMin: 0.3, ValidMax: 0.8,
						Curve: Curve{Kind: CurvePiecewise, Points: []Point{
							{X: 0.42, Score: 95}, {X: 0.46, Score: 85}, {X: 0.50, Score: 70},
							{X: 0.55, Score: 50}, {X: 0.62, Score: 28},
						}},
					},
					{
						Key: "grip_strength", Weight: 0.20,
						FreshnessHalfLifeDays: 180, StabilityWindowDays: 365,
						ValidMin: 5, ValidMax: 120,
						Curve: Curve{Kind: CurvePiecewise, Points: []Point{
							{X: 20, Score: 28}, {X: 35, Score: 58}, {X: 48, Score: 82},
							{X: 60, Score: 100},
						}},
					},
					{
						// Fallback adiposity proxy, suppressed below whenever a
						// direct body-composition measurement exists.
						Key: "bmi", Weight: 0.20,
						FreshnessHalfLifeDays: 90, StabilityWindowDays: 180,
						ValidMin: 12, ValidMax: 60,
						Curve: Curve{Kind: CurvePiecewise, Points: []Point{
							{X: 17, Score: 45}, {X: 19, Score: 72}, {X: 22, Score: 90},
							{X: 25, Score: 74}, {X: 30, Score: 48}, {X: 36, Score: 24},
						}},
					},
				},
				Rules: []Rule{
					{
						Kind: RuleCap, Value: 69,
						MinSource: evidence.SourceMeasuredSelfReport,
						Note:      "Capped at 69%: photo-based estimates alone cannot reach High",
					},
				},
				Suppressions: []Suppression{
					{
						Driver:         "bmi",
						WhenAnyPresent: []string{"body_fat_pct", "waist_to_height"},
						Note:           "BMI suppressed: direct body-composition evidence present",
					},
				},
			},
			evidence.Metabolism: {
				Drivers: []Driver{
					{
						Key: "hba1c", Weight: 0.40,
						FreshnessHalfLifeDays: 120, StabilityWindowDays: 365,
						ValidMin: 3.5, ValidMax: 15,
						Curve: Curve{Kind: CurveThreshold, Points: []Point{
							{X: 5.4, Score: 95}, {X: 5.7, Score: 85}, {X: 6.0, Score: 62},
							{X: 6.5, Score: 42},
						}, Default: 18},
					},
					{
						Key: "fasting_glucose", Weight: 0.30,
						FreshnessHalfLifeDays: 60, StabilityWindowDays: 180,
						ValidMin: 40, ValidMax: 400,
						Curve: Curve{Kind: CurveThreshold, Points: []Point{
							{X: 90, Score: 95}, {X: 100, Score: 80}, {X: 110, Score: 58},
							{X: 126, Score: 38},
						}, Default: 20},
					},
					{
						Key: "triglycerides", Weight: 0.20,
						FreshnessHalfLifeDays: 180, StabilityWindowDays: 365,
						ValidMin: 20, ValidMax: 2000,
						Curve: Curve{Kind: CurveThreshold, Points: []Point{
							{X: 90, Score: 95}, {X: 150, Score: 75}, {X: 200, Score: 48},
							{X: 300, Score: 25},
						}, Default: 10},
					},
					{
						Key: "energy_level", Weight: 0.10,
						FreshnessHalfLifeDays: 30, StabilityWindowDays: 90,
						ValidMin: 0, ValidMax: 10,
						Curve: Curve{Kind: CurvePiecewise, Points: []Point{
							{X: 2, Score: 20}, {X: 4, Score: 45}, {X: 6, Score: 68},
							{X: 8, Score: 88}, {X: 10, Score: 100},
						}},
					},
				},
				Rules: []Rule{
					{
						Kind: RuleCap, Value: 40,
						MinSource: evidence.SourceLab,
						Note:      "Capped at 40%: no lab biomarker present",
					},
				},
			},
			evidence.Recovery: {
				Drivers: []Driver{
					{
						// Primary sleep driver; device evidence here unlocks the
						// confidence floor below.
						Key: "sleep_duration", Weight: 0.40,
						FreshnessHalfLifeDays: 14, StabilityWindowDays: 60,
						ValidMin: 0, ValidMax: 16,
						Curve: Curve{Kind: CurvePiecewise, Points: []Point{
							{X: 4.5, Score: 18}, {X: 5.5, Score: 38}, {X: 6.5, Score: 62},
							{X: 7.25, Score: 92}, {X: 8, Score: 90}, {X: 9.5, Score: 62},
						}},
					},
					{
						Key: "hrv", Weight: 0.30,
						FreshnessHalfLifeDays: 14, StabilityWindowDays: 60,
						ValidMin: 5, ValidMax: 300,
						Curve: Curve{Kind: CurvePiecewise, Points: []Point{
							{X: 20, Score: 28}, {X: 40, Score: 55}, {X: 60, Score: 78},
							{X: 85, Score: 95}, {X: 110, Score: 100},
						}},
					},
					{
						Key: "sleep_consistency", Weight: 0.15,
						FreshnessHalfLifeDays: 21, StabilityWindowDays: 90,
						ValidMin: 0, ValidMax: 100,
						Curve: Curve{Kind: CurvePiecewise, Points: []Point{
							{X: 30, Score: 25}, {X: 60, Score: 55}, {X: 85, Score: 88},
							{X: 100, Score: 100},
						}},
					},
					{
						Key: "perceived_stress", Weight: 0.15,
						FreshnessHalfLifeDays: 14, StabilityWindowDays: 60,
						ValidMin: 0, ValidMax: 10,
						Curve: Curve{Kind: CurvePiecewise, Points: []Point{
							{X: 1, Score: 95}, {X: 3, Score: 80}, {X: 5, Score: 60},
							{X: 7, Score: 38}, {X: 9, Score: 18},
						}},
					},
				},
				Rules: []Rule{
					{
						Kind: RuleFloor, Value: 70,
						MinSource: evidence.SourceDevice,
						Driver:    "sleep_duration",
						Note:      "Floored at 70%: device-grade sleep tracking present",
					},
				},
			},
			evidence.Mind: {
				Drivers: []Driver{
					{
						Key: "processing_speed", Weight: 0.35,
						FreshnessHalfLifeDays: 180, StabilityWindowDays: 365,
						ValidMin: 0, ValidMax: 100,
						Curve: Curve{Kind: CurvePiecewise, Points: []Point{
							{X: 10, Score: 15}, {X: 35, Score: 42}, {X: 60, Score: 68},
							{X: 85, Score: 92}, {X: 100, Score: 100},
						}},
					},
					{
						Key: "symptom_screen", Weight: 0.30,
						FreshnessHalfLifeDays: 30, StabilityWindowDays: 120,
						ValidMin: 0, ValidMax: 27,
						Curve: Curve{Kind: CurveThreshold, Points: []Point{
							{X: 5, Score: 92}, {X: 10, Score: 68}, {X: 15, Score: 45},
							{X: 20, Score: 28},
						}, Default: 12},
					},
					{
						Key: "mood", Weight: 0.20,
						FreshnessHalfLifeDays: 14, StabilityWindowDays: 60,
						Curve: Curve{Kind: CurveCategorical, Categories: map[string]float64{
							"struggling": 22,
							"low":        42,
							"steady":     65,
							"good":       82,
							"excellent":  94,
						}},
					},
					{
						Key: "mindfulness_minutes", Weight: 0.15,
						FreshnessHalfLifeDays: 21, StabilityWindowDays: 90,
						ValidMin: 0, ValidMax: 600,
						Curve: Curve{Kind: CurvePiecewise, Points: []Point{
							{X: 0, Score: 35}, {X: 30, Score: 58}, {X: 90, Score: 80},
							{X: 180, Score: 95},
						}},
					},
				},
				Rules: []Rule{
					{
						Kind: RuleCap, Value: 35,
						MinSource: evidence.SourceTest,
						Note:      "Capped at 35%: no validated test evidence present",
					},
				},
			},
		},
	}
}
