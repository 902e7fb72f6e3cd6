package registry_test

import (
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/primehealth/scorecard/internal/domain/evidence"
	"github.com/primehealth/scorecard/internal/domain/registry"
)

func ts(t time.Time) *time.Time { return &t }

func TestDefaultRegistry(t *testing.T) {
	Convey("Given the built-in rule set", t, func() {
		reg := registry.Default()

		Convey("Then it passes validation", func() {
			So(reg.Validate(), ShouldBeNil)
		})

		Convey("Then every domain's weights sum to 1.0", func() {
			for _, d := range evidence.Domains() {
				var sum float64
				for _, drv := range reg.Domain(d).Drivers {
					sum += drv.Weight
				}
				So(sum, ShouldAlmostEqual, 1.0, 1e-9)
			}
		})

		Convey("Then the source quality table matches the published multipliers", func() {
			So(reg.Quality(evidence.SourceLab), ShouldEqual, 1.0)
			So(reg.Quality(evidence.SourceTest), ShouldEqual, 0.9)
			So(reg.Quality(evidence.SourceDevice), ShouldEqual, 0.8)
			So(reg.Quality(evidence.SourceMeasuredSelfReport), ShouldEqual, 0.7)
			So(reg.Quality(evidence.SourceImageEstimate), ShouldEqual, 0.55)
			So(reg.Quality(evidence.SourceSelfReportProxy), ShouldEqual, 0.4)
			So(reg.Quality(evidence.SourcePrior), ShouldEqual, 0.2)
		})
	})
}

func validRegistry() *registry.Registry {
	reg := &registry.Registry{
		SourceQuality: registry.Default().SourceQuality,
		Domains:       make(map[evidence.Domain]registry.DomainSpec),
	}
	for _, d := range evidence.Domains() {
		reg.Domains[d] = registry.DomainSpec{
			Drivers: []registry.Driver{{
				Key: "only", Weight: 1.0,
				FreshnessHalfLifeDays: 30, StabilityWindowDays: 90,
				ValidMin: 0, ValidMax: 100,
				Curve: registry.Curve{Kind: registry.CurvePiecewise, Points: []registry.Point{
					{X: 0, Score: 0}, {X: 100, Score: 100},
				}},
			}},
		}
	}
	return reg
}

func TestValidate(t *testing.T) {
	Convey("Given a minimal valid registry", t, func() {
		So(validRegistry().Validate(), ShouldBeNil)

		Convey("When driver weights do not sum to 1.0", func() {
			reg := validRegistry()
			spec := reg.Domains[evidence.Heart]
			spec.Drivers[0].Weight = 0.97
			reg.Domains[evidence.Heart] = spec

			Convey("Then validation fails with ErrInvalidRegistry", func() {
				err := reg.Validate()
				So(err, ShouldNotBeNil)
				So(errors.Is(err, registry.ErrInvalidRegistry), ShouldBeTrue)
			})
		})

		Convey("When the weight error is within floating-point tolerance", func() {
			reg := validRegistry()
			spec := reg.Domains[evidence.Heart]
			spec.Drivers[0].Weight = 1.0 + 1e-12

			Convey("Then validation still passes", func() {
				reg.Domains[evidence.Heart] = spec
				So(reg.Validate(), ShouldBeNil)
			})
		})

		Convey("When a domain is missing", func() {
			reg := validRegistry()
			delete(reg.Domains, evidence.Mind)
			So(errors.Is(reg.Validate(), registry.ErrInvalidRegistry), ShouldBeTrue)
		})

		Convey("When a source type is missing from the quality table", func() {
			reg := validRegistry()
			quality := make(map[evidence.SourceType]float64)
			for k, v := range reg.SourceQuality {
				quality[k] = v
			}
			delete(quality, evidence.SourcePrior)
			reg.SourceQuality = quality
			So(errors.Is(reg.Validate(), registry.ErrInvalidRegistry), ShouldBeTrue)
		})

		Convey("When a quality multiplier leaves [0,1]", func() {
			reg := validRegistry()
			quality := make(map[evidence.SourceType]float64)
			for k, v := range reg.SourceQuality {
				quality[k] = v
			}
			quality[evidence.SourceLab] = 1.2
			reg.SourceQuality = quality
			So(errors.Is(reg.Validate(), registry.ErrInvalidRegistry), ShouldBeTrue)
		})

		Convey("When a rule references an unknown driver", func() {
			reg := validRegistry()
			spec := reg.Domains[evidence.Recovery]
			spec.Rules = []registry.Rule{{
				Kind: registry.RuleFloor, Value: 70,
				MinSource: evidence.SourceDevice, Driver: "sleep",
			}}
			reg.Domains[evidence.Recovery] = spec
			So(errors.Is(reg.Validate(), registry.ErrInvalidRegistry), ShouldBeTrue)
		})

		Convey("When a suppression triggers on itself", func() {
			reg := validRegistry()
			spec := reg.Domains[evidence.Frame]
			spec.Suppressions = []registry.Suppression{{
				Driver: "only", WhenAnyPresent: []string{"only"},
			}}
			reg.Domains[evidence.Frame] = spec
			So(errors.Is(reg.Validate(), registry.ErrInvalidRegistry), ShouldBeTrue)
		})

		Convey("When a piecewise curve has unsorted points", func() {
			reg := validRegistry()
			spec := reg.Domains[evidence.Heart]
			spec.Drivers[0].Curve.Points = []registry.Point{
				{X: 100, Score: 100}, {X: 0, Score: 0},
			}
			reg.Domains[evidence.Heart] = spec
			So(errors.Is(reg.Validate(), registry.ErrInvalidRegistry), ShouldBeTrue)
		})

		Convey("When a categorical score leaves [0,100]", func() {
			reg := validRegistry()
			spec := reg.Domains[evidence.Mind]
			spec.Drivers[0].Curve = registry.Curve{
				Kind:       registry.CurveCategorical,
				Categories: map[string]float64{"good": 120},
			}
			reg.Domains[evidence.Mind] = spec
			So(errors.Is(reg.Validate(), registry.ErrInvalidRegistry), ShouldBeTrue)
		})
	})
}

func TestAccepts(t *testing.T) {
	Convey("Given a numeric driver with a valid range", t, func() {
		drv := registry.Driver{
			Key: "resting_heart_rate", ValidMin: 25, ValidMax: 120,
			Curve: registry.Curve{Kind: registry.CurvePiecewise, Points: []registry.Point{
				{X: 45, Score: 100}, {X: 100, Score: 10},
			}},
		}

		Convey("Then in-range numerics are accepted", func() {
			So(drv.Accepts(evidence.Numeric(60)), ShouldBeTrue)
			So(drv.Accepts(evidence.Numeric(25)), ShouldBeTrue)
			So(drv.Accepts(evidence.Numeric(120)), ShouldBeTrue)
		})

		Convey("Then out-of-range numerics are rejected", func() {
			So(drv.Accepts(evidence.Numeric(300)), ShouldBeFalse)
			So(drv.Accepts(evidence.Numeric(10)), ShouldBeFalse)
		})

		Convey("Then categoricals and unestimables are rejected", func() {
			So(drv.Accepts(evidence.Categorical("high")), ShouldBeFalse)
			So(drv.Accepts(evidence.Unestimable()), ShouldBeFalse)
		})
	})

	Convey("Given a categorical driver", t, func() {
		drv := registry.Driver{
			Key: "mood",
			Curve: registry.Curve{Kind: registry.CurveCategorical, Categories: map[string]float64{
				"good": 82,
			}},
		}

		So(drv.Accepts(evidence.Categorical("good")), ShouldBeTrue)
		So(drv.Accepts(evidence.Categorical("unknown-label")), ShouldBeFalse)
		So(drv.Accepts(evidence.Numeric(82)), ShouldBeFalse)
	})
}

func TestSuppression(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	reg := registry.Default()

	Convey("Given Frame evidence with a direct body-composition measurement", t, func() {
		items := []evidence.Item{
			{Domain: evidence.Frame, DriverKey: "bmi", Value: evidence.Numeric(24), SourceType: evidence.SourceMeasuredSelfReport, MeasuredAt: ts(now)},
			{Domain: evidence.Frame, DriverKey: "body_fat_pct", Value: evidence.Numeric(18), SourceType: evidence.SourceDevice, MeasuredAt: ts(now)},
		}

		Convey("When resolving effective drivers", func() {
			drivers, notes := reg.EffectiveDrivers(evidence.Frame, items)

			Convey("Then BMI is removed", func() {
				for _, drv := range drivers {
					So(drv.Key, ShouldNotEqual, "bmi")
				}
				So(notes, ShouldHaveLength, 1)
			})

			Convey("Then the remaining weights sum to 1.0 again", func() {
				var sum float64
				for _, drv := range drivers {
					sum += drv.Weight
				}
				So(sum, ShouldAlmostEqual, 1.0, 1e-9)
			})

			Convey("Then weights were redistributed proportionally", func() {
				byKey := make(map[string]float64)
				for _, drv := range drivers {
					byKey[drv.Key] = drv.Weight
				}
				// original 0.35/0.25/0.20 scaled by 1/(1-0.20)
				So(byKey["body_fat_pct"], ShouldAlmostEqual, 0.35/0.8, 1e-9)
				So(byKey["waist_to_height"], ShouldAlmostEqual, 0.25/0.8, 1e-9)
				So(byKey["grip_strength"], ShouldAlmostEqual, 0.20/0.8, 1e-9)
			})
		})
	})

	Convey("Given Frame evidence with only an unestimable body-fat attempt", t, func() {
		items := []evidence.Item{
			{Domain: evidence.Frame, DriverKey: "bmi", Value: evidence.Numeric(24), SourceType: evidence.SourceMeasuredSelfReport, MeasuredAt: ts(now)},
			{Domain: evidence.Frame, DriverKey: "body_fat_pct", Value: evidence.Unestimable(), SourceType: evidence.SourceImageEstimate, MeasuredAt: ts(now)},
		}

		Convey("Then BMI is not suppressed", func() {
			drivers, notes := reg.EffectiveDrivers(evidence.Frame, items)
			keys := make([]string, 0, len(drivers))
			for _, drv := range drivers {
				keys = append(keys, drv.Key)
			}
			So(keys, ShouldContain, "bmi")
			So(notes, ShouldBeEmpty)
		})
	})
}

func TestUsable(t *testing.T) {
	reg := registry.Default()
	drivers := reg.Domain(evidence.Heart).Drivers

	Convey("Given heart items of mixed validity", t, func() {
		items := []evidence.Item{
			{Domain: evidence.Heart, DriverKey: "resting_heart_rate", Value: evidence.Numeric(58), SourceType: evidence.SourceDevice},
			{Domain: evidence.Heart, DriverKey: "resting_heart_rate", Value: evidence.Numeric(500), SourceType: evidence.SourceDevice},
			{Domain: evidence.Heart, DriverKey: "vo2_max", Value: evidence.Unestimable(), SourceType: evidence.SourceImageEstimate},
			{Domain: evidence.Heart, DriverKey: "not_a_driver", Value: evidence.Numeric(1), SourceType: evidence.SourceLab},
		}

		Convey("Then only the in-range item for a known driver survives", func() {
			usable := registry.Usable(drivers, items)
			So(usable, ShouldHaveLength, 1)
			So(usable[0].DriverKey, ShouldEqual, "resting_heart_rate")
			n, _ := usable[0].Value.Number()
			So(n, ShouldEqual, 58)
		})
	})
}
