package registry_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/primehealth/scorecard/internal/domain/evidence"
	"github.com/primehealth/scorecard/internal/domain/registry"
)

const ruleSetYAML = `
source_quality:
  lab: 1.0
  test: 0.9
  device: 0.8
  measured_self_report: 0.7
  image_estimate: 0.55
  self_report_proxy: 0.4
  prior: 0.2
domains:
  heart:
    drivers:
      - key: resting_heart_rate
        weight: 1.0
        freshness_half_life_days: 30
        stability_window_days: 90
        valid_min: 25
        valid_max: 120
        curve:
          kind: piecewise
          points:
            - x: 45
              score: 100
            - x: 100
              score: 10
  frame:
    drivers:
      - key: body_fat_pct
        weight: 1.0
        freshness_half_life_days: 90
        stability_window_days: 180
        valid_min: 3
        valid_max: 60
        curve:
          kind: piecewise
          points:
            - x: 10
              score: 95
            - x: 38
              score: 20
  metabolism:
    drivers:
      - key: hba1c
        weight: 1.0
        freshness_half_life_days: 120
        stability_window_days: 365
        valid_min: 3.5
        valid_max: 15
        curve:
          kind: threshold
          default: 18
          points:
            - x: 5.7
              score: 85
    rules:
      - kind: cap
        value: 40
        min_source: lab
        note: "Capped at 40%: no lab biomarker present"
  recovery:
    drivers:
      - key: sleep_duration
        weight: 1.0
        freshness_half_life_days: 14
        stability_window_days: 60
        valid_min: 0
        valid_max: 16
        curve:
          kind: piecewise
          points:
            - x: 5
              score: 30
            - x: 8
              score: 90
  mind:
    drivers:
      - key: mood
        weight: 1.0
        freshness_half_life_days: 14
        stability_window_days: 60
        curve:
          kind: categorical
          categories:
            low: 42
            good: 82
`

func writeRuleSet(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	Convey("Given a valid rule-set file", t, func() {
		path := writeRuleSet(t, ruleSetYAML)

		Convey("When loading it", func() {
			reg, err := registry.LoadFile(path)

			Convey("Then the registry loads and validates", func() {
				So(err, ShouldBeNil)
				So(reg, ShouldNotBeNil)
				So(reg.Quality(evidence.SourceDevice), ShouldEqual, 0.8)

				heart := reg.Domain(evidence.Heart)
				So(heart.Drivers, ShouldHaveLength, 1)
				So(heart.Drivers[0].Key, ShouldEqual, "resting_heart_rate")
				So(heart.Drivers[0].Curve.Kind, ShouldEqual, registry.CurvePiecewise)

				meta := reg.Domain(evidence.Metabolism)
				So(meta.Rules, ShouldHaveLength, 1)
				So(meta.Rules[0].Kind, ShouldEqual, registry.RuleCap)
				So(meta.Rules[0].MinSource, ShouldEqual, evidence.SourceLab)

				mind := reg.Domain(evidence.Mind)
				So(mind.Drivers[0].Curve.Categories["good"], ShouldEqual, 82)
			})
		})
	})

	Convey("Given a rule-set file with broken weights", t, func() {
		broken := strings.Replace(ruleSetYAML, "weight: 1.0", "weight: 0.9", 1)
		path := writeRuleSet(t, broken)

		Convey("Then loading fails with ErrInvalidRegistry", func() {
			_, err := registry.LoadFile(path)
			So(err, ShouldNotBeNil)
			So(errors.Is(err, registry.ErrInvalidRegistry), ShouldBeTrue)
		})
	})

	Convey("Given a missing file", t, func() {
		_, err := registry.LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
		So(errors.Is(err, registry.ErrLoadRegistry), ShouldBeTrue)
	})

	Convey("Given a file that is not YAML", t, func() {
		path := writeRuleSet(t, "{not: [valid")
		_, err := registry.LoadFile(path)
		So(errors.Is(err, registry.ErrLoadRegistry), ShouldBeTrue)
	})
}
