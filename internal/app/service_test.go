package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/primehealth/scorecard/internal/adapters/repository"
	"github.com/primehealth/scorecard/internal/app"
	"github.com/primehealth/scorecard/internal/domain/evidence"
	"github.com/primehealth/scorecard/internal/domain/registry"
)

func fullEvidence(now time.Time, reg *registry.Registry) evidence.Set {
	var items []evidence.Item
	for _, d := range evidence.Domains() {
		for _, drv := range reg.Domain(d).Drivers {
			v := evidence.Numeric((drv.ValidMin + drv.ValidMax) / 2)
			if drv.Curve.Kind == registry.CurveCategorical {
				v = evidence.Categorical("steady")
			}
			measured := now.Add(-12 * time.Hour)
			items = append(items, evidence.Item{
				Domain: d, DriverKey: drv.Key, Value: v,
				SourceType: evidence.SourceDevice, MeasuredAt: &measured,
			})
		}
	}
	return evidence.Set{Items: items}
}

func TestServiceNew(t *testing.T) {
	Convey("Given a broken registry", t, func() {
		reg := registry.Default()
		spec := reg.Domain(evidence.Heart)
		spec.Drivers[0].Weight = 0.5
		reg.Domains[evidence.Heart] = spec

		Convey("Then service construction fails fast", func() {
			_, err := app.New(reg, "rev-1")
			So(err, ShouldNotBeNil)
			So(errors.Is(err, registry.ErrInvalidRegistry), ShouldBeTrue)
		})
	})

	Convey("Given the default registry", t, func() {
		svc, err := app.New(registry.Default(), "rev-1")
		So(err, ShouldBeNil)
		So(svc, ShouldNotBeNil)
	})
}

func TestGenerateOrReuse(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	reg := registry.Default()

	Convey("Given a service with an in-memory store", t, func() {
		store := repository.NewMemoryStore()
		svc, err := app.New(reg, "rev-1", app.WithStore(store))
		So(err, ShouldBeNil)
		set := fullEvidence(now, reg)

		Convey("When generating the first scorecard", func() {
			rec, cached, err := svc.GenerateOrReuse(ctx, "subject-1", set, now)
			So(err, ShouldBeNil)
			So(cached, ShouldBeFalse)
			So(rec.Card.PrimeScore, ShouldNotBeNil)

			Convey("And generating again within the reuse window", func() {
				again, cached, err := svc.GenerateOrReuse(ctx, "subject-1", set, now.Add(2*time.Minute))
				So(err, ShouldBeNil)

				Convey("Then the cached record comes back unchanged", func() {
					So(cached, ShouldBeTrue)
					So(again.ID, ShouldEqual, rec.ID)
				})
			})

			Convey("And generating after the window expires", func() {
				later := now.Add(11 * time.Minute)
				again, cached, err := svc.GenerateOrReuse(ctx, "subject-1", set, later)
				So(err, ShouldBeNil)

				Convey("Then a fresh record is appended", func() {
					So(cached, ShouldBeFalse)
					So(again.ID, ShouldNotEqual, rec.ID)
					history, err := store.History(ctx, "subject-1")
					So(err, ShouldBeNil)
					So(history, ShouldHaveLength, 2)
				})
			})

			Convey("And generating with fresher evidence inside the window", func() {
				fresher := fullEvidence(now.Add(time.Minute), reg)
				_, cached, err := svc.GenerateOrReuse(ctx, "subject-1", fresher, now.Add(2*time.Minute))
				So(err, ShouldBeNil)

				Convey("Then the guard never suppresses a different result", func() {
					So(cached, ShouldBeFalse)
				})
			})
		})

		Convey("When the revision changes between calls", func() {
			_, _, err := svc.GenerateOrReuse(ctx, "subject-1", set, now)
			So(err, ShouldBeNil)

			svc2, err := app.New(reg, "rev-2", app.WithStore(store))
			So(err, ShouldBeNil)
			_, cached, err := svc2.GenerateOrReuse(ctx, "subject-1", set, now.Add(time.Minute))
			So(err, ShouldBeNil)
			So(cached, ShouldBeFalse)
		})
	})
}

func TestGenerateBatch(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	reg := registry.Default()

	Convey("Given a batch of subjects", t, func() {
		svc, err := app.New(reg, "rev-1", app.WithBatchWorkers(3))
		So(err, ShouldBeNil)

		jobs := []app.BatchJob{
			{SubjectID: "a", Evidence: fullEvidence(now, reg)},
			{SubjectID: "b", Evidence: fullEvidence(now, reg)},
			{SubjectID: "c", Evidence: evidence.Set{}},
		}

		Convey("When generating the batch", func() {
			results := svc.GenerateBatch(ctx, jobs, now)

			Convey("Then results come back in job order", func() {
				So(results, ShouldHaveLength, 3)
				So(results[0].SubjectID, ShouldEqual, "a")
				So(results[1].SubjectID, ShouldEqual, "b")
				So(results[2].SubjectID, ShouldEqual, "c")
			})

			Convey("Then each subject got its own scorecard", func() {
				for _, r := range results {
					So(r.Err, ShouldBeNil)
					So(r.Record.ID, ShouldNotBeEmpty)
				}
				So(results[0].Record.Card.PrimeScore, ShouldNotBeNil)
				So(results[2].Record.Card.PrimeScore, ShouldBeNil)
			})
		})

		Convey("When the context is already canceled", func() {
			canceled, cancel := context.WithCancel(ctx)
			cancel()
			results := svc.GenerateBatch(canceled, jobs, now)

			Convey("Then jobs are marked with the context error", func() {
				for _, r := range results {
					So(r.Err, ShouldNotBeNil)
				}
			})
		})
	})
}
