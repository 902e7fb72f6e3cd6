// Command scorecard computes a Prime Scorecard from an evidence-set JSON
// file and prints the resulting record. Evidence loading, persistence, and
// any serving surface are collaborators of the engine, not part of it; this
// binary is the thinnest possible caller.
package main

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/primehealth/scorecard/internal/app"
	"github.com/primehealth/scorecard/internal/config"
	"github.com/primehealth/scorecard/internal/domain/evidence"
	"github.com/primehealth/scorecard/internal/domain/registry"
	"github.com/primehealth/scorecard/internal/domain/scorecard"
	"github.com/primehealth/scorecard/pkg/logger"
)

// evidenceFile is the on-disk shape produced by the external evidence
// loader: one subject, one flat list of measurements.
type evidenceFile struct {
	SubjectID string          `json:"subject_id"`
	Items     []evidence.Item `json:"items"`
}

// output wraps the stored record with the reuse-guard outcome.
type output struct {
	RecordID  string              `json:"record_id"`
	SubjectID string              `json:"subject_id"`
	Cached    bool                `json:"cached"`
	Card      scorecard.Scorecard `json:"scorecard"`
}

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get()
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if len(os.Args) < 2 {
		os.Stderr.WriteString("usage: scorecard <evidence.json>\n")
		os.Exit(2)
	}

	reg, err := loadRegistry(cfg)
	if err != nil {
		log.Error(ctx, "registry rejected", logger.Error(err))
		os.Exit(1)
	}

	raw, err := os.ReadFile(os.Args[1])
	if err != nil {
		log.Error(ctx, "failed to read evidence file", logger.String("path", os.Args[1]), logger.Error(err))
		os.Exit(1)
	}
	var in evidenceFile
	if err := json.Unmarshal(raw, &in); err != nil {
		log.Error(ctx, "failed to parse evidence file", logger.String("path", os.Args[1]), logger.Error(err))
		os.Exit(1)
	}
	if in.SubjectID == "" {
		in.SubjectID = "local"
	}

	svc, err := app.New(reg, cfg.ScoringRevision,
		app.WithLogger(log),
		app.WithReuseWindow(time.Duration(cfg.ReuseWindowSeconds)*time.Second),
		app.WithMinDomains(cfg.MinScoredDomains),
		app.WithBatchWorkers(cfg.BatchWorkers),
	)
	if err != nil {
		log.Error(ctx, "failed to build service", logger.Error(err))
		os.Exit(1)
	}

	rec, cached, err := svc.GenerateOrReuse(ctx, in.SubjectID, evidence.Set{Items: in.Items}, time.Now().UTC())
	if err != nil {
		log.Error(ctx, "scorecard generation failed", logger.Error(err))
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(output{
		RecordID:  rec.ID,
		SubjectID: rec.SubjectID,
		Cached:    cached,
		Card:      rec.Card,
	}); err != nil {
		log.Error(ctx, "failed to write output", logger.Error(err))
		os.Exit(1)
	}
}

func loadRegistry(cfg *config.Config) (*registry.Registry, error) {
	if cfg.RegistryPath == "" {
		return registry.Default(), nil
	}
	return registry.LoadFile(cfg.RegistryPath)
}
