// Command gen-evidence emits a synthetic evidence-set JSON file for one
// subject, shaped the way the external evidence loader would produce it.
// Useful for feeding the scorecard CLI without real uploads.
package main

import (
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/primehealth/scorecard/internal/domain/evidence"
	"github.com/primehealth/scorecard/internal/domain/registry"
	"github.com/primehealth/scorecard/internal/fixtures"
)

type evidenceFile struct {
	SubjectID string          `json:"subject_id"`
	Items     []evidence.Item `json:"items"`
}

func main() {
	var (
		subject  = flag.String("subject", "", "Subject ID (default: a fresh UUID)")
		coverage = flag.Float64("coverage", 0.8, "Probability each driver receives evidence")
		seed     = flag.Int64("seed", 0, "Random seed (0 = time-based)")
		regPath  = flag.String("registry", "", "Registry YAML file (default: built-in rule set)")
		out      = flag.String("output", "", "Output file (default: stdout)")
	)
	flag.Parse()

	reg := registry.Default()
	if *regPath != "" {
		loaded, err := registry.LoadFile(*regPath)
		if err != nil {
			os.Stderr.WriteString("registry rejected: " + err.Error() + "\n")
			os.Exit(1)
		}
		reg = loaded
	}

	opts := []fixtures.Option{fixtures.WithCoverage(*coverage)}
	if *seed != 0 {
		opts = append(opts, fixtures.WithSeed(*seed))
	}
	gen := fixtures.NewGenerator(reg, opts...)

	id := *subject
	if id == "" {
		id = uuid.NewString()
	}

	doc := evidenceFile{
		SubjectID: id,
		Items:     gen.Set(time.Now().UTC()).Items,
	}

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			os.Stderr.WriteString("failed to create output file: " + err.Error() + "\n")
			os.Exit(1)
		}
		defer f.Close()
		w = f
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		os.Stderr.WriteString("failed to write evidence set: " + err.Error() + "\n")
		os.Exit(1)
	}
}
