package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"path"
	"strings"
	"time"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"gopkg.in/yaml.v3"

	"github.com/genetic-quantum/genetic-quantum/nsga2"
	"github.com/genetic-quantum/genetic-quantum/sim"
)

// FrontEntry is one Pareto-optimal quantum.
type FrontEntry struct {
	Quantum    float64        `json:"quantum" yaml:"quantum"`
	Objectives sim.Objectives `json:"objectives" yaml:"objectives"`
	// Solutions are the values the optimizer ranked on (normalized when enabled).
	Solutions []float64 `json:"solutions" yaml:"solutions"`
	// Boundary marks an extreme member of the front, whose crowding distance is
	// infinite and therefore not encoded.
	Boundary         bool    `json:"boundary" yaml:"boundary"`
	CrowdingDistance float64 `json:"crowding_distance" yaml:"crowding_distance"`
}

// ResultDocument is the persisted outcome of one optimize run.
type ResultDocument struct {
	RunID          string                  `json:"run_id" yaml:"run_id"`
	CreatedAt      time.Time               `json:"created_at" yaml:"created_at"`
	Scenario       string                  `json:"scenario" yaml:"scenario"`
	Config         RunConfig               `json:"config" yaml:"config"`
	ReferencePoint []float64               `json:"reference_point" yaml:"reference_point"`
	Evaluations    int                     `json:"evaluations" yaml:"evaluations"`
	ElapsedSeconds float64                 `json:"elapsed_seconds" yaml:"elapsed_seconds"`
	History        []nsga2.GenerationStats `json:"history" yaml:"history"`
	Front          []FrontEntry            `json:"front" yaml:"front"`
}

func newResultDocument(runID, scenarioName string, cfg RunConfig, res *nsga2.Result) *ResultDocument {
	doc := &ResultDocument{
		RunID:          runID,
		CreatedAt:      time.Now().UTC(),
		Scenario:       scenarioName,
		Config:         cfg,
		ReferencePoint: res.ReferencePoint,
		Evaluations:    res.Evaluations,
		ElapsedSeconds: res.Elapsed.Seconds(),
		History:        res.History,
		Front:          make([]FrontEntry, 0, len(res.Front)),
	}
	for _, ind := range res.Front {
		entry := FrontEntry{Quantum: ind.Genome[0], Solutions: ind.Solutions}
		if math.IsInf(ind.CrowdingDistance, 1) {
			entry.Boundary = true
		} else {
			entry.CrowdingDistance = ind.CrowdingDistance
		}
		if len(ind.Raw) == 3 {
			entry.Objectives = sim.Objectives{Turnaround: ind.Raw[0], Waiting: ind.Raw[1], ContextSwitches: int(ind.Raw[2])}
		}
		doc.Front = append(doc.Front, entry)
	}
	return doc
}

// encodeResult picks YAML for .yaml/.yml URLs and indented JSON otherwise.
func encodeResult(URL string, doc *ResultDocument) ([]byte, error) {
	switch strings.ToLower(path.Ext(URL)) {
	case ".yaml", ".yml":
		return yaml.Marshal(doc)
	default:
		return json.MarshalIndent(doc, "", "  ")
	}
}

// writeResult uploads doc to URL (local path, file:// or mem://).
func writeResult(ctx context.Context, fs afs.Service, URL string, doc *ResultDocument) error {
	data, err := encodeResult(URL, doc)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	if err := fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write result to %s: %w", URL, err)
	}
	return nil
}
