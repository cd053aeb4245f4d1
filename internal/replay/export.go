package replay

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmknapp/cobia-patrols/internal/analog"
	"github.com/jmknapp/cobia-patrols/internal/tdc"
)

// Meta describes the scenario a recording was captured from.
type Meta struct {
	Name        string
	CapturedAt  time.Time
	Inputs      analog.Inputs
	StepSeconds float64
}

// ComponentJSON is one entry of the static manifest. Frame rows index
// into the manifest in order.
type ComponentJSON struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Section string `json:"section,omitempty"`
}

// Recording is the root JSON structure. Per-frame rows are positional to
// keep long captures small: [time, [rotation, value], [rotation, value],
// ...] with one pair per manifest entry.
type Recording struct {
	Name        string              `json:"name"`
	CapturedAt  time.Time           `json:"capturedAt"`
	Inputs      analog.Inputs       `json:"inputs"`
	StepSeconds float64             `json:"stepSeconds"`
	EndTime     float64             `json:"endTime"`
	Components  []ComponentJSON     `json:"components"`
	Frames      [][]any             `json:"frames"`
	Solution    *tdc.FiringSolution `json:"solution,omitempty"`
	Trajectory  *tdc.Trajectory     `json:"trajectory,omitempty"`
	Chart       json.RawMessage     `json:"chart,omitempty"`
}

// Build assembles a recording from captured frames. The manifest is taken
// from the first frame; every machine snapshot lists components in the
// same order, so rows stay aligned.
func Build(meta Meta, frames []Frame, solution *tdc.FiringSolution, trajectory *tdc.Trajectory, chart json.RawMessage) Recording {
	rec := Recording{
		Name:        meta.Name,
		CapturedAt:  meta.CapturedAt,
		Inputs:      meta.Inputs,
		StepSeconds: meta.StepSeconds,
		Components:  make([]ComponentJSON, 0),
		Frames:      make([][]any, 0, len(frames)),
		Solution:    solution,
		Trajectory:  trajectory,
		Chart:       chart,
	}

	if len(frames) > 0 {
		for _, s := range frames[0].States {
			rec.Components = append(rec.Components, ComponentJSON{
				ID:      s.ID,
				Name:    s.Name,
				Kind:    s.Kind.String(),
				Section: s.Section,
			})
		}
		rec.EndTime = frames[len(frames)-1].Time
	}

	for _, f := range frames {
		row := make([]any, 0, len(f.States)+1)
		row = append(row, f.Time)
		for _, s := range f.States {
			row = append(row, []float64{s.Rotation, s.Value})
		}
		rec.Frames = append(rec.Frames, row)
	}

	return rec
}

// Write stores a recording as <name>.json (or .json.gz) under dir,
// creating the directory if needed. Returns the written path.
func Write(dir, name string, rec Recording, compress bool) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	filename := sanitizeName(name)
	if compress {
		filename += ".json.gz"
	} else {
		filename += ".json"
	}
	path := filepath.Join(dir, filename)

	if compress {
		if err := writeGzipJSON(path, rec); err != nil {
			return "", err
		}
	} else {
		if err := writeJSON(path, rec); err != nil {
			return "", err
		}
	}
	return path, nil
}

// sanitizeName keeps recording filenames shell and URL friendly.
func sanitizeName(name string) string {
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, ":", "_")
	return name
}

func writeJSON(path string, rec Recording) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating recording file: %w", err)
	}
	defer f.Close()

	return json.NewEncoder(f).Encode(rec)
}

func writeGzipJSON(path string, rec Recording) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating recording file: %w", err)
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	defer gz.Close()

	return json.NewEncoder(gz).Encode(rec)
}
