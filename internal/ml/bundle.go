package ml

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Artifact file names, one independently replaceable unit per classifier.
const (
	riskArtifactFile    = "risk_model.json"
	typeArtifactFile    = "risk_type_model.json"
	anomalyArtifactFile = "anomaly_model.json"
)

// artifact is the persisted form of a trained classifier: the training
// matrix plus labels and metadata. The forest itself is refit
// deterministically from the matrix on load, which keeps the artifact a
// plain, atomically replaceable unit.
type artifact struct {
	Kind      string      `json:"kind"`
	TrainedAt time.Time   `json:"trained_at"`
	X         [][]float64 `json:"x"`

	// Risk-level classifier: ordinal class per row.
	Classes []int `json:"classes,omitempty"`

	// Risk-type classifier: class index per row plus the index->label map.
	ClassIndexes []int    `json:"class_indexes,omitempty"`
	Labels       []string `json:"labels,omitempty"`

	// Anomaly detector: score threshold at the contamination quantile.
	Threshold float64 `json:"threshold,omitempty"`
}

// saveArtifact writes the artifact atomically: temp file, then rename, so
// a reader never sees a partially written bundle.
func saveArtifact(dir, name string, art *artifact) error {
	data, err := json.Marshal(art)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	tmp := filepath.Join(dir, name+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := os.Rename(tmp, filepath.Join(dir, name)); err != nil {
		return fmt.Errorf("failed to install %s: %w", name, err)
	}
	return nil
}

// loadArtifact reads an artifact from disk. A missing file is not an
// error; it simply means the classifier starts Untrained.
func loadArtifact(dir, name string) (*artifact, error) {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	art := &artifact{}
	if err := json.Unmarshal(data, art); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", name, err)
	}
	if len(art.X) == 0 {
		return nil, fmt.Errorf("artifact %s holds no training data", name)
	}
	return art, nil
}
