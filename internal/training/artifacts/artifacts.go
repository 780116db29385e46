// internal/training/artifacts/artifacts.go
package artifacts

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"job-recommender/internal/common/config"
	"job-recommender/internal/common/errors"
	"job-recommender/internal/training/network"
	"job-recommender/internal/training/vocabulary"
)

// Key layout. The three documents of one run share a timestamp; the
// latest pointer is written last so a reader can never resolve a
// partially written set.
const (
	keyLatest    = "latest"
	timestampFmt = "20060102T150405Z"
)

func modelKey(ts string) string    { return "model-" + ts + ".json" }
func metadataKey(ts string) string { return "metadata-" + ts + ".json" }
func reportKey(ts string) string   { return "report-" + ts + ".json" }

// Metadata is the document that lets a future encoding reproduce this
// run's feature layout exactly. Model and metadata are logically paired
// and must never be loaded independently of each other.
type Metadata struct {
	RunID         string                 `json:"runId"`
	Timestamp     string                 `json:"timestamp"`
	FeatureLength int                    `json:"featureLength"`
	Vocabulary    *vocabulary.Vocabulary `json:"vocabularies"`
	Sizes         map[string]int         `json:"sizes"`
}

// Report records what one run did and how well it went.
type Report struct {
	RunID             string                `json:"runId"`
	Timestamp         string                `json:"timestamp"`
	Config            config.TrainingConfig `json:"config"`
	DataPoints        int                   `json:"dataPoints"`
	Positives         int                   `json:"positives"`
	Negatives         int                   `json:"negatives"`
	SamplingShortfall bool                  `json:"samplingShortfall"`
	FeatureLength     int                   `json:"featureLength"`
	Epochs            int                   `json:"epochs"`
	FinalLoss         float64               `json:"finalLoss"`
	FinalMAE          float64               `json:"finalMae"`
	FinalValLoss      float64               `json:"finalValLoss,omitempty"`
	FinalValMAE       float64               `json:"finalValMae,omitempty"`
	TrainingSeconds   float64               `json:"trainingSeconds"`
}

// Set is one complete artifact set.
type Set struct {
	Model    *network.Network
	Metadata *Metadata
	Report   *Report
}

// metadataSchema guards against loading a truncated or hand-edited
// metadata document into the evaluator.
const metadataSchema = `{
	"type": "object",
	"required": ["runId", "timestamp", "featureLength", "vocabularies", "sizes"],
	"properties": {
		"runId": {"type": "string", "minLength": 1},
		"timestamp": {"type": "string", "minLength": 1},
		"featureLength": {"type": "integer", "minimum": 1},
		"vocabularies": {
			"type": "object",
			"required": ["skills", "titles", "industries", "degrees", "fields", "locations"],
			"properties": {
				"skills": {"type": "array", "items": {"type": "string"}},
				"titles": {"type": "array", "items": {"type": "string"}},
				"industries": {"type": "array", "items": {"type": "string"}},
				"degrees": {"type": "array", "items": {"type": "string"}},
				"fields": {"type": "array", "items": {"type": "string"}},
				"locations": {"type": "array", "items": {"type": "string"}}
			}
		},
		"sizes": {"type": "object"}
	}
}`

// RunTimestamp formats the shared version stamp for one run.
func RunTimestamp(t time.Time) string {
	return t.UTC().Format(timestampFmt)
}

// Save writes the three documents of one run and then the latest pointer.
// It must only be called on successful completion; a failure mid-save
// leaves the previous latest pointer intact.
func Save(ctx context.Context, store Store, set *Set) error {
	ts := set.Metadata.Timestamp

	modelJSON, err := json.Marshal(set.Model)
	if err != nil {
		return errors.NewArtifactWriteFailedError(modelKey(ts), err)
	}
	metadataJSON, err := json.Marshal(set.Metadata)
	if err != nil {
		return errors.NewArtifactWriteFailedError(metadataKey(ts), err)
	}
	reportJSON, err := json.MarshalIndent(set.Report, "", "  ")
	if err != nil {
		return errors.NewArtifactWriteFailedError(reportKey(ts), err)
	}

	if err := store.Put(ctx, modelKey(ts), modelJSON); err != nil {
		return err
	}
	if err := store.Put(ctx, metadataKey(ts), metadataJSON); err != nil {
		return err
	}
	if err := store.Put(ctx, reportKey(ts), reportJSON); err != nil {
		return err
	}

	// Pointer last: readers resolve the set only through it.
	return store.Put(ctx, keyLatest, []byte(ts))
}

// LoadLatest resolves the latest pointer and loads its model + metadata
// pair. The metadata document is schema-validated before use.
func LoadLatest(ctx context.Context, store Store) (*Set, error) {
	tsBytes, err := store.Get(ctx, keyLatest)
	if err != nil {
		return nil, err
	}
	return Load(ctx, store, strings.TrimSpace(string(tsBytes)))
}

// Load loads the artifact set for one run timestamp.
func Load(ctx context.Context, store Store, ts string) (*Set, error) {
	metadataJSON, err := store.Get(ctx, metadataKey(ts))
	if err != nil {
		return nil, err
	}

	if err := validateMetadata(metadataJSON); err != nil {
		return nil, err
	}

	var meta Metadata
	if err := json.Unmarshal(metadataJSON, &meta); err != nil {
		return nil, errors.NewMetadataInvalidError(err.Error())
	}

	modelJSON, err := store.Get(ctx, modelKey(ts))
	if err != nil {
		return nil, err
	}
	var model network.Network
	if err := json.Unmarshal(modelJSON, &model); err != nil {
		return nil, errors.NewMetadataInvalidError(fmt.Sprintf("model document: %s", err))
	}

	set := &Set{Model: &model, Metadata: &meta}

	// The report is informational; a missing one does not block loading.
	if reportJSON, err := store.Get(ctx, reportKey(ts)); err == nil {
		var report Report
		if err := json.Unmarshal(reportJSON, &report); err == nil {
			set.Report = &report
		}
	}

	return set, nil
}

func validateMetadata(doc []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(metadataSchema),
		gojsonschema.NewBytesLoader(doc),
	)
	if err != nil {
		return errors.NewMetadataInvalidError(err.Error())
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return errors.NewMetadataInvalidError(strings.Join(msgs, "; "))
	}
	return nil
}
