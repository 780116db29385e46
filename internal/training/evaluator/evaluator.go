// Package evaluator scores a previously persisted model against freshly
// collected interaction data.
package evaluator

import (
	"context"

	"job-recommender/internal/common/errors"
	"job-recommender/internal/common/logger"
	"job-recommender/internal/common/metrics"
	"job-recommender/internal/training/artifacts"
	"job-recommender/internal/training/dataset"
	"job-recommender/internal/training/encoding"
)

// Result is the outcome of one evaluation pass.
type Result struct {
	Accuracy           float64 `json:"accuracy"`
	TestSamples        int     `json:"testSamples"`
	CorrectPredictions int     `json:"correctPredictions"`
	RunID              string  `json:"runId"`
}

// threshold maps both prediction and label into {0,1}.
const threshold = 0.5

// Evaluator loads the latest artifact set and re-encodes fresh data with
// the loaded vocabularies. It never rebuilds a vocabulary; doing so would
// silently reassign feature indices.
type Evaluator struct {
	collector *dataset.Collector
	store     artifacts.Store
	logger    logger.Logger
}

func New(collector *dataset.Collector, store artifacts.Store, log logger.Logger) *Evaluator {
	return &Evaluator{
		collector: collector,
		store:     store,
		logger:    log.WithFields(map[string]interface{}{"component": "evaluator"}),
	}
}

// Evaluate loads the latest persisted model + metadata pair and reports
// threshold accuracy over freshly collected examples. Missing artifacts
// and feature-length disagreements are fatal.
func (e *Evaluator) Evaluate(ctx context.Context) (*Result, error) {
	set, err := artifacts.LoadLatest(ctx, e.store)
	if err != nil {
		return nil, err
	}

	if set.Model.InputSize != set.Metadata.FeatureLength {
		return nil, errors.NewEncodingMismatchError(set.Metadata.FeatureLength, set.Model.InputSize)
	}

	encoder, err := encoding.NewWithLength(set.Metadata.Vocabulary, set.Metadata.FeatureLength)
	if err != nil {
		return nil, err
	}

	ds, err := e.collector.Collect(ctx)
	if err != nil {
		return nil, err
	}

	result := &Result{RunID: set.Metadata.RunID}
	for _, ex := range ds.Examples {
		features, err := encoder.Encode(ex)
		if err != nil {
			return nil, err
		}
		pred, err := set.Model.Predict(features)
		if err != nil {
			return nil, err
		}

		result.TestSamples++
		if (pred >= threshold) == (ex.Outcome.Score >= threshold) {
			result.CorrectPredictions++
		}
	}

	if result.TestSamples > 0 {
		result.Accuracy = float64(result.CorrectPredictions) / float64(result.TestSamples)
	}
	metrics.EvaluationAccuracy.Set(result.Accuracy)

	e.logger.Info("evaluation finished", map[string]interface{}{
		"runId":       result.RunID,
		"testSamples": result.TestSamples,
		"correct":     result.CorrectPredictions,
		"accuracy":    result.Accuracy,
	})

	return result, nil
}
