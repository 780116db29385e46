// Package trainer drives one training run through its stages and persists
// the resulting artifact set.
package trainer

import (
	"context"
	"time"

	"github.com/google/uuid"

	"job-recommender/internal/common/config"
	"job-recommender/internal/common/errors"
	"job-recommender/internal/common/logger"
	"job-recommender/internal/common/metrics"
	"job-recommender/internal/common/observability"
	"job-recommender/internal/training/artifacts"
	"job-recommender/internal/training/dataset"
	"job-recommender/internal/training/encoding"
	"job-recommender/internal/training/network"
	"job-recommender/internal/training/vocabulary"
)

// Stage is one state of the training run state machine.
type Stage string

const (
	StageCollecting Stage = "collecting"
	StageEncoding   Stage = "encoding"
	StageBuilding   Stage = "building"
	StageFitting    Stage = "fitting"
	StageEvaluating Stage = "evaluating"
	StagePersisting Stage = "persisting"
	StageDone       Stage = "done"
	StageFailed     Stage = "failed"
)

// Trainer runs the full pipeline. One Trainer may run many times; each
// run builds its own vocabulary, dataset and model, and shares nothing
// with previous runs except the artifact store.
type Trainer struct {
	collector *dataset.Collector
	store     artifacts.Store
	status    StatusStore
	logger    logger.Logger
	obs       *observability.Observability
	clock     func() time.Time
}

func New(collector *dataset.Collector, store artifacts.Store, status StatusStore, log logger.Logger, obs *observability.Observability) *Trainer {
	if status == nil {
		status = NopStatusStore{}
	}
	return &Trainer{
		collector: collector,
		store:     store,
		status:    status,
		logger:    log.WithFields(map[string]interface{}{"component": "trainer"}),
		obs:       obs,
		clock:     time.Now,
	}
}

// WithClock overrides the run clock, for tests.
func (t *Trainer) WithClock(clock func() time.Time) *Trainer {
	t.clock = clock
	return t
}

// Train executes one run to completion. Any stage failure aborts the run
// and leaves the artifact store untouched; there is no partial persist
// and no automatic retry.
func (t *Trainer) Train(ctx context.Context, cfg config.TrainingConfig) (*artifacts.Report, error) {
	config.ApplyTrainingDefaults(&cfg)

	runID := uuid.NewString()
	start := t.clock()
	if cfg.Seed == 0 {
		cfg.Seed = start.UnixNano()
	}
	ts := artifacts.RunTimestamp(start)
	log := t.logger.WithFields(map[string]interface{}{"runId": runID})

	metrics.TrainingRunsStarted.Inc()
	log.Info("training run started", map[string]interface{}{
		"epochs":    cfg.Epochs,
		"batchSize": cfg.BatchSize,
	})

	report, err := t.run(ctx, cfg, runID, ts, start, log)
	if err != nil {
		t.fail(ctx, runID, log, err)
		return nil, err
	}

	t.setStage(ctx, runID, StageDone)
	metrics.TrainingRunsCompleted.Inc()
	t.obs.RecordRun(ctx, "completed")
	log.Info("training run completed", map[string]interface{}{
		"dataPoints":      report.DataPoints,
		"finalLoss":       report.FinalLoss,
		"finalMae":        report.FinalMAE,
		"trainingSeconds": report.TrainingSeconds,
	})
	return report, nil
}

func (t *Trainer) run(ctx context.Context, cfg config.TrainingConfig, runID, ts string, start time.Time, log logger.Logger) (*artifacts.Report, error) {
	// collecting
	t.setStage(ctx, runID, StageCollecting)
	ds, err := t.stageCollect(ctx)
	if err != nil {
		return nil, err
	}

	// Hard minimum, enforced before encoding begins.
	if len(ds.Examples) < cfg.MinExamples {
		return nil, errors.NewInsufficientDataError(len(ds.Examples), cfg.MinExamples)
	}
	metrics.DatasetExamples.WithLabelValues("positive").Set(float64(ds.Positives))
	metrics.DatasetExamples.WithLabelValues("negative").Set(float64(ds.Negatives))

	// encoding
	t.setStage(ctx, runID, StageEncoding)
	vocab, encoder, x, y, err := t.stageEncode(ctx, ds)
	if err != nil {
		return nil, err
	}
	log.Info("dataset encoded", map[string]interface{}{
		"examples":      len(x),
		"featureLength": encoder.Length(),
	})

	// building
	t.setStage(ctx, runID, StageBuilding)
	net, err := t.stageBuild(ctx, cfg, encoder.Length())
	if err != nil {
		return nil, err
	}

	// fitting
	t.setStage(ctx, runID, StageFitting)
	history, err := t.stageFit(ctx, cfg, net, x, y)
	if err != nil {
		return nil, err
	}

	// evaluating
	t.setStage(ctx, runID, StageEvaluating)
	finalLoss, finalMAE, err := t.stageEvaluate(ctx, net, x, y)
	if err != nil {
		return nil, err
	}
	metrics.FinalLoss.Set(finalLoss)
	metrics.FinalMAE.Set(finalMAE)

	report := &artifacts.Report{
		RunID:             runID,
		Timestamp:         ts,
		Config:            cfg,
		DataPoints:        len(ds.Examples),
		Positives:         ds.Positives,
		Negatives:         ds.Negatives,
		SamplingShortfall: ds.Shortfall(),
		FeatureLength:     encoder.Length(),
		Epochs:            cfg.Epochs,
		FinalLoss:         finalLoss,
		FinalMAE:          finalMAE,
		TrainingSeconds:   t.clock().Sub(start).Seconds(),
	}
	if n := len(history.ValLoss); n > 0 {
		report.FinalValLoss = history.ValLoss[n-1]
		report.FinalValMAE = history.ValMAE[n-1]
	}

	// persisting
	t.setStage(ctx, runID, StagePersisting)
	set := &artifacts.Set{
		Model: net,
		Metadata: &artifacts.Metadata{
			RunID:         runID,
			Timestamp:     ts,
			FeatureLength: encoder.Length(),
			Vocabulary:    vocab,
			Sizes:         vocab.Sizes(),
		},
		Report: report,
	}
	if err := t.stagePersist(ctx, set); err != nil {
		return nil, err
	}

	return report, nil
}

func (t *Trainer) stageCollect(ctx context.Context) (*dataset.Dataset, error) {
	ctx, done := t.obs.StartStage(ctx, string(StageCollecting))
	defer done()
	timer := stageTimer(StageCollecting)
	defer timer()
	return t.collector.Collect(ctx)
}

func (t *Trainer) stageEncode(ctx context.Context, ds *dataset.Dataset) (*vocabulary.Vocabulary, *encoding.Encoder, [][]float64, []float64, error) {
	_, done := t.obs.StartStage(ctx, string(StageEncoding))
	defer done()
	timer := stageTimer(StageEncoding)
	defer timer()

	vocab := vocabulary.Build(ds.Examples)
	encoder := encoding.New(vocab)
	x, y, err := encoder.EncodeAll(ds.Examples)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return vocab, encoder, x, y, nil
}

func (t *Trainer) stageBuild(ctx context.Context, cfg config.TrainingConfig, inputSize int) (*network.Network, error) {
	_, done := t.obs.StartStage(ctx, string(StageBuilding))
	defer done()

	return network.New(network.Config{
		InputSize:   inputSize,
		HiddenUnits: cfg.HiddenUnits,
		DropoutRate: cfg.DropoutRate,
		Seed:        cfg.Seed,
	})
}

func (t *Trainer) stageFit(ctx context.Context, cfg config.TrainingConfig, net *network.Network, x [][]float64, y []float64) (*network.History, error) {
	_, done := t.obs.StartStage(ctx, string(StageFitting))
	defer done()
	timer := stageTimer(StageFitting)
	defer timer()

	return net.Fit(x, y, network.FitConfig{
		Epochs:          cfg.Epochs,
		BatchSize:       cfg.BatchSize,
		LearningRate:    cfg.LearningRate,
		ValidationSplit: cfg.ValidationSplit,
		Seed:            cfg.Seed,
	})
}

func (t *Trainer) stageEvaluate(ctx context.Context, net *network.Network, x [][]float64, y []float64) (loss, mae float64, err error) {
	_, done := t.obs.StartStage(ctx, string(StageEvaluating))
	defer done()
	return net.Evaluate(x, y)
}

func (t *Trainer) stagePersist(ctx context.Context, set *artifacts.Set) error {
	_, done := t.obs.StartStage(ctx, string(StagePersisting))
	defer done()
	timer := stageTimer(StagePersisting)
	defer timer()
	return artifacts.Save(ctx, t.store, set)
}

func (t *Trainer) setStage(ctx context.Context, runID string, stage Stage) {
	if err := t.status.Publish(ctx, RunStatus{
		RunID:     runID,
		Stage:     stage,
		UpdatedAt: t.clock().UTC(),
	}); err != nil {
		t.logger.Warn("status publish failed", map[string]interface{}{
			"runId": runID,
			"stage": stage,
			"error": err.Error(),
		})
	}
}

func (t *Trainer) fail(ctx context.Context, runID string, log logger.Logger, err error) {
	code := "INTERNAL_ERROR"
	var stdErr *errors.StandardError
	if e, ok := err.(*errors.StandardError); ok {
		stdErr = e
		code = string(e.Code)
	}

	if pubErr := t.status.Publish(ctx, RunStatus{
		RunID:     runID,
		Stage:     StageFailed,
		Error:     err.Error(),
		UpdatedAt: t.clock().UTC(),
	}); pubErr != nil {
		log.Warn("status publish failed", map[string]interface{}{"error": pubErr.Error()})
	}

	metrics.TrainingRunsFailed.WithLabelValues(code).Inc()
	t.obs.RecordRun(ctx, "failed")

	fields := map[string]interface{}{"errorCode": code}
	if stdErr != nil && stdErr.Details != "" {
		fields["details"] = stdErr.Details
	}
	log.WithError(err).Error("training run failed", fields)
}

func stageTimer(stage Stage) func() {
	start := time.Now()
	return func() {
		metrics.StageDuration.WithLabelValues(string(stage)).Observe(time.Since(start).Seconds())
	}
}
