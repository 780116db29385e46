// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TrainingRunsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "training_runs_started_total",
			Help: "Total number of training runs started",
		},
	)

	TrainingRunsCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "training_runs_completed_total",
			Help: "Total number of training runs that persisted an artifact set",
		},
	)

	TrainingRunsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "training_runs_failed_total",
			Help: "Total number of training runs that failed, by error code",
		},
		[]string{"error_code"},
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "training_stage_duration_seconds",
			Help: "Duration of each pipeline stage in seconds",
		},
		[]string{"stage"},
	)

	DatasetExamples = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "training_dataset_examples",
			Help: "Number of examples in the current run's dataset",
		},
		[]string{"kind"}, // positive | negative
	)

	FinalLoss = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "training_final_loss",
			Help: "Final training loss of the most recent completed run",
		},
	)

	FinalMAE = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "training_final_mae",
			Help: "Final mean absolute error of the most recent completed run",
		},
	)

	EvaluationAccuracy = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "evaluation_accuracy",
			Help: "Threshold accuracy of the most recent evaluation",
		},
	)
)
