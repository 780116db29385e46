// Package dataset assembles the labeled in-memory dataset for one
// training run from the external store.
package dataset

import (
	"context"

	"job-recommender/internal/models"
	"job-recommender/internal/training/labeling"
	"job-recommender/internal/training/profile"
)

// TrainingExample pairs one candidate with one job and its labeled
// outcome. It exists only in memory during a run.
type TrainingExample struct {
	Candidate profile.CandidateProfile `json:"candidate"`
	Job       profile.JobProfile       `json:"job"`
	Outcome   labeling.Outcome         `json:"outcome"`
}

// DataSource is the read-only view of the external store. Implementations
// must treat every method as an independent synchronous read query.
type DataSource interface {
	ListApplications(ctx context.Context) ([]models.Application, error)
	ListSavedJobs(ctx context.Context) ([]models.SavedJob, error)
	SampleCandidates(ctx context.Context, limit int) ([]models.Candidate, error)
	SampleJobs(ctx context.Context, limit int) ([]models.Job, error)
}

// Dataset is the merged output of one collection pass.
type Dataset struct {
	Examples  []TrainingExample
	Positives int
	Negatives int

	// ShortfallRequested/Produced record a non-fatal negative-sampling
	// shortfall for the training report. Equal values mean no shortfall.
	ShortfallRequested int
	ShortfallProduced  int
}

// Shortfall reports whether the negative sampler missed its target.
func (d *Dataset) Shortfall() bool {
	return d.ShortfallProduced < d.ShortfallRequested
}
