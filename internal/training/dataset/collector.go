// internal/training/dataset/collector.go
package dataset

import (
	"context"
	"sync"

	"job-recommender/internal/common/errors"
	"job-recommender/internal/common/logger"
	"job-recommender/internal/models"
	"job-recommender/internal/training/labeling"
	"job-recommender/internal/training/profile"
	"job-recommender/internal/training/sampling"
)

// Collector orchestrates extraction, labeling and negative sampling into
// one labeled dataset.
type Collector struct {
	source        DataSource
	extractor     *profile.Extractor
	sampler       *sampling.Sampler
	logger        logger.Logger
	negativeRatio float64
	poolSize      int
}

func NewCollector(source DataSource, extractor *profile.Extractor, sampler *sampling.Sampler, log logger.Logger, negativeRatio float64, poolSize int) *Collector {
	return &Collector{
		source:        source,
		extractor:     extractor,
		sampler:       sampler,
		logger:        log.WithFields(map[string]interface{}{"component": "collector"}),
		negativeRatio: negativeRatio,
		poolSize:      poolSize,
	}
}

// collected holds the results of the four independent read queries.
type collected struct {
	applications []models.Application
	savedJobs    []models.SavedJob
	candidates   []models.Candidate
	jobs         []models.Job
}

// Collect reads the store, labels every observed interaction and appends
// synthesized negatives. Read failures propagate unmodified and abort the
// collection; a sampling shortfall does not.
func (c *Collector) Collect(ctx context.Context) (*Dataset, error) {
	data, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{}
	interacted := make(map[string]struct{})

	for _, app := range data.applications {
		if app.Candidate == nil || app.Job == nil {
			c.logger.Warn("skipping application with missing sub-records", map[string]interface{}{
				"applicationId": app.ID,
			})
			continue
		}

		outcome := labeling.Label(labeling.Outcome{
			Applied:     true,
			Interviewed: len(app.Interviews) > 0 || app.Status == models.ApplicationReviewed,
			Hired:       app.Status == models.ApplicationAccepted,
			Viewed:      true,
		})

		ds.Examples = append(ds.Examples, TrainingExample{
			Candidate: c.extractor.Candidate(app.Candidate),
			Job:       c.extractor.Job(app.Job),
			Outcome:   outcome,
		})
		interacted[sampling.InteractionKey(app.CandidateID, app.JobID)] = struct{}{}
	}

	for _, saved := range data.savedJobs {
		if saved.Candidate == nil || saved.Job == nil {
			c.logger.Warn("skipping saved job with missing sub-records", map[string]interface{}{
				"savedJobId": saved.ID,
			})
			continue
		}

		// An application for the same pair outranks the save.
		key := sampling.InteractionKey(saved.CandidateID, saved.JobID)
		if _, ok := interacted[key]; ok {
			continue
		}

		ds.Examples = append(ds.Examples, TrainingExample{
			Candidate: c.extractor.Candidate(saved.Candidate),
			Job:       c.extractor.Job(saved.Job),
			Outcome:   labeling.Label(labeling.Outcome{Saved: true, Viewed: true}),
		})
		interacted[key] = struct{}{}
	}

	ds.Positives = len(ds.Examples)

	target := int(float64(ds.Positives) * c.negativeRatio)
	negatives, err := c.sampleNegatives(data, interacted, target)
	if err != nil {
		return nil, err
	}

	for _, pair := range negatives {
		ds.Examples = append(ds.Examples, TrainingExample{
			Candidate: pair.Candidate,
			Job:       pair.Job,
			Outcome:   labeling.Negative(),
		})
	}
	ds.Negatives = len(negatives)
	ds.ShortfallRequested = target
	ds.ShortfallProduced = len(negatives)

	c.logger.Info("dataset collected", map[string]interface{}{
		"positives": ds.Positives,
		"negatives": ds.Negatives,
		"total":     len(ds.Examples),
	})

	return ds, nil
}

// fetch issues the four read queries concurrently. They are read-only and
// mutually independent; results are merged before encoding starts.
func (c *Collector) fetch(ctx context.Context) (*collected, error) {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		data collected
		errs []error
	)

	run := func(name string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				mu.Lock()
				errs = append(errs, errors.NewQueryExecutionFailedError(name, err))
				mu.Unlock()
			}
		}()
	}

	run("applications", func() error {
		apps, err := c.source.ListApplications(ctx)
		if err != nil {
			return err
		}
		data.applications = apps
		return nil
	})
	run("saved_jobs", func() error {
		saved, err := c.source.ListSavedJobs(ctx)
		if err != nil {
			return err
		}
		data.savedJobs = saved
		return nil
	})
	run("candidate_pool", func() error {
		cands, err := c.source.SampleCandidates(ctx, c.poolSize)
		if err != nil {
			return err
		}
		data.candidates = cands
		return nil
	})
	run("job_pool", func() error {
		jobs, err := c.source.SampleJobs(ctx, c.poolSize)
		if err != nil {
			return err
		}
		data.jobs = jobs
		return nil
	})

	wg.Wait()

	if len(errs) > 0 {
		return nil, errs[0]
	}
	return &data, nil
}

func (c *Collector) sampleNegatives(data *collected, interacted map[string]struct{}, target int) ([]sampling.Pair, error) {
	if target <= 0 {
		return nil, nil
	}

	candidates := make([]profile.CandidateProfile, 0, len(data.candidates))
	for i := range data.candidates {
		candidates = append(candidates, c.extractor.Candidate(&data.candidates[i]))
	}
	jobs := make([]profile.JobProfile, 0, len(data.jobs))
	for i := range data.jobs {
		jobs = append(jobs, c.extractor.Job(&data.jobs[i]))
	}

	pairs, err := c.sampler.Sample(candidates, jobs, interacted, target)
	if err != nil {
		if !errors.HasCode(err, errors.ErrCodeSamplingShortfall) {
			return nil, err
		}
		c.logger.Warn("negative sampling shortfall", map[string]interface{}{
			"requested": target,
			"produced":  len(pairs),
		})
	}
	return pairs, nil
}
