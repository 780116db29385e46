// Package sampling manufactures synthetic non-interaction pairs so the
// model sees what "no match" looks like.
package sampling

import (
	"math/rand"

	"job-recommender/internal/common/errors"
	"job-recommender/internal/training/profile"
)

// Pair is one synthesized candidate/job combination.
type Pair struct {
	Candidate profile.CandidateProfile
	Job       profile.JobProfile
}

// InteractionKey identifies a candidate/job combination in the
// interaction index.
func InteractionKey(candidateID, jobID string) string {
	return candidateID + "|" + jobID
}

// Sampler draws random candidate/job pairs that have no recorded
// interaction. Sampling is with replacement; duplicate pairs are tolerated.
type Sampler struct {
	rng *rand.Rand
}

func New(seed int64) *Sampler {
	return &Sampler{rng: rand.New(rand.NewSource(seed))}
}

// maxAttemptsPerTarget bounds the draw loop so a saturated pool (every
// pair already interacted) terminates instead of spinning.
const maxAttemptsPerTarget = 10

// Sample returns up to target pairs drawn from the pools, skipping any
// pair present in the interacted index. When the pool cannot yield enough
// disjoint pairs it returns what it has together with a non-fatal
// SAMPLING_SHORTFALL error; callers log it and proceed.
func (s *Sampler) Sample(candidates []profile.CandidateProfile, jobs []profile.JobProfile, interacted map[string]struct{}, target int) ([]Pair, error) {
	if target <= 0 || len(candidates) == 0 || len(jobs) == 0 {
		if target > 0 {
			return nil, errors.NewSamplingShortfallError(target, 0)
		}
		return nil, nil
	}

	pairs := make([]Pair, 0, target)
	attempts := 0
	maxAttempts := target * maxAttemptsPerTarget

	for len(pairs) < target && attempts < maxAttempts {
		attempts++
		c := candidates[s.rng.Intn(len(candidates))]
		j := jobs[s.rng.Intn(len(jobs))]

		if _, ok := interacted[InteractionKey(c.CandidateID, j.JobID)]; ok {
			continue
		}

		pairs = append(pairs, Pair{Candidate: c, Job: j})
	}

	if len(pairs) < target {
		return pairs, errors.NewSamplingShortfallError(target, len(pairs))
	}
	return pairs, nil
}
