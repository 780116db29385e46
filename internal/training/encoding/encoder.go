// Package encoding maps candidate/job pairs onto fixed-length numeric
// feature vectors.
package encoding

import (
	"job-recommender/internal/common/errors"
	"job-recommender/internal/training/dataset"
	"job-recommender/internal/training/vocabulary"
)

// Caps and normalization constants of the feature layout. The soft
// normalizations may exceed 1.0 for unusually large profiles; that is
// accepted behavior, not clamped.
const (
	maxExperienceYears = 5.0
	expCountScale      = 10.0
	skillCountScale    = 20.0
	eduCountScale      = 5.0
	maxEducationLevel  = 5.0
)

// Encoder turns one TrainingExample into a feature vector under a frozen
// vocabulary. The vector layout, in order:
//
//	skills presence | experience weights by title | max education level |
//	job industry one-hot | job location one-hot | 3 profile-size scalars
type Encoder struct {
	vocab    *vocabulary.Vocabulary
	expected int
}

// New builds an encoder whose expected length is derived from the
// vocabulary itself.
func New(vocab *vocabulary.Vocabulary) *Encoder {
	e := &Encoder{vocab: vocab}
	e.expected = e.derivedLength()
	return e
}

// NewWithLength builds an encoder that must produce exactly the length
// recorded in persisted metadata. Construction fails when the vocabulary
// cannot produce that length.
func NewWithLength(vocab *vocabulary.Vocabulary, length int) (*Encoder, error) {
	e := &Encoder{vocab: vocab, expected: length}
	if derived := e.derivedLength(); derived != length {
		return nil, errors.NewEncodingMismatchError(length, derived)
	}
	return e, nil
}

// Length returns the fixed output vector length.
func (e *Encoder) Length() int {
	return e.expected
}

func (e *Encoder) derivedLength() int {
	return len(e.vocab.Skills) + len(e.vocab.Titles) + 1 +
		len(e.vocab.Industries) + len(e.vocab.Locations) + 3
}

// Encode produces the feature vector for one example. The output length
// is identical for every example in a run by construction.
func (e *Encoder) Encode(ex dataset.TrainingExample) ([]float64, error) {
	features := make([]float64, 0, e.expected)

	// Skills presence vector.
	skills := make([]float64, len(e.vocab.Skills))
	for _, s := range ex.Candidate.Skills {
		if i := e.vocab.SkillIndex(s); i >= 0 {
			skills[i] = 1.0
		}
	}
	features = append(features, skills...)

	// Experience weight by title, capped at five years of contribution.
	titles := make([]float64, len(e.vocab.Titles))
	for _, exp := range ex.Candidate.Experience {
		if i := e.vocab.TitleIndex(exp.Title); i >= 0 {
			years := float64(exp.Months) / 12.0
			if years > maxExperienceYears {
				years = maxExperienceYears
			}
			titles[i] = years
		}
	}
	features = append(features, titles...)

	// Normalized maximum education level, 0 without education records.
	features = append(features, float64(ex.Candidate.MaxEducationLevel())/maxEducationLevel)

	// Job industry one-hot.
	industries := make([]float64, len(e.vocab.Industries))
	if i := e.vocab.IndustryIndex(ex.Job.Industry); i >= 0 {
		industries[i] = 1.0
	}
	features = append(features, industries...)

	// Job location one-hot.
	locations := make([]float64, len(e.vocab.Locations))
	if i := e.vocab.LocationIndex(ex.Job.Location.Key()); i >= 0 {
		locations[i] = 1.0
	}
	features = append(features, locations...)

	// Soft-normalized profile sizes.
	features = append(features,
		float64(len(ex.Candidate.Experience))/expCountScale,
		float64(len(ex.Candidate.Skills))/skillCountScale,
		float64(len(ex.Candidate.Education))/eduCountScale,
	)

	if len(features) != e.expected {
		return nil, errors.NewEncodingMismatchError(e.expected, len(features))
	}
	return features, nil
}

// EncodeAll encodes the full example set into design matrix X and target
// vector y.
func (e *Encoder) EncodeAll(examples []dataset.TrainingExample) ([][]float64, []float64, error) {
	x := make([][]float64, 0, len(examples))
	y := make([]float64, 0, len(examples))

	for _, ex := range examples {
		features, err := e.Encode(ex)
		if err != nil {
			return nil, nil, err
		}
		x = append(x, features)
		y = append(y, ex.Outcome.Score)
	}
	return x, y, nil
}
