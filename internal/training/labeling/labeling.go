// Package labeling derives the engagement score used as the regression
// target from observed interaction signals.
package labeling

// Outcome captures the interaction signals observed between one candidate
// and one job, plus the scalar engagement score derived from them.
type Outcome struct {
	Applied     bool    `json:"applied"`
	Interviewed bool    `json:"interviewed"`
	Hired       bool    `json:"hired"`
	Saved       bool    `json:"saved"`
	Viewed      bool    `json:"viewed"`
	Score       float64 `json:"engagementScore"`
}

// Engagement weights by outcome precedence. Exactly one weight determines
// the score; signals are never combined additively.
const (
	scoreHired       = 1.0
	scoreInterviewed = 0.8
	scoreApplied     = 0.6
	scoreSaved       = 0.4
	scoreViewed      = 0.2
	scoreNone        = 0.0
)

// Score returns the engagement score for the given signals under the
// precedence hired > interviewed > applied > saved > viewed > none.
func Score(o Outcome) float64 {
	switch {
	case o.Hired:
		return scoreHired
	case o.Interviewed:
		return scoreInterviewed
	case o.Applied:
		return scoreApplied
	case o.Saved:
		return scoreSaved
	case o.Viewed:
		return scoreViewed
	default:
		return scoreNone
	}
}

// Label fills in the score for the observed signals and returns the
// completed outcome.
func Label(o Outcome) Outcome {
	o.Score = Score(o)
	return o
}

// Negative is the outcome attached to every synthesized non-interaction
// pair: all flags false, score 0.
func Negative() Outcome {
	return Outcome{}
}
