// Package profile normalizes raw candidate and job records into the
// canonical shapes the rest of the pipeline works with. All defaulting for
// optional fields happens here and nowhere else.
package profile

import (
	"strconv"
	"strings"
	"time"

	"job-recommender/internal/common/config"
	"job-recommender/internal/models"
)

// CandidateProfile is the canonical, lower-cased view of one candidate.
type CandidateProfile struct {
	CandidateID string            `json:"candidateId"`
	Skills      []string          `json:"skills"`
	Experience  []ExperienceEntry `json:"experience"`
	Education   []EducationEntry  `json:"education"`
	Location    Location          `json:"location"`
	Preferences *Preferences      `json:"preferences,omitempty"`
}

// ExperienceEntry is one employment entry with its duration resolved to
// whole months.
type ExperienceEntry struct {
	Title   string   `json:"title"`
	Company string   `json:"company"`
	Months  int      `json:"months"`
	Skills  []string `json:"skills,omitempty"`
}

// EducationEntry is one education entry with grade and degree level
// already resolved.
type EducationEntry struct {
	Degree string  `json:"degree"`
	Field  string  `json:"field"`
	Grade  float64 `json:"grade"`
	Level  int     `json:"level"`
}

// Preferences mirrors the candidate's stated preferences, lower-cased.
type Preferences struct {
	JobTypes     []string `json:"jobTypes,omitempty"`
	Industries   []string `json:"industries,omitempty"`
	Locations    []string `json:"locations,omitempty"`
	ExpectedComp *float64 `json:"expectedCompensation,omitempty"`
}

// Location is a structured, lower-cased location.
type Location struct {
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
}

// Key returns the categorical key used for vocabulary and one-hot
// matching. Empty components are skipped.
func (l Location) Key() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{l.City, l.State, l.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ",")
}

// JobProfile is the canonical, lower-cased view of one job posting.
// Description stays untouched: it is free text, never matched.
type JobProfile struct {
	JobID           string   `json:"jobId"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Requirements    []string `json:"requirements,omitempty"`
	EmploymentType  string   `json:"employmentType"`
	Location        Location `json:"location"`
	Industry        string   `json:"industry"`
	CompanySize     string   `json:"companySize,omitempty"`
	SalaryMin       *float64 `json:"salaryMin,omitempty"`
	SalaryMax       *float64 `json:"salaryMax,omitempty"`
	ExperienceLevel string   `json:"experienceLevel,omitempty"`
	Skills          []string `json:"skills,omitempty"`
}

// Extractor normalizes raw store records. The degree table comes from
// configuration; the clock is injectable for tests.
type Extractor struct {
	degreeLevels []config.DegreeLevel
	now          func() time.Time
}

func NewExtractor(degreeLevels []config.DegreeLevel) *Extractor {
	if len(degreeLevels) == 0 {
		degreeLevels = config.DefaultDegreeLevels()
	}
	return &Extractor{
		degreeLevels: degreeLevels,
		now:          time.Now,
	}
}

// WithClock overrides the notion of "now" used for open-ended experience
// entries. Returns the extractor for chaining.
func (e *Extractor) WithClock(now func() time.Time) *Extractor {
	e.now = now
	return e
}

// Candidate builds a CandidateProfile from a raw record.
func (e *Extractor) Candidate(c *models.Candidate) CandidateProfile {
	p := CandidateProfile{
		CandidateID: c.ID,
		Skills:      lowerAll(c.Skills),
		Location: Location{
			City:    strings.ToLower(strings.TrimSpace(c.City)),
			State:   strings.ToLower(strings.TrimSpace(c.State)),
			Country: strings.ToLower(strings.TrimSpace(c.Country)),
		},
	}

	for _, exp := range c.Experience {
		p.Experience = append(p.Experience, ExperienceEntry{
			Title:   strings.ToLower(strings.TrimSpace(exp.Title)),
			Company: exp.Company,
			Months:  e.durationMonths(exp.StartDate, exp.EndDate),
			Skills:  lowerAll(exp.Skills),
		})
	}

	for _, edu := range c.Education {
		degree := strings.ToLower(strings.TrimSpace(edu.Degree))
		p.Education = append(p.Education, EducationEntry{
			Degree: degree,
			Field:  strings.ToLower(strings.TrimSpace(edu.Field)),
			Grade:  parseGrade(edu.Grade),
			Level:  e.degreeLevel(degree),
		})
	}

	if c.Prefs != nil {
		p.Preferences = &Preferences{
			JobTypes:     lowerAll(c.Prefs.JobTypes),
			Industries:   lowerAll(c.Prefs.Industries),
			Locations:    lowerAll(c.Prefs.Locations),
			ExpectedComp: c.Prefs.ExpectedComp,
		}
	}

	return p
}

// Job builds a JobProfile from a raw record. The same lower-casing rules
// apply to every categorical string.
func (e *Extractor) Job(j *models.Job) JobProfile {
	industry := j.Industry
	if industry == "" && j.Company != nil {
		industry = j.Company.Industry
	}
	size := j.CompanySize
	if size == "" && j.Company != nil {
		size = j.Company.Size
	}

	return JobProfile{
		JobID:          j.ID,
		Title:          strings.ToLower(strings.TrimSpace(j.Title)),
		Description:    j.Description,
		Requirements:   j.Requirements,
		EmploymentType: strings.ToLower(strings.TrimSpace(j.EmploymentType)),
		Location: Location{
			City:    strings.ToLower(strings.TrimSpace(j.City)),
			State:   strings.ToLower(strings.TrimSpace(j.State)),
			Country: strings.ToLower(strings.TrimSpace(j.Country)),
		},
		Industry:        strings.ToLower(strings.TrimSpace(industry)),
		CompanySize:     strings.ToLower(strings.TrimSpace(size)),
		SalaryMin:       j.SalaryMin,
		SalaryMax:       j.SalaryMax,
		ExperienceLevel: strings.ToLower(strings.TrimSpace(j.ExperienceLevel)),
		Skills:          lowerAll(j.Skills),
	}
}

// MaxEducationLevel returns the highest resolved degree level, 0 when the
// candidate has no education records.
func (p CandidateProfile) MaxEducationLevel() int {
	max := 0
	for _, edu := range p.Education {
		if edu.Level > max {
			max = edu.Level
		}
	}
	return max
}

// durationMonths counts whole months between start and end (or now for an
// open-ended entry), floored at 0.
func (e *Extractor) durationMonths(start time.Time, end *time.Time) int {
	until := e.now()
	if end != nil {
		until = *end
	}
	if until.Before(start) {
		return 0
	}

	months := int(until.Year()-start.Year())*12 + int(until.Month()) - int(start.Month())
	if until.Day() < start.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

// degreeLevel resolves a lower-cased degree name against the ranked table
// by substring match. Unknown degrees rank 1.
func (e *Extractor) degreeLevel(degree string) int {
	for _, dl := range e.degreeLevels {
		if strings.Contains(degree, dl.Match) {
			return dl.Level
		}
	}
	return 1
}

// parseGrade accepts a numeric-like string, defaulting to 0 on absence or
// parse failure.
func parseGrade(grade *string) float64 {
	if grade == nil {
		return 0
	}
	g, err := strconv.ParseFloat(strings.TrimSpace(*grade), 64)
	if err != nil {
		return 0
	}
	return g
}

func lowerAll(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
