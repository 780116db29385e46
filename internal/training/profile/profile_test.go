package profile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"job-recommender/internal/models"
)

func fixedClock() time.Time {
	return time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
}

func newTestExtractor() *Extractor {
	return NewExtractor(nil).WithClock(fixedClock)
}

func strPtr(s string) *string { return &s }

func TestCandidate_LowercasesCategoricalStrings(t *testing.T) {
	e := newTestExtractor()

	p := e.Candidate(&models.Candidate{
		ID:      "cand-1",
		Skills:  []string{"React", "  Node  ", "PYTHON"},
		City:    "Austin",
		State:   "TX",
		Country: "USA",
	})

	assert.Equal(t, []string{"react", "node", "python"}, p.Skills)
	assert.Equal(t, "austin", p.Location.City)
	assert.Equal(t, "tx", p.Location.State)
	assert.Equal(t, "usa", p.Location.Country)
}

func TestCandidate_ExperienceDuration(t *testing.T) {
	e := newTestExtractor()
	end := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	p := e.Candidate(&models.Candidate{
		ID: "cand-1",
		Experience: []models.ExperienceRecord{
			{Title: "Engineer", StartDate: time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC), EndDate: &end},
			{Title: "Senior Engineer", StartDate: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)}, // open-ended
			{Title: "Intern", StartDate: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)},           // starts in the future
		},
	})

	require.Len(t, p.Experience, 3)
	assert.Equal(t, 24, p.Experience[0].Months)
	assert.Equal(t, 12, p.Experience[1].Months, "open-ended entries run until now")
	assert.Equal(t, 0, p.Experience[2].Months, "duration floored at zero")
}

func TestCandidate_GradeParsing(t *testing.T) {
	e := newTestExtractor()

	p := e.Candidate(&models.Candidate{
		ID: "cand-1",
		Education: []models.EducationRecord{
			{Degree: "Bachelor of Science", Field: "CS", Grade: strPtr("3.8")},
			{Degree: "Master of Science", Field: "CS", Grade: strPtr(" 3.9 ")},
			{Degree: "PhD", Field: "CS", Grade: strPtr("summa cum laude")},
			{Degree: "Diploma", Field: "IT"},
		},
	})

	require.Len(t, p.Education, 4)
	assert.Equal(t, 3.8, p.Education[0].Grade)
	assert.Equal(t, 3.9, p.Education[1].Grade)
	assert.Equal(t, 0.0, p.Education[2].Grade, "non-numeric grade defaults to 0")
	assert.Equal(t, 0.0, p.Education[3].Grade, "missing grade defaults to 0")
}

func TestCandidate_DegreeLevels(t *testing.T) {
	e := newTestExtractor()

	p := e.Candidate(&models.Candidate{
		ID: "cand-1",
		Education: []models.EducationRecord{
			{Degree: "High School Diploma"},
			{Degree: "Associate of Arts"},
			{Degree: "Bachelor of Engineering"},
			{Degree: "Master of Business Administration"},
			{Degree: "PhD in Physics"},
			{Degree: "Certificate of Attendance"},
		},
	})

	levels := make([]int, 0, len(p.Education))
	for _, edu := range p.Education {
		levels = append(levels, edu.Level)
	}
	assert.Equal(t, []int{1, 2, 3, 4, 5, 1}, levels, "unknown degrees default to level 1")
}

func TestCandidate_MaxEducationLevel(t *testing.T) {
	e := newTestExtractor()

	withEdu := e.Candidate(&models.Candidate{
		ID: "cand-1",
		Education: []models.EducationRecord{
			{Degree: "Bachelor of Science"},
			{Degree: "Master of Science"},
		},
	})
	assert.Equal(t, 4, withEdu.MaxEducationLevel())

	noEdu := e.Candidate(&models.Candidate{ID: "cand-2"})
	assert.Equal(t, 0, noEdu.MaxEducationLevel(), "no education records means level 0")
}

func TestJob_Extraction(t *testing.T) {
	e := newTestExtractor()

	p := e.Job(&models.Job{
		ID:             "job-1",
		Title:          "Backend Engineer",
		Description:    "We build Things with Capital Letters.",
		EmploymentType: "FULL_TIME",
		City:           "Denver",
		Country:        "USA",
		Industry:       "Software",
		Skills:         []string{"Go", "Postgres"},
	})

	assert.Equal(t, "backend engineer", p.Title)
	assert.Equal(t, "We build Things with Capital Letters.", p.Description, "free text stays untouched")
	assert.Equal(t, "full_time", p.EmploymentType)
	assert.Equal(t, "software", p.Industry)
	assert.Equal(t, []string{"go", "postgres"}, p.Skills)
	assert.Equal(t, "denver,usa", p.Location.Key())
}

func TestJob_IndustryFallsBackToCompany(t *testing.T) {
	e := newTestExtractor()

	p := e.Job(&models.Job{
		ID:      "job-1",
		Title:   "Analyst",
		Company: &models.Company{Name: "Acme", Industry: "Finance"},
	})

	assert.Equal(t, "finance", p.Industry)
}

func TestLocation_Key(t *testing.T) {
	assert.Equal(t, "austin,tx,usa", Location{City: "austin", State: "tx", Country: "usa"}.Key())
	assert.Equal(t, "austin,usa", Location{City: "austin", Country: "usa"}.Key())
	assert.Equal(t, "", Location{}.Key())
}
