// internal/models/candidate.go
package models

import "time"

// Candidate is the raw candidate record as read from the store.
type Candidate struct {
	ID         string                `json:"id"`
	Skills     []string              `json:"skills"`
	Experience []ExperienceRecord    `json:"experience"`
	Education  []EducationRecord     `json:"education"`
	City       string                `json:"city,omitempty"`
	State      string                `json:"state,omitempty"`
	Country    string                `json:"country,omitempty"`
	Prefs      *CandidatePreferences `json:"preferences,omitempty"`
}

// ExperienceRecord is one employment entry. EndDate is nil for a current
// position.
type ExperienceRecord struct {
	Title     string     `json:"title"`
	Company   string     `json:"company"`
	StartDate time.Time  `json:"startDate"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	Skills    []string   `json:"skills,omitempty"`
}

// EducationRecord is one education entry. Grade is stored free-form in the
// source system (numeric or numeric-like string) and may be absent.
type EducationRecord struct {
	Degree string  `json:"degree"`
	Field  string  `json:"field"`
	Grade  *string `json:"grade,omitempty"`
}

// CandidatePreferences are the optional stated preferences of a candidate.
type CandidatePreferences struct {
	JobTypes     []string `json:"jobTypes,omitempty"`
	Industries   []string `json:"industries,omitempty"`
	Locations    []string `json:"locations,omitempty"`
	ExpectedComp *float64 `json:"expectedCompensation,omitempty"`
}
