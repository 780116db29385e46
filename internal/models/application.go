// internal/models/application.go
package models

import "time"

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "PENDING"
	ApplicationReviewed ApplicationStatus = "REVIEWED"
	ApplicationAccepted ApplicationStatus = "ACCEPTED"
	ApplicationRejected ApplicationStatus = "REJECTED"
)

// Application joins a candidate to a job with its interview sub-records.
type Application struct {
	ID          string            `json:"id"`
	CandidateID string            `json:"candidateId"`
	JobID       string            `json:"jobId"`
	Status      ApplicationStatus `json:"status"`
	Candidate   *Candidate        `json:"candidate,omitempty"`
	Job         *Job              `json:"job,omitempty"`
	Interviews  []Interview       `json:"interviews,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// Interview is one interview round recorded against an application.
type Interview struct {
	ID            string    `json:"id"`
	ApplicationID string    `json:"applicationId"`
	Status        string    `json:"status"`
	ScheduledAt   time.Time `json:"scheduledAt"`
}

// SavedJob records a candidate bookmarking a job without applying.
type SavedJob struct {
	ID          string     `json:"id"`
	CandidateID string     `json:"candidateId"`
	JobID       string     `json:"jobId"`
	Candidate   *Candidate `json:"candidate,omitempty"`
	Job         *Job       `json:"job,omitempty"`
	SavedAt     time.Time  `json:"savedAt"`
}
