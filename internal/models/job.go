// internal/models/job.go
package models

// Job is the raw job posting record as read from the store.
type Job struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Requirements    []string `json:"requirements,omitempty"`
	EmploymentType  string   `json:"employmentType"`
	City            string   `json:"city,omitempty"`
	State           string   `json:"state,omitempty"`
	Country         string   `json:"country,omitempty"`
	Industry        string   `json:"industry"`
	CompanySize     string   `json:"companySize,omitempty"`
	SalaryMin       *float64 `json:"salaryMin,omitempty"`
	SalaryMax       *float64 `json:"salaryMax,omitempty"`
	ExperienceLevel string   `json:"experienceLevel,omitempty"`
	Skills          []string `json:"skills,omitempty"`
	Company         *Company `json:"company,omitempty"`
}

// Company is the employer sub-record attached to a job.
type Company struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Industry string `json:"industry,omitempty"`
	Size     string `json:"size,omitempty"`
}
