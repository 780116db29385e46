// Package repository implements the read-only data source over PostgreSQL.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"job-recommender/internal/common/logger"
	"job-recommender/internal/models"
)

// PostgresDataSource reads candidates, jobs and interaction records from
// the relational store. All queries are read-only.
type PostgresDataSource struct {
	db     *sql.DB
	logger logger.Logger
}

func NewPostgresDataSource(db *sql.DB, log logger.Logger) *PostgresDataSource {
	return &PostgresDataSource{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "datasource"}),
	}
}

// ListApplications returns every application with its candidate, job and
// interview sub-records attached.
func (s *PostgresDataSource) ListApplications(ctx context.Context) ([]models.Application, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, candidate_id, job_id, status, created_at
		FROM applications`)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	var apps []models.Application
	var candidateIDs, jobIDs, appIDs []string
	for rows.Next() {
		var app models.Application
		if err := rows.Scan(&app.ID, &app.CandidateID, &app.JobID, &app.Status, &app.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		apps = append(apps, app)
		candidateIDs = append(candidateIDs, app.CandidateID)
		jobIDs = append(jobIDs, app.JobID)
		appIDs = append(appIDs, app.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate applications: %w", err)
	}
	if len(apps) == 0 {
		return nil, nil
	}

	candidates, err := s.loadCandidates(ctx, candidateIDs)
	if err != nil {
		return nil, err
	}
	jobs, err := s.loadJobs(ctx, jobIDs)
	if err != nil {
		return nil, err
	}
	interviews, err := s.loadInterviews(ctx, appIDs)
	if err != nil {
		return nil, err
	}

	for i := range apps {
		apps[i].Candidate = candidates[apps[i].CandidateID]
		apps[i].Job = jobs[apps[i].JobID]
		apps[i].Interviews = interviews[apps[i].ID]
	}
	return apps, nil
}

// ListSavedJobs returns every saved-job record with candidate and job
// attached.
func (s *PostgresDataSource) ListSavedJobs(ctx context.Context) ([]models.SavedJob, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, candidate_id, job_id, saved_at
		FROM saved_jobs`)
	if err != nil {
		return nil, fmt.Errorf("list saved jobs: %w", err)
	}
	defer rows.Close()

	var saved []models.SavedJob
	var candidateIDs, jobIDs []string
	for rows.Next() {
		var sj models.SavedJob
		if err := rows.Scan(&sj.ID, &sj.CandidateID, &sj.JobID, &sj.SavedAt); err != nil {
			return nil, fmt.Errorf("scan saved job: %w", err)
		}
		saved = append(saved, sj)
		candidateIDs = append(candidateIDs, sj.CandidateID)
		jobIDs = append(jobIDs, sj.JobID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate saved jobs: %w", err)
	}
	if len(saved) == 0 {
		return nil, nil
	}

	candidates, err := s.loadCandidates(ctx, candidateIDs)
	if err != nil {
		return nil, err
	}
	jobs, err := s.loadJobs(ctx, jobIDs)
	if err != nil {
		return nil, err
	}

	for i := range saved {
		saved[i].Candidate = candidates[saved[i].CandidateID]
		saved[i].Job = jobs[saved[i].JobID]
	}
	return saved, nil
}

// SampleCandidates returns a random sample of fully hydrated candidates.
func (s *PostgresDataSource) SampleCandidates(ctx context.Context, limit int) ([]models.Candidate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM candidates ORDER BY random() LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("sample candidates: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan candidate id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candidate ids: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	byID, err := s.loadCandidates(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]models.Candidate, 0, len(ids))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			out = append(out, *c)
		}
	}
	return out, nil
}

// SampleJobs returns a random sample of jobs with company sub-records.
func (s *PostgresDataSource) SampleJobs(ctx context.Context, limit int) ([]models.Job, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM jobs ORDER BY random() LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("sample jobs: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan job id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate job ids: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	byID, err := s.loadJobs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]models.Job, 0, len(ids))
	for _, id := range ids {
		if j, ok := byID[id]; ok {
			out = append(out, *j)
		}
	}
	return out, nil
}

// loadCandidates batch-loads candidates with experience and education.
// Array-valued columns are stored as JSONB.
func (s *PostgresDataSource) loadCandidates(ctx context.Context, ids []string) (map[string]*models.Candidate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, skills, city, state, country, preferences
		FROM candidates WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("load candidates: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]*models.Candidate)
	for rows.Next() {
		var (
			c           models.Candidate
			skillsJSON  []byte
			city, state sql.NullString
			country     sql.NullString
			prefsJSON   []byte
		)
		if err := rows.Scan(&c.ID, &skillsJSON, &city, &state, &country, &prefsJSON); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		if len(skillsJSON) > 0 {
			if err := json.Unmarshal(skillsJSON, &c.Skills); err != nil {
				c.Skills = nil
			}
		}
		c.City, c.State, c.Country = city.String, state.String, country.String
		if len(prefsJSON) > 0 {
			var prefs models.CandidatePreferences
			if err := json.Unmarshal(prefsJSON, &prefs); err == nil {
				c.Prefs = &prefs
			}
		}
		byID[c.ID] = &c
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candidates: %w", err)
	}

	if err := s.loadExperience(ctx, ids, byID); err != nil {
		return nil, err
	}
	if err := s.loadEducation(ctx, ids, byID); err != nil {
		return nil, err
	}
	return byID, nil
}

func (s *PostgresDataSource) loadExperience(ctx context.Context, ids []string, byID map[string]*models.Candidate) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT candidate_id, title, company, start_date, end_date, skills
		FROM candidate_experience WHERE candidate_id = ANY($1)
		ORDER BY start_date`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("load experience: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			candidateID string
			exp         models.ExperienceRecord
			endDate     sql.NullTime
			skillsJSON  []byte
		)
		if err := rows.Scan(&candidateID, &exp.Title, &exp.Company, &exp.StartDate, &endDate, &skillsJSON); err != nil {
			return fmt.Errorf("scan experience: %w", err)
		}
		if endDate.Valid {
			t := endDate.Time
			exp.EndDate = &t
		}
		if len(skillsJSON) > 0 {
			if err := json.Unmarshal(skillsJSON, &exp.Skills); err != nil {
				exp.Skills = nil
			}
		}
		if c, ok := byID[candidateID]; ok {
			c.Experience = append(c.Experience, exp)
		}
	}
	return rows.Err()
}

func (s *PostgresDataSource) loadEducation(ctx context.Context, ids []string, byID map[string]*models.Candidate) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT candidate_id, degree, field, grade
		FROM candidate_education WHERE candidate_id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("load education: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			candidateID string
			edu         models.EducationRecord
			grade       sql.NullString
		)
		if err := rows.Scan(&candidateID, &edu.Degree, &edu.Field, &grade); err != nil {
			return fmt.Errorf("scan education: %w", err)
		}
		if grade.Valid {
			g := grade.String
			edu.Grade = &g
		}
		if c, ok := byID[candidateID]; ok {
			c.Education = append(c.Education, edu)
		}
	}
	return rows.Err()
}

func (s *PostgresDataSource) loadJobs(ctx context.Context, ids []string) (map[string]*models.Job, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT j.id, j.title, j.description, j.requirements, j.employment_type,
		       j.city, j.state, j.country, j.industry, j.company_size,
		       j.salary_min, j.salary_max, j.experience_level, j.skills,
		       c.id, c.name, c.industry, c.size
		FROM jobs j
		LEFT JOIN companies c ON c.id = j.company_id
		WHERE j.id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("load jobs: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]*models.Job)
	for rows.Next() {
		var (
			j                models.Job
			requirementsJSON []byte
			skillsJSON       []byte
			city, state      sql.NullString
			country          sql.NullString
			industry, size   sql.NullString
			salaryMin        sql.NullFloat64
			salaryMax        sql.NullFloat64
			expLevel         sql.NullString
			companyID        sql.NullString
			companyName      sql.NullString
			companyIndustry  sql.NullString
			companySize      sql.NullString
		)
		if err := rows.Scan(&j.ID, &j.Title, &j.Description, &requirementsJSON, &j.EmploymentType,
			&city, &state, &country, &industry, &size,
			&salaryMin, &salaryMax, &expLevel, &skillsJSON,
			&companyID, &companyName, &companyIndustry, &companySize); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}

		if len(requirementsJSON) > 0 {
			if err := json.Unmarshal(requirementsJSON, &j.Requirements); err != nil {
				j.Requirements = nil
			}
		}
		if len(skillsJSON) > 0 {
			if err := json.Unmarshal(skillsJSON, &j.Skills); err != nil {
				j.Skills = nil
			}
		}
		j.City, j.State, j.Country = city.String, state.String, country.String
		j.Industry, j.CompanySize = industry.String, size.String
		if salaryMin.Valid {
			j.SalaryMin = &salaryMin.Float64
		}
		if salaryMax.Valid {
			j.SalaryMax = &salaryMax.Float64
		}
		j.ExperienceLevel = expLevel.String
		if companyID.Valid {
			j.Company = &models.Company{
				ID:       companyID.String,
				Name:     companyName.String,
				Industry: companyIndustry.String,
				Size:     companySize.String,
			}
		}
		byID[j.ID] = &j
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}
	return byID, nil
}

func (s *PostgresDataSource) loadInterviews(ctx context.Context, appIDs []string) (map[string][]models.Interview, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, application_id, status, scheduled_at
		FROM interviews WHERE application_id = ANY($1)`, pq.Array(appIDs))
	if err != nil {
		return nil, fmt.Errorf("load interviews: %w", err)
	}
	defer rows.Close()

	byApp := make(map[string][]models.Interview)
	for rows.Next() {
		var iv models.Interview
		if err := rows.Scan(&iv.ID, &iv.ApplicationID, &iv.Status, &iv.ScheduledAt); err != nil {
			return nil, fmt.Errorf("scan interview: %w", err)
		}
		byApp[iv.ApplicationID] = append(byApp[iv.ApplicationID], iv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interviews: %w", err)
	}
	return byApp, nil
}
