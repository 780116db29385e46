package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"job-recommender/internal/common/logger"
	"job-recommender/internal/models"
)

// ==========================================
// Test Helper Functions
// ==========================================

func newMockSource(t *testing.T) (*PostgresDataSource, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresDataSource(db, logger.NewTestLogger(t)), mock
}

func candidateRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "skills", "city", "state", "country", "preferences"}).
		AddRow("cand-1", []byte(`["Go","SQL"]`), "Pune", "MH", "India", nil)
}

func jobRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "title", "description", "requirements", "employment_type",
		"city", "state", "country", "industry", "company_size",
		"salary_min", "salary_max", "experience_level", "skills",
		"company_id", "company_name", "company_industry", "company_size_2",
	}).AddRow(
		"job-1", "Backend Engineer", "Build services", []byte(`["3+ years Go"]`), "FULL_TIME",
		"Pune", "MH", "India", "Software", "51-200",
		800000.0, 1500000.0, "MID", []byte(`["go","postgres"]`),
		"comp-1", "Acme", "Software", "51-200",
	)
}

func emptyExperienceRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"candidate_id", "title", "company", "start_date", "end_date", "skills"})
}

func emptyEducationRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"candidate_id", "degree", "field", "grade"})
}

// ==========================================
// ListApplications
// ==========================================

func TestListApplications_HydratesSubRecords(t *testing.T) {
	source, mock := newMockSource(t)
	createdAt := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	startDate := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT id, candidate_id, job_id, status, created_at\s+FROM applications`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "candidate_id", "job_id", "status", "created_at"}).
			AddRow("app-1", "cand-1", "job-1", "REVIEWED", createdAt))

	mock.ExpectQuery(`FROM candidates WHERE id = ANY\(\$1\)`).
		WillReturnRows(candidateRows())
	mock.ExpectQuery(`FROM candidate_experience WHERE candidate_id = ANY\(\$1\)`).
		WillReturnRows(sqlmock.NewRows([]string{"candidate_id", "title", "company", "start_date", "end_date", "skills"}).
			AddRow("cand-1", "Engineer", "Acme", startDate, nil, []byte(`["go"]`)))
	mock.ExpectQuery(`FROM candidate_education WHERE candidate_id = ANY\(\$1\)`).
		WillReturnRows(sqlmock.NewRows([]string{"candidate_id", "degree", "field", "grade"}).
			AddRow("cand-1", "Bachelor of Engineering", "Computer Science", "8.2"))
	mock.ExpectQuery(`FROM jobs j\s+LEFT JOIN companies c ON c.id = j.company_id`).
		WillReturnRows(jobRows())
	mock.ExpectQuery(`FROM interviews WHERE application_id = ANY\(\$1\)`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "application_id", "status", "scheduled_at"}).
			AddRow("iv-1", "app-1", "COMPLETED", createdAt))

	apps, err := source.ListApplications(context.Background())
	require.NoError(t, err)
	require.Len(t, apps, 1)

	app := apps[0]
	assert.Equal(t, models.ApplicationReviewed, app.Status)

	require.NotNil(t, app.Candidate)
	assert.Equal(t, []string{"Go", "SQL"}, app.Candidate.Skills)
	require.Len(t, app.Candidate.Experience, 1)
	assert.Equal(t, "Engineer", app.Candidate.Experience[0].Title)
	assert.Nil(t, app.Candidate.Experience[0].EndDate)
	require.Len(t, app.Candidate.Education, 1)
	require.NotNil(t, app.Candidate.Education[0].Grade)
	assert.Equal(t, "8.2", *app.Candidate.Education[0].Grade)

	require.NotNil(t, app.Job)
	assert.Equal(t, "Backend Engineer", app.Job.Title)
	assert.Equal(t, "Software", app.Job.Industry)
	require.NotNil(t, app.Job.SalaryMin)
	assert.Equal(t, 800000.0, *app.Job.SalaryMin)
	require.NotNil(t, app.Job.Company)
	assert.Equal(t, "Acme", app.Job.Company.Name)

	require.Len(t, app.Interviews, 1)
	assert.Equal(t, "iv-1", app.Interviews[0].ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListApplications_EmptyTable(t *testing.T) {
	source, mock := newMockSource(t)

	mock.ExpectQuery(`FROM applications`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "candidate_id", "job_id", "status", "created_at"}))

	apps, err := source.ListApplications(context.Background())
	require.NoError(t, err)
	assert.Empty(t, apps)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListApplications_QueryError(t *testing.T) {
	source, mock := newMockSource(t)

	mock.ExpectQuery(`FROM applications`).
		WillReturnError(fmt.Errorf("connection refused"))

	_, err := source.ListApplications(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list applications")
}

// ==========================================
// ListSavedJobs
// ==========================================

func TestListSavedJobs_HydratesSubRecords(t *testing.T) {
	source, mock := newMockSource(t)
	savedAt := time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM saved_jobs`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "candidate_id", "job_id", "saved_at"}).
			AddRow("sv-1", "cand-1", "job-1", savedAt))
	mock.ExpectQuery(`FROM candidates WHERE id = ANY\(\$1\)`).
		WillReturnRows(candidateRows())
	mock.ExpectQuery(`FROM candidate_experience`).WillReturnRows(emptyExperienceRows())
	mock.ExpectQuery(`FROM candidate_education`).WillReturnRows(emptyEducationRows())
	mock.ExpectQuery(`FROM jobs j`).WillReturnRows(jobRows())

	saved, err := source.ListSavedJobs(context.Background())
	require.NoError(t, err)
	require.Len(t, saved, 1)
	require.NotNil(t, saved[0].Candidate)
	require.NotNil(t, saved[0].Job)
	assert.True(t, savedAt.Equal(saved[0].SavedAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================================
// Sampling
// ==========================================

func TestSampleCandidates_HydratesByID(t *testing.T) {
	source, mock := newMockSource(t)

	mock.ExpectQuery(`SELECT id FROM candidates ORDER BY random\(\) LIMIT \$1`).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("cand-1"))
	mock.ExpectQuery(`FROM candidates WHERE id = ANY\(\$1\)`).
		WillReturnRows(candidateRows())
	mock.ExpectQuery(`FROM candidate_experience`).WillReturnRows(emptyExperienceRows())
	mock.ExpectQuery(`FROM candidate_education`).WillReturnRows(emptyEducationRows())

	candidates, err := source.SampleCandidates(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "cand-1", candidates[0].ID)
	assert.Equal(t, []string{"Go", "SQL"}, candidates[0].Skills)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSampleJobs_EmptyPool(t *testing.T) {
	source, mock := newMockSource(t)

	mock.ExpectQuery(`SELECT id FROM jobs ORDER BY random\(\) LIMIT \$1`).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	jobs, err := source.SampleJobs(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, jobs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSampleJobs_Hydrates(t *testing.T) {
	source, mock := newMockSource(t)

	mock.ExpectQuery(`SELECT id FROM jobs ORDER BY random\(\) LIMIT \$1`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("job-1"))
	mock.ExpectQuery(`FROM jobs j`).WillReturnRows(jobRows())

	jobs, err := source.SampleJobs(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, []string{"go", "postgres"}, jobs[0].Skills)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadJobs_NullableColumns(t *testing.T) {
	source, mock := newMockSource(t)

	rows := sqlmock.NewRows([]string{
		"id", "title", "description", "requirements", "employment_type",
		"city", "state", "country", "industry", "company_size",
		"salary_min", "salary_max", "experience_level", "skills",
		"company_id", "company_name", "company_industry", "company_size_2",
	}).AddRow(
		"job-2", "Analyst", "", nil, "CONTRACT",
		nil, nil, nil, nil, nil,
		nil, nil, nil, nil,
		nil, nil, nil, nil,
	)

	mock.ExpectQuery(`SELECT id FROM jobs ORDER BY random\(\) LIMIT \$1`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("job-2"))
	mock.ExpectQuery(`FROM jobs j`).WillReturnRows(rows)

	jobs, err := source.SampleJobs(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	job := jobs[0]
	assert.Empty(t, job.City)
	assert.Empty(t, job.Industry)
	assert.Nil(t, job.SalaryMin)
	assert.Nil(t, job.Company)

	assert.NoError(t, mock.ExpectationsWereMet())
}
