// Package postgres implements store.Store on top of a pgx connection pool.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/seekly/matcher/internal/store"
)

type Store struct {
	pool *pgxpool.Pool
}

// New connects to databaseURL and verifies connectivity.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

const jobColumns = `id, title, employer, description, city, region,
	salary_min, salary_max, salary_currency, employment_type, category,
	experience_level, is_urgent, immediate_start, no_experience_required,
	posted_at, views`

// FindActiveJobs builds one conjunctive WHERE clause from the predicate.
// Substring fields use ILIKE; the keyword is a disjunction across title,
// description and employer; list fields use ANY(); the salary constraint is
// interval overlap, not containment.
func (s *Store) FindActiveJobs(ctx context.Context, pred store.Predicate, limit int) ([]*store.JobPosting, error) {
	where := []string{"status = 'active'", "expires_at > now()"}
	args := []any{}

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if kw := strings.TrimSpace(pred.Keyword); kw != "" {
		p := arg("%" + kw + "%")
		where = append(where, fmt.Sprintf("(title ILIKE %[1]s OR description ILIKE %[1]s OR employer ILIKE %[1]s)", p))
	}
	if loc := strings.TrimSpace(pred.Location); loc != "" {
		where = append(where, fmt.Sprintf("city ILIKE %s", arg("%"+loc+"%")))
	}
	if region := strings.TrimSpace(pred.Region); region != "" {
		where = append(where, fmt.Sprintf("region ILIKE %s", arg(region)))
	}
	if pred.Salary != nil && pred.Salary.Width() > 0 {
		where = append(where, fmt.Sprintf("salary_max >= %s", arg(pred.Salary.Min)))
		where = append(where, fmt.Sprintf("salary_min <= %s", arg(pred.Salary.Max)))
	}
	if len(pred.EmploymentTypes) > 0 {
		where = append(where, fmt.Sprintf("employment_type = ANY(%s)", arg(pred.EmploymentTypes)))
	}
	if len(pred.Categories) > 0 {
		where = append(where, fmt.Sprintf("category = ANY(%s)", arg(pred.Categories)))
	}
	if pred.Experience != "" {
		where = append(where, fmt.Sprintf("experience_level = %s", arg(pred.Experience)))
	}

	query := fmt.Sprintf(`SELECT %s FROM job_postings WHERE %s ORDER BY posted_at DESC LIMIT %s`,
		jobColumns, strings.Join(where, " AND "), arg(limit))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query active jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]*store.JobPosting, 0, limit)
	for rows.Next() {
		job := &store.JobPosting{}
		if err := rows.Scan(
			&job.ID, &job.Title, &job.Employer, &job.Description, &job.City, &job.Region,
			&job.Salary.Min, &job.Salary.Max, &job.Salary.Currency, &job.EmploymentType, &job.Category,
			&job.Experience, &job.Urgent, &job.ImmediateStart, &job.NoExperienceRequired,
			&job.PostedAt, &job.Views,
		); err != nil {
			return nil, fmt.Errorf("scan job posting: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate job postings: %w", err)
	}
	return jobs, nil
}

// FindProfile loads the profile row plus its employment and education
// history. A missing row yields (nil, nil).
func (s *Store) FindProfile(ctx context.Context, seekerID string) (*store.SeekerProfile, error) {
	profile := &store.SeekerProfile{SeekerID: seekerID}
	err := s.pool.QueryRow(ctx, `
		SELECT skills, preferred_locations, expected_salary_min, expected_salary_max,
		       expected_salary_currency, summary
		FROM seeker_profiles WHERE seeker_id = $1`, seekerID,
	).Scan(
		&profile.Skills, &profile.PreferredLocations,
		&profile.ExpectedSalary.Min, &profile.ExpectedSalary.Max,
		&profile.ExpectedSalary.Currency, &profile.Summary,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query seeker profile: %w", err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT employer, title, started_at, ended_at
		FROM seeker_employment WHERE seeker_id = $1 ORDER BY started_at`, seekerID)
	if err != nil {
		return nil, fmt.Errorf("query seeker employment: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var interval store.EmploymentInterval
		if err := rows.Scan(&interval.Employer, &interval.Title, &interval.Start, &interval.End); err != nil {
			return nil, fmt.Errorf("scan employment interval: %w", err)
		}
		profile.Employment = append(profile.Employment, interval)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate employment intervals: %w", err)
	}

	eduRows, err := s.pool.Query(ctx, `
		SELECT institution, degree, field, graduation_year
		FROM seeker_education WHERE seeker_id = $1 ORDER BY graduation_year`, seekerID)
	if err != nil {
		return nil, fmt.Errorf("query seeker education: %w", err)
	}
	defer eduRows.Close()
	for eduRows.Next() {
		var record store.EducationRecord
		if err := eduRows.Scan(&record.Institution, &record.Degree, &record.Field, &record.Year); err != nil {
			return nil, fmt.Errorf("scan education record: %w", err)
		}
		profile.Education = append(profile.Education, record)
	}
	if err := eduRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate education records: %w", err)
	}

	return profile, nil
}

// RecordSearch writes one analytics row. The filter set is stored as JSONB so
// the schema does not chase predicate changes.
func (s *Store) RecordSearch(ctx context.Context, seekerID, query string, pred store.Predicate, resultCount int) error {
	filters, err := json.Marshal(map[string]any{
		"location":         pred.Location,
		"region":           pred.Region,
		"salary":           pred.Salary,
		"employment_types": pred.EmploymentTypes,
		"categories":       pred.Categories,
		"experience":       pred.Experience,
	})
	if err != nil {
		return fmt.Errorf("marshal search filters: %w", err)
	}

	var seeker *string
	if seekerID != "" {
		seeker = &seekerID
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO search_log (seeker_id, query, filters, result_count, searched_at)
		VALUES ($1, $2, $3, $4, now())`, seeker, query, filters, resultCount)
	if err != nil {
		return fmt.Errorf("insert search log: %w", err)
	}
	return nil
}

func (s *Store) IncrementViews(ctx context.Context, jobID string) error {
	_, err := s.pool.Exec(ctx, `UPDATE job_postings SET views = views + 1 WHERE id = $1`, jobID)
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	return nil
}
