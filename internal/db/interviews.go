package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/interview-tracker/internal/query"
	"github.com/jonathan/interview-tracker/internal/types"
)

var interviewSelect = `SELECT ` + interviewColumns + `,
		u.name AS candidate_name, u.email AS candidate_email, u.current_position AS candidate_position
	FROM interviews
	JOIN users u ON u.id = interviews.candidate_id`

const interviewOrder = "interviews.scheduled_date DESC NULLS LAST, interviews.created_at DESC"

// CreateInterview inserts an interview.
func (db *DB) CreateInterview(ctx context.Context, in *NewInterview) (*Interview, error) {
	var created Interview
	_, err := db.get(ctx, &created, raw(
		`INSERT INTO interviews (
			candidate_id, company_name, job_title, scheduled_date, duration, status, round,
			interview_type, location, notes, company_website, company_linkedin_url, other_urls,
			job_description, salary_range, interviewer_name, interviewer_email,
			interviewer_position, interviewer_linkedin_url
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING `+interviewColumns,
		in.CandidateID, in.CompanyName, in.JobTitle, in.ScheduledDate, in.Duration, in.Status, in.Round,
		in.InterviewType, in.Location, in.Notes, in.CompanyWebsite, in.CompanyLinkedInURL, in.OtherURLs,
		in.JobDescription, in.SalaryRange, in.InterviewerName, in.InterviewerEmail,
		in.InterviewerPosition, in.InterviewerLinkedInURL,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create interview: %w", err)
	}
	return &created, nil
}

// GetInterview retrieves one interview within scope. Returns nil, nil when the
// interview does not exist or lies outside the scope.
func (db *DB) GetInterview(ctx context.Context, scope query.Filter, id uuid.UUID) (*InterviewWithCandidate, error) {
	stmt, err := query.Select{
		Base:    interviewSelect,
		Scope:   scope,
		Filters: []query.Filter{query.Eq("interviews.id", id)},
	}.Build()
	if err != nil {
		return nil, err
	}

	var iv InterviewWithCandidate
	found, err := db.get(ctx, &iv, stmt)
	if err != nil {
		return nil, fmt.Errorf("failed to get interview: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &iv, nil
}

// ListInterviews returns the interviews within scope matching params.
func (db *DB) ListInterviews(ctx context.Context, scope query.Filter, params types.InterviewListParams) ([]InterviewWithCandidate, error) {
	stmt, err := query.Select{
		Base:  interviewSelect,
		Scope: scope,
		Filters: []query.Filter{
			query.OptionalEq("interviews.status", params.Status),
			query.Search(params.CompanyName, "interviews.company_name"),
			query.Search(params.JobTitle, "interviews.job_title"),
			query.Search(params.Search, "u.name", "interviews.company_name", "interviews.job_title"),
		},
		OrderBy: interviewOrder,
	}.Build()
	if err != nil {
		return nil, err
	}

	interviews := []InterviewWithCandidate{}
	if err := db.selectAll(ctx, &interviews, stmt); err != nil {
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}
	return interviews, nil
}

// UpdateInterview applies a change-set to an interview within scope.
// Returns nil, nil when no row matched.
func (db *DB) UpdateInterview(ctx context.Context, scope query.Filter, id uuid.UUID, changes query.ChangeSet) (*Interview, error) {
	stmt, err := query.Update{
		Table:     "interviews",
		Changes:   changes,
		Touch:     "updated_at",
		Where:     []query.Filter{query.Eq("interviews.id", id), scope},
		Returning: interviewColumns,
	}.Build()
	if err != nil {
		return nil, err
	}

	var iv Interview
	found, err := db.get(ctx, &iv, stmt)
	if err != nil {
		return nil, fmt.Errorf("failed to update interview: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &iv, nil
}

// DeleteInterview removes an interview within scope; its feedback goes with
// it through the foreign key. It reports false when no row matched.
func (db *DB) DeleteInterview(ctx context.Context, scope query.Filter, id uuid.UUID) (bool, error) {
	stmt, err := query.Delete{
		Table: "interviews",
		Where: []query.Filter{query.Eq("interviews.id", id), scope},
	}.Build()
	if err != nil {
		return false, err
	}
	n, err := db.exec(ctx, stmt)
	if err != nil {
		return false, fmt.Errorf("failed to delete interview: %w", err)
	}
	return n > 0, nil
}
