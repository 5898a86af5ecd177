package db

import (
	"context"
	"fmt"

	"github.com/jonathan/interview-tracker/internal/query"
)

// Time windows of the dashboard aggregates. They are code-authored and bind nothing.
const (
	upcomingWindow  = "interviews.scheduled_date BETWEEN NOW() AND NOW() + INTERVAL '7 days'"
	todayWindow     = "interviews.scheduled_date::date = CURRENT_DATE"
	feedbackWindow  = "interview_feedback.received_at >= NOW() - INTERVAL '7 days'"
	createdLastWeek = "created_at >= NOW() - INTERVAL '7 days'"
)

const scheduledOnly = "interviews.status = 'scheduled'"

// CountInterviews counts the interviews within scope.
func (db *DB) CountInterviews(ctx context.Context, scope query.Filter) (int, error) {
	return db.count(ctx, query.Select{Base: "SELECT COUNT(*) FROM interviews", Scope: scope})
}

// CountInterviewsByStatus groups the interviews within scope by status.
func (db *DB) CountInterviewsByStatus(ctx context.Context, scope query.Filter) ([]StatusCount, error) {
	stmt, err := query.Select{
		Base:    "SELECT interviews.status AS status, COUNT(*) AS count FROM interviews",
		Scope:   scope,
		GroupBy: "interviews.status",
		OrderBy: "interviews.status",
	}.Build()
	if err != nil {
		return nil, err
	}

	counts := []StatusCount{}
	if err := db.selectAll(ctx, &counts, stmt); err != nil {
		return nil, fmt.Errorf("failed to count interviews by status: %w", err)
	}
	return counts, nil
}

// CountUpcomingInterviews counts scheduled interviews within scope in the next seven days.
func (db *DB) CountUpcomingInterviews(ctx context.Context, scope query.Filter) (int, error) {
	return db.count(ctx, query.Select{
		Base:   "SELECT COUNT(*) FROM interviews",
		Scope:  scope,
		Static: []string{upcomingWindow, scheduledOnly},
	})
}

// CountInterviewsToday counts scheduled interviews within scope on the current date.
func (db *DB) CountInterviewsToday(ctx context.Context, scope query.Filter) (int, error) {
	return db.count(ctx, query.Select{
		Base:   "SELECT COUNT(*) FROM interviews",
		Scope:  scope,
		Static: []string{todayWindow, scheduledOnly},
	})
}

// CountRecentFeedback counts feedback within scope received in the last seven days.
func (db *DB) CountRecentFeedback(ctx context.Context, scope query.Filter) (int, error) {
	return db.count(ctx, query.Select{
		Base:   "SELECT COUNT(*) FROM interview_feedback",
		Scope:  scope,
		Static: []string{feedbackWindow},
	})
}

// CountUsers counts identities, optionally restricted to one role.
func (db *DB) CountUsers(ctx context.Context, role string) (int, error) {
	return db.count(ctx, query.Select{
		Base:    "SELECT COUNT(*) FROM users",
		Filters: []query.Filter{query.OptionalEq("role", role)},
	})
}

// CandidatesByExperience buckets candidates with a known experience into levels.
func (db *DB) CandidatesByExperience(ctx context.Context) ([]ExperienceBucket, error) {
	stmt, err := query.Select{
		Base: `SELECT level, COUNT(*) AS count FROM (
				SELECT CASE
					WHEN experience_years < 1 THEN 'Entry Level'
					WHEN experience_years < 3 THEN 'Junior'
					WHEN experience_years < 5 THEN 'Mid Level'
					ELSE 'Senior'
				END AS level
				FROM users
				WHERE role = 'candidate' AND experience_years IS NOT NULL
			) levels`,
		GroupBy: "level",
		OrderBy: "level",
	}.Build()
	if err != nil {
		return nil, err
	}

	buckets := []ExperienceBucket{}
	if err := db.selectAll(ctx, &buckets, stmt); err != nil {
		return nil, fmt.Errorf("failed to bucket candidates: %w", err)
	}
	return buckets, nil
}

// RecentInterviews returns interviews created in the last seven days, newest first.
func (db *DB) RecentInterviews(ctx context.Context, limit int) ([]InterviewWithCandidate, error) {
	stmt, err := query.Select{
		Base:    interviewSelect,
		Static:  []string{"interviews." + createdLastWeek},
		OrderBy: "interviews.created_at DESC",
		Limit:   limit,
	}.Build()
	if err != nil {
		return nil, err
	}

	interviews := []InterviewWithCandidate{}
	if err := db.selectAll(ctx, &interviews, stmt); err != nil {
		return nil, fmt.Errorf("failed to list recent interviews: %w", err)
	}
	return interviews, nil
}

// RecentCandidates returns candidates registered in the last seven days, newest first.
func (db *DB) RecentCandidates(ctx context.Context, limit int) ([]RecentCandidate, error) {
	stmt, err := query.Select{
		Base: `SELECT id, name, email, current_position, experience_years, skills, created_at
			FROM users`,
		Filters: []query.Filter{query.Eq("role", "candidate")},
		Static:  []string{createdLastWeek},
		OrderBy: "created_at DESC",
		Limit:   limit,
	}.Build()
	if err != nil {
		return nil, err
	}

	candidates := []RecentCandidate{}
	if err := db.selectAll(ctx, &candidates, stmt); err != nil {
		return nil, fmt.Errorf("failed to list recent candidates: %w", err)
	}
	return candidates, nil
}
