package server

import (
	"context"
	"fmt"
	"math"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/interview-tracker/internal/access"
	"github.com/jonathan/interview-tracker/internal/db"
	"github.com/jonathan/interview-tracker/internal/query"
)

// recentLimit caps the recent interviews and candidates on the admin dashboard.
const recentLimit = 10

// DashboardService assembles the candidate and admin dashboards.
type DashboardService struct {
	db DashboardStore
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(store DashboardStore) *DashboardService {
	return &DashboardService{db: store}
}

// CandidateStats is the caller's own dashboard.
type CandidateStats struct {
	TotalInterviews   int              `json:"total_interviews"`
	ByStatus          []db.StatusCount `json:"by_status"`
	Upcoming          int              `json:"upcoming"`
	Today             int              `json:"today"`
	RecentFeedback    int              `json:"recent_feedback"`
	ProfileCompletion int              `json:"profile_completion"`
}

// AdminStats are the system-wide totals of the admin dashboard.
type AdminStats struct {
	TotalUsers             int                   `json:"total_users"`
	TotalCandidates        int                   `json:"total_candidates"`
	TotalInterviews        int                   `json:"total_interviews"`
	InterviewsByStatus     []db.StatusCount      `json:"interviews_by_status"`
	CandidatesByExperience []db.ExperienceBucket `json:"candidates_by_experience"`
}

// AdminDashboard is the admin dashboard.
type AdminDashboard struct {
	Stats            AdminStats                  `json:"stats"`
	RecentInterviews []db.InterviewWithCandidate `json:"recent_interviews"`
	RecentCandidates []db.RecentCandidate        `json:"recent_candidates"`
}

// Candidate returns the caller's own dashboard. The counts run concurrently.
func (s *DashboardService) Candidate(ctx context.Context, caller access.Caller) (*CandidateStats, error) {
	interviews := query.Eq(db.InterviewOwner, caller.ID())
	feedback := query.Eq(db.FeedbackOwner, caller.ID())

	var (
		stats CandidateStats
		user  *db.User
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.TotalInterviews, err = s.db.CountInterviews(ctx, interviews)
		return err
	})
	g.Go(func() (err error) {
		stats.ByStatus, err = s.db.CountInterviewsByStatus(ctx, interviews)
		return err
	})
	g.Go(func() (err error) {
		stats.Upcoming, err = s.db.CountUpcomingInterviews(ctx, interviews)
		return err
	})
	g.Go(func() (err error) {
		stats.Today, err = s.db.CountInterviewsToday(ctx, interviews)
		return err
	})
	g.Go(func() (err error) {
		stats.RecentFeedback, err = s.db.CountRecentFeedback(ctx, feedback)
		return err
	})
	g.Go(func() (err error) {
		user, err = s.db.GetUserByID(ctx, caller.ID())
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to build dashboard: %w", err)
	}
	if user == nil {
		return nil, &ErrUserNotFound{UserID: caller.ID()}
	}

	stats.ProfileCompletion = profileCompletion(user)
	return &stats, nil
}

// Admin returns the system-wide dashboard.
func (s *DashboardService) Admin(ctx context.Context, caller access.Caller) (*AdminDashboard, error) {
	if err := access.RequireAdmin(caller); err != nil {
		return nil, err
	}

	var d AdminDashboard
	all := query.Absent()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		d.Stats.TotalUsers, err = s.db.CountUsers(ctx, "")
		return err
	})
	g.Go(func() (err error) {
		d.Stats.TotalCandidates, err = s.db.CountUsers(ctx, string(access.RoleCandidate))
		return err
	})
	g.Go(func() (err error) {
		d.Stats.TotalInterviews, err = s.db.CountInterviews(ctx, all)
		return err
	})
	g.Go(func() (err error) {
		d.Stats.InterviewsByStatus, err = s.db.CountInterviewsByStatus(ctx, all)
		return err
	})
	g.Go(func() (err error) {
		d.Stats.CandidatesByExperience, err = s.db.CandidatesByExperience(ctx)
		return err
	})
	g.Go(func() (err error) {
		d.RecentInterviews, err = s.db.RecentInterviews(ctx, recentLimit)
		return err
	})
	g.Go(func() (err error) {
		d.RecentCandidates, err = s.db.RecentCandidates(ctx, recentLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to build admin dashboard: %w", err)
	}
	return &d, nil
}

// profileCompletion is the rounded percentage of filled profile fields.
// Optional text fields count when non-blank, experience when above zero.
func profileCompletion(u *db.User) int {
	filled := func(s *string) bool { return s != nil && strings.TrimSpace(*s) != "" }

	checks := []bool{
		strings.TrimSpace(u.Name) != "",
		strings.TrimSpace(u.Email) != "",
		filled(u.Phone),
		filled(u.ResumeURL),
		filled(u.CurrentPosition),
		u.ExperienceYears != nil && *u.ExperienceYears > 0,
		filled(u.Skills),
	}
	done := 0
	for _, ok := range checks {
		if ok {
			done++
		}
	}
	return int(math.Round(float64(done) / float64(len(checks)) * 100))
}
