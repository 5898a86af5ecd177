package server

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/interview-tracker/internal/db"
	"github.com/jonathan/interview-tracker/internal/query"
	"github.com/jonathan/interview-tracker/internal/types"
)

// UserStore is the identity persistence used by the account flows.
type UserStore interface {
	CreateUser(ctx context.Context, u *db.NewUser) (*db.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*db.User, error)
	GetUserByEmail(ctx context.Context, email string) (*db.User, error)
	EmailTakenByOther(ctx context.Context, email string, id uuid.UUID) (bool, error)
	UpdateUser(ctx context.Context, id uuid.UUID, changes query.ChangeSet) (*db.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	SetVerificationToken(ctx context.Context, id uuid.UUID, tokenHash string, expiresAt time.Time) error
	ConsumeVerificationToken(ctx context.Context, tokenHash string) (*db.User, error)
	SetResetToken(ctx context.Context, id uuid.UUID, tokenHash string, expiresAt time.Time) error
	ConsumeResetToken(ctx context.Context, tokenHash, passwordHash string) (*db.User, error)
}

// AdminStore is the persistence behind user administration.
type AdminStore interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*db.User, error)
	ListUsers(ctx context.Context, params types.UserListParams) ([]db.User, error)
	ListCandidates(ctx context.Context, params types.UserListParams) ([]db.CandidateSummary, error)
	UpdateUser(ctx context.Context, id uuid.UUID, changes query.ChangeSet) (*db.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) (bool, error)
	CountInterviewsForUser(ctx context.Context, id uuid.UUID) (int, error)
	ListInterviews(ctx context.Context, scope query.Filter, params types.InterviewListParams) ([]db.InterviewWithCandidate, error)
}

// InterviewStore is the persistence of interviews and their feedback.
type InterviewStore interface {
	CreateInterview(ctx context.Context, in *db.NewInterview) (*db.Interview, error)
	GetInterview(ctx context.Context, scope query.Filter, id uuid.UUID) (*db.InterviewWithCandidate, error)
	ListInterviews(ctx context.Context, scope query.Filter, params types.InterviewListParams) ([]db.InterviewWithCandidate, error)
	UpdateInterview(ctx context.Context, scope query.Filter, id uuid.UUID, changes query.ChangeSet) (*db.Interview, error)
	DeleteInterview(ctx context.Context, scope query.Filter, id uuid.UUID) (bool, error)
	GetFeedbackForInterview(ctx context.Context, interviewID uuid.UUID) (*db.Feedback, error)
	FeedbackExists(ctx context.Context, interviewID, candidateID uuid.UUID) (bool, error)
	CreateFeedback(ctx context.Context, f *db.NewFeedback) (*db.Feedback, error)
}

// DashboardStore is the aggregate reads behind both dashboards.
type DashboardStore interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*db.User, error)
	CountInterviews(ctx context.Context, scope query.Filter) (int, error)
	CountInterviewsByStatus(ctx context.Context, scope query.Filter) ([]db.StatusCount, error)
	CountUpcomingInterviews(ctx context.Context, scope query.Filter) (int, error)
	CountInterviewsToday(ctx context.Context, scope query.Filter) (int, error)
	CountRecentFeedback(ctx context.Context, scope query.Filter) (int, error)
	CountUsers(ctx context.Context, role string) (int, error)
	CandidatesByExperience(ctx context.Context) ([]db.ExperienceBucket, error)
	RecentInterviews(ctx context.Context, limit int) ([]db.InterviewWithCandidate, error)
	RecentCandidates(ctx context.Context, limit int) ([]db.RecentCandidate, error)
}

// Store is everything the HTTP API needs from persistence.
type Store interface {
	UserStore
	AdminStore
	InterviewStore
	DashboardStore
	Ping(ctx context.Context) error
}

var _ Store = (*db.DB)(nil)
