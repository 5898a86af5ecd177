package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jonathan/interview-tracker/internal/access"
	"github.com/jonathan/interview-tracker/internal/db"
	"github.com/jonathan/interview-tracker/internal/query"
	"github.com/jonathan/interview-tracker/internal/types"
)

var errFeedbackExists = &ErrConflict{Message: "feedback already submitted for this interview"}

// errAccountGone is returned when a valid token names an identity that has
// since been deleted.
var errAccountGone = &ErrUnauthenticated{Message: "account no longer exists"}

// InterviewService provides interview and feedback operations under the
// caller's ownership scope. Rows outside the scope are reported as not found.
type InterviewService struct {
	db InterviewStore
}

// NewInterviewService creates a new InterviewService.
func NewInterviewService(store InterviewStore) *InterviewService {
	return &InterviewService{db: store}
}

// List returns the interviews visible to caller matching params.
func (s *InterviewService) List(ctx context.Context, caller access.Caller, params types.InterviewListParams) ([]db.InterviewWithCandidate, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	rows, err := s.db.ListInterviews(ctx, access.OwnerScope(caller, db.InterviewOwner), params)
	if err != nil {
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}
	if rows == nil {
		rows = []db.InterviewWithCandidate{}
	}
	return rows, nil
}

// ListOwn returns the caller's own interviews, also for admins.
func (s *InterviewService) ListOwn(ctx context.Context, caller access.Caller, params types.InterviewListParams) ([]db.InterviewWithCandidate, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	rows, err := s.db.ListInterviews(ctx, query.Eq(db.InterviewOwner, caller.ID()), params)
	if err != nil {
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}
	if rows == nil {
		rows = []db.InterviewWithCandidate{}
	}
	return rows, nil
}

// ListAll is the admin listing across every candidate.
func (s *InterviewService) ListAll(ctx context.Context, caller access.Caller, params types.InterviewListParams) ([]db.InterviewWithCandidate, error) {
	if err := access.RequireAdmin(caller); err != nil {
		return nil, err
	}
	return s.List(ctx, caller, params)
}

// Get returns one visible interview with its feedback attached.
func (s *InterviewService) Get(ctx context.Context, caller access.Caller, id uuid.UUID) (*db.InterviewWithCandidate, error) {
	iv, err := s.db.GetInterview(ctx, access.OwnerScope(caller, db.InterviewOwner), id)
	if err != nil {
		return nil, fmt.Errorf("failed to get interview: %w", err)
	}
	if iv == nil {
		return nil, &ErrNotFound{Resource: "interview"}
	}

	fb, err := s.db.GetFeedbackForInterview(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get feedback: %w", err)
	}
	iv.Feedback = fb
	return iv, nil
}

// Create stores a new interview owned by caller.
func (s *InterviewService) Create(ctx context.Context, caller access.Caller, req *types.CreateInterviewRequest) (*db.Interview, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var scheduled *time.Time
	if req.ScheduledDate != nil {
		t := req.ScheduledDate.Time
		scheduled = &t
	}

	created, err := s.db.CreateInterview(ctx, &db.NewInterview{
		CandidateID:            caller.ID(),
		CompanyName:            req.CompanyName,
		JobTitle:               req.JobTitle,
		ScheduledDate:          scheduled,
		Duration:               req.Duration,
		Status:                 req.Status,
		Round:                  *req.Round,
		InterviewType:          req.InterviewType,
		Location:               req.Location,
		Notes:                  req.Notes,
		CompanyWebsite:         req.CompanyWebsite,
		CompanyLinkedInURL:     req.CompanyLinkedInURL,
		OtherURLs:              req.OtherURLs,
		JobDescription:         req.JobDescription,
		SalaryRange:            req.SalaryRange,
		InterviewerName:        req.InterviewerName,
		InterviewerEmail:       req.InterviewerEmail,
		InterviewerPosition:    req.InterviewerPosition,
		InterviewerLinkedInURL: req.InterviewerLinkedInURL,
	})
	if errors.Is(err, db.ErrReferenced) {
		return nil, errAccountGone
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create interview: %w", err)
	}

	log.Info().Str("interview_id", created.ID.String()).Str("user_id", caller.ID().String()).Msg("interview created")
	return created, nil
}

// Update applies a partial update to a visible interview. The duration rule
// is checked against the stored row merged with the submitted fields.
func (s *InterviewService) Update(ctx context.Context, caller access.Caller, id uuid.UUID, req *types.UpdateInterviewRequest) (*db.Interview, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	scope := access.OwnerScope(caller, db.InterviewOwner)
	if req.Status.Present || req.Duration.Present {
		stored, err := s.db.GetInterview(ctx, scope, id)
		if err != nil {
			return nil, fmt.Errorf("failed to get interview: %w", err)
		}
		if stored == nil {
			return nil, &ErrNotFound{Resource: "interview"}
		}
		status := stored.Status
		if req.Status.Valid {
			status = req.Status.Value
		}
		if err := types.CheckDuration(status, req.Duration.Or(stored.Duration)); err != nil {
			return nil, err
		}
	}

	var changes query.ChangeSet
	changes.SetOptional("company_name", req.CompanyName)
	changes.SetOptional("job_title", req.JobTitle)
	changes.SetOptional("scheduled_date", req.ScheduledDate)
	changes.SetOptional("duration", req.Duration)
	changes.SetOptional("status", req.Status)
	changes.SetOptional("round", req.Round)
	changes.SetOptional("interview_type", req.InterviewType)
	for _, f := range req.TextFields() {
		changes.SetOptional(f.Column, f.Patch)
	}
	if changes.Len() == 0 {
		return nil, query.ErrEmptyChangeSet
	}

	updated, err := s.db.UpdateInterview(ctx, scope, id, changes)
	if err != nil {
		return nil, fmt.Errorf("failed to update interview: %w", err)
	}
	if updated == nil {
		return nil, &ErrNotFound{Resource: "interview"}
	}
	return updated, nil
}

// Delete removes a visible interview together with its feedback.
func (s *InterviewService) Delete(ctx context.Context, caller access.Caller, id uuid.UUID) error {
	deleted, err := s.db.DeleteInterview(ctx, access.OwnerScope(caller, db.InterviewOwner), id)
	if err != nil {
		return fmt.Errorf("failed to delete interview: %w", err)
	}
	if !deleted {
		return &ErrNotFound{Resource: "interview"}
	}
	log.Info().Str("interview_id", id.String()).Str("user_id", caller.ID().String()).Msg("interview deleted")
	return nil
}

// CreateFeedback records the caller's feedback for one of their own
// interviews and marks the interview completed.
func (s *InterviewService) CreateFeedback(ctx context.Context, caller access.Caller, interviewID uuid.UUID, req *types.CreateFeedbackRequest) (*db.Feedback, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Feedback belongs to the interview's candidate, so admins are scoped too.
	iv, err := s.db.GetInterview(ctx, query.Eq(db.InterviewOwner, caller.ID()), interviewID)
	if err != nil {
		return nil, fmt.Errorf("failed to get interview: %w", err)
	}
	if iv == nil {
		return nil, &ErrNotFound{Resource: "interview"}
	}

	exists, err := s.db.FeedbackExists(ctx, interviewID, caller.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to check feedback: %w", err)
	}
	if exists {
		return nil, errFeedbackExists
	}

	fb, err := s.db.CreateFeedback(ctx, &db.NewFeedback{
		InterviewID:         interviewID,
		CandidateID:         caller.ID(),
		TechnicalSkills:     req.TechnicalSkills,
		CommunicationSkills: req.CommunicationSkills,
		ProblemSolving:      req.ProblemSolving,
		CulturalFit:         req.CulturalFit,
		OverallRating:       req.OverallRating,
		FeedbackText:        req.FeedbackText,
		Recommendation:      req.Recommendation,
	})
	if errors.Is(err, db.ErrDuplicate) {
		return nil, errFeedbackExists
	}
	if errors.Is(err, db.ErrReferenced) {
		return nil, errAccountGone
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create feedback: %w", err)
	}

	log.Info().Str("interview_id", interviewID.String()).Str("user_id", caller.ID().String()).Msg("feedback submitted")
	return fb, nil
}
