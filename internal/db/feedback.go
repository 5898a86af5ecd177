package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/interview-tracker/internal/query"
)

// GetFeedbackForInterview returns the feedback recorded for an interview.
// Returns nil, nil when there is none.
func (db *DB) GetFeedbackForInterview(ctx context.Context, interviewID uuid.UUID) (*Feedback, error) {
	stmt, err := query.Select{
		Base:    "SELECT " + feedbackColumns + " FROM interview_feedback",
		Filters: []query.Filter{query.Eq("interview_feedback.interview_id", interviewID)},
		OrderBy: "interview_feedback.received_at DESC",
		Limit:   1,
	}.Build()
	if err != nil {
		return nil, err
	}

	var f Feedback
	found, err := db.get(ctx, &f, stmt)
	if err != nil {
		return nil, fmt.Errorf("failed to get feedback: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &f, nil
}

// FeedbackExists reports whether a candidate already left feedback on an interview.
func (db *DB) FeedbackExists(ctx context.Context, interviewID, candidateID uuid.UUID) (bool, error) {
	var exists bool
	_, err := db.get(ctx, &exists, raw(
		`SELECT EXISTS (SELECT 1 FROM interview_feedback WHERE interview_id = $1 AND candidate_id = $2)`,
		interviewID, candidateID,
	))
	if err != nil {
		return false, fmt.Errorf("failed to check feedback: %w", err)
	}
	return exists, nil
}

// CreateFeedback inserts feedback and marks the interview completed in the
// same statement. A second submission for the same pair fails with ErrDuplicate
// and leaves the interview untouched.
func (db *DB) CreateFeedback(ctx context.Context, f *NewFeedback) (*Feedback, error) {
	var created Feedback
	_, err := db.get(ctx, &created, raw(
		`WITH inserted AS (
			INSERT INTO interview_feedback (
				interview_id, candidate_id, technical_skills, communication_skills,
				problem_solving, cultural_fit, overall_rating, feedback_text, recommendation
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING `+feedbackColumns+`
		), completed AS (
			UPDATE interviews SET status = 'completed', updated_at = NOW()
			WHERE id = (SELECT interview_id FROM inserted)
			RETURNING interviews.id
		)
		SELECT inserted.* FROM inserted`,
		f.InterviewID, f.CandidateID, f.TechnicalSkills, f.CommunicationSkills,
		f.ProblemSolving, f.CulturalFit, f.OverallRating, f.FeedbackText, f.Recommendation,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create feedback: %w", err)
	}
	return &created, nil
}
