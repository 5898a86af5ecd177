package db

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Owner columns for ownership scopes. They are table-qualified so the same
// filter works in joined reads and in single-table writes.
const (
	InterviewOwner = "interviews.candidate_id"
	FeedbackOwner  = "interview_feedback.candidate_id"
)

var interviewFields = []string{
	"id", "candidate_id", "company_name", "job_title", "scheduled_date", "duration",
	"status", "round", "interview_type", "location", "notes", "company_website",
	"company_linkedin_url", "other_urls", "job_description", "salary_range",
	"interviewer_name", "interviewer_email", "interviewer_position",
	"interviewer_linkedin_url", "created_at", "updated_at",
}

var feedbackFields = []string{
	"id", "interview_id", "candidate_id", "technical_skills", "communication_skills",
	"problem_solving", "cultural_fit", "overall_rating", "feedback_text",
	"recommendation", "received_at",
}

// interviewColumns is the projection of an interview row.
var interviewColumns = qualify("interviews", interviewFields)

var feedbackColumns = qualify("interview_feedback", feedbackFields)

func qualify(table string, fields []string) string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = table + "." + f
	}
	return strings.Join(out, ", ")
}

// Interview represents an interview row.
type Interview struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	CandidateID   uuid.UUID  `db:"candidate_id" json:"candidate_id"`
	CompanyName   string     `db:"company_name" json:"company_name"`
	JobTitle      string     `db:"job_title" json:"job_title"`
	ScheduledDate *time.Time `db:"scheduled_date" json:"scheduled_date"`
	Duration      *int       `db:"duration" json:"duration"`
	Status        string     `db:"status" json:"status"`
	Round         int        `db:"round" json:"round"`
	InterviewType string     `db:"interview_type" json:"interview_type"`

	Location               *string `db:"location" json:"location"`
	Notes                  *string `db:"notes" json:"notes"`
	CompanyWebsite         *string `db:"company_website" json:"company_website"`
	CompanyLinkedInURL     *string `db:"company_linkedin_url" json:"company_linkedin_url"`
	OtherURLs              *string `db:"other_urls" json:"other_urls"`
	JobDescription         *string `db:"job_description" json:"job_description"`
	SalaryRange            *string `db:"salary_range" json:"salary_range"`
	InterviewerName        *string `db:"interviewer_name" json:"interviewer_name"`
	InterviewerEmail       *string `db:"interviewer_email" json:"interviewer_email"`
	InterviewerPosition    *string `db:"interviewer_position" json:"interviewer_position"`
	InterviewerLinkedInURL *string `db:"interviewer_linkedin_url" json:"interviewer_linkedin_url"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// InterviewWithCandidate is an interview joined with its owner's contact fields.
type InterviewWithCandidate struct {
	Interview
	CandidateName     string    `db:"candidate_name" json:"candidate_name"`
	CandidateEmail    string    `db:"candidate_email" json:"candidate_email"`
	CandidatePosition *string   `db:"candidate_position" json:"candidate_position,omitempty"`
	Feedback          *Feedback `db:"-" json:"feedback,omitempty"`
}

// NewInterview is the input of CreateInterview.
type NewInterview struct {
	CandidateID   uuid.UUID
	CompanyName   string
	JobTitle      string
	ScheduledDate *time.Time
	Duration      *int
	Status        string
	Round         int
	InterviewType string

	Location               *string
	Notes                  *string
	CompanyWebsite         *string
	CompanyLinkedInURL     *string
	OtherURLs              *string
	JobDescription         *string
	SalaryRange            *string
	InterviewerName        *string
	InterviewerEmail       *string
	InterviewerPosition    *string
	InterviewerLinkedInURL *string
}

// Feedback represents an interview_feedback row.
type Feedback struct {
	ID                  uuid.UUID `db:"id" json:"id"`
	InterviewID         uuid.UUID `db:"interview_id" json:"interview_id"`
	CandidateID         uuid.UUID `db:"candidate_id" json:"candidate_id"`
	TechnicalSkills     int       `db:"technical_skills" json:"technical_skills"`
	CommunicationSkills int       `db:"communication_skills" json:"communication_skills"`
	ProblemSolving      int       `db:"problem_solving" json:"problem_solving"`
	CulturalFit         int       `db:"cultural_fit" json:"cultural_fit"`
	OverallRating       int       `db:"overall_rating" json:"overall_rating"`
	FeedbackText        string    `db:"feedback_text" json:"feedback_text"`
	Recommendation      string    `db:"recommendation" json:"recommendation"`
	ReceivedAt          time.Time `db:"received_at" json:"received_at"`
}

// NewFeedback is the input of CreateFeedback.
type NewFeedback struct {
	InterviewID         uuid.UUID
	CandidateID         uuid.UUID
	TechnicalSkills     int
	CommunicationSkills int
	ProblemSolving      int
	CulturalFit         int
	OverallRating       int
	FeedbackText        string
	Recommendation      string
}

// StatusCount is one bucket of an interviews-by-status aggregate.
type StatusCount struct {
	Status string `db:"status" json:"status"`
	Count  int    `db:"count" json:"count"`
}

// ExperienceBucket is one bucket of the candidates-by-experience aggregate.
type ExperienceBucket struct {
	Level string `db:"level" json:"level"`
	Count int    `db:"count" json:"count"`
}
