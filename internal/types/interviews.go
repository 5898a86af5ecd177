package types

import (
	"fmt"
	"slices"
	"strings"
)

// Interview statuses.
const (
	StatusScheduled   = "scheduled"
	StatusUncertain   = "uncertain"
	StatusCompleted   = "completed"
	StatusCancelled   = "cancelled"
	StatusRescheduled = "rescheduled"
)

// Interview types.
const (
	TypeHR        = "hr"
	TypeTechnical = "technical"
	TypeFinal     = "final"
)

// Duration bounds in minutes.
const (
	MinDuration = 15
	MaxDuration = 480
)

// Round bounds.
const (
	MinRound = 1
	MaxRound = 10
)

// Statuses lists every interview status in display order.
var Statuses = []string{StatusScheduled, StatusUncertain, StatusCompleted, StatusCancelled, StatusRescheduled}

var interviewTypes = []string{TypeHR, TypeTechnical, TypeFinal}

// CheckDuration enforces the duration/status coupling: a duration is
// required unless the status is uncertain, and any supplied duration must
// be within bounds.
func CheckDuration(status string, duration *int) error {
	if duration == nil {
		if status == StatusUncertain {
			return nil
		}
		return fieldError("duration", "is required unless status is uncertain")
	}
	if *duration < MinDuration || *duration > MaxDuration {
		return fieldError("duration", fmt.Sprintf("must be between %d and %d minutes", MinDuration, MaxDuration))
	}
	return nil
}

// InterviewDetails are the free-text fields shared by create and read.
type InterviewDetails struct {
	Location               *string `json:"location"`
	Notes                  *string `json:"notes"`
	CompanyWebsite         *string `json:"company_website"`
	CompanyLinkedInURL     *string `json:"company_linkedin_url"`
	OtherURLs              *string `json:"other_urls"`
	JobDescription         *string `json:"job_description"`
	SalaryRange            *string `json:"salary_range"`
	InterviewerName        *string `json:"interviewer_name"`
	InterviewerEmail       *string `json:"interviewer_email"`
	InterviewerPosition    *string `json:"interviewer_position"`
	InterviewerLinkedInURL *string `json:"interviewer_linkedin_url"`
}

func (d *InterviewDetails) trim() {
	for _, p := range []*string{
		d.Location, d.Notes, d.CompanyWebsite, d.CompanyLinkedInURL, d.OtherURLs,
		d.JobDescription, d.SalaryRange, d.InterviewerName, d.InterviewerEmail,
		d.InterviewerPosition, d.InterviewerLinkedInURL,
	} {
		trimPtr(p)
	}
}

// CreateInterviewRequest is the body of POST /api/interviews. Rescheduled is
// only reachable through an update.
type CreateInterviewRequest struct {
	CompanyName   string    `json:"company_name" validate:"required,max=200"`
	JobTitle      string    `json:"job_title" validate:"required,max=200"`
	ScheduledDate *DateTime `json:"scheduled_date"`
	Duration      *int      `json:"duration"`
	Round         *int      `json:"round" validate:"required,min=1,max=10"`
	Status        string    `json:"status" validate:"omitempty,oneof=scheduled uncertain completed cancelled"`
	InterviewType string    `json:"interview_type" validate:"omitempty,oneof=hr technical final"`
	InterviewDetails
}

// Validate trims input, applies defaults and checks every create rule.
func (r *CreateInterviewRequest) Validate() error {
	r.CompanyName = strings.TrimSpace(r.CompanyName)
	r.JobTitle = strings.TrimSpace(r.JobTitle)
	r.InterviewDetails.trim()

	if err := checkStruct(r); err != nil {
		return err
	}
	if r.Status == "" {
		r.Status = StatusScheduled
	}
	if r.InterviewType == "" {
		r.InterviewType = TypeTechnical
	}
	return CheckDuration(r.Status, r.Duration)
}

// UpdateInterviewRequest is the change-set of PUT /api/interviews/{id}.
type UpdateInterviewRequest struct {
	CompanyName            Patch[string]   `json:"company_name"`
	JobTitle               Patch[string]   `json:"job_title"`
	ScheduledDate          Patch[DateTime] `json:"scheduled_date"`
	Duration               Patch[int]      `json:"duration"`
	Status                 Patch[string]   `json:"status"`
	Round                  Patch[int]      `json:"round"`
	InterviewType          Patch[string]   `json:"interview_type"`
	Location               Patch[string]   `json:"location"`
	Notes                  Patch[string]   `json:"notes"`
	CompanyWebsite         Patch[string]   `json:"company_website"`
	CompanyLinkedInURL     Patch[string]   `json:"company_linkedin_url"`
	OtherURLs              Patch[string]   `json:"other_urls"`
	JobDescription         Patch[string]   `json:"job_description"`
	SalaryRange            Patch[string]   `json:"salary_range"`
	InterviewerName        Patch[string]   `json:"interviewer_name"`
	InterviewerEmail       Patch[string]   `json:"interviewer_email"`
	InterviewerPosition    Patch[string]   `json:"interviewer_position"`
	InterviewerLinkedInURL Patch[string]   `json:"interviewer_linkedin_url"`
}

// TextPatch pairs a free-text column with its patch.
type TextPatch struct {
	Column string
	Patch  *Patch[string]
}

// TextFields maps column names to the free-text patches.
func (r *UpdateInterviewRequest) TextFields() []TextPatch {
	return []TextPatch{
		{"location", &r.Location},
		{"notes", &r.Notes},
		{"company_website", &r.CompanyWebsite},
		{"company_linkedin_url", &r.CompanyLinkedInURL},
		{"other_urls", &r.OtherURLs},
		{"job_description", &r.JobDescription},
		{"salary_range", &r.SalaryRange},
		{"interviewer_name", &r.InterviewerName},
		{"interviewer_email", &r.InterviewerEmail},
		{"interviewer_position", &r.InterviewerPosition},
		{"interviewer_linkedin_url", &r.InterviewerLinkedInURL},
	}
}

// Validate checks each supplied field on its own. The duration rule needs the
// stored row and is evaluated by the interview service.
func (r *UpdateInterviewRequest) Validate() error {
	for _, f := range []struct {
		name string
		p    *Patch[string]
	}{{"company_name", &r.CompanyName}, {"job_title", &r.JobTitle}} {
		if !f.p.Present {
			continue
		}
		f.p.Value = strings.TrimSpace(f.p.Value)
		if !f.p.Valid || f.p.Value == "" {
			return fieldError(f.name, "cannot be empty")
		}
	}
	if r.Status.Present && (!r.Status.Valid || !slices.Contains(Statuses, r.Status.Value)) {
		return fieldError("status", "must be one of: "+strings.Join(Statuses, ", "))
	}
	if r.InterviewType.Present && (!r.InterviewType.Valid || !slices.Contains(interviewTypes, r.InterviewType.Value)) {
		return fieldError("interview_type", "must be one of: "+strings.Join(interviewTypes, ", "))
	}
	if r.Round.Present && (!r.Round.Valid || r.Round.Value < MinRound || r.Round.Value > MaxRound) {
		return fieldError("round", fmt.Sprintf("must be between %d and %d", MinRound, MaxRound))
	}
	if r.Duration.Valid && (r.Duration.Value < MinDuration || r.Duration.Value > MaxDuration) {
		return fieldError("duration", fmt.Sprintf("must be between %d and %d minutes", MinDuration, MaxDuration))
	}
	for _, f := range r.TextFields() {
		if f.Patch.Valid {
			f.Patch.Value = strings.TrimSpace(f.Patch.Value)
		}
	}
	return nil
}

// InterviewListParams are the optional filters of an interview listing.
type InterviewListParams struct {
	Status      string
	CompanyName string
	JobTitle    string
	// Search matches candidate name, company name or job title.
	Search string
}

// Validate rejects unknown statuses.
func (p InterviewListParams) Validate() error {
	if p.Status != "" && !slices.Contains(Statuses, p.Status) {
		return fieldError("status", "must be one of: "+strings.Join(Statuses, ", "))
	}
	return nil
}

// CreateFeedbackRequest is the body of POST /api/interviews/{id}/feedback.
type CreateFeedbackRequest struct {
	TechnicalSkills     int    `json:"technical_skills" validate:"required,min=1,max=5"`
	CommunicationSkills int    `json:"communication_skills" validate:"required,min=1,max=5"`
	ProblemSolving      int    `json:"problem_solving" validate:"required,min=1,max=5"`
	CulturalFit         int    `json:"cultural_fit" validate:"required,min=1,max=5"`
	OverallRating       int    `json:"overall_rating" validate:"required,min=1,max=5"`
	FeedbackText        string `json:"feedback_text" validate:"required,min=10"`
	Recommendation      string `json:"recommendation" validate:"required,oneof=hire reject maybe"`
}

// Validate validates the CreateFeedbackRequest using the validator.
func (r *CreateFeedbackRequest) Validate() error {
	r.FeedbackText = strings.TrimSpace(r.FeedbackText)
	return checkStruct(r)
}
