package db

import (
	"time"

	"github.com/google/uuid"
)

// userColumns is the projection every user read selects, in User field order.
const userColumns = `id, email, password_hash, name, role, phone, resume_url, current_position,
	experience_years, skills, email_verified, email_verification_token_hash,
	email_verification_expires_at, password_reset_token_hash, password_reset_expires_at,
	created_at, updated_at`

// User represents an identity row.
type User struct {
	ID              uuid.UUID `db:"id" json:"id"`
	Email           string    `db:"email" json:"email"`
	PasswordHash    string    `db:"password_hash" json:"-"` // Never serialize to JSON
	Name            string    `db:"name" json:"name"`
	Role            string    `db:"role" json:"role"`
	Phone           *string   `db:"phone" json:"phone"`
	ResumeURL       *string   `db:"resume_url" json:"resume_url"`
	CurrentPosition *string   `db:"current_position" json:"current_position"`
	ExperienceYears *int      `db:"experience_years" json:"experience_years"`
	Skills          *string   `db:"skills" json:"skills"`
	EmailVerified   bool      `db:"email_verified" json:"email_verified"`

	VerificationTokenHash *string    `db:"email_verification_token_hash" json:"-"`
	VerificationExpiresAt *time.Time `db:"email_verification_expires_at" json:"-"`
	ResetTokenHash        *string    `db:"password_reset_token_hash" json:"-"`
	ResetExpiresAt        *time.Time `db:"password_reset_expires_at" json:"-"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// NewUser is the input of CreateUser. The role is decided by the store.
type NewUser struct {
	Email                 string
	PasswordHash          string
	Name                  string
	Phone                 *string
	ResumeURL             *string
	CurrentPosition       *string
	ExperienceYears       *int
	Skills                *string
	VerificationTokenHash string
	VerificationExpiresAt time.Time
}

// CandidateSummary is a user row with the number of interviews it owns.
type CandidateSummary struct {
	User
	InterviewCount int `db:"interview_count" json:"interview_count"`
}

// RecentCandidate is the short profile shown on the admin dashboard.
type RecentCandidate struct {
	ID              uuid.UUID `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	Email           string    `db:"email" json:"email"`
	CurrentPosition *string   `db:"current_position" json:"current_position"`
	ExperienceYears *int      `db:"experience_years" json:"experience_years"`
	Skills          *string   `db:"skills" json:"skills"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}
