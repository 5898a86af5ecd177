// Package types holds the request and response shapes of the HTTP API.
package types

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// RegisterRequest represents the request to create a new identity with password authentication.
type RegisterRequest struct {
	Name            string  `json:"name" validate:"required,min=1,max=200"`
	Email           string  `json:"email" validate:"required,email"`
	Password        string  `json:"password" validate:"required"`
	Phone           *string `json:"phone,omitempty"`
	ResumeURL       *string `json:"resume_url,omitempty"`
	CurrentPosition *string `json:"current_position,omitempty"`
	ExperienceYears *int    `json:"experience_years,omitempty" validate:"omitempty,min=0,max=50"`
	Skills          *string `json:"skills,omitempty"`
}

// Normalize trims text fields and lowercases the email.
func (r *RegisterRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = NormalizeEmail(r.Email)
	trimPtr(r.Phone)
	trimPtr(r.ResumeURL)
	trimPtr(r.CurrentPosition)
	trimPtr(r.Skills)
}

// Validate validates the RegisterRequest using the validator.
func (r *RegisterRequest) Validate() error {
	return checkStruct(r)
}

// LoginRequest represents the login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Validate validates the LoginRequest using the validator.
func (r *LoginRequest) Validate() error {
	r.Email = NormalizeEmail(r.Email)
	return checkStruct(r)
}

// EmailRequest carries a single address for resend-verification and forgot-password.
type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// Validate validates the EmailRequest using the validator.
func (r *EmailRequest) Validate() error {
	r.Email = NormalizeEmail(r.Email)
	return checkStruct(r)
}

// ResetPasswordRequest completes a password reset.
type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Validate validates the ResetPasswordRequest using the validator.
func (r *ResetPasswordRequest) Validate() error {
	r.Token = strings.TrimSpace(r.Token)
	return checkStruct(r)
}

// UpdatePasswordRequest represents a password update request.
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}

// Validate validates the UpdatePasswordRequest using the validator.
func (r *UpdatePasswordRequest) Validate() error {
	return checkStruct(r)
}

// User is the public profile of an identity (avoids import cycle with db package).
type User struct {
	ID              uuid.UUID `json:"id"`
	Email           string    `json:"email"`
	Name            string    `json:"name"`
	Role            string    `json:"role"`
	Phone           *string   `json:"phone"`
	ResumeURL       *string   `json:"resume_url"`
	CurrentPosition *string   `json:"current_position"`
	ExperienceYears *int      `json:"experience_years"`
	Skills          *string   `json:"skills"`
	EmailVerified   bool      `json:"email_verified"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Message               string `json:"message"`
	User                  *User  `json:"user"`
	Token                 string `json:"token"`
	EmailVerificationSent *bool  `json:"email_verification_sent,omitempty"`
	VerificationURL       string `json:"verification_url,omitempty"`
}

// DeliveryResponse is returned by flows that send a link by mail.
type DeliveryResponse struct {
	Message   string `json:"message"`
	EmailSent bool   `json:"email_sent"`
	// Exactly one of these is set when the mail was not delivered.
	VerificationURL string `json:"verification_url,omitempty"`
	ResetURL        string `json:"reset_url,omitempty"`
}

// NormalizeEmail trims and lowercases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
