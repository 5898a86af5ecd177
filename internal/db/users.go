package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/interview-tracker/internal/query"
	"github.com/jonathan/interview-tracker/internal/types"
)

// CreateUser inserts an identity. The first identity ever stored becomes the
// admin; the role is decided inside the INSERT so no separate count is read.
// Two concurrent first registrations can both observe an empty table; the
// unique email index does not prevent that, and the window is accepted.
func (db *DB) CreateUser(ctx context.Context, u *NewUser) (*User, error) {
	var created User
	_, err := db.get(ctx, &created, raw(
		`INSERT INTO users (
			email, password_hash, name, role, phone, resume_url, current_position,
			experience_years, skills, email_verification_token_hash, email_verification_expires_at
		) VALUES (
			$1, $2, $3,
			CASE WHEN EXISTS (SELECT 1 FROM users) THEN 'candidate' ELSE 'admin' END,
			$4, $5, $6, $7, $8, $9, $10
		) RETURNING `+userColumns,
		u.Email, u.PasswordHash, u.Name, u.Phone, u.ResumeURL, u.CurrentPosition,
		u.ExperienceYears, u.Skills, u.VerificationTokenHash, u.VerificationExpiresAt,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &created, nil
}

// GetUserByID retrieves an identity by ID. Returns nil, nil when not found.
func (db *DB) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return db.getUser(ctx, query.Eq("id", id))
}

// GetUserByEmail retrieves an identity by email. Returns nil, nil when not found.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	if email == "" {
		return nil, nil
	}
	return db.getUser(ctx, query.Eq("email", types.NormalizeEmail(email)))
}

func (db *DB) getUser(ctx context.Context, filter query.Filter) (*User, error) {
	stmt, err := query.Select{
		Base:    "SELECT " + userColumns + " FROM users",
		Filters: []query.Filter{filter},
	}.Build()
	if err != nil {
		return nil, err
	}

	var u User
	found, err := db.get(ctx, &u, stmt)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &u, nil
}

// EmailTakenByOther reports whether email belongs to an identity other than id.
func (db *DB) EmailTakenByOther(ctx context.Context, email string, id uuid.UUID) (bool, error) {
	var taken bool
	_, err := db.get(ctx, &taken, raw(
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 AND id <> $2)`,
		types.NormalizeEmail(email), id,
	))
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return taken, nil
}

// ListUsers returns identities matching the optional role and search filters,
// ordered by name.
func (db *DB) ListUsers(ctx context.Context, params types.UserListParams) ([]User, error) {
	stmt, err := query.Select{
		Base: "SELECT " + userColumns + " FROM users",
		Filters: []query.Filter{
			query.OptionalEq("role", params.Role),
			query.Search(params.Search, "name", "email", "current_position"),
		},
		OrderBy: "name ASC",
	}.Build()
	if err != nil {
		return nil, err
	}

	users := []User{}
	if err := db.selectAll(ctx, &users, stmt); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// ListCandidates returns identities with their interview counts, newest first.
func (db *DB) ListCandidates(ctx context.Context, params types.UserListParams) ([]CandidateSummary, error) {
	stmt, err := query.Select{
		Base: `SELECT u.id, u.email, u.password_hash, u.name, u.role, u.phone, u.resume_url,
				u.current_position, u.experience_years, u.skills, u.email_verified,
				u.created_at, u.updated_at, COUNT(i.id) AS interview_count
			FROM users u
			LEFT JOIN interviews i ON i.candidate_id = u.id`,
		Filters: []query.Filter{
			query.OptionalEq("u.role", params.Role),
			query.Search(params.Search, "u.name", "u.email", "u.current_position"),
		},
		GroupBy: "u.id",
		OrderBy: "u.created_at DESC",
	}.Build()
	if err != nil {
		return nil, err
	}

	candidates := []CandidateSummary{}
	if err := db.selectAll(ctx, &candidates, stmt); err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	return candidates, nil
}

// UpdateUser applies a change-set to an identity and returns the new row.
// Returns nil, nil when the identity does not exist.
func (db *DB) UpdateUser(ctx context.Context, id uuid.UUID, changes query.ChangeSet) (*User, error) {
	stmt, err := query.Update{
		Table:     "users",
		Changes:   changes,
		Touch:     "updated_at",
		Where:     []query.Filter{query.Eq("id", id)},
		Returning: userColumns,
	}.Build()
	if err != nil {
		return nil, err
	}

	var u User
	found, err := db.get(ctx, &u, stmt)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &u, nil
}

// UpdatePassword sets a new password hash for an identity.
func (db *DB) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	n, err := db.exec(ctx, raw(
		`UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`,
		passwordHash, id,
	))
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("failed to update password: user %s not found", id)
	}
	return nil
}

// DeleteUser removes an identity. It reports false when no row was deleted.
func (db *DB) DeleteUser(ctx context.Context, id uuid.UUID) (bool, error) {
	stmt, err := query.Delete{Table: "users", Where: []query.Filter{query.Eq("id", id)}}.Build()
	if err != nil {
		return false, err
	}
	n, err := db.exec(ctx, stmt)
	if err != nil {
		return false, fmt.Errorf("failed to delete user: %w", err)
	}
	return n > 0, nil
}

// CountInterviewsForUser returns how many interviews an identity owns.
func (db *DB) CountInterviewsForUser(ctx context.Context, id uuid.UUID) (int, error) {
	return db.count(ctx, query.Select{
		Base:    "SELECT COUNT(*) FROM interviews",
		Filters: []query.Filter{query.Eq("candidate_id", id)},
	})
}

// SetVerificationToken stores a new email verification digest.
func (db *DB) SetVerificationToken(ctx context.Context, id uuid.UUID, tokenHash string, expiresAt time.Time) error {
	_, err := db.exec(ctx, raw(
		`UPDATE users
		 SET email_verification_token_hash = $1, email_verification_expires_at = $2, updated_at = NOW()
		 WHERE id = $3`,
		tokenHash, expiresAt, id,
	))
	if err != nil {
		return fmt.Errorf("failed to store verification token: %w", err)
	}
	return nil
}

// ConsumeVerificationToken marks the identity holding an unexpired token as
// verified and clears the token in one statement, so a token works once.
// Returns nil, nil when no identity holds a live token with that digest.
func (db *DB) ConsumeVerificationToken(ctx context.Context, tokenHash string) (*User, error) {
	var u User
	found, err := db.get(ctx, &u, raw(
		`UPDATE users
		 SET email_verified = TRUE, email_verification_token_hash = NULL,
		     email_verification_expires_at = NULL, updated_at = NOW()
		 WHERE email_verification_token_hash = $1 AND email_verification_expires_at > NOW()
		 RETURNING `+userColumns,
		tokenHash,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to verify email: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &u, nil
}

// MarkEmailVerified verifies an identity by email without a token.
// Returns nil, nil when the email is unknown.
func (db *DB) MarkEmailVerified(ctx context.Context, email string) (*User, error) {
	var u User
	found, err := db.get(ctx, &u, raw(
		`UPDATE users
		 SET email_verified = TRUE, email_verification_token_hash = NULL,
		     email_verification_expires_at = NULL, updated_at = NOW()
		 WHERE email = $1
		 RETURNING `+userColumns,
		types.NormalizeEmail(email),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to mark email verified: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &u, nil
}

// SetResetToken stores a new password reset digest.
func (db *DB) SetResetToken(ctx context.Context, id uuid.UUID, tokenHash string, expiresAt time.Time) error {
	_, err := db.exec(ctx, raw(
		`UPDATE users
		 SET password_reset_token_hash = $1, password_reset_expires_at = $2, updated_at = NOW()
		 WHERE id = $3`,
		tokenHash, expiresAt, id,
	))
	if err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}
	return nil
}

// ConsumeResetToken replaces the password of the identity holding an
// unexpired reset token and clears the token.
// Returns nil, nil when no identity holds a live token with that digest.
func (db *DB) ConsumeResetToken(ctx context.Context, tokenHash, passwordHash string) (*User, error) {
	var u User
	found, err := db.get(ctx, &u, raw(
		`UPDATE users
		 SET password_hash = $1, password_reset_token_hash = NULL,
		     password_reset_expires_at = NULL, updated_at = NOW()
		 WHERE password_reset_token_hash = $2 AND password_reset_expires_at > NOW()
		 RETURNING `+userColumns,
		passwordHash, tokenHash,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to reset password: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &u, nil
}

func (db *DB) count(ctx context.Context, sel query.Select) (int, error) {
	stmt, err := sel.Build()
	if err != nil {
		return 0, err
	}
	var n int
	if _, err := db.get(ctx, &n, stmt); err != nil {
		return 0, fmt.Errorf("failed to count: %w", err)
	}
	return n, nil
}
