package server

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jonathan/interview-tracker/internal/access"
	"github.com/jonathan/interview-tracker/internal/config"
	"github.com/jonathan/interview-tracker/internal/db"
	"github.com/jonathan/interview-tracker/internal/mail"
	"github.com/jonathan/interview-tracker/internal/observability"
	"github.com/jonathan/interview-tracker/internal/query"
	"github.com/jonathan/interview-tracker/internal/types"
)

// UserService provides the account flows and self-service profile operations.
type UserService struct {
	db                  UserStore
	passwordConfig      *config.PasswordConfig
	mailer              mail.Sender
	metrics             *observability.Metrics
	requireVerification bool
	now                 func() time.Time
}

// NewUserService creates a new UserService with the given dependencies
func NewUserService(store UserStore, passwordConfig *config.PasswordConfig, mailer mail.Sender, metrics *observability.Metrics, requireVerification bool) *UserService {
	return &UserService{
		db:                  store,
		passwordConfig:      passwordConfig,
		mailer:              mailer,
		metrics:             metrics,
		requireVerification: requireVerification,
		now:                 time.Now,
	}
}

// Registration is the outcome of Register.
type Registration struct {
	User     *types.User
	Delivery mail.Delivery
}

// convertDBUserToTypesUser converts db.User to types.User, excluding secrets
func convertDBUserToTypesUser(dbUser *db.User) *types.User {
	if dbUser == nil {
		return nil
	}
	return &types.User{
		ID:              dbUser.ID,
		Email:           dbUser.Email,
		Name:            dbUser.Name,
		Role:            dbUser.Role,
		Phone:           dbUser.Phone,
		ResumeURL:       dbUser.ResumeURL,
		CurrentPosition: dbUser.CurrentPosition,
		ExperienceYears: dbUser.ExperienceYears,
		Skills:          dbUser.Skills,
		EmailVerified:   dbUser.EmailVerified,
		CreatedAt:       dbUser.CreatedAt,
		UpdatedAt:       dbUser.UpdatedAt,
	}
}

func checkStrength(field, password string) error {
	if problems := config.ValidateStrength(password); len(problems) > 0 {
		return &ErrValidation{Field: field, Message: strings.Join(problems, "; ")}
	}
	return nil
}

// Register creates a new identity and sends it a verification link.
// The first identity ever created becomes the admin.
func (s *UserService) Register(ctx context.Context, req *types.RegisterRequest) (*Registration, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := checkStrength("password", req.Password); err != nil {
		return nil, err
	}

	existing, err := s.db.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if existing != nil {
		return nil, &ErrEmailAlreadyExists{Email: req.Email}
	}

	passwordHash, err := s.passwordConfig.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	token, digest, err := mail.NewToken()
	if err != nil {
		return nil, err
	}

	created, err := s.db.CreateUser(ctx, &db.NewUser{
		Email:                 req.Email,
		PasswordHash:          passwordHash,
		Name:                  req.Name,
		Phone:                 req.Phone,
		ResumeURL:             req.ResumeURL,
		CurrentPosition:       req.CurrentPosition,
		ExperienceYears:       req.ExperienceYears,
		Skills:                req.Skills,
		VerificationTokenHash: digest,
		VerificationExpiresAt: s.now().Add(mail.VerificationTTL),
	})
	if errors.Is(err, db.ErrDuplicate) {
		return nil, &ErrEmailAlreadyExists{Email: req.Email}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Info().Str("user_id", created.ID.String()).Str("role", created.Role).Msg("user registered")
	s.metrics.AuthEvent("register", "success")

	delivery := s.mailer.SendVerification(ctx, created.Email, created.Name, token)
	s.metrics.MailDelivery("verification", delivery.Delivered)

	return &Registration{User: convertDBUserToTypesUser(created), Delivery: delivery}, nil
}

// Login authenticates a user and returns user data
func (s *UserService) Login(ctx context.Context, req *types.LoginRequest) (*types.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	dbUser, err := s.db.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	// Security: Always return generic error if user not found or password wrong
	if dbUser == nil || !s.passwordConfig.VerifyPassword(req.Password, dbUser.PasswordHash) {
		s.metrics.AuthEvent("login", "failure")
		return nil, &ErrInvalidCredentials{}
	}

	if s.requireVerification && !dbUser.EmailVerified && dbUser.Role != string(access.RoleAdmin) {
		s.metrics.AuthEvent("login", "unverified")
		return nil, &ErrUnauthenticated{Message: "please verify your email address before logging in"}
	}

	s.metrics.AuthEvent("login", "success")
	return convertDBUserToTypesUser(dbUser), nil
}

// VerifyEmail consumes a verification token.
func (s *UserService) VerifyEmail(ctx context.Context, token string) (*types.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, &ErrValidation{Field: "token", Message: "verification token is required"}
	}

	dbUser, err := s.db.ConsumeVerificationToken(ctx, mail.Digest(token))
	if err != nil {
		return nil, err
	}
	if dbUser == nil {
		s.metrics.AuthEvent("verify_email", "failure")
		return nil, &ErrValidation{Field: "token", Message: "invalid or expired verification token"}
	}

	log.Info().Str("user_id", dbUser.ID.String()).Msg("email verified")
	s.metrics.AuthEvent("verify_email", "success")
	return convertDBUserToTypesUser(dbUser), nil
}

// ResendVerification issues a fresh verification token for an unverified identity.
func (s *UserService) ResendVerification(ctx context.Context, req *types.EmailRequest) (mail.Delivery, error) {
	if err := req.Validate(); err != nil {
		return mail.Delivery{}, err
	}

	dbUser, err := s.db.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return mail.Delivery{}, fmt.Errorf("failed to get user by email: %w", err)
	}
	if dbUser == nil {
		return mail.Delivery{}, &ErrUserNotFound{Email: req.Email}
	}
	if dbUser.EmailVerified {
		return mail.Delivery{}, &ErrConflict{Message: "email is already verified"}
	}

	token, digest, err := mail.NewToken()
	if err != nil {
		return mail.Delivery{}, err
	}
	if err := s.db.SetVerificationToken(ctx, dbUser.ID, digest, s.now().Add(mail.VerificationTTL)); err != nil {
		return mail.Delivery{}, err
	}

	delivery := s.mailer.SendVerification(ctx, dbUser.Email, dbUser.Name, token)
	s.metrics.MailDelivery("verification", delivery.Delivered)
	return delivery, nil
}

// ForgotPassword issues a reset token when the address belongs to an
// identity. Unknown addresses report a delivered mail so the response does
// not reveal whether the account exists.
func (s *UserService) ForgotPassword(ctx context.Context, req *types.EmailRequest) (mail.Delivery, error) {
	if err := req.Validate(); err != nil {
		return mail.Delivery{}, err
	}

	dbUser, err := s.db.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return mail.Delivery{}, fmt.Errorf("failed to get user by email: %w", err)
	}
	if dbUser == nil {
		return mail.Delivery{Delivered: true}, nil
	}

	token, digest, err := mail.NewToken()
	if err != nil {
		return mail.Delivery{}, err
	}
	if err := s.db.SetResetToken(ctx, dbUser.ID, digest, s.now().Add(mail.ResetTTL)); err != nil {
		return mail.Delivery{}, err
	}

	delivery := s.mailer.SendPasswordReset(ctx, dbUser.Email, dbUser.Name, token)
	s.metrics.MailDelivery("password_reset", delivery.Delivered)
	return delivery, nil
}

// ResetPassword consumes a reset token and sets the new password.
func (s *UserService) ResetPassword(ctx context.Context, req *types.ResetPasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if err := checkStrength("password", req.Password); err != nil {
		return err
	}

	passwordHash, err := s.passwordConfig.HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	dbUser, err := s.db.ConsumeResetToken(ctx, mail.Digest(req.Token), passwordHash)
	if err != nil {
		return err
	}
	if dbUser == nil {
		s.metrics.AuthEvent("reset_password", "failure")
		return &ErrValidation{Field: "token", Message: "invalid or expired reset token"}
	}

	log.Info().Str("user_id", dbUser.ID.String()).Msg("password reset")
	s.metrics.AuthEvent("reset_password", "success")
	return nil
}

// UpdatePassword updates the caller's password
func (s *UserService) UpdatePassword(ctx context.Context, caller access.Caller, req *types.UpdatePasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	dbUser, err := s.db.GetUserByID(ctx, caller.ID())
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if dbUser == nil {
		return &ErrUserNotFound{UserID: caller.ID()}
	}

	if !s.passwordConfig.VerifyPassword(req.CurrentPassword, dbUser.PasswordHash) {
		return &ErrPasswordMismatch{}
	}
	if err := checkStrength("new_password", req.NewPassword); err != nil {
		return err
	}

	newPasswordHash, err := s.passwordConfig.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	if err := s.db.UpdatePassword(ctx, caller.ID(), newPasswordHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// GetProfile returns the caller's own profile.
func (s *UserService) GetProfile(ctx context.Context, caller access.Caller) (*types.User, error) {
	dbUser, err := s.db.GetUserByID(ctx, caller.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if dbUser == nil {
		return nil, &ErrUserNotFound{UserID: caller.ID()}
	}
	return convertDBUserToTypesUser(dbUser), nil
}

// UpdateProfile applies a partial update to the caller's own profile.
func (s *UserService) UpdateProfile(ctx context.Context, caller access.Caller, req *types.UpdateProfileRequest) (*types.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if req.Email.Valid {
		taken, err := s.db.EmailTakenByOther(ctx, req.Email.Value, caller.ID())
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, &ErrConflict{Message: "email is already taken"}
		}
	}

	var changes query.ChangeSet
	changes.SetOptional("name", req.Name)
	changes.SetOptional("email", req.Email)
	changes.SetOptional("phone", req.Phone)
	changes.SetOptional("resume_url", req.ResumeURL)
	changes.SetOptional("current_position", req.CurrentPosition)
	changes.SetOptional("experience_years", req.ExperienceYears)
	changes.SetOptional("skills", req.Skills)
	if changes.Len() == 0 {
		return nil, query.ErrEmptyChangeSet
	}

	updated, err := s.db.UpdateUser(ctx, caller.ID(), changes)
	if errors.Is(err, db.ErrDuplicate) {
		return nil, &ErrConflict{Message: "email is already taken"}
	}
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, &ErrUserNotFound{UserID: caller.ID()}
	}
	return convertDBUserToTypesUser(updated), nil
}
