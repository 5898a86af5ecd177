package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jonathan/interview-tracker/internal/access"
	"github.com/jonathan/interview-tracker/internal/db"
	"github.com/jonathan/interview-tracker/internal/query"
	"github.com/jonathan/interview-tracker/internal/types"
)

// errUserHasInterviews is the conflict returned when deleting an identity that still owns interviews.
var errUserHasInterviews = &ErrConflict{Message: "cannot delete user with existing interviews"}

// AdminService provides user administration. Every method requires an admin caller.
type AdminService struct {
	db AdminStore
}

// NewAdminService creates a new AdminService.
func NewAdminService(store AdminStore) *AdminService {
	return &AdminService{db: store}
}

// UserDetail is a user profile with the interviews it owns.
type UserDetail struct {
	*types.User
	Interviews []db.InterviewWithCandidate `json:"interviews"`
}

// CandidateListing is a candidate profile with its interview count.
type CandidateListing struct {
	*types.User
	InterviewCount int `json:"interview_count"`
}

// ListUsers returns every identity matching params.
func (s *AdminService) ListUsers(ctx context.Context, caller access.Caller, params types.UserListParams) ([]*types.User, error) {
	if err := access.RequireAdmin(caller); err != nil {
		return nil, err
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	rows, err := s.db.ListUsers(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	users := make([]*types.User, 0, len(rows))
	for i := range rows {
		users = append(users, convertDBUserToTypesUser(&rows[i]))
	}
	return users, nil
}

// ListCandidates returns candidates with their interview counts.
func (s *AdminService) ListCandidates(ctx context.Context, caller access.Caller, search string) ([]CandidateListing, error) {
	if err := access.RequireAdmin(caller); err != nil {
		return nil, err
	}

	rows, err := s.db.ListCandidates(ctx, types.UserListParams{Search: search})
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	out := make([]CandidateListing, 0, len(rows))
	for i := range rows {
		out = append(out, CandidateListing{
			User:           convertDBUserToTypesUser(&rows[i].User),
			InterviewCount: rows[i].InterviewCount,
		})
	}
	return out, nil
}

// GetUser returns one identity and the interviews it owns.
func (s *AdminService) GetUser(ctx context.Context, caller access.Caller, id uuid.UUID) (*UserDetail, error) {
	if err := access.RequireAdmin(caller); err != nil {
		return nil, err
	}

	dbUser, err := s.db.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if dbUser == nil {
		return nil, &ErrUserNotFound{UserID: id}
	}

	interviews, err := s.db.ListInterviews(ctx, query.Eq(db.InterviewOwner, id), types.InterviewListParams{})
	if err != nil {
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}
	if interviews == nil {
		interviews = []db.InterviewWithCandidate{}
	}
	return &UserDetail{User: convertDBUserToTypesUser(dbUser), Interviews: interviews}, nil
}

// UpdateRole changes the role of another identity.
func (s *AdminService) UpdateRole(ctx context.Context, caller access.Caller, id uuid.UUID, req *types.UpdateRoleRequest) (*types.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	role, err := access.ParseRole(req.Role)
	if err != nil {
		return nil, &ErrValidation{Field: "role", Message: err.Error()}
	}
	if err := access.CheckRoleChange(caller, id, role); err != nil {
		return nil, err
	}

	var changes query.ChangeSet
	changes.Set("role", string(role))
	updated, err := s.db.UpdateUser(ctx, id, changes)
	if err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}
	if updated == nil {
		return nil, &ErrUserNotFound{UserID: id}
	}

	log.Info().
		Str("admin_id", caller.ID().String()).
		Str("user_id", id.String()).
		Str("role", string(role)).
		Msg("user role changed")
	return convertDBUserToTypesUser(updated), nil
}

// DeleteUser removes an identity that owns no interviews.
func (s *AdminService) DeleteUser(ctx context.Context, caller access.Caller, id uuid.UUID) error {
	if err := access.CheckUserDeletion(caller, id); err != nil {
		return err
	}

	dbUser, err := s.db.GetUserByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if dbUser == nil {
		return &ErrUserNotFound{UserID: id}
	}

	n, err := s.db.CountInterviewsForUser(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count interviews: %w", err)
	}
	if n > 0 {
		return errUserHasInterviews
	}

	deleted, err := s.db.DeleteUser(ctx, id)
	if errors.Is(err, db.ErrReferenced) {
		// An interview was created between the count and the delete.
		return errUserHasInterviews
	}
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if !deleted {
		return &ErrUserNotFound{UserID: id}
	}

	log.Info().Str("admin_id", caller.ID().String()).Str("user_id", id.String()).Msg("user deleted")
	return nil
}
