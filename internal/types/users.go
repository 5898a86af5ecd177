package types

import (
	"strings"
)

// UpdateProfileRequest is the change-set of PUT /api/users/me.
type UpdateProfileRequest struct {
	Name            Patch[string] `json:"name"`
	Email           Patch[string] `json:"email"`
	Phone           Patch[string] `json:"phone"`
	ResumeURL       Patch[string] `json:"resume_url"`
	CurrentPosition Patch[string] `json:"current_position"`
	ExperienceYears Patch[int]    `json:"experience_years"`
	Skills          Patch[string] `json:"skills"`
}

// Validate checks the cross-field rules the change-set schema cannot express
// and normalizes text values.
func (r *UpdateProfileRequest) Validate() error {
	if r.Name.Present {
		if !r.Name.Valid || strings.TrimSpace(r.Name.Value) == "" {
			return fieldError("name", "cannot be empty")
		}
		r.Name.Value = strings.TrimSpace(r.Name.Value)
	}
	if r.Email.Present {
		if !r.Email.Valid {
			return fieldError("email", "cannot be empty")
		}
		r.Email.Value = NormalizeEmail(r.Email.Value)
		if err := validate.Var(r.Email.Value, "required,email"); err != nil {
			return fieldError("email", "must be a valid email address")
		}
	}
	if r.ExperienceYears.Valid && (r.ExperienceYears.Value < 0 || r.ExperienceYears.Value > 50) {
		return fieldError("experience_years", "must be between 0 and 50")
	}
	for _, p := range []*Patch[string]{&r.Phone, &r.ResumeURL, &r.CurrentPosition, &r.Skills} {
		if p.Valid {
			p.Value = strings.TrimSpace(p.Value)
		}
	}
	return nil
}

// UpdateRoleRequest is the body of PUT /api/admin/users/{id}/role.
type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin candidate"`
}

// Validate validates the UpdateRoleRequest using the validator.
func (r *UpdateRoleRequest) Validate() error {
	return checkStruct(r)
}

// UserListParams are the optional filters of a user listing.
type UserListParams struct {
	Role   string
	Search string
}

// Validate rejects unknown roles.
func (p UserListParams) Validate() error {
	if p.Role != "" && p.Role != "admin" && p.Role != "candidate" {
		return fieldError("role", "must be one of: admin, candidate")
	}
	return nil
}
