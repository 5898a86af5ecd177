//nolint:revive // types is a standard Go package name pattern
package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func TestRegisterRequest_Validation(t *testing.T) {
	tests := []struct {
		name      string
		request   RegisterRequest
		wantField string
	}{
		{
			name: "valid request",
			request: RegisterRequest{
				Name:     "John Doe",
				Email:    "john@example.com",
				Password: "Password1!",
				Phone:    strPtr("555-0100"),
			},
		},
		{
			name:      "missing name",
			request:   RegisterRequest{Email: "john@example.com", Password: "Password1!"},
			wantField: "name",
		},
		{
			name:      "invalid email",
			request:   RegisterRequest{Name: "John", Email: "not-an-email", Password: "Password1!"},
			wantField: "email",
		},
		{
			name:      "missing password",
			request:   RegisterRequest{Name: "John", Email: "john@example.com"},
			wantField: "password",
		},
		{
			name: "experience out of range",
			request: RegisterRequest{
				Name: "John", Email: "john@example.com", Password: "Password1!",
				ExperienceYears: intPtr(51),
			},
			wantField: "experience_years",
		},
		{
			name: "zero experience allowed",
			request: RegisterRequest{
				Name: "John", Email: "john@example.com", Password: "Password1!",
				ExperienceYears: intPtr(0),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var fe *FieldError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.wantField, fe.Field)
		})
	}
}

func TestRegisterRequest_Normalize(t *testing.T) {
	req := RegisterRequest{
		Name:   "  Ann  ",
		Email:  "  Ann@Example.COM ",
		Skills: strPtr(" go, sql "),
	}
	req.Normalize()

	assert.Equal(t, "Ann", req.Name)
	assert.Equal(t, "ann@example.com", req.Email)
	assert.Equal(t, "go, sql", *req.Skills)
	assert.Nil(t, req.Phone)
}

func TestLoginRequest_Validation(t *testing.T) {
	req := LoginRequest{Email: " USER@example.com", Password: "x"}
	require.NoError(t, req.Validate())
	assert.Equal(t, "user@example.com", req.Email)

	req = LoginRequest{Email: "user@example.com"}
	var fe *FieldError
	require.ErrorAs(t, req.Validate(), &fe)
	assert.Equal(t, "password", fe.Field)
	assert.Equal(t, "is required", fe.Message)
}

func TestEmailRequest_Validation(t *testing.T) {
	assert.NoError(t, (&EmailRequest{Email: "a@b.co"}).Validate())
	assert.Error(t, (&EmailRequest{Email: ""}).Validate())
	assert.Error(t, (&EmailRequest{Email: "nope"}).Validate())
}

func TestResetPasswordRequest_Validation(t *testing.T) {
	req := ResetPasswordRequest{Token: "  abc  ", Password: "Password1!"}
	require.NoError(t, req.Validate())
	assert.Equal(t, "abc", req.Token)

	assert.Error(t, (&ResetPasswordRequest{Password: "Password1!"}).Validate())
}

func TestUpdatePasswordRequest_Validation(t *testing.T) {
	assert.NoError(t, (&UpdatePasswordRequest{CurrentPassword: "a", NewPassword: "b"}).Validate())

	var fe *FieldError
	require.ErrorAs(t, (&UpdatePasswordRequest{CurrentPassword: "a"}).Validate(), &fe)
	assert.Equal(t, "new_password", fe.Field)
}

func TestFieldError_Error(t *testing.T) {
	err := &FieldError{Field: "round", Message: "must be at most 10"}
	assert.Equal(t, "round: must be at most 10", err.Error())
}
