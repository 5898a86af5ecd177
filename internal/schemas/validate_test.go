package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_InterviewUpdate(t *testing.T) {
	tests := []struct {
		name      string
		document  string
		wantField string
	}{
		{name: "single field", document: `{"status":"rescheduled"}`},
		{name: "null duration", document: `{"duration":null,"status":"uncertain"}`},
		{name: "null text", document: `{"notes":null,"scheduled_date":null}`},
		{name: "empty change-set", document: `{}`, wantField: "(root)"},
		{name: "unknown field", document: `{"candidate_id":"x"}`, wantField: "(root)"},
		{name: "bad status", document: `{"status":"ghosted"}`, wantField: "status"},
		{name: "duration too short", document: `{"duration":10}`, wantField: "duration"},
		{name: "duration not integer", document: `{"duration":"sixty"}`, wantField: "duration"},
		{name: "round out of range", document: `{"round":11}`, wantField: "round"},
		{name: "empty company", document: `{"company_name":""}`, wantField: "company_name"},
		{name: "null job title", document: `{"job_title":null}`, wantField: "job_title"},
		{name: "not an object", document: `[1,2]`, wantField: "(root)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(InterviewUpdate, []byte(tt.document))
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "error should be ValidationError type, got %v", err)
			fields := make([]string, 0, len(ve.Errors))
			for _, fe := range ve.Errors {
				fields = append(fields, fe.Field)
			}
			assert.Contains(t, fields, tt.wantField)
		})
	}
}

func TestValidate_ProfileUpdate(t *testing.T) {
	assert.NoError(t, Validate(ProfileUpdate, []byte(`{"name":"Ann","phone":null}`)))
	assert.NoError(t, Validate(ProfileUpdate, []byte(`{"experience_years":0}`)))

	for _, doc := range []string{
		`{}`,
		`{"role":"admin"}`,
		`{"email":"not-an-email"}`,
		`{"experience_years":60}`,
		`{"name":""}`,
	} {
		err := Validate(ProfileUpdate, []byte(doc))
		var ve *ValidationError
		assert.True(t, errors.As(err, &ve), "document %s should fail", doc)
	}
}

func TestValidate_MalformedJSON(t *testing.T) {
	err := Validate(ProfileUpdate, []byte(`{"name":`))
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "(root)", ve.First().Field)
}

func TestValidate_UnknownSchema(t *testing.T) {
	err := Validate(Name("missing"), []byte(`{}`))
	var le *SchemaLoadError
	require.True(t, errors.As(err, &le))
	assert.Contains(t, err.Error(), "json/missing.schema.json")
}

func TestValidationError_FirstOnEmpty(t *testing.T) {
	ve := &ValidationError{}
	assert.Equal(t, "(root)", ve.First().Field)
}
