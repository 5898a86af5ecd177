package types

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckDuration(t *testing.T) {
	tests := []struct {
		name     string
		status   string
		duration *int
		wantErr  bool
	}{
		{name: "uncertain without duration", status: StatusUncertain},
		{name: "uncertain with duration", status: StatusUncertain, duration: intPtr(60)},
		{name: "uncertain with bad duration", status: StatusUncertain, duration: intPtr(5), wantErr: true},
		{name: "scheduled without duration", status: StatusScheduled, wantErr: true},
		{name: "completed without duration", status: StatusCompleted, wantErr: true},
		{name: "lower bound", status: StatusScheduled, duration: intPtr(15)},
		{name: "upper bound", status: StatusScheduled, duration: intPtr(480)},
		{name: "below lower bound", status: StatusScheduled, duration: intPtr(14), wantErr: true},
		{name: "above upper bound", status: StatusCancelled, duration: intPtr(481), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckDuration(tt.status, tt.duration)
			if tt.wantErr {
				var fe *FieldError
				require.ErrorAs(t, err, &fe)
				assert.Equal(t, "duration", fe.Field)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func validCreate() CreateInterviewRequest {
	return CreateInterviewRequest{
		CompanyName: "Acme",
		JobTitle:    "Backend Engineer",
		Duration:    intPtr(60),
		Round:       intPtr(1),
	}
}

func TestCreateInterviewRequest_Defaults(t *testing.T) {
	req := validCreate()
	req.CompanyName = "  Acme  "
	req.Location = strPtr("  Remote ")

	require.NoError(t, req.Validate())
	assert.Equal(t, "Acme", req.CompanyName)
	assert.Equal(t, StatusScheduled, req.Status)
	assert.Equal(t, TypeTechnical, req.InterviewType)
	assert.Equal(t, "Remote", *req.Location)
}

func TestCreateInterviewRequest_Validation(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(r *CreateInterviewRequest)
		wantField string
	}{
		{name: "blank company", mutate: func(r *CreateInterviewRequest) { r.CompanyName = "   " }, wantField: "company_name"},
		{name: "missing job title", mutate: func(r *CreateInterviewRequest) { r.JobTitle = "" }, wantField: "job_title"},
		{name: "missing round", mutate: func(r *CreateInterviewRequest) { r.Round = nil }, wantField: "round"},
		{name: "round too high", mutate: func(r *CreateInterviewRequest) { r.Round = intPtr(11) }, wantField: "round"},
		{name: "rescheduled not allowed on create", mutate: func(r *CreateInterviewRequest) { r.Status = StatusRescheduled }, wantField: "status"},
		{name: "unknown type", mutate: func(r *CreateInterviewRequest) { r.InterviewType = "panel" }, wantField: "interview_type"},
		{name: "missing duration", mutate: func(r *CreateInterviewRequest) { r.Duration = nil }, wantField: "duration"},
		{name: "uncertain without duration", mutate: func(r *CreateInterviewRequest) { r.Status = StatusUncertain; r.Duration = nil }},
		{name: "final round hr", mutate: func(r *CreateInterviewRequest) { r.InterviewType = TypeHR; r.Round = intPtr(10) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreate()
			tt.mutate(&req)
			err := req.Validate()
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

func TestCreateInterviewRequest_JSON(t *testing.T) {
	var req CreateInterviewRequest
	body := `{"company_name":"Acme","job_title":"SRE","round":2,"duration":45,
		"scheduled_date":"2025-06-01T14:00","interviewer_name":"Pat"}`
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	require.NoError(t, req.Validate())

	require.NotNil(t, req.ScheduledDate)
	assert.Equal(t, 14, req.ScheduledDate.Hour())
	assert.Equal(t, "Pat", *req.InterviewerName)
	assert.Nil(t, req.Notes)
}

func TestUpdateInterviewRequest_Validation(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{name: "status only", body: `{"status":"rescheduled"}`},
		{name: "null duration", body: `{"duration":null}`},
		{name: "null scheduled date", body: `{"scheduled_date":null}`},
		{name: "null notes", body: `{"notes":null}`},
		{name: "empty company", body: `{"company_name":"  "}`, wantField: "company_name"},
		{name: "null job title", body: `{"job_title":null}`, wantField: "job_title"},
		{name: "unknown status", body: `{"status":"ghosted"}`, wantField: "status"},
		{name: "null status", body: `{"status":null}`, wantField: "status"},
		{name: "round out of range", body: `{"round":0}`, wantField: "round"},
		{name: "duration out of range", body: `{"duration":600}`, wantField: "duration"},
		{name: "bad type", body: `{"interview_type":"onsite"}`, wantField: "interview_type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req UpdateInterviewRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			err := req.Validate()
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

func TestUpdateInterviewRequest_TrimsText(t *testing.T) {
	var req UpdateInterviewRequest
	require.NoError(t, json.Unmarshal([]byte(`{"notes":"  bring laptop  ","job_title":" SRE "}`), &req))
	require.NoError(t, req.Validate())

	assert.Equal(t, "bring laptop", req.Notes.Value)
	assert.Equal(t, "SRE", req.JobTitle.Value)

	present := 0
	for _, f := range req.TextFields() {
		if f.Patch.IsSet() {
			present++
			assert.Equal(t, "notes", f.Column)
		}
	}
	assert.Equal(t, 1, present)
}

func TestInterviewListParams_Validate(t *testing.T) {
	assert.NoError(t, InterviewListParams{}.Validate())
	assert.NoError(t, InterviewListParams{Status: StatusRescheduled}.Validate())
	assert.Error(t, InterviewListParams{Status: "nope"}.Validate())
}

func TestCreateFeedbackRequest_Validation(t *testing.T) {
	valid := func() CreateFeedbackRequest {
		return CreateFeedbackRequest{
			TechnicalSkills: 4, CommunicationSkills: 5, ProblemSolving: 3, CulturalFit: 4, OverallRating: 4,
			FeedbackText:   "Strong systems design discussion.",
			Recommendation: "hire",
		}
	}

	req := valid()
	assert.NoError(t, req.Validate())

	req = valid()
	req.OverallRating = 6
	var fe *FieldError
	require.ErrorAs(t, req.Validate(), &fe)
	assert.Equal(t, "overall_rating", fe.Field)

	req = valid()
	req.FeedbackText = "  short    "
	require.ErrorAs(t, req.Validate(), &fe)
	assert.Equal(t, "feedback_text", fe.Field)

	req = valid()
	req.Recommendation = "strong hire"
	require.ErrorAs(t, req.Validate(), &fe)
	assert.Equal(t, "recommendation", fe.Field)
	assert.True(t, strings.HasPrefix(fe.Message, "must be one of"))
}

func TestUpdateProfileRequest_Validation(t *testing.T) {
	var req UpdateProfileRequest
	require.NoError(t, json.Unmarshal([]byte(`{"email":" New@Example.com ","phone":null,"skills":" go "}`), &req))
	require.NoError(t, req.Validate())
	assert.Equal(t, "new@example.com", req.Email.Value)
	assert.True(t, req.Phone.IsSet())
	assert.Nil(t, req.Phone.SQLValue())
	assert.Equal(t, "go", req.Skills.Value)

	for body, field := range map[string]string{
		`{"name":""}`:             "name",
		`{"name":null}`:           "name",
		`{"email":"bad"}`:         "email",
		`{"email":null}`:          "email",
		`{"experience_years":-1}`: "experience_years",
		`{"experience_years":51}`: "experience_years",
	} {
		var r UpdateProfileRequest
		require.NoError(t, json.Unmarshal([]byte(body), &r))
		var fe *FieldError
		require.ErrorAs(t, r.Validate(), &fe, body)
		assert.Equal(t, field, fe.Field, body)
	}
}

func TestUpdateRoleRequest_Validation(t *testing.T) {
	assert.NoError(t, (&UpdateRoleRequest{Role: "admin"}).Validate())
	assert.NoError(t, (&UpdateRoleRequest{Role: "candidate"}).Validate())
	assert.Error(t, (&UpdateRoleRequest{Role: "owner"}).Validate())
	assert.Error(t, (&UpdateRoleRequest{}).Validate())
}
