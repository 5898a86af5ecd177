package server

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/interview-tracker/internal/access"
	"github.com/jonathan/interview-tracker/internal/db"
	"github.com/jonathan/interview-tracker/internal/mail"
	"github.com/jonathan/interview-tracker/internal/query"
	"github.com/jonathan/interview-tracker/internal/types"
)

// memStore is an in-memory Store. Scope filters are interpreted as an
// equality on the owner id, which is the only scope the services build.
type memStore struct {
	mu         sync.Mutex
	users      map[uuid.UUID]*db.User
	interviews map[uuid.UUID]*db.Interview
	feedback   map[uuid.UUID]*db.Feedback
	now        func() time.Time
	// fail, when set, is returned by every method.
	fail error
}

var _ Store = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{
		users:      map[uuid.UUID]*db.User{},
		interviews: map[uuid.UUID]*db.Interview{},
		feedback:   map[uuid.UUID]*db.Feedback{},
		now:        time.Now,
	}
}

func inScope(scope query.Filter, owner uuid.UUID) bool {
	if !scope.Present {
		return true
	}
	id, ok := scope.Value.(uuid.UUID)
	return ok && id == owner
}

func copyUser(u *db.User) *db.User {
	c := *u
	return &c
}

func (m *memStore) Ping(context.Context) error { return m.fail }

func (m *memStore) CreateUser(_ context.Context, nu *db.NewUser) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	for _, u := range m.users {
		if u.Email == nu.Email {
			return nil, fmt.Errorf("insert user: %w", db.ErrDuplicate)
		}
	}
	role := string(access.RoleCandidate)
	if len(m.users) == 0 {
		role = string(access.RoleAdmin)
	}
	now := m.now()
	hash, expires := nu.VerificationTokenHash, nu.VerificationExpiresAt
	u := &db.User{
		ID:                    uuid.New(),
		Email:                 nu.Email,
		PasswordHash:          nu.PasswordHash,
		Name:                  nu.Name,
		Role:                  role,
		Phone:                 nu.Phone,
		ResumeURL:             nu.ResumeURL,
		CurrentPosition:       nu.CurrentPosition,
		ExperienceYears:       nu.ExperienceYears,
		Skills:                nu.Skills,
		VerificationTokenHash: &hash,
		VerificationExpiresAt: &expires,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	m.users[u.ID] = u
	return copyUser(u), nil
}

func (m *memStore) GetUserByID(_ context.Context, id uuid.UUID) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	if u, ok := m.users[id]; ok {
		return copyUser(u), nil
	}
	return nil, nil
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	for _, u := range m.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, nil
}

func (m *memStore) EmailTakenByOther(_ context.Context, email string, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email && u.ID != id {
			return true, nil
		}
	}
	return false, m.fail
}

func (m *memStore) ListUsers(_ context.Context, params types.UserListParams) ([]db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []db.User{}
	for _, u := range m.users {
		if params.Role != "" && u.Role != params.Role {
			continue
		}
		if params.Search != "" && !strings.Contains(strings.ToLower(u.Name+" "+u.Email), strings.ToLower(params.Search)) {
			continue
		}
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, m.fail
}

func (m *memStore) ListCandidates(ctx context.Context, params types.UserListParams) ([]db.CandidateSummary, error) {
	params.Role = string(access.RoleCandidate)
	users, err := m.ListUsers(ctx, params)
	if err != nil {
		return nil, err
	}
	out := make([]db.CandidateSummary, 0, len(users))
	for _, u := range users {
		n, _ := m.CountInterviewsForUser(ctx, u.ID)
		out = append(out, db.CandidateSummary{User: u, InterviewCount: n})
	}
	return out, nil
}

func (m *memStore) UpdateUser(_ context.Context, id uuid.UUID, changes query.ChangeSet) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	if changes.Len() == 0 {
		return nil, query.ErrEmptyChangeSet
	}
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	for _, a := range changes.Assignments() {
		switch a.Column {
		case "name":
			u.Name = a.Value.(string)
		case "email":
			u.Email = a.Value.(string)
		case "role":
			u.Role = a.Value.(string)
		case "phone":
			u.Phone = strValue(a.Value)
		case "resume_url":
			u.ResumeURL = strValue(a.Value)
		case "current_position":
			u.CurrentPosition = strValue(a.Value)
		case "skills":
			u.Skills = strValue(a.Value)
		case "experience_years":
			u.ExperienceYears = intValue(a.Value)
		default:
			return nil, fmt.Errorf("unexpected column %q", a.Column)
		}
	}
	u.UpdatedAt = m.now()
	return copyUser(u), nil
}

func strValue(v any) *string {
	if v == nil {
		return nil
	}
	s := v.(string)
	return &s
}

func intValue(v any) *int {
	if v == nil {
		return nil
	}
	n := v.(int)
	return &n
}

func (m *memStore) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		u.PasswordHash = passwordHash
	}
	return m.fail
}

func (m *memStore) DeleteUser(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return false, m.fail
	}
	if _, ok := m.users[id]; !ok {
		return false, nil
	}
	for _, iv := range m.interviews {
		if iv.CandidateID == id {
			return false, fmt.Errorf("delete user: %w", db.ErrReferenced)
		}
	}
	delete(m.users, id)
	return true, nil
}

func (m *memStore) CountInterviewsForUser(_ context.Context, id uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, iv := range m.interviews {
		if iv.CandidateID == id {
			n++
		}
	}
	return n, m.fail
}

func (m *memStore) SetVerificationToken(_ context.Context, id uuid.UUID, tokenHash string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		u.VerificationTokenHash, u.VerificationExpiresAt = &tokenHash, &expiresAt
	}
	return m.fail
}

func (m *memStore) ConsumeVerificationToken(_ context.Context, tokenHash string) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.VerificationTokenHash != nil && *u.VerificationTokenHash == tokenHash &&
			u.VerificationExpiresAt != nil && u.VerificationExpiresAt.After(m.now()) {
			u.EmailVerified = true
			u.VerificationTokenHash, u.VerificationExpiresAt = nil, nil
			return copyUser(u), nil
		}
	}
	return nil, m.fail
}

func (m *memStore) SetResetToken(_ context.Context, id uuid.UUID, tokenHash string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		u.ResetTokenHash, u.ResetExpiresAt = &tokenHash, &expiresAt
	}
	return m.fail
}

func (m *memStore) ConsumeResetToken(_ context.Context, tokenHash, passwordHash string) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ResetTokenHash != nil && *u.ResetTokenHash == tokenHash &&
			u.ResetExpiresAt != nil && u.ResetExpiresAt.After(m.now()) {
			u.PasswordHash = passwordHash
			u.ResetTokenHash, u.ResetExpiresAt = nil, nil
			return copyUser(u), nil
		}
	}
	return nil, m.fail
}

func (m *memStore) withCandidate(iv *db.Interview) db.InterviewWithCandidate {
	out := db.InterviewWithCandidate{Interview: *iv}
	if u, ok := m.users[iv.CandidateID]; ok {
		out.CandidateName, out.CandidateEmail, out.CandidatePosition = u.Name, u.Email, u.CurrentPosition
	}
	return out
}

func (m *memStore) CreateInterview(_ context.Context, in *db.NewInterview) (*db.Interview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	if _, ok := m.users[in.CandidateID]; !ok {
		return nil, fmt.Errorf("insert interview: %w", db.ErrReferenced)
	}
	now := m.now()
	iv := &db.Interview{
		ID:                     uuid.New(),
		CandidateID:            in.CandidateID,
		CompanyName:            in.CompanyName,
		JobTitle:               in.JobTitle,
		ScheduledDate:          in.ScheduledDate,
		Duration:               in.Duration,
		Status:                 in.Status,
		Round:                  in.Round,
		InterviewType:          in.InterviewType,
		Location:               in.Location,
		Notes:                  in.Notes,
		CompanyWebsite:         in.CompanyWebsite,
		CompanyLinkedInURL:     in.CompanyLinkedInURL,
		OtherURLs:              in.OtherURLs,
		JobDescription:         in.JobDescription,
		SalaryRange:            in.SalaryRange,
		InterviewerName:        in.InterviewerName,
		InterviewerEmail:       in.InterviewerEmail,
		InterviewerPosition:    in.InterviewerPosition,
		InterviewerLinkedInURL: in.InterviewerLinkedInURL,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	m.interviews[iv.ID] = iv
	c := *iv
	return &c, nil
}

func (m *memStore) GetInterview(_ context.Context, scope query.Filter, id uuid.UUID) (*db.InterviewWithCandidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	iv, ok := m.interviews[id]
	if !ok || !inScope(scope, iv.CandidateID) {
		return nil, nil
	}
	out := m.withCandidate(iv)
	return &out, nil
}

func (m *memStore) ListInterviews(_ context.Context, scope query.Filter, params types.InterviewListParams) ([]db.InterviewWithCandidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	out := []db.InterviewWithCandidate{}
	for _, iv := range m.interviews {
		if !inScope(scope, iv.CandidateID) {
			continue
		}
		if params.Status != "" && iv.Status != params.Status {
			continue
		}
		if params.CompanyName != "" && !strings.Contains(strings.ToLower(iv.CompanyName), strings.ToLower(params.CompanyName)) {
			continue
		}
		out = append(out, m.withCandidate(iv))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) UpdateInterview(_ context.Context, scope query.Filter, id uuid.UUID, changes query.ChangeSet) (*db.Interview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	iv, ok := m.interviews[id]
	if !ok || !inScope(scope, iv.CandidateID) {
		return nil, nil
	}
	text := map[string]**string{
		"location": &iv.Location, "notes": &iv.Notes, "company_website": &iv.CompanyWebsite,
		"company_linkedin_url": &iv.CompanyLinkedInURL, "other_urls": &iv.OtherURLs,
		"job_description": &iv.JobDescription, "salary_range": &iv.SalaryRange,
		"interviewer_name": &iv.InterviewerName, "interviewer_email": &iv.InterviewerEmail,
		"interviewer_position": &iv.InterviewerPosition, "interviewer_linkedin_url": &iv.InterviewerLinkedInURL,
	}
	for _, a := range changes.Assignments() {
		switch a.Column {
		case "company_name":
			iv.CompanyName = a.Value.(string)
		case "job_title":
			iv.JobTitle = a.Value.(string)
		case "status":
			iv.Status = a.Value.(string)
		case "interview_type":
			iv.InterviewType = a.Value.(string)
		case "round":
			iv.Round = a.Value.(int)
		case "duration":
			iv.Duration = intValue(a.Value)
		case "scheduled_date":
			if a.Value == nil {
				iv.ScheduledDate = nil
			} else {
				t := a.Value.(types.DateTime).Time
				iv.ScheduledDate = &t
			}
		default:
			field, ok := text[a.Column]
			if !ok {
				return nil, fmt.Errorf("unexpected column %q", a.Column)
			}
			*field = strValue(a.Value)
		}
	}
	iv.UpdatedAt = m.now()
	c := *iv
	return &c, nil
}

func (m *memStore) DeleteInterview(_ context.Context, scope query.Filter, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return false, m.fail
	}
	iv, ok := m.interviews[id]
	if !ok || !inScope(scope, iv.CandidateID) {
		return false, nil
	}
	delete(m.interviews, id)
	for fid, fb := range m.feedback {
		if fb.InterviewID == id {
			delete(m.feedback, fid)
		}
	}
	return true, nil
}

func (m *memStore) GetFeedbackForInterview(_ context.Context, interviewID uuid.UUID) (*db.Feedback, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, fb := range m.feedback {
		if fb.InterviewID == interviewID {
			c := *fb
			return &c, nil
		}
	}
	return nil, m.fail
}

func (m *memStore) FeedbackExists(_ context.Context, interviewID, candidateID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, fb := range m.feedback {
		if fb.InterviewID == interviewID && fb.CandidateID == candidateID {
			return true, nil
		}
	}
	return false, m.fail
}

func (m *memStore) CreateFeedback(_ context.Context, f *db.NewFeedback) (*db.Feedback, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	if _, ok := m.users[f.CandidateID]; !ok {
		return nil, fmt.Errorf("insert feedback: %w", db.ErrReferenced)
	}
	for _, fb := range m.feedback {
		if fb.InterviewID == f.InterviewID && fb.CandidateID == f.CandidateID {
			return nil, fmt.Errorf("insert feedback: %w", db.ErrDuplicate)
		}
	}
	fb := &db.Feedback{
		ID:                  uuid.New(),
		InterviewID:         f.InterviewID,
		CandidateID:         f.CandidateID,
		TechnicalSkills:     f.TechnicalSkills,
		CommunicationSkills: f.CommunicationSkills,
		ProblemSolving:      f.ProblemSolving,
		CulturalFit:         f.CulturalFit,
		OverallRating:       f.OverallRating,
		FeedbackText:        f.FeedbackText,
		Recommendation:      f.Recommendation,
		ReceivedAt:          m.now(),
	}
	m.feedback[fb.ID] = fb
	if iv, ok := m.interviews[f.InterviewID]; ok {
		iv.Status = types.StatusCompleted
	}
	c := *fb
	return &c, nil
}

func (m *memStore) CountInterviews(_ context.Context, scope query.Filter) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, iv := range m.interviews {
		if inScope(scope, iv.CandidateID) {
			n++
		}
	}
	return n, m.fail
}

func (m *memStore) CountInterviewsByStatus(_ context.Context, scope query.Filter) ([]db.StatusCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := map[string]int{}
	for _, iv := range m.interviews {
		if inScope(scope, iv.CandidateID) {
			counts[iv.Status]++
		}
	}
	out := []db.StatusCount{}
	for status, n := range counts {
		out = append(out, db.StatusCount{Status: status, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Status < out[j].Status })
	return out, m.fail
}

func (m *memStore) countScheduled(scope query.Filter, match func(time.Time) bool) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, iv := range m.interviews {
		if inScope(scope, iv.CandidateID) && iv.Status == types.StatusScheduled &&
			iv.ScheduledDate != nil && match(*iv.ScheduledDate) {
			n++
		}
	}
	return n
}

func (m *memStore) CountUpcomingInterviews(_ context.Context, scope query.Filter) (int, error) {
	now := m.now()
	return m.countScheduled(scope, func(t time.Time) bool {
		return !t.Before(now) && !t.After(now.Add(7*24*time.Hour))
	}), m.fail
}

func (m *memStore) CountInterviewsToday(_ context.Context, scope query.Filter) (int, error) {
	y, mo, d := m.now().Date()
	return m.countScheduled(scope, func(t time.Time) bool {
		ty, tm, td := t.Date()
		return ty == y && tm == mo && td == d
	}), m.fail
}

func (m *memStore) CountRecentFeedback(_ context.Context, scope query.Filter) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := m.now().Add(-7 * 24 * time.Hour)
	n := 0
	for _, fb := range m.feedback {
		if inScope(scope, fb.CandidateID) && fb.ReceivedAt.After(cutoff) {
			n++
		}
	}
	return n, m.fail
}

func (m *memStore) CountUsers(_ context.Context, role string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, u := range m.users {
		if role == "" || u.Role == role {
			n++
		}
	}
	return n, m.fail
}

func (m *memStore) CandidatesByExperience(context.Context) ([]db.ExperienceBucket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := map[string]int{}
	for _, u := range m.users {
		if u.Role != string(access.RoleCandidate) || u.ExperienceYears == nil {
			continue
		}
		switch y := *u.ExperienceYears; {
		case y < 1:
			counts["Entry Level"]++
		case y < 3:
			counts["Junior"]++
		case y < 5:
			counts["Mid Level"]++
		default:
			counts["Senior"]++
		}
	}
	out := []db.ExperienceBucket{}
	for level, n := range counts {
		out = append(out, db.ExperienceBucket{Level: level, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Level < out[j].Level })
	return out, m.fail
}

func (m *memStore) RecentInterviews(_ context.Context, limit int) ([]db.InterviewWithCandidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []db.InterviewWithCandidate{}
	for _, iv := range m.interviews {
		out = append(out, m.withCandidate(iv))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, m.fail
}

func (m *memStore) RecentCandidates(_ context.Context, limit int) ([]db.RecentCandidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []db.RecentCandidate{}
	for _, u := range m.users {
		if u.Role != string(access.RoleCandidate) {
			continue
		}
		out = append(out, db.RecentCandidate{
			ID: u.ID, Name: u.Name, Email: u.Email, CurrentPosition: u.CurrentPosition,
			ExperienceYears: u.ExperienceYears, Skills: u.Skills, CreatedAt: u.CreatedAt,
		})
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, m.fail
}

// recordingSender captures the tokens it is asked to send.
type recordingSender struct {
	mu           sync.Mutex
	deliver      bool
	verification []string
	reset        []string
}

func (s *recordingSender) SendVerification(_ context.Context, _, _, token string) mail.Delivery {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.verification = append(s.verification, token)
	return s.delivery("/verify-email?token=" + token)
}

func (s *recordingSender) SendPasswordReset(_ context.Context, _, _, token string) mail.Delivery {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset = append(s.reset, token)
	return s.delivery("/reset-password?token=" + token)
}

func (s *recordingSender) delivery(path string) mail.Delivery {
	if s.deliver {
		return mail.Delivery{Delivered: true}
	}
	return mail.Delivery{FallbackURL: "http://localhost:3000" + path}
}

func (s *recordingSender) lastVerification() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.verification) == 0 {
		return ""
	}
	return s.verification[len(s.verification)-1]
}

func (s *recordingSender) lastReset() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.reset) == 0 {
		return ""
	}
	return s.reset[len(s.reset)-1]
}
