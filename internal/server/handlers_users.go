package server

import (
	"net/http"

	"github.com/jonathan/interview-tracker/internal/schemas"
	"github.com/jonathan/interview-tracker/internal/types"
)

// ---------------------------------------------------------------------
// User Handlers
// ---------------------------------------------------------------------

func userListParams(r *http.Request) types.UserListParams {
	q := r.URL.Query()
	return types.UserListParams{Role: q.Get("role"), Search: q.Get("search")}
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	users, err := s.admin.ListUsers(r.Context(), caller, userListParams(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	jsonResponse(w, r, http.StatusOK, map[string]any{"users": users})
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	detail, err := s.admin.GetUser(r.Context(), caller, id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	jsonResponse(w, r, http.StatusOK, map[string]any{"user": detail})
}

func (s *Server) handleMyInterviews(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	params := types.InterviewListParams{Status: r.URL.Query().Get("status")}
	interviews, err := s.interviews.ListOwn(r.Context(), caller, params)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	jsonResponse(w, r, http.StatusOK, map[string]any{"interviews": interviews})
}

func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var req types.UpdateProfileRequest
	if err := decodePatch(r, schemas.ProfileUpdate, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	user, err := s.users.UpdateProfile(r.Context(), caller, &req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	jsonResponse(w, r, http.StatusOK, map[string]any{
		"message": "Profile updated successfully",
		"user":    user,
	})
}

func (s *Server) handleMyDashboard(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	stats, err := s.dashboards.Candidate(r.Context(), caller)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	jsonResponse(w, r, http.StatusOK, map[string]any{"stats": stats})
}
