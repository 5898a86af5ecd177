package server

import (
	"net/http"

	"github.com/jonathan/interview-tracker/internal/types"
)

// ---------------------------------------------------------------------
// Admin Handlers
// ---------------------------------------------------------------------

func (s *Server) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	candidates, err := s.admin.ListCandidates(r.Context(), caller, r.URL.Query().Get("search"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	jsonResponse(w, r, http.StatusOK, map[string]any{"candidates": candidates})
}

func (s *Server) handleUpdateRole(w http.ResponseWriter, r *http.Request) {
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

	var req types.UpdateRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	user, err := s.admin.UpdateRole(r.Context(), caller, id, &req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	jsonResponse(w, r, http.StatusOK, map[string]any{
		"message": "User role updated successfully",
		"user":    user,
	})
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
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

	if err := s.admin.DeleteUser(r.Context(), caller, id); err != nil {
		s.fail(w, r, err)
		return
	}
	jsonResponse(w, r, http.StatusOK, map[string]string{"message": "User deleted successfully"})
}

func (s *Server) handleAdminInterviews(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	q := r.URL.Query()
	params := types.InterviewListParams{Status: q.Get("status"), Search: q.Get("search")}
	interviews, err := s.interviews.ListAll(r.Context(), caller, params)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	jsonResponse(w, r, http.StatusOK, map[string]any{"interviews": interviews})
}

func (s *Server) handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	dashboard, err := s.dashboards.Admin(r.Context(), caller)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	jsonResponse(w, r, http.StatusOK, dashboard)
}
