package server

import (
	"net/http"

	"github.com/jonathan/interview-tracker/internal/schemas"
	"github.com/jonathan/interview-tracker/internal/types"
)

// ---------------------------------------------------------------------
// Interview Handlers
// ---------------------------------------------------------------------

func interviewListParams(r *http.Request) types.InterviewListParams {
	q := r.URL.Query()
	return types.InterviewListParams{
		Status:      q.Get("status"),
		CompanyName: q.Get("company_name"),
		JobTitle:    q.Get("job_title"),
		Search:      q.Get("search"),
	}
}

func (s *Server) handleListInterviews(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	interviews, err := s.interviews.List(r.Context(), caller, interviewListParams(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	jsonResponse(w, r, http.StatusOK, map[string]any{"interviews": interviews})
}

func (s *Server) handleGetInterview(w http.ResponseWriter, r *http.Request) {
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

	interview, err := s.interviews.Get(r.Context(), caller, id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	jsonResponse(w, r, http.StatusOK, map[string]any{"interview": interview})
}

func (s *Server) handleCreateInterview(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var req types.CreateInterviewRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	interview, err := s.interviews.Create(r.Context(), caller, &req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	jsonResponse(w, r, http.StatusCreated, map[string]any{
		"message":   "Interview scheduled successfully",
		"interview": interview,
	})
}

func (s *Server) handleUpdateInterview(w http.ResponseWriter, r *http.Request) {
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

	var req types.UpdateInterviewRequest
	if err := decodePatch(r, schemas.InterviewUpdate, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	interview, err := s.interviews.Update(r.Context(), caller, id, &req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	jsonResponse(w, r, http.StatusOK, map[string]any{
		"message":   "Interview updated successfully",
		"interview": interview,
	})
}

func (s *Server) handleDeleteInterview(w http.ResponseWriter, r *http.Request) {
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

	if err := s.interviews.Delete(r.Context(), caller, id); err != nil {
		s.fail(w, r, err)
		return
	}
	jsonResponse(w, r, http.StatusOK, map[string]string{"message": "Interview deleted successfully"})
}

func (s *Server) handleCreateFeedback(w http.ResponseWriter, r *http.Request) {
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

	var req types.CreateFeedbackRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	feedback, err := s.interviews.CreateFeedback(r.Context(), caller, id, &req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	jsonResponse(w, r, http.StatusCreated, map[string]any{
		"message":  "Feedback received successfully",
		"feedback": feedback,
	})
}
