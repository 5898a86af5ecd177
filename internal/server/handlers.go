package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jonathan/interview-tracker/internal/access"
	"github.com/jonathan/interview-tracker/internal/schemas"
	"github.com/jonathan/interview-tracker/internal/server/middleware"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error   string `json:"error"`
	Kind    string `json:"kind"`
	Field   string `json:"field,omitempty"`
	Details string `json:"details,omitempty"`
}

// jsonResponse writes a JSON response
func jsonResponse(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode JSON response")
	}
}

// errorResponse writes err as a JSON error. Internal errors are logged and
// only described to the client when exposeDetails is set.
func errorResponse(w http.ResponseWriter, r *http.Request, err error, exposeDetails bool) {
	body := errorBody{
		Error: errorMessage(err),
		Kind:  Kind(err),
		Field: errorField(err),
	}
	if body.Kind == KindInternal {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		if exposeDetails {
			body.Details = err.Error()
		}
	}
	jsonResponse(w, r, HTTPStatus(err), body)
}

// fail writes err using the server's detail policy.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, err, s.cfg.IsDevelopment())
}

// decodeJSON reads a JSON body into dst.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return &ErrValidation{Message: fmt.Sprintf("invalid request body: %v", err)}
	}
	return nil
}

// decodePatch validates a change-set document against its schema before
// decoding it into dst.
func decodePatch(r *http.Request, schema schemas.Name, dst any) error {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return &ErrValidation{Message: "failed to read request body"}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return &ErrValidation{Message: "request body is required"}
	}
	if err := schemas.Validate(schema, raw); err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return &ErrValidation{Message: fmt.Sprintf("invalid request body: %v", err)}
	}
	return nil
}

// pathID parses a UUID route parameter.
func pathID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: name, Message: "must be a valid UUID"}
	}
	return id, nil
}

// callerFrom returns the authenticated caller or an unauthenticated error.
func callerFrom(r *http.Request) (access.Caller, error) {
	caller, ok := middleware.CallerFrom(r.Context())
	if !ok {
		return nil, &ErrUnauthenticated{Message: "access token required"}
	}
	return caller, nil
}

// handleHealth reports whether the database is reachable.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("health check failed")
		jsonResponse(w, r, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	jsonResponse(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
