package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/evolute-studio/evolute-dojo-server-sub001/internal/config"
	"github.com/evolute-studio/evolute-dojo-server-sub001/internal/profile"
	"github.com/gorilla/mux"
)

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

type profileResponse struct {
	Profile profile.Profile `json:"profile"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleList(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.profiles.List())
}

func (s *Server) handleActive(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, profileResponse{Profile: s.profiles.Active().Redact()})
}

// handleGet redacts at the boundary; the unredacted record stays in-process.
func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	p, err := s.profiles.Get(mux.Vars(r)["id"])
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{Profile: p.Redact()})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var f profile.Fields
	if !decodeBody(w, r, &f) {
		return
	}
	p, err := s.profiles.Create(f)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{Profile: p})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id == profile.DefaultID {
		s.writeServiceError(w, profile.ErrForbidden)
		return
	}
	var f profile.Fields
	if !decodeBody(w, r, &f) {
		return
	}
	p, err := s.profiles.Update(id, f)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{Profile: p})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.profiles.Delete(id); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "id": id})
}

func (s *Server) handleActivate(w http.ResponseWriter, r *http.Request) {
	p, err := s.profiles.Activate(mux.Vars(r)["id"])
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{Profile: p})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	p, err := s.profiles.Get(mux.Vars(r)["id"])
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	ep, err := s.probe(r.Context(), p.RPCURL, config.RPCProbeTimeout)
	if err != nil {
		s.log.Debug("rpc probe failed", "profile", p.ID, "url", p.RPCURL, "error", err)
	}
	writeJSON(w, http.StatusOK, ep)
}

// writeServiceError maps the profile error taxonomy onto status codes.
// Anything outside it is an unexpected storage failure.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	var ve *profile.ValidationError
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, ve.Error(), ve.Field)
	case errors.Is(err, profile.ErrForbidden):
		writeError(w, http.StatusForbidden, "cannot modify the default profile", "")
	case errors.Is(err, profile.ErrNotFound):
		writeError(w, http.StatusNotFound, "profile not found", "")
	default:
		s.log.Error("profile operation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error", "")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err), "")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg, field string) {
	writeJSON(w, status, errorResponse{Error: msg, Field: field})
}
