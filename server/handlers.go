package server

import (
	"net/http"

	"github.com/teranos/kosyncd/errors"
	"github.com/teranos/kosyncd/kosync"
)

type createUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// handleCreateUser implements POST /users/create
func (s *SyncServer) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	// Policy first: a disabled server reports 3001 before looking at the
	// body, matching koreader-sync-server
	if s.svc.RegistrationDisabled() {
		writeError(w, http.StatusForbidden, "User registration disabled", codeRegistrationDisabled)
		return
	}

	if !s.registrationLimiter.allow(clientIP(r)) {
		writeError(w, http.StatusTooManyRequests, "Too many registration attempts", codeInternal)
		return
	}

	var req createUserRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusForbidden, "Invalid request", codeInvalidRequest)
		return
	}

	username, err := s.svc.Register(r.Context(), req.Username, req.Password)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, map[string]string{"username": username})
	case errors.Is(err, errors.ErrRegistrationDisabled):
		writeError(w, http.StatusForbidden, "User registration disabled", codeRegistrationDisabled)
	case errors.IsInvalidRequest(err):
		writeError(w, http.StatusForbidden, "Invalid request", codeInvalidRequest)
	case errors.Is(err, errors.ErrAlreadyRegistered):
		writeError(w, http.StatusPaymentRequired, "Username is already registered", codeAlreadyRegistered)
	default:
		s.requestLogger(r).Errorw("Registration failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error", codeInternal)
	}
}

// handleAuth implements GET /users/auth
func (s *SyncServer) handleAuth(w http.ResponseWriter, r *http.Request, _ string) {
	writeJSON(w, http.StatusOK, map[string]string{"authorized": "OK"})
}

// handlePush implements PUT /syncs/progress
func (s *SyncServer) handlePush(w http.ResponseWriter, r *http.Request, username string) {
	var req kosync.PushRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusForbidden, "Invalid request", codeInvalidRequest)
		return
	}

	document, timestamp, err := s.svc.Push(r.Context(), username, req)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"document":  document,
			"timestamp": timestamp,
		})
	case errors.Is(err, errors.ErrMissingField):
		writeError(w, http.StatusForbidden, "Field 'document' not provided.", codeMissingField)
	default:
		s.requestLogger(r).Errorw("Push failed", "username", username, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error", codeInternal)
	}
}

// handlePull implements GET /syncs/progress/{document}
func (s *SyncServer) handlePull(w http.ResponseWriter, r *http.Request, username string) {
	document := r.PathValue("document")

	state, err := s.svc.Pull(r.Context(), username, document)
	if err != nil {
		s.requestLogger(r).Errorw("Pull failed", "username", username, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error", codeInternal)
		return
	}
	writeJSON(w, http.StatusOK, state)
}
