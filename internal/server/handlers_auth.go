package server

import (
	"errors"
	"net/http"
	"time"

	"surgsim-platform/backend/internal/observe"
	userservice "surgsim-platform/backend/internal/user/service"
)

// credentialsRequest is the shared register/login payload.
type credentialsRequest struct {
	Username string `json:"username" validate:"required,min=4,max=50"`
	Password string `json:"password" validate:"required,min=6,max=100"`
}

// authResponse is returned on successful login.
type authResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Message  string `json:"message"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	if _, err := s.auth.Register(r.Context(), req.Username, req.Password); err != nil {
		if errors.Is(err, userservice.ErrUserAlreadyExists) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "user registered"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	result, err := s.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, userservice.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid username or password")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	observe.EmitAsync(s.emitter, observe.Event{
		Type:   observe.EventUserLoggedIn,
		UserID: result.UserID,
		At:     time.Now().UTC(),
	})
	writeJSON(w, http.StatusOK, authResponse{
		Token:    result.Token,
		UserID:   result.UserID,
		Username: result.Username,
		Message:  "login successful",
	})
}
