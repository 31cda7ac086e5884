package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"surgsim-platform/backend/internal/authz"
	"surgsim-platform/backend/internal/observe"
	surgeryservice "surgsim-platform/backend/internal/surgery/service"
)

// analysisRequest is the payload attaching analysis results to a surgery.
type analysisRequest struct {
	Score    *float64 `json:"score" validate:"required,gte=0,lte=100"`
	Feedback string   `json:"feedback" validate:"required"`
}

func (s *Server) handleGetTrajectory(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.authorize(w, r, authz.ActionReadTrajectory)
	if !ok {
		return
	}
	trajectory, err := s.surgeries.GetTrajectory(r.Context(), r.PathValue("id"), identity.UserID)
	if err != nil {
		s.writeSurgeryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trajectory)
}

func (s *Server) handleSaveAnalysis(w http.ResponseWriter, r *http.Request) {
	_, ok := s.authorize(w, r, authz.ActionWriteAnalysis)
	if !ok {
		return
	}
	var req analysisRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Feedback) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"feedback": "is required"})
		return
	}
	surgeryID := r.PathValue("id")
	if err := s.surgeries.SaveAnalysis(r.Context(), surgeryID, *req.Score, req.Feedback); err != nil {
		s.writeSurgeryError(w, err)
		return
	}
	observe.EmitAsync(s.emitter, observe.Event{
		Type:      observe.EventAnalysisSaved,
		SurgeryID: surgeryID,
		At:        time.Now().UTC(),
	})
	w.WriteHeader(http.StatusNoContent)
}

// writeSurgeryError maps surgery service errors to HTTP responses. Not-found
// echoes the requested id; ownership failures carry no resource detail.
func (s *Server) writeSurgeryError(w http.ResponseWriter, err error) {
	var notFound *surgeryservice.NotFoundError
	switch {
	case errors.As(err, &notFound):
		writeError(w, http.StatusNotFound, notFound.Error())
	case errors.Is(err, surgeryservice.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
