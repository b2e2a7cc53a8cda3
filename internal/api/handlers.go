package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/terra-clan/jury-engine/internal/grading"
	"github.com/terra-clan/jury-engine/internal/grid"
	"github.com/terra-clan/jury-engine/internal/models"
	"github.com/terra-clan/jury-engine/internal/report"
)

// Response helpers

type apiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *apiError   `json:"error,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Success: false,
		Error: &apiError{
			Code:    code,
			Message: message,
		},
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

// respondReportError maps report failures to HTTP statuses
func respondReportError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, report.ErrJuryNotFound):
		respondError(w, http.StatusNotFound, "jury_not_found", "jury not found")
	case errors.Is(err, grading.ErrNoUnits):
		respondError(w, http.StatusNotFound, "semester_not_found", "no units for this semester")
	case errors.Is(err, report.ErrNoStudents):
		respondError(w, http.StatusNotFound, "no_students", "no students enrolled for this semester")
	case errors.Is(err, models.ErrUnknownSession):
		respondError(w, http.StatusBadRequest, "invalid_session", err.Error())
	default:
		slog.Error("report failed",
			"error", err,
			"path", r.URL.Path,
		)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to build report")
	}
}

// Health handlers

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	statuses, ready := s.registry.HealthCheckAll(r.Context())
	if !ready {
		for _, st := range statuses {
			if !st.Healthy {
				slog.Warn("dependency not ready", "name", st.Name, "error", st.Error)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(apiResponse{
			Success: false,
			Data:    map[string]any{"status": "not_ready", "dependencies": statuses},
			Error:   &apiError{Code: "not_ready", Message: "service not ready"},
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"status":       "ready",
		"dependencies": statuses,
	})
}

// Jury handlers

type gridRequest struct {
	JuryID   int64  `validate:"required,gt=0"`
	Session  string `validate:"required,max=16"`
	Semester string `validate:"required,alphanum,max=16"`
}

type juryResponse struct {
	JuryID     int64               `json:"jury_id"`
	Promotions []*models.Promotion `json:"promotions"`
	Unplaced   []*models.Unit      `json:"unplaced,omitempty"`
}

type gridRowsResponse struct {
	BuildID   string           `json:"build_id"`
	JuryID    int64            `json:"jury_id"`
	Semester  string           `json:"semester"`
	Session   string           `json:"session"`
	Positions int              `json:"positions"`
	Rows      []map[string]any `json:"rows"`
}

func parseJuryID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func (s *Server) handleGetJury(w http.ResponseWriter, r *http.Request) {
	juryID, ok := parseJuryID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_request", "jury id must be a positive integer")
		return
	}

	h, err := s.reports.JuryHierarchy(r.Context(), juryID)
	if err != nil {
		respondReportError(w, r, err)
		return
	}

	promotions := h.WithUnits()
	if promotions == nil {
		promotions = []*models.Promotion{}
	}

	respondJSON(w, http.StatusOK, juryResponse{
		JuryID:     juryID,
		Promotions: promotions,
		Unplaced:   h.Unplaced(),
	})
}

// gridParams validates the grid route parameters
func (s *Server) gridParams(w http.ResponseWriter, r *http.Request) (int64, models.SessionType, string, bool) {
	juryID, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	req := gridRequest{
		JuryID:   juryID,
		Session:  chi.URLParam(r, "session"),
		Semester: chi.URLParam(r, "semester"),
	}

	if err := s.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", err.Error())
		return 0, "", "", false
	}

	session, err := models.ParseSessionType(req.Session)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_session", err.Error())
		return 0, "", "", false
	}

	return req.JuryID, session, req.Semester, true
}

func (s *Server) handleDownloadGrid(w http.ResponseWriter, r *http.Request) {
	juryID, session, semester, ok := s.gridParams(w, r)
	if !ok {
		return
	}

	g, err := s.reports.BuildGrid(r.Context(), juryID, session, semester)
	if err != nil {
		respondReportError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := g.Document.WriteXLSX(&buf); err != nil {
		slog.Error("failed to write grid", "error", err, "build_id", g.BuildID)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to write grid")
		return
	}

	w.Header().Set("Content-Type", grid.ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+grid.Filename(juryID))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("X-Build-ID", g.BuildID)
	w.WriteHeader(http.StatusOK)

	if _, err := buf.WriteTo(w); err != nil {
		slog.Warn("failed to send grid", "error", err, "build_id", g.BuildID)
	}
}

func (s *Server) handleGridRows(w http.ResponseWriter, r *http.Request) {
	juryID, session, semester, ok := s.gridParams(w, r)
	if !ok {
		return
	}

	g, err := s.reports.BuildGrid(r.Context(), juryID, session, semester)
	if err != nil {
		respondReportError(w, r, err)
		return
	}

	rows, err := g.Records()
	if err != nil {
		respondReportError(w, r, err)
		return
	}

	w.Header().Set("X-Build-ID", g.BuildID)
	respondJSON(w, http.StatusOK, gridRowsResponse{
		BuildID:   g.BuildID,
		JuryID:    juryID,
		Semester:  semester,
		Session:   string(session),
		Positions: g.Layout.Len(),
		Rows:      rows,
	})
}
