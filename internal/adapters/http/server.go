// Package http serves the macro engine over a JSON REST API.
package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/remaclabs/remac"
	"github.com/remaclabs/remac/pkg/domain"
	"github.com/remaclabs/remac/pkg/player"
	"github.com/remaclabs/remac/pkg/ports"
)

// Server exposes the engine over HTTP.
type Server struct {
	engine *remac.Engine
	logger *slog.Logger
}

// NewHandler creates the HTTP handler for the engine.
func NewHandler(engine *remac.Engine, logger *slog.Logger) http.Handler {
	s := &Server{engine: engine, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/macros", func(r chi.Router) {
		r.Get("/", s.handleListMacros)
		r.Post("/", s.handleSaveMacro)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetMacro)
			r.Delete("/", s.handleDeleteMacro)
			r.Get("/analysis", s.handleAnalysis)
			r.Get("/tool", s.handleTool)
			r.Post("/play", s.handlePlay)
		})
	})

	r.Route("/recordings", func(r chi.Router) {
		r.Post("/", s.handleStartRecording)
		r.Get("/active", s.handleActiveRecording)
		r.Post("/active/calls", s.handleRecordCall)
		r.Post("/active/stop", s.handleStopRecording)
		r.Delete("/active", s.handleDiscardRecording)
	})

	return r
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrRecordingNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrRecordingActive),
		errors.Is(err, domain.ErrNoActiveRecording):
		status = http.StatusConflict
	default:
		if len(domain.ValidationErrors(err)) > 0 {
			status = http.StatusUnprocessableEntity
		}
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": strings.TrimSpace(remac.Version),
	})
}

func (s *Server) handleListMacros(w http.ResponseWriter, r *http.Request) {
	q := ports.Query{
		Name:     r.URL.Query().Get("name"),
		Category: r.URL.Query().Get("category"),
	}
	if tags := r.URL.Query().Get("tags"); tags != "" {
		for _, tag := range strings.Split(tags, ",") {
			q.Tags = append(q.Tags, strings.TrimSpace(tag))
		}
	}

	recs, err := s.engine.SearchMacros(r.Context(), q)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if recs == nil {
		recs = []*domain.Recording{}
	}
	s.writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleSaveMacro(w http.ResponseWriter, r *http.Request) {
	var rec domain.Recording
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := rec.Validate(); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.engine.SaveMacro(r.Context(), &rec); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, &rec)
}

func (s *Server) handleGetMacro(w http.ResponseWriter, r *http.Request) {
	rec, err := s.engine.Macro(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteMacro(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.DeleteMacro(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	analysis, err := s.engine.Analyze(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, analysis)
}

func (s *Server) handleTool(w http.ResponseWriter, r *http.Request) {
	def, err := s.engine.GenerateTool(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, def)
}

// PlayRequest is the body accepted by POST /macros/{id}/play.
type PlayRequest struct {
	Params      map[string]any    `json:"params,omitempty"`
	Expressions map[string]string `json:"expressions,omitempty"`
	DryRun      bool              `json:"dry_run,omitempty"`
	StopOnError bool              `json:"stop_on_error,omitempty"`
}

// PlayResponse summarizes a playback run.
type PlayResponse struct {
	MacroID string           `json:"macro_id"`
	DryRun  bool             `json:"dry_run"`
	Failed  int              `json:"failed"`
	Results []PlayCallResult `json:"results"`
}

// PlayCallResult is one call's outcome.
type PlayCallResult struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Status      int    `json:"status,omitempty"`
	Error       string `json:"error,omitempty"`
	FailedToken string `json:"failed_token,omitempty"`
	DurationMS  int64  `json:"duration_ms,omitempty"`
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body PlayRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
	}

	results, err := s.engine.Play(r.Context(), id, player.Options{
		Params:      body.Params,
		Expressions: body.Expressions,
		DryRun:      body.DryRun,
		StopOnError: body.StopOnError,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := PlayResponse{MacroID: id, DryRun: body.DryRun, Results: []PlayCallResult{}}
	for _, res := range results {
		cr := PlayCallResult{
			Method:      string(res.Call.Method),
			Path:        res.Call.Path,
			Error:       res.Error,
			FailedToken: res.FailedToken,
			DurationMS:  res.Duration.Milliseconds(),
		}
		if res.Response != nil {
			cr.Status = res.Response.Status
		}
		if res.Failed() {
			resp.Failed++
		}
		resp.Results = append(resp.Results, cr)
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// StartRecordingRequest is the body accepted by POST /recordings.
type StartRecordingRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func (s *Server) handleStartRecording(w http.ResponseWriter, r *http.Request) {
	var body StartRecordingRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	id, err := s.engine.StartRecording(body.Name, body.Description)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleActiveRecording(w http.ResponseWriter, r *http.Request) {
	id, active := s.engine.ActiveRecording()
	s.writeJSON(w, http.StatusOK, map[string]any{"id": id, "active": active})
}

func (s *Server) handleRecordCall(w http.ResponseWriter, r *http.Request) {
	if _, active := s.engine.ActiveRecording(); !active {
		s.writeError(w, domain.ErrNoActiveRecording)
		return
	}

	var call domain.Call
	if err := json.NewDecoder(r.Body).Decode(&call); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if !call.Method.Valid() {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid method"})
		return
	}

	s.engine.RecordCall(call)
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleStopRecording(w http.ResponseWriter, r *http.Request) {
	rec, err := s.engine.StopRecording(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDiscardRecording(w http.ResponseWriter, r *http.Request) {
	s.engine.DiscardRecording()
	w.WriteHeader(http.StatusNoContent)
}
