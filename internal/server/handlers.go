package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/cv-tailor/internal/workflow"
)

const maxBodyBytes = 1 << 20

type startRequest struct {
	URL string `json:"url"`
	CV  string `json:"cv"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	page, err := static.ReadFile("static/index.html")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "page is not available")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.controller.State())
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.URL) == "" || strings.TrimSpace(req.CV) == "" {
		writeError(w, http.StatusBadRequest, "both url and cv are required")
		return
	}

	runCtx, ok := s.acquireRun()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "server is shutting down")
		return
	}

	done, err := s.controller.StartAsync(runCtx, req.URL, req.CV)
	if err != nil {
		s.runs.Done()
		if errors.Is(err, workflow.ErrInvalidTransition) {
			writeError(w, http.StatusConflict, "a workflow is already running or finished; reset it first")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	go func() {
		defer s.runs.Done()
		state := <-done
		s.logger.Info("workflow finished", zap.String("run_id", state.RunID), zap.String("status", string(state.Status)))
	}()

	writeJSON(w, http.StatusAccepted, s.controller.State())
}

func (s *Server) handleReset(w http.ResponseWriter, _ *http.Request) {
	if err := s.controller.Reset(); err != nil {
		if errors.Is(err, workflow.ErrInvalidTransition) {
			writeError(w, http.StatusConflict, "cannot reset while a workflow is running")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, s.controller.State())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
