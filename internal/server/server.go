package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"daybrief/internal/agent"
	"daybrief/internal/config"
	"daybrief/internal/journal"
	"daybrief/internal/observability"
)

// Runner is the agent the server fronts: it resolves a prompt to a tool name
// and runs it.
type Runner interface {
	Resolve(prompt string) string
	Run(ctx context.Context, req agent.Request) (string, error)
}

type Server struct {
	cfg     *config.Config
	mux     *http.ServeMux
	runner  Runner
	journal *journal.Store // nil disables exchange recording
	log     *observability.Logger
}

func New(cfg *config.Config, runner Runner, store *journal.Store) *Server {
	s := &Server{
		cfg:     cfg,
		mux:     http.NewServeMux(),
		runner:  runner,
		journal: store,
		log:     observability.Component("server"),
	}
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("POST /agent", s.handleAgent)
	return s
}

// Handler returns the full middleware chain around the mux.
func (s *Server) Handler() http.Handler {
	return observability.RecoverMiddleware("server", observability.RequestIDMiddleware(s.mux))
}

func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.log.Info(nil, "daybrief listening", "addr", addr)
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":   true,
		"time": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleAgent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "read body failed"})
		return
	}

	var req agent.Request
	if err := json.Unmarshal(body, &req); err != nil {
		s.log.Warn(r.Context(), "agent request bad json", observability.AttrErr(err))
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "bad json"})
		return
	}

	start := time.Now()
	result, err := s.runner.Run(r.Context(), req)
	if err != nil {
		s.log.Error(r.Context(), "agent run failed", observability.AttrErr(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}

	s.record(r.Context(), req.Prompt, result, time.Since(start))
	writeJSON(w, http.StatusOK, map[string]any{"result": result})
}

// record appends the exchange to the journal. Journal failures are logged,
// never surfaced: the caller already has their answer.
func (s *Server) record(ctx context.Context, prompt, result string, took time.Duration) {
	if s.journal == nil {
		return
	}
	err := s.journal.Append([]journal.Exchange{{
		Prompt:     prompt,
		Tool:       s.runner.Resolve(prompt),
		Result:     result,
		DurationMS: took.Milliseconds(),
	}})
	if err != nil {
		s.log.Warn(ctx, "journal append failed", observability.AttrErr(err))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
