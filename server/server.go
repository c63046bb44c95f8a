package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ace_content_engine/config"
	"ace_content_engine/generator"
	"ace_content_engine/render"
)

type Server struct {
	pipeline *generator.Pipeline
	cfg      config.Config
	store    *runStore
	logger   *zap.Logger
}

// runEntry 串行化同一个 run 上的操作。
type runEntry struct {
	mu  sync.Mutex
	run *generator.Run
}

type runStore struct {
	mu   sync.Mutex
	runs map[string]*runEntry
}

func newStore() *runStore {
	return &runStore{runs: make(map[string]*runEntry)}
}

func (s *runStore) put(id string, e *runEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[id] = e
}

func (s *runStore) get(id string) (*runEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.runs[id]
	return e, ok
}

func New(pipeline *generator.Pipeline, cfg config.Config, logger *zap.Logger) (*Server, error) {
	if pipeline == nil {
		return nil, errors.New("content pipeline required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		pipeline: pipeline,
		cfg:      cfg,
		store:    newStore(),
		logger:   logger,
	}, nil
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("POST /api/runs", s.handleRunCreate)
	mux.HandleFunc("GET /api/runs/{id}", s.withRun(s.handleRunGet))
	mux.HandleFunc("POST /api/runs/{id}/scan", s.withRun(s.handleRunScan))
	mux.HandleFunc("POST /api/runs/{id}/launch", s.withRun(s.handleRunLaunch))
	mux.HandleFunc("POST /api/runs/{id}/select", s.withRun(s.handleRunSelect))
	mux.HandleFunc("POST /api/runs/{id}/write", s.withRun(s.handleRunWrite))
	mux.HandleFunc("POST /api/runs/{id}/reset", s.withRun(s.handleRunReset))
	mux.HandleFunc("GET /api/runs/{id}/download", s.withRun(s.handleRunDownload))
	mux.HandleFunc("GET /api/runs/{id}/article.html", s.withRun(s.handleRunHTML))
	return s.logMiddleware(mux)
}

// --- Handlers ---

type runCreateReq struct {
	Niche    string `json:"niche"`
	Audience string `json:"audience"`
	Mode     string `json:"mode"`
}

type selectReq struct {
	Index *int   `json:"index,omitempty"`
	Idea  string `json:"idea,omitempty"`
}

type runResp struct {
	*generator.Run
	CoverURL string             `json:"cover_url,omitempty"`
	Summary  *generator.Summary `json:"summary,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRunCreate(w http.ResponseWriter, r *http.Request) {
	var req runCreateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.Niche) == "" {
		writeError(w, http.StatusBadRequest, errors.New("niche is required"))
		return
	}
	mode, err := generator.ParseMode(req.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	topic := generator.Topic{Niche: req.Niche, Audience: req.Audience}
	run := generator.NewRun(uuid.NewString(), topic, mode, s.pipeline)
	run.HaltOnError = s.cfg.Pipeline.HaltOnError
	entry := &runEntry{run: run}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	s.store.put(run.ID, entry)

	ctx, cancel := s.requestContext(r)
	defer cancel()
	if mode == generator.ModeAuto {
		err = run.Launch(ctx)
	} else {
		err = run.Scan(ctx)
	}
	if err != nil {
		s.stageFailed(w, run, err)
		return
	}
	s.logger.Info("run created", zap.String("run_id", run.ID), zap.String("mode", string(mode)), zap.String("step", string(run.Step)))
	writeJSON(w, http.StatusCreated, view(run))
}

func (s *Server) handleRunGet(w http.ResponseWriter, _ *http.Request, run *generator.Run) {
	writeJSON(w, http.StatusOK, view(run))
}

// handleRunScan 重新生成选题（手动模式，需先 reset）。
func (s *Server) handleRunScan(w http.ResponseWriter, r *http.Request, run *generator.Run) {
	ctx, cancel := s.requestContext(r)
	defer cancel()
	if err := run.Scan(ctx); err != nil {
		s.stageFailed(w, run, err)
		return
	}
	writeJSON(w, http.StatusOK, view(run))
}

func (s *Server) handleRunLaunch(w http.ResponseWriter, r *http.Request, run *generator.Run) {
	ctx, cancel := s.requestContext(r)
	defer cancel()
	if err := run.Launch(ctx); err != nil {
		s.stageFailed(w, run, err)
		return
	}
	writeJSON(w, http.StatusOK, view(run))
}

func (s *Server) handleRunSelect(w http.ResponseWriter, r *http.Request, run *generator.Run) {
	var req selectReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var err error
	switch {
	case req.Index != nil:
		err = run.Select(*req.Index)
	case req.Idea != "":
		err = run.SelectIdea(req.Idea)
	default:
		err = errors.New("index or idea is required")
	}
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, view(run))
}

func (s *Server) handleRunWrite(w http.ResponseWriter, r *http.Request, run *generator.Run) {
	ctx, cancel := s.requestContext(r)
	defer cancel()
	if err := run.Write(ctx); err != nil {
		s.stageFailed(w, run, err)
		return
	}
	writeJSON(w, http.StatusOK, view(run))
}

func (s *Server) handleRunReset(w http.ResponseWriter, _ *http.Request, run *generator.Run) {
	run.Reset()
	writeJSON(w, http.StatusOK, view(run))
}

func (s *Server) handleRunDownload(w http.ResponseWriter, _ *http.Request, run *generator.Run) {
	payload, err := run.Download()
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+generator.DownloadName+`"`)
	_, _ = w.Write([]byte(payload))
}

func (s *Server) handleRunHTML(w http.ResponseWriter, _ *http.Request, run *generator.Run) {
	payload, err := run.Download()
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	page, err := render.Document(run.Topic.Title(), payload)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(page))
}

// --- Helpers ---

type runHandler func(w http.ResponseWriter, r *http.Request, run *generator.Run)

func (s *Server) withRun(next runHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entry, ok := s.store.get(r.PathValue("id"))
		if !ok {
			writeError(w, http.StatusNotFound, errors.New("run not found"))
			return
		}
		entry.mu.Lock()
		defer entry.mu.Unlock()
		next(w, r, entry.run)
	}
}

func (s *Server) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	if s.cfg.Server.RequestTimeout > 0 {
		return context.WithTimeout(r.Context(), s.cfg.Server.RequestTimeout)
	}
	return context.WithCancel(r.Context())
}

func (s *Server) stageFailed(w http.ResponseWriter, run *generator.Run, err error) {
	s.logger.Warn("run halted", zap.String("run_id", run.ID), zap.Error(err))
	writeError(w, statusFor(err), err)
}

func view(run *generator.Run) runResp {
	resp := runResp{Run: run, CoverURL: generator.CoverImageURL(run.Topic.Niche)}
	if run.Article != "" {
		sum := generator.Summarize(run.Article)
		resp.Summary = &sum
	}
	return resp
}

func statusFor(err error) int {
	var stageErr *generator.StageError
	switch {
	case errors.Is(err, generator.ErrInvalidStep), errors.Is(err, generator.ErrNoIdeas):
		return http.StatusConflict
	case errors.As(err, &stageErr):
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)))
	})
}
