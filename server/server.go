package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"novel_tweet_copywriter/client"
	"novel_tweet_copywriter/export"
	"novel_tweet_copywriter/form"
	"novel_tweet_copywriter/generator"
	"novel_tweet_copywriter/ui"
)

const (
	maxBodyBytes = 1 << 20
	// 给网关留一点余量，保证超时先在这里触发并返回 504。
	defaultGenerateTimeout = 110 * time.Second
)

type Config struct {
	Agent      *generator.Agent
	Controller *ui.Controller
	Hub        *Hub

	GenerateTimeout time.Duration
	RateInterval    time.Duration
	RateBurst       int

	// BaseContext outlives single requests; page-triggered generations run under it.
	BaseContext context.Context

	Logger  *log.Logger
	Verbose bool
}

type Server struct {
	agent   *generator.Agent
	ctrl    *ui.Controller
	hub     *Hub
	limiter *rate.Limiter
	flight  singleflight.Group

	generateTimeout time.Duration
	baseCtx         context.Context

	logger  *log.Logger
	verbose bool
}

func New(cfg Config) (*Server, error) {
	if cfg.Agent == nil {
		return nil, errors.New("generator agent required")
	}
	if (cfg.Controller == nil) != (cfg.Hub == nil) {
		return nil, errors.New("controller and hub must be set together")
	}
	s := &Server{
		agent:           cfg.Agent,
		ctrl:            cfg.Controller,
		hub:             cfg.Hub,
		generateTimeout: cfg.GenerateTimeout,
		baseCtx:         cfg.BaseContext,
		logger:          cfg.Logger,
		verbose:         cfg.Verbose,
	}
	if s.generateTimeout <= 0 {
		s.generateTimeout = defaultGenerateTimeout
	}
	if s.baseCtx == nil {
		s.baseCtx = context.Background()
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	limit := rate.Inf
	if cfg.RateInterval > 0 {
		limit = rate.Every(cfg.RateInterval)
	}
	burst := cfg.RateBurst
	if burst < 1 {
		burst = 1
	}
	s.limiter = rate.NewLimiter(limit, burst)
	return s, nil
}

func (s *Server) infof(format string, args ...interface{}) {
	if !s.verbose {
		return
	}
	s.logger.Printf("[INFO] "+format, args...)
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /generate", s.handleGenerate)
	if s.ctrl != nil {
		mux.HandleFunc("GET /{$}", s.handleIndex)
		mux.HandleFunc("GET /ui/events", EventsHandler(s.hub))
		mux.HandleFunc("POST /ui/submit", s.handleSubmit)
		mux.HandleFunc("POST /ui/key", s.handleKey)
		mux.HandleFunc("POST /ui/copy", s.handleCopy)
		mux.HandleFunc("GET /ui/download", s.handleDownload)
	}
	return s.logMiddleware(mux)
}

// --- Generation API ---

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generator.Request
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, generator.Response{Error: "invalid JSON body: " + err.Error()})
		return
	}
	if _, ok := generator.LookupStyle(req.Style); !ok {
		writeJSON(w, http.StatusBadRequest, generator.Response{Error: fmt.Sprintf("unknown style %q", req.Style)})
		return
	}
	if req.Count < generator.MinCount || req.Count > generator.MaxCount {
		writeJSON(w, http.StatusBadRequest, generator.Response{
			Error: fmt.Sprintf("count1 must be between %d and %d", generator.MinCount, generator.MaxCount),
		})
		return
	}

	// Shared by every caller of the same key, so one disconnect must not cancel it.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), s.generateTimeout)
	defer cancel()

	key := fmt.Sprintf("%s:%d", req.Style, req.Count)
	v, err, shared := s.flight.Do(key, func() (interface{}, error) {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		return s.agent.Generate(ctx, req)
	})
	if shared {
		s.infof("generate %s shared an in-flight call", key)
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			writeJSON(w, http.StatusGatewayTimeout, generator.Response{Error: "generation timed out"})
			return
		}
		s.logger.Printf("[server] generate %s: %v", key, err)
		writeJSON(w, http.StatusOK, generator.Response{Error: err.Error()})
		return
	}
	res, ok := v.(generator.Result)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, generator.Response{Error: fmt.Sprintf("unexpected result type %T", v)})
		return
	}
	writeJSON(w, http.StatusOK, generator.Response{Success: true, Result: res})
}

// --- Page ---

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := IndexPageData{
		Styles:   generator.Styles(),
		MinCount: generator.MinCount,
		MaxCount: generator.MaxCount,
	}
	if f, ok, err := s.ctrl.CurrentFragments(); err != nil {
		s.logger.Printf("[server] render current result: %v", err)
	} else if ok {
		data.Result = &f
	}
	page, err := RenderIndexHTML(data)
	if err != nil {
		s.logger.Printf("[server] render index page: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(page)
}

type apiResp struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, apiResp{Error: err.Error()})
		return
	}
	if _, err := s.ctrl.Start(s.baseCtx, r.PostForm); err != nil {
		writeJSON(w, statusFor(err), apiResp{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusAccepted, apiResp{OK: true})
}

type keyReq struct {
	Key         string            `json:"key"`
	Ctrl        bool              `json:"ctrl"`
	Meta        bool              `json:"meta"`
	InTextInput bool              `json:"inTextInput"`
	Form        map[string]string `json:"form"`
}

func (s *Server) handleKey(w http.ResponseWriter, r *http.Request) {
	var req keyReq
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiResp{Error: err.Error()})
		return
	}
	ev := ui.KeyEvent{Key: req.Key, Ctrl: req.Ctrl, Meta: req.Meta, InTextInput: req.InTextInput}
	if req.Form != nil {
		values := url.Values{}
		for k, v := range req.Form {
			values.Set(k, v)
		}
		ev.Form = values
	}
	handled := s.ctrl.HandleKey(s.baseCtx, ev)
	writeJSON(w, http.StatusOK, map[string]bool{"handled": handled})
}

func (s *Server) handleCopy(w http.ResponseWriter, r *http.Request) {
	if err := s.ctrl.CopyAll(); err != nil {
		writeJSON(w, statusFor(err), apiResp{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, apiResp{OK: true})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	art, err := s.ctrl.Download()
	if err != nil {
		writeJSON(w, statusFor(err), apiResp{Error: err.Error()})
		return
	}
	w.Header().Set("Content-Type", art.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": art.Name}))
	w.Header().Set("X-Filename", url.PathEscape(art.Name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(art.Content)
}

// --- Helpers ---

func statusFor(err error) int {
	var verr *form.ValidationError
	var cerr *export.ClipboardError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, ui.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, export.ErrNoResult):
		return http.StatusNotFound
	case errors.As(err, &cerr):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps SSE working through the middleware.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		if r.URL.Path == "/ui/events" && !s.verbose {
			return
		}
		s.logger.Printf("[http] %s %s %d %s request_id=%s",
			r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Millisecond), r.Header.Get(client.RequestIDHeader))
	})
}
