// Package server exposes artwork previews over HTTP.
//
// Routes:
//
//	GET /healthz                    liveness check
//	GET /modes                      modes and palettes as JSON
//	GET /preview/{mode}/{seed}.jpg  JPEG preview
//
// The preview route accepts the query parameters index, width, palette,
// title and subtitle. Responses carry X-Cache: HIT or MISS. Previews for
// identical parameters are byte-identical, so they are served with a
// strong ETag and a long Cache-Control max-age.
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/zenposter/pkg/buildinfo"
	"github.com/matzehuels/zenposter/pkg/cache"
	"github.com/matzehuels/zenposter/pkg/errors"
	"github.com/matzehuels/zenposter/pkg/observability"
	"github.com/matzehuels/zenposter/pkg/pipeline"
	"github.com/matzehuels/zenposter/pkg/scene"
)

// Previewer renders cached previews. *pipeline.Runner implements it.
//
// PreviewKey must change whenever the rendered bytes would, since responses
// are validated by an ETag derived from it.
type Previewer interface {
	PreviewKey(opts pipeline.PreviewOptions) (string, error)
	RenderPreviewWithCacheInfo(ctx context.Context, opts pipeline.PreviewOptions) ([]byte, bool, error)
}

// Server serves previews from a Previewer over a mode registry.
type Server struct {
	previews Previewer
	registry *scene.Registry
	logger   *log.Logger
	timeout  time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option { return func(s *Server) { s.logger = l } }

// WithTimeout bounds each preview render. Zero disables the bound.
func WithTimeout(d time.Duration) Option { return func(s *Server) { s.timeout = d } }

// New creates a server.
func New(p Previewer, reg *scene.Registry, opts ...Option) *Server {
	s := &Server{
		previews: p,
		registry: reg,
		logger:   log.Default(),
		timeout:  30 * time.Second,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/modes", s.handleModes)
	r.Get("/preview/{mode}/{seed}.jpg", s.handlePreview)
	return r
}

// observe logs each request and reports it to the HTTP hooks.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		d := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, d)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", status,
			"bytes", ww.BytesWritten(), "duration", d, "id", middleware.GetReqID(r.Context()))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "ok")
}

// ModeInfo is the JSON shape of one mode.
type ModeInfo struct {
	ID         int      `json:"id"`
	Slug       string   `json:"slug"`
	Name       string   `json:"name"`
	Background string   `json:"background"`
	Palette    string   `json:"palette"`
	Colors     []string `json:"colors"`
}

// ModesResponse is the body of GET /modes.
type ModesResponse struct {
	Modes    []ModeInfo          `json:"modes"`
	Palettes map[string][]string `json:"palettes"`
}

func (s *Server) handleModes(w http.ResponseWriter, r *http.Request) {
	resp := ModesResponse{Palettes: make(map[string][]string)}
	for _, name := range s.registry.PaletteNames() {
		if p, err := s.registry.Palette(name); err == nil {
			resp.Palettes[name] = p.Hexes()
		}
	}
	for _, m := range s.registry.Modes() {
		resp.Modes = append(resp.Modes, ModeInfo{
			ID:         int(m.ID),
			Slug:       m.ID.String(),
			Name:       m.Name,
			Background: s.registry.Background(m.ID).Hex(),
			Palette:    m.Palette,
			Colors:     resp.Palettes[m.Palette],
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	opts, err := s.previewOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	key, err := s.previews.PreviewKey(opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	etag := previewETag(key)
	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	ctx := r.Context()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	data, hit, err := s.previews.RenderPreviewWithCacheInfo(ctx, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	h := w.Header()
	h.Set("Content-Type", "image/jpeg")
	h.Set("Content-Length", strconv.Itoa(len(data)))
	h.Set("Cache-Control", "public, max-age=86400")
	h.Set("ETag", etag)
	if hit {
		h.Set("X-Cache", "HIT")
	} else {
		h.Set("X-Cache", "MISS")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// previewOptions parses path and query parameters.
func (s *Server) previewOptions(r *http.Request) (pipeline.PreviewOptions, error) {
	id, err := scene.ParseModeID(chi.URLParam(r, "mode"))
	if err != nil {
		return pipeline.PreviewOptions{}, err
	}
	seed, err := strconv.ParseInt(chi.URLParam(r, "seed"), 10, 64)
	if err != nil {
		return pipeline.PreviewOptions{}, errors.New(errors.ErrCodeInvalidInput, "seed must be an integer")
	}

	q := r.URL.Query()
	index, err := intParam(q.Get("index"), 1)
	if err != nil {
		return pipeline.PreviewOptions{}, errors.New(errors.ErrCodeInvalidInput, "index must be an integer")
	}
	width, err := intParam(q.Get("width"), pipeline.DefaultPreviewWidth)
	if err != nil {
		return pipeline.PreviewOptions{}, errors.New(errors.ErrCodeInvalidInput, "width must be an integer")
	}

	opts := pipeline.PreviewOptions{
		Mode:     id,
		Palette:  strings.TrimSpace(q.Get("palette")),
		Seed:     seed,
		Index:    index,
		Width:    width,
		Title:    q.Get("title"),
		Subtitle: q.Get("subtitle"),
	}
	if opts.Subtitle == "" && !q.Has("subtitle") {
		if m, err := s.registry.Mode(id); err == nil {
			opts.Subtitle = m.Name
		}
	}
	return opts, nil
}

// previewETag derives a strong ETag from a preview cache key and the build.
func previewETag(key string) string {
	return `"` + cache.Hash([]byte(buildinfo.Version+"\x00"+key))[:32] + `"`
}

func intParam(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("preview failed", "path", r.URL.Path, "err", err)
	}
	code := string(errors.GetCode(err))
	if code == "" {
		code = string(errors.ErrCodeInternal)
	}
	writeJSON(w, status, ErrorResponse{Code: code, Message: errors.UserMessage(err)})
}

// statusFor maps error codes to HTTP status codes.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidMode,
		errors.ErrCodeInvalidGeometry, errors.ErrCodeInvalidCanvas:
		return http.StatusBadRequest
	case errors.ErrCodeInvalidPalette:
		return http.StatusNotFound
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Serve listens on addr until ctx ends, then drains in-flight requests for
// up to ten seconds.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("Serving previews", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
