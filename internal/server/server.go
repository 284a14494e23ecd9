// Package server hosts the crime map over HTTP: a selection page, the map
// documents and operational endpoints.
package server

import (
	"bytes"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/crime-map/internal/crimemap"
)

//go:embed templates/index.html.tmpl
var templateFS embed.FS

var indexTemplate = template.Must(template.New("index.html.tmpl").ParseFS(templateFS, "templates/index.html.tmpl"))

// Options configures the HTTP host.
type Options struct {
	Title string
	// FrameHeight is the map iframe height in pixels.
	FrameHeight int
	// RateLimit is the sustained /map request rate per second. Zero disables
	// limiting.
	RateLimit   float64
	RateBurst   int
	CORSOrigins []string
}

// Server routes requests to a crimemap.Service.
type Server struct {
	svc     *crimemap.Service
	opts    Options
	limiter *rate.Limiter
}

// New creates a server for svc.
func New(svc *crimemap.Service, opts Options) *Server {
	if opts.FrameHeight <= 0 {
		opts.FrameHeight = 600
	}
	if opts.Title == "" {
		opts.Title = "San Francisco crime map"
	}
	s := &Server{svc: svc, opts: opts}
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst <= 0 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	return s
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	origins := s.opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{"X-Cache", requestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/", s.handleIndex)
	r.With(rateLimit(s.limiter)).Get("/map", s.handleMap)
	r.Get("/health", handleHealth)
	r.Get("/stats", s.handleStats)
	return r
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	err := indexTemplate.Execute(&buf, struct {
		Title     string
		Districts []string
		Height    int
	}{
		Title:     s.opts.Title,
		Districts: s.svc.Districts(),
		Height:    s.opts.FrameHeight,
	})
	if err != nil {
		zap.L().Error("server: render index", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// handleMap serves the document for ?district=A&district=B. With no district
// parameter, all=1 selects every district and anything else is the empty
// selection.
func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	selection := q["district"]
	if len(selection) == 0 {
		if all, _ := strconv.ParseBool(q.Get("all")); all {
			selection = s.svc.DefaultSelection()
		}
	}

	res, err := s.svc.Resolve(selection)
	if err != nil {
		zap.L().Error("server: map render failed",
			zap.Strings("selection", selection),
			zap.String("request_id", RequestID(r.Context())),
			zap.Error(err),
		)
		http.Error(w, "map render failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if res.Cached {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	w.Header().Set("Content-Length", strconv.Itoa(res.Document.Len()))
	_, _ = w.Write(res.Document.Bytes())
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Stats())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
