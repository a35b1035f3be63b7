// Package http exposes a built key over HTTP: rendering, Mermaid graph,
// identification, the OpenAPI document and optional Prometheus metrics.
package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/keysort/internal/presentation/graph"
	"github.com/aretw0/keysort/internal/presentation/outline"
	"github.com/aretw0/keysort/pkg/domain"
	"github.com/aretw0/keysort/pkg/metrics"
	"github.com/aretw0/keysort/pkg/runner"
)

//go:embed openapi.yaml
var rawSpec []byte

// maxBodySize bounds identify requests.
const maxBodySize = 64 << 10

// Server serves one frozen key. Handlers only read the key, so requests run
// concurrently without locking.
type Server struct {
	Key      *domain.Key
	logger   *slog.Logger
	metrics  *metrics.Collector
	gatherer prometheus.Gatherer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics records identification results.
func WithMetrics(c *metrics.Collector) Option {
	return func(s *Server) {
		s.metrics = c
	}
}

// WithGatherer mounts GET /metrics for the given registry.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// LoadSpec parses and validates the embedded OpenAPI document.
func LoadSpec(ctx context.Context) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx
	doc, err := loader.LoadFromData(rawSpec)
	if err != nil {
		return nil, fmt.Errorf("parse openapi document: %w", err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}
	return doc, nil
}

// NewHandler creates a new HTTP handler for key.
func NewHandler(key *domain.Key, opts ...Option) (http.Handler, error) {
	if key == nil || key.Root() == nil {
		return nil, errors.New("http: key is empty")
	}
	if _, err := LoadSpec(context.Background()); err != nil {
		return nil, err
	}

	s := &Server{
		Key:    key,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/key", s.GetKey)
	r.Get("/graph", s.GetGraph)
	r.Post("/identify", s.Identify)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(rawSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(swaggerHTML))
	})
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	return r, nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>keysort API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// GetKey handles GET /key.
func (s *Server) GetKey(w http.ResponseWriter, r *http.Request) {
	switch format := r.URL.Query().Get("format"); format {
	case "", "text":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if err := outline.Render(w, s.Key); err != nil {
			s.logger.Error("render key failed", "err", err)
		}
	case "markdown":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		_, _ = io.WriteString(w, outline.Markdown(s.Key))
	case "json":
		writeJSON(w, http.StatusOK, s.Key, s.logger)
	default:
		http.Error(w, fmt.Sprintf("unknown format %q", format), http.StatusBadRequest)
	}
}

// GetGraph handles GET /graph.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, graph.GenerateMermaid(s.Key, nil))
}

// IdentifyRequest carries either outcomes or labels per trait name.
type IdentifyRequest struct {
	Answers map[string]bool   `json:"answers,omitempty"`
	Labels  map[string]string `json:"labels,omitempty"`
}

// IdentifyResponse is an identification plus its resolved flag.
type IdentifyResponse struct {
	*domain.Identification
	Resolved bool `json:"resolved"`
}

type problem struct {
	Error          string            `json:"error"`
	Identification *IdentifyResponse `json:"identification,omitempty"`
}

// Identify handles POST /identify.
func (s *Server) Identify(w http.ResponseWriter, r *http.Request) {
	var body IdentifyRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("identify: invalid request body", "err", err)
		return
	}
	if (body.Answers == nil) == (body.Labels == nil) {
		http.Error(w, "Exactly one of answers or labels is required", http.StatusBadRequest)
		return
	}

	answer := domain.AnswerMap(body.Answers)
	if body.Labels != nil {
		labels := make(map[string]string, len(body.Labels))
		for name, raw := range body.Labels {
			clean, err := runner.SanitizeInput(raw)
			if err != nil {
				http.Error(w, fmt.Sprintf("Invalid label for %s: %v", name, err), http.StatusBadRequest)
				s.logger.Warn("identify: label rejected", "trait", name, "err", err, "size", len(raw))
				return
			}
			labels[name] = clean
		}
		answer = domain.LabelAnswers(labels)
	}

	id, err := s.Key.Identify(answer)
	s.observe(id, err)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, domain.ErrMissingAnswer), errors.Is(err, domain.ErrNoMatch):
			status = http.StatusUnprocessableEntity
		case errors.Is(err, domain.ErrUnrecognizedValue):
			status = http.StatusBadRequest
		}
		p := problem{Error: err.Error()}
		if id != nil {
			p.Identification = &IdentifyResponse{Identification: id, Resolved: id.Resolved()}
		}
		writeJSON(w, status, p, s.logger)
		return
	}

	writeJSON(w, http.StatusOK, IdentifyResponse{Identification: id, Resolved: id.Resolved()}, s.logger)
}

func (s *Server) observe(id *domain.Identification, err error) {
	if s.metrics == nil {
		return
	}
	switch {
	case errors.Is(err, domain.ErrNoMatch):
		s.metrics.ObserveIdentification(metrics.ResultNoMatch)
	case errors.Is(err, domain.ErrMissingAnswer):
		s.metrics.ObserveIdentification(metrics.ResultMissingAnswer)
	case err != nil:
	case id.Resolved():
		s.metrics.ObserveIdentification(metrics.ResultResolved)
	default:
		s.metrics.ObserveIdentification(metrics.ResultCandidates)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("response encode failed", "err", err)
	}
}
