package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/logstate"
	"github.com/aretw0/logstate/internal/logging"
	"github.com/aretw0/logstate/pkg/domain"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Controller defines the logging-state core used by the handlers.
type Controller interface {
	Start(path string) (domain.Result, error)
	Stop() (domain.Result, error)
	Status() (domain.Result, error)
	Diagnostics() (domain.Record, error)
}

// Server implements ServerInterface on top of a Controller.
type Server struct {
	Controller Controller
	Streams    *StreamManager

	logger  *slog.Logger
	metrics http.Handler
	cors    bool
}

// Ensure Server implements ServerInterface
var _ ServerInterface = (*Server)(nil)

// Option configures the handler built by NewHandler.
type Option func(*Server)

// WithLogger configures the request and error logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithStreams attaches the StreamManager serving GET /events.
// It must be the one registered as controller hook for events to flow.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) {
		s.Streams = sm
	}
}

// WithMetrics mounts h (usually promhttp) at GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithCORS toggles the permissive CORS middleware (on by default).
func WithCORS(enabled bool) Option {
	return func(s *Server) {
		s.cors = enabled
	}
}

// NewHandler creates the HTTP handler for the controller.
func NewHandler(ctrl Controller, opts ...Option) (http.Handler, error) {
	s := &Server{
		Controller: ctrl,
		logger:     logging.NewNop(),
		cors:       true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.Streams == nil {
		s.Streams = NewStreamManager(s.logger)
	}

	doc, err := GetSwagger()
	if err != nil {
		return nil, err
	}
	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("building openapi router: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	// API documentation
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		w.Write(rawSpec)
	})
	r.Get("/openapi.json", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, doc, s.logger)
	})
	docs := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	}
	r.Get("/docs", docs)
	r.Get("/docs/", docs)

	r.Group(func(r chi.Router) {
		r.Use(validateRequest(router, s.logger))
		HandlerFromMux(s, r)
	})

	r.Get("/events", s.SubscribeEvents)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	if s.cors {
		return enableCORS(r), nil
	}
	return r, nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// validateRequest rejects requests that do not match the OpenAPI document.
func validateRequest(router routers.Router, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route, pathParams, err := router.FindRoute(r)
			if err != nil {
				// Not described by the document; let chi decide.
				next.ServeHTTP(w, r)
				return
			}
			input := &openapi3filter.RequestValidationInput{
				Request:    r,
				PathParams: pathParams,
				Route:      route,
			}
			if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
				logger.Warn("Request rejected", "path", r.URL.Path, "error", err)
				writeError(w, http.StatusBadRequest, validationMessage(err), logger)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// validationMessage keeps the first line of a kin-openapi error; the rest is a schema dump.
func validationMessage(err error) string {
	var reqErr *openapi3filter.RequestError
	if errors.As(err, &reqErr) {
		msg := reqErr.Error()
		if i := strings.IndexByte(msg, '\n'); i > 0 {
			msg = msg[:i]
		}
		return "invalid request: " + msg
	}
	return "invalid request: " + err.Error()
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("HTTP request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Logstate API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.json',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// StartLogging handles the POST /start request.
func (s *Server) StartLogging(w http.ResponseWriter, r *http.Request) {
	var body StartRequest
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", s.logger)
		s.logger.Warn("StartLogging: Invalid request body", "error", err)
		return
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body: trailing data after JSON object", s.logger)
		s.logger.Warn("StartLogging: Trailing data in request body")
		return
	}

	res, err := s.Controller.Start(body.Path)
	s.respond(w, "StartLogging", res, err)
}

// StopLogging handles the POST /stop request.
func (s *Server) StopLogging(w http.ResponseWriter, r *http.Request) {
	res, err := s.Controller.Stop()
	s.respond(w, "StopLogging", res, err)
}

// GetStatus handles the GET /status request.
func (s *Server) GetStatus(w http.ResponseWriter, r *http.Request) {
	res, err := s.Controller.Status()
	s.respond(w, "GetStatus", res, err)
}

func (s *Server) respond(w http.ResponseWriter, op string, res domain.Result, err error) {
	if err != nil {
		s.logger.Error(op+" failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error(), s.logger)
		return
	}
	writeJSON(w, http.StatusOK, FromResult(res), s.logger)
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"}, s.logger)
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	rec, err := s.Controller.Diagnostics()
	if err != nil {
		s.logger.Error("GetInfo failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error(), s.logger)
		return
	}

	apiVersion := "unknown"
	if swagger, err := GetSwagger(); err == nil && swagger.Info != nil {
		apiVersion = swagger.Info.Version
	}

	writeJSON(w, http.StatusOK, InfoResponse{
		App:        "logstate",
		Version:    strings.TrimSpace(logstate.Version),
		APIVersion: apiVersion,
		CallCount:  rec.CallCount,
	}, s.logger)
}

// SubscribeEvents handles the GET /events request (SSE).
// With ?changes_only=true, status queries and redundant requests are filtered out.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	changesOnly := false
	if v := r.URL.Query().Get("changes_only"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "changes_only must be a boolean", s.logger)
			return
		}
		changesOnly = parsed
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe()
	defer cancel()

	s.logger.Info("SSE: Client subscribed", "changes_only", changesOnly)
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE Client Disconnected")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if changesOnly {
				var e domain.TransitionEvent
				if err := json.Unmarshal(msg, &e); err == nil && !e.Changed() {
					continue
				}
			}
			fmt.Fprintf(w, "event: transition\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// -- Helpers --

func writeJSON(w http.ResponseWriter, status int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Response encode failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string, logger *slog.Logger) {
	writeJSON(w, status, APIError{
		Error:     msg,
		Timestamp: TimeNow().UTC().Format(time.RFC3339),
	}, logger)
}
