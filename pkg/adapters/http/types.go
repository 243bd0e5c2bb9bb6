package http

import (
	"net/http"
	"time"

	"github.com/aretw0/logstate/pkg/domain"
	"github.com/go-chi/chi/v5"
)

// Wire types. They mirror components/schemas in openapi.yaml and are kept apart from
// the domain types so the JSON contract does not move with internal refactors.

// StartRequest is the body of POST /start.
type StartRequest struct {
	Path string `json:"path"`
}

// LoggingResponse is returned by /start, /stop and /status.
type LoggingResponse struct {
	Path           *string `json:"path"`
	PreviousPath   *string `json:"previousPath"`
	Active         bool    `json:"active"`
	RequestStatus  bool    `json:"requestStatus"`
	RequestMessage string  `json:"requestMessage"`
}

// HealthResponse is returned by /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// InfoResponse is returned by /info.
type InfoResponse struct {
	App        string `json:"app"`
	Version    string `json:"version"`
	APIVersion string `json:"api_version"`
	CallCount  uint64 `json:"callCount"`
}

// APIError is the error payload.
type APIError struct {
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"` // RFC3339
}

// ServerInterface lists one handler per operation in openapi.yaml.
type ServerInterface interface {
	// (POST /start)
	StartLogging(w http.ResponseWriter, r *http.Request)
	// (POST /stop)
	StopLogging(w http.ResponseWriter, r *http.Request)
	// (GET /status)
	GetStatus(w http.ResponseWriter, r *http.Request)
	// (GET /health)
	GetHealth(w http.ResponseWriter, r *http.Request)
	// (GET /info)
	GetInfo(w http.ResponseWriter, r *http.Request)
}

// HandlerFromMux registers every documented operation of si on r.
func HandlerFromMux(si ServerInterface, r chi.Router) chi.Router {
	r.Post("/start", si.StartLogging)
	r.Post("/stop", si.StopLogging)
	r.Get("/status", si.GetStatus)
	r.Get("/health", si.GetHealth)
	r.Get("/info", si.GetInfo)
	return r
}

// TimeNow abstracts time for tests.
var TimeNow = func() time.Time { return time.Now() }

// FromResult maps a controller result onto the wire.
func FromResult(r domain.Result) LoggingResponse {
	return LoggingResponse{
		Path:           r.Path,
		PreviousPath:   r.PreviousPath,
		Active:         r.Active,
		RequestStatus:  r.Success,
		RequestMessage: r.Message,
	}
}

// ToResult maps a wire response back to a controller result.
func (l LoggingResponse) ToResult() domain.Result {
	return domain.Result{
		Snapshot: domain.Snapshot{
			Path:         l.Path,
			PreviousPath: l.PreviousPath,
			Active:       l.Active,
		},
		Success: l.RequestStatus,
		Message: l.RequestMessage,
	}
}
