package handlers

import (
	"context"
	"time"
)

// Pinger checks connectivity to a dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to the Pinger interface.
type PingFunc func(ctx context.Context) error

// Ping calls the wrapped function.
func (f PingFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

// HealthHandler reports process liveness and dependency status.
type HealthHandler struct {
	deps map[string]Pinger
}

// NewHealthHandler creates a health handler over named dependency checkers.
func NewHealthHandler(deps map[string]Pinger) *HealthHandler {
	return &HealthHandler{deps: deps}
}

// HealthResponse is the response for the health check endpoint.
type HealthResponse struct {
	Body struct {
		OK   bool              `json:"ok"`
		Time time.Time         `json:"time"`
		Deps map[string]string `json:"deps,omitempty"`
	}
}

// Check reports liveness. The endpoint always answers 200; failing
// dependencies show up in the deps map.
func (h *HealthHandler) Check(ctx context.Context, _ *struct{}) (*HealthResponse, error) {
	resp := &HealthResponse{}
	resp.Body.OK = true
	resp.Body.Time = time.Now().UTC()

	if len(h.deps) > 0 {
		resp.Body.Deps = make(map[string]string, len(h.deps))

		for name, dep := range h.deps {
			if err := dep.Ping(ctx); err != nil {
				resp.Body.Deps[name] = "unhealthy"
			} else {
				resp.Body.Deps[name] = "healthy"
			}
		}
	}

	return resp, nil
}
