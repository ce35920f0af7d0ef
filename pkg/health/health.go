// Package health serves liveness and readiness probes for the starcruiser
// server. Readiness runs every registered check.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"
)

// Probe routes
const (
	LivePath  = "/health/live"
	ReadyPath = "/health/ready"
)

const checkTimeout = 5 * time.Second

// HealthCheck is one component's contribution to readiness.
type HealthCheck interface {
	// Name returns the unique name of this health check
	Name() string
	// Check returns an error if the component is unhealthy
	Check(ctx context.Context) error
}

// HealthStatus represents the overall health status of the application.
type HealthStatus struct {
	Status string                     `json:"status"`
	Checks map[string]ComponentHealth `json:"checks"`
}

// ComponentHealth represents the health status of an individual component.
type ComponentHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthChecker manages and executes health checks for the application.
type HealthChecker struct {
	checks map[string]HealthCheck
	mu     sync.RWMutex
}

// NewHealthChecker creates a new health checker instance.
func NewHealthChecker() *HealthChecker {
	return &HealthChecker{
		checks: make(map[string]HealthCheck),
	}
}

// AddCheck registers check, replacing any check with the same name.
func (hc *HealthChecker) AddCheck(check HealthCheck) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.checks[check.Name()] = check
}

// RemoveCheck removes a health check by name.
func (hc *HealthChecker) RemoveCheck(name string) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	delete(hc.checks, name)
}

// Names returns the registered check names in order.
func (hc *HealthChecker) Names() []string {
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	names := make([]string, 0, len(hc.checks))
	for name := range hc.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CheckHealth runs every check. The result is healthy only if all pass.
func (hc *HealthChecker) CheckHealth(ctx context.Context) HealthStatus {
	hc.mu.RLock()
	defer hc.mu.RUnlock()

	status := HealthStatus{
		Status: "healthy",
		Checks: make(map[string]ComponentHealth),
	}
	for name, check := range hc.checks {
		if err := check.Check(ctx); err != nil {
			status.Status = "unhealthy"
			status.Checks[name] = ComponentHealth{Status: "unhealthy", Message: err.Error()}
		} else {
			status.Checks[name] = ComponentHealth{Status: "healthy"}
		}
	}
	return status
}

// Handler serves both probes.
func (hc *HealthChecker) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+LivePath, hc.LivenessHandler)
	mux.HandleFunc("GET "+ReadyPath, hc.ReadinessHandler)
	return mux
}

// LivenessHandler answers 200 while the process can serve requests.
func (hc *HealthChecker) LivenessHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "alive"})
}

// ReadinessHandler answers 200 when every check passes and 503 otherwise.
func (hc *HealthChecker) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
	defer cancel()

	health := hc.CheckHealth(ctx)

	w.Header().Set("Content-Type", "application/json")
	if health.Status == "healthy" {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(health)
}

// GameLoopHealthCheck fails when the game loop has not ticked recently.
type GameLoopHealthCheck struct {
	lastTick func() time.Time
	maxAge   time.Duration
	now      func() time.Time
}

// NewGameLoopHealthCheck creates a check that fails once lastTick is older
// than maxAge.
func NewGameLoopHealthCheck(lastTick func() time.Time, maxAge time.Duration) *GameLoopHealthCheck {
	return &GameLoopHealthCheck{
		lastTick: lastTick,
		maxAge:   maxAge,
		now:      time.Now,
	}
}

// Name returns the name of this health check.
func (g *GameLoopHealthCheck) Name() string {
	return "game_loop"
}

// Check verifies that the game loop is still ticking.
func (g *GameLoopHealthCheck) Check(ctx context.Context) error {
	last := g.lastTick()
	if last.IsZero() {
		return fmt.Errorf("game loop has not ticked yet")
	}
	if age := g.now().Sub(last); age > g.maxAge {
		return fmt.Errorf("last tick %v ago exceeds %v", age.Round(time.Millisecond), g.maxAge)
	}
	return nil
}

// NetworkHealthCheck fails while the client listener is down.
type NetworkHealthCheck struct {
	listening func() bool
}

// NewNetworkHealthCheck creates a health check for the client listener.
func NewNetworkHealthCheck(listening func() bool) *NetworkHealthCheck {
	return &NetworkHealthCheck{
		listening: listening,
	}
}

// Name returns the name of this health check.
func (n *NetworkHealthCheck) Name() string {
	return "network"
}

// Check verifies that the network listener is active.
func (n *NetworkHealthCheck) Check(ctx context.Context) error {
	if !n.listening() {
		return fmt.Errorf("network listener is not active")
	}
	return nil
}
