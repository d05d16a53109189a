package health

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/carefleet/carefleet-backend/internal/http/response"
	"github.com/carefleet/carefleet-backend/internal/observability"
)

// CheckResult is the outcome of probing one dependency.
type CheckResult struct {
	Name     string        `json:"name"`
	Healthy  bool          `json:"healthy"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"-"`
}

// Checker probes a single dependency.
type Checker interface {
	Name() string
	Check(ctx context.Context) error
}

// ProbeRunner serves liveness and readiness endpoints over a set of
// dependency checkers.
type ProbeRunner struct {
	checkers []Checker
	timeout  time.Duration
}

func NewProbeRunner(timeout time.Duration, checkers ...Checker) *ProbeRunner {
	return &ProbeRunner{checkers: checkers, timeout: timeout}
}

// Liveness reports only that the process is serving requests.
func (p *ProbeRunner) Liveness(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, map[string]string{"status": "up"})
}

// Readiness runs every checker concurrently and reports 503 if any fail.
func (p *ProbeRunner) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), p.timeout)
	defer cancel()

	results := p.run(ctx)
	healthy := true
	for _, res := range results {
		if !res.Healthy {
			healthy = false
			break
		}
	}

	status := http.StatusOK
	state := "ready"
	if !healthy {
		status = http.StatusServiceUnavailable
		state = "degraded"
	}
	response.JSON(w, r, status, map[string]any{
		"status": state,
		"checks": results,
	})
}

func (p *ProbeRunner) run(ctx context.Context) []CheckResult {
	results := make([]CheckResult, len(p.checkers))
	var wg sync.WaitGroup
	for i, checker := range p.checkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			start := time.Now()
			err := checker.Check(ctx)
			elapsed := time.Since(start)
			res := CheckResult{Name: checker.Name(), Healthy: err == nil, Duration: elapsed}
			if err != nil {
				res.Error = err.Error()
			}
			observability.RecordHealthCheck(ctx, res.Name, res.Healthy, elapsed)
			results[i] = res
		}()
	}
	wg.Wait()
	return results
}
