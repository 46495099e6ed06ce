package services

import (
	"context"
	"log/slog"
	"runtime"
	"sort"
	"time"

	"fundx/internal/validation"
	"fundx/pkg/contracts"
)

// Probe statuses
const (
	StatusOK       = "ok"
	StatusReady    = "ready"
	StatusNotReady = "not_ready"
	StatusAlive    = "alive"
	StatusDisabled = "disabled"
)

// HealthStatus is the body of every probe endpoint
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Uptime    string                   `json:"uptime,omitempty"`
	Runtime   map[string]interface{}   `json:"runtime,omitempty"`
	Services  map[string]ServiceHealth `json:"services,omitempty"`
}

// ServiceHealth is the result of one readiness check
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// ReadinessFunc reports on one dependency
type ReadinessFunc func(ctx context.Context) ServiceHealth

// HealthService answers liveness and readiness probes. Readiness is the
// conjunction of its named checks.
type HealthService struct {
	checks    map[string]ReadinessFunc
	startTime time.Time
	logger    *slog.Logger
}

// NewHealthService registers the "exports" check, which proves outputDir
// writable (an empty outputDir means exports are streamed only), and the
// "sheets" check.
func NewHealthService(outputDir string, sheetsEnabled bool, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "health_service"))

	hs := &HealthService{
		checks:    make(map[string]ReadinessFunc),
		startTime: time.Now(),
		logger:    logger,
	}
	hs.AddCheck("exports", exportsCheck(outputDir, validation.NewFileValidator(0, logger)))
	hs.AddCheck("sheets", func(context.Context) ServiceHealth {
		if !sheetsEnabled {
			return ServiceHealth{Status: StatusDisabled}
		}
		return ServiceHealth{Status: StatusReady, Message: "spreadsheet range configured"}
	})
	return hs
}

// AddCheck registers or replaces a named readiness check
func (hs *HealthService) AddCheck(name string, fn ReadinessFunc) {
	hs.checks[name] = fn
}

func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    StatusOK,
		Timestamp: time.Now(),
		Version:   contracts.Version,
		Uptime:    time.Since(hs.startTime).Round(time.Second).String(),
	}
}

// ReadinessCheck runs every check in name order
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	names := make([]string, 0, len(hs.checks))
	for name := range hs.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := HealthStatus{
		Status:    StatusReady,
		Timestamp: time.Now(),
		Version:   contracts.Version,
		Services:  make(map[string]ServiceHealth, len(names)),
	}
	for _, name := range names {
		result := hs.checks[name](ctx)
		status.Services[name] = result
		if result.Status == StatusNotReady {
			status.Status = StatusNotReady
			hs.logger.DebugContext(ctx, "Readiness check failed",
				slog.String("check", name),
				slog.String("message", result.Message))
		}
	}
	return status
}

func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return HealthStatus{
		Status:    StatusAlive,
		Timestamp: time.Now(),
		Version:   contracts.Version,
		Uptime:    time.Since(hs.startTime).Round(time.Second).String(),
		Runtime: map[string]interface{}{
			"go_version":  runtime.Version(),
			"goroutines":  runtime.NumGoroutine(),
			"heap_alloc":  mem.HeapAlloc,
			"num_gc":      mem.NumGC,
			"uptime_secs": time.Since(hs.startTime).Seconds(),
		},
	}
}

func (hs *HealthService) Version() contracts.VersionInfo {
	return contracts.GetVersionInfo()
}

func exportsCheck(outputDir string, validator *validation.FileValidator) ReadinessFunc {
	return func(context.Context) ServiceHealth {
		if outputDir == "" {
			return ServiceHealth{Status: StatusReady, Message: "exports are streamed only"}
		}
		if err := validator.ValidateOutputDirectory(outputDir); err != nil {
			return ServiceHealth{Status: StatusNotReady, Message: "output directory unavailable: " + err.Error()}
		}
		return ServiceHealth{Status: StatusReady, Message: "output directory is writable"}
	}
}
