// Package health runs diagnostics against the things evbook depends on: the
// reservation API, session storage and the saved session.
//
//	m := health.NewManager()
//	m.AddChecker(health.NewAPIChecker(client))
//	m.AddChecker(health.NewStorageChecker(backend))
//	results := m.Check(ctx)
package health

import (
	"context"
	"time"
)

// Checker verifies one dependency.
type Checker interface {
	// Name is lowercase with hyphens, e.g. "session-storage".
	Name() string

	// Check should respect the context deadline.
	Check(ctx context.Context) *Result
}

// Status represents the health check status.
type Status string

const (
	// StatusHealthy indicates the checked component is fully operational.
	StatusHealthy Status = "healthy"

	// StatusDegraded indicates evbook works with reduced functionality.
	StatusDegraded Status = "degraded"

	// StatusUnhealthy indicates the component is not working.
	StatusUnhealthy Status = "unhealthy"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// Result represents the result of a health check.
type Result struct {
	Name    string            `json:"name" yaml:"name"`
	Status  Status            `json:"status" yaml:"status"`
	Message string            `json:"message" yaml:"message"`
	Details map[string]string `json:"details,omitempty" yaml:"details,omitempty"`
	Latency time.Duration     `json:"latency" yaml:"latency"`
}

// NewResult creates a new health check result with the given status and message.
func NewResult(status Status, message string) *Result {
	return &Result{
		Status:  status,
		Message: message,
		Details: make(map[string]string),
	}
}

// WithDetail adds a detail to the result and returns the result for chaining.
func (r *Result) WithDetail(key, value string) *Result {
	r.Details[key] = value
	return r
}

// Healthy creates a healthy result with the given message.
func Healthy(message string) *Result {
	return NewResult(StatusHealthy, message)
}

// Degraded creates a degraded result with the given message.
func Degraded(message string) *Result {
	return NewResult(StatusDegraded, message)
}

// Unhealthy creates an unhealthy result with the given message.
func Unhealthy(message string) *Result {
	return NewResult(StatusUnhealthy, message)
}
