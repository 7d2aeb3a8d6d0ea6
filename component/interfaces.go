package component

import "context"

// HealthStatus represents the health state of a component.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

// Health holds health information for a component.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Component is a lifecycle-managed dependency such as the kvrest client
// or a fake server used in tests.
type Component interface {
	// Name returns the unique name of the component for registration.
	Name() string

	// Start initializes the component.
	Start(ctx context.Context) error

	// Stop releases resources held by the component.
	Stop(ctx context.Context) error

	// Health reports the current health of the component.
	Health(ctx context.Context) Health
}

// Description is a component's self-reported summary.
type Description struct {
	// Name is the display name. If empty, the component's Name() is used.
	Name string `json:"name"`
	// Type categorizes the component, e.g. "http-client".
	Type string `json:"type"`
	// Details is a one-line summary, e.g. "https://kvrest.dev/api timeout=30s".
	Details string `json:"details"`
}

// Describable is optionally implemented by components that can summarize
// their configuration.
type Describable interface {
	Describe() Description
}
