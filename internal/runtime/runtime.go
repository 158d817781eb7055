// Package runtime defines the Workload Runtime boundary: the container
// engine running the deployed compose stack. The core only starts and
// queries it; scheduling is the engine's business.
package runtime

import (
	"context"
	"io"
)

// HealthState is a container's configured-health classification.
type HealthState string

const (
	// HealthHealthy means a configured health check is passing.
	HealthHealthy HealthState = "healthy"
	// HealthUnhealthy means a configured health check is failing.
	HealthUnhealthy HealthState = "unhealthy"
	// HealthNone means the container has no health check configured.
	// This is a posture, not a failure.
	HealthNone HealthState = "none"
)

// Container is the observed state of one workload container.
type Container struct {
	Name    string
	Image   string
	Running bool
	Health  HealthState
}

// Engine is the container-engine collaborator interface.
type Engine interface {
	// Ping verifies the engine is reachable and returns its version.
	Ping(ctx context.Context) (string, error)
	// ListContainers returns the project's containers, running or not.
	ListContainers(ctx context.Context) ([]Container, error)
	// Pull fetches a newer version of image if available.
	Pull(ctx context.Context, image string) error
	// RestartService restarts one named compose service.
	RestartService(ctx context.Context, service string) error
	// PruneUnused reclaims dangling images and unused volumes. It never
	// touches resources referenced by an existing container.
	PruneUnused(ctx context.Context) error
	// StreamLogs follows the named service's log output until the
	// returned reader is closed or ctx is cancelled.
	StreamLogs(ctx context.Context, service string) (io.ReadCloser, error)
}
