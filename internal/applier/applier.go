// Package applier defines the Configuration Applier boundary: the
// external system that converges a provisioned host to the desired
// package/service state from an inventory and a playbook reference.
package applier

import (
	"context"
)

// HostResult reports convergence success or failure for one host.
type HostResult struct {
	Host    string
	OK      bool
	Message string
}

// Applier converges the hosts in the inventory to the playbook's state.
// Invoked exactly once per pipeline run.
type Applier interface {
	Apply(ctx context.Context, inventoryPath, playbook string, extraVars map[string]string) ([]HostResult, error)
}
