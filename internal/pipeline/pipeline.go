// Package pipeline runs the provisioning-to-operations handoff: provision
// the host, bridge credentials into the applier inventory, wait for the
// host to accept connections, apply configuration, and verify the result.
//
// Stages run strictly in order. The first hard failure halts the run with
// no rollback; tearing infrastructure down is a separate operator action.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/mvarga/stackctl/internal/applier"
	"github.com/mvarga/stackctl/internal/bridge"
	"github.com/mvarga/stackctl/internal/converge"
	"github.com/mvarga/stackctl/internal/health"
	"github.com/mvarga/stackctl/internal/provision"
)

// Stage names one pipeline stage.
type Stage string

const (
	StageNone      Stage = ""
	StageProvision Stage = "provision"
	StageBridge    Stage = "bridge"
	StageConverge  Stage = "converge"
	StageApply     Stage = "apply"
	StageVerify    Stage = "verify"
)

// ErrProvisionFailure marks a provisioner error or a not-ready result.
var ErrProvisionFailure = errors.New("provisioning failed")

// ErrConvergenceTimeout marks a host that never became reachable within
// the bound. The connection descriptor stays persisted so operators can
// reach the host manually.
var ErrConvergenceTimeout = errors.New("host did not become reachable before the deadline")

// ApplyError reports which hosts failed configuration convergence.
type ApplyError struct {
	Hosts []string
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("configuration apply failed on: %s", strings.Join(e.Hosts, ", "))
}

// Result is the pipeline outcome: the furthest-completed stage, the
// descriptor once bridged, per-host apply results, the post-deploy health
// report, and the classified error.
type Result struct {
	Stage       Stage
	Descriptor  *bridge.ConnectionDescriptor
	HostResults []applier.HostResult
	Report      *health.Report
	Err         error
}

// OK reports whether every stage completed.
func (r *Result) OK() bool { return r.Err == nil }

// Orchestrator wires the stage collaborators together. All fields are
// required except Logf, which defaults to log.Printf.
type Orchestrator struct {
	Provisioner    provision.Provisioner
	DescriptorPath string
	InventoryPath  string

	Waiter *converge.Waiter
	// NewProber builds the reachability prober for a bridged descriptor.
	NewProber func(desc *bridge.ConnectionDescriptor) (converge.Prober, error)

	Applier   applier.Applier
	Playbook  string
	ExtraVars map[string]string

	// Verify runs the post-deploy health round. A Down verdict in the
	// verification report does not fail the pipeline; the caller decides
	// what a failing report means for its exit status.
	Verify func(ctx context.Context) *health.Report

	Logf func(format string, v ...any)
}

// Run executes the stages in order and returns a Result whose Err is nil
// only when every stage completed. The descriptor artifact is written
// exactly once, right after a successful provision stage, and is left in
// place even when a later stage fails.
func (o *Orchestrator) Run(ctx context.Context, spec provision.Spec) *Result {
	if o.Logf == nil {
		o.Logf = log.Printf
	}
	res := &Result{Stage: StageNone}

	provResult, err := stage(o, StageProvision, func() (*provision.Result, error) {
		return o.Provisioner.Provision(ctx, spec)
	})
	if err != nil {
		res.Err = fmt.Errorf("%w: %w", ErrProvisionFailure, err)
		return res
	}
	if provResult == nil || !provResult.Ready {
		res.Err = fmt.Errorf("%w: provisioner did not report ready", ErrProvisionFailure)
		return res
	}
	res.Stage = StageProvision

	desc, err := stage(o, StageBridge, func() (*bridge.ConnectionDescriptor, error) {
		return bridge.Bridge(provResult, o.DescriptorPath, o.InventoryPath)
	})
	if err != nil {
		res.Err = err // IncompleteProvisionError or a write failure
		return res
	}
	res.Stage = StageBridge
	res.Descriptor = desc

	_, err = stage(o, StageConverge, func() (struct{}, error) {
		prober, perr := o.NewProber(desc)
		if perr != nil {
			return struct{}{}, perr
		}
		if !o.Waiter.Await(ctx, prober) {
			return struct{}{}, ErrConvergenceTimeout
		}
		return struct{}{}, nil
	})
	if err != nil {
		if errors.Is(err, ErrConvergenceTimeout) {
			// Descriptor stays on disk for manual debugging.
			res.Err = ErrConvergenceTimeout
		} else {
			res.Err = fmt.Errorf("converge stage: %w", err)
		}
		return res
	}
	res.Stage = StageConverge

	hostResults, err := stage(o, StageApply, func() ([]applier.HostResult, error) {
		return o.Applier.Apply(ctx, o.InventoryPath, o.Playbook, o.ExtraVars)
	})
	res.HostResults = hostResults
	if err != nil {
		if failed := failedHosts(hostResults); len(failed) > 0 {
			res.Err = &ApplyError{Hosts: failed}
		} else {
			res.Err = fmt.Errorf("apply stage: %w", err)
		}
		return res
	}
	if failed := failedHosts(hostResults); len(failed) > 0 {
		res.Err = &ApplyError{Hosts: failed}
		return res
	}
	res.Stage = StageApply

	res.Report, _ = stage(o, StageVerify, func() (*health.Report, error) {
		return o.Verify(ctx), nil
	})
	res.Stage = StageVerify
	return res
}

func failedHosts(results []applier.HostResult) []string {
	var failed []string
	for _, hr := range results {
		if !hr.OK {
			failed = append(failed, hr.Host)
		}
	}
	return failed
}

// stage runs fn with start/finish logging and per-stage duration.
func stage[T any](o *Orchestrator, name Stage, fn func() (T, error)) (T, error) {
	o.Logf("[pipeline] %s: starting", name)
	start := time.Now()
	out, err := fn()
	elapsed := time.Since(start).Round(time.Millisecond)
	if err != nil {
		o.Logf("[pipeline] %s: failed after %s: %v", name, elapsed, err)
		return out, err
	}
	o.Logf("[pipeline] %s: completed in %s", name, elapsed)
	return out, nil
}
