package handlers

import (
	"context"
	"log"

	"github.com/mvarga/stackctl/internal/applier"
	"github.com/mvarga/stackctl/internal/bridge"
	"github.com/mvarga/stackctl/internal/config"
	"github.com/mvarga/stackctl/internal/converge"
	"github.com/mvarga/stackctl/internal/health"
	"github.com/mvarga/stackctl/internal/pipeline"
	"github.com/mvarga/stackctl/internal/ui"
	"github.com/mvarga/stackctl/internal/util/prerequisites"
)

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// newApplier creates the configuration applier.
	newApplier = func(timeouts *config.Timeouts) applier.Applier {
		return applier.NewAnsibleApplier(timeouts.Apply, log.Printf)
	}

	// newProber builds the convergence prober for a bridged descriptor.
	newProber = func(desc *bridge.ConnectionDescriptor, timeouts *config.Timeouts) (converge.Prober, error) {
		return converge.NewSSHProber(desc, timeouts.SSHDial)
	}

	// checkDeployPrereqs runs the client tool checks.
	checkDeployPrereqs = prerequisites.CheckDeploy
)

// Deploy runs the full handoff pipeline:
//
//  1. Provision the application server
//  2. Bridge the generated credentials into the descriptor and inventory
//  3. Wait for SSH convergence
//  4. Apply the configured playbook
//  5. Probe the configured endpoints
//
// The credentials artifact is written right after a successful provision
// stage and survives later failures, so a half-configured host stays
// reachable for debugging.
func Deploy(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	token, err := hcloudToken()
	if err != nil {
		return err
	}
	if results := checkDeployPrereqs(); results.HasErrors() {
		return results.Error()
	}
	timeouts := config.LoadTimeouts()

	ui.Title("Deploying stack: " + cfg.StackName)

	orchestrator := &pipeline.Orchestrator{
		Provisioner:    newProvisioner(token),
		DescriptorPath: cfg.CredentialsPath,
		InventoryPath:  cfg.Applier.InventoryPath,
		Waiter:         converge.NewWaiter(cfg.Converge.Timeout.Std(), cfg.Converge.Interval.Std(), log.Printf),
		NewProber: func(desc *bridge.ConnectionDescriptor) (converge.Prober, error) {
			return newProber(desc, timeouts)
		},
		Applier:   newApplier(timeouts),
		Playbook:  cfg.Applier.Playbook,
		ExtraVars: cfg.Applier.ExtraVars,
		Verify: func(ctx context.Context) *health.Report {
			engine := health.NewEngine(timeouts.Probe)
			reporter := &health.Reporter{Endpoints: engine, Specs: endpointSpecs(cfg)}
			return reporter.EndpointsOnly(ctx)
		},
		Logf: log.Printf,
	}

	res := orchestrator.Run(ctx, provisionSpec(cfg))
	printPipelineResult(res)
	return res.Err
}

func printPipelineResult(res *pipeline.Result) {
	if res.Descriptor != nil {
		ui.Dim("connect with: " + res.Descriptor.SSHCommand)
	}
	for _, hr := range res.HostResults {
		if hr.OK {
			ui.OK("configured "+hr.Host, "")
		} else {
			ui.Fail("configure "+hr.Host, hr.Message)
		}
	}
	if res.Report != nil {
		ui.Section("Post-deploy verification")
		printVerdicts(res.Report.Verdicts)
	}
	if res.Err != nil {
		ui.Fail("deploy halted at stage "+string(res.Stage), res.Err.Error())
		return
	}
	ui.OK("deploy complete", "")
}
