// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command
// definitions in the commands package. Handlers are framework-agnostic and
// can be tested independently of the CLI framework.
package handlers

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/mvarga/stackctl/internal/config"
	"github.com/mvarga/stackctl/internal/health"
	"github.com/mvarga/stackctl/internal/maintain"
	platformhcloud "github.com/mvarga/stackctl/internal/platform/hcloud"
	"github.com/mvarga/stackctl/internal/platform/s3"
	"github.com/mvarga/stackctl/internal/provision"
	"github.com/mvarga/stackctl/internal/runtime"
	"github.com/mvarga/stackctl/internal/ui"
	"github.com/mvarga/stackctl/internal/util/prerequisites"
)

// actionRunner serializes maintenance actions per target for the lifetime
// of the process. This matters in the interactive console, where one
// session can trigger many actions.
var actionRunner = maintain.NewRunner()

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadConfigFile loads config from file (for testing injection).
	loadConfigFile = config.LoadFile

	// findConfigFile finds the default config file (for testing injection).
	findConfigFile = config.Find

	// newProvisioner creates the cloud provisioner.
	newProvisioner = func(token string) provision.Provisioner {
		client := platformhcloud.NewRealClient(token)
		return provision.NewHCloudProvisioner(client, log.Printf)
	}

	// newEngine creates the container engine client.
	newEngine = func(project string) runtime.Engine {
		return runtime.NewComposeEngine(project, log.Printf)
	}

	// newUploader creates the offsite backup uploader.
	newUploader = func(cfg *config.S3Config) (maintain.Uploader, error) {
		return s3.NewClient(cfg.Endpoint, cfg.Region, cfg.AccessKey, cfg.SecretKey)
	}

	// checkOpsPrereqs runs the host tool checks for maintenance actions.
	checkOpsPrereqs = prerequisites.CheckOperations
)

// loadConfig loads and validates the configuration. If configPath is
// empty, it looks for stackctl.yaml in the current directory.
func loadConfig(configPath string) (*config.Config, error) {
	if configPath == "" {
		path, err := findConfigFile()
		if err != nil {
			return nil, err
		}
		configPath = path
	}
	cfg, err := loadConfigFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// hcloudToken reads the API token from the environment.
func hcloudToken() (string, error) {
	token := os.Getenv("HCLOUD_TOKEN")
	if token == "" {
		return "", fmt.Errorf("HCLOUD_TOKEN environment variable is not set")
	}
	return token, nil
}

// provisionSpec maps configuration to the provisioner's input.
func provisionSpec(cfg *config.Config) provision.Spec {
	return provision.Spec{
		Name:         cfg.StackName,
		Location:     cfg.Provisioner.Location,
		ServerType:   cfg.Provisioner.ServerType,
		Image:        cfg.Provisioner.Image,
		AdminUser:    cfg.Provisioner.AdminUser,
		SSHKeyName:   cfg.Provisioner.SSHKeyName,
		SSHPublicKey: cfg.Provisioner.SSHPublicKey,
		Labels:       map[string]string{"managed-by": "stackctl", "stack": cfg.StackName},
	}
}

// endpointSpecs maps the ordered endpoint config to probe specs.
func endpointSpecs(cfg *config.Config) []health.EndpointSpec {
	specs := make([]health.EndpointSpec, 0, len(cfg.Endpoints))
	for _, ep := range cfg.Endpoints {
		specs = append(specs, health.EndpointSpec{Name: ep.Name, URL: ep.URL, ReadyPath: ep.ReadyPath})
	}
	return specs
}

// backupTargets maps the configured backup targets.
func backupTargets(cfg *config.Config) []maintain.Target {
	targets := make([]maintain.Target, 0, len(cfg.Backup.Targets))
	for _, t := range cfg.Backup.Targets {
		targets = append(targets, maintain.Target{Name: t.Name, Path: t.Path})
	}
	return targets
}

// newBackuper builds the backuper, wiring the offsite uploader when an S3
// destination is configured.
func newBackuper(cfg *config.Config) (*maintain.Backuper, error) {
	b := maintain.NewBackuper(cfg.Backup.Root, cfg.Backup.RetentionDays, backupTargets(cfg))
	if cfg.Backup.S3 != nil {
		uploader, err := newUploader(cfg.Backup.S3)
		if err != nil {
			return nil, fmt.Errorf("failed to create S3 client: %w", err)
		}
		b.Uploader = uploader
		b.Bucket = cfg.Backup.S3.Bucket
	}
	return b, nil
}

// certDir is where the applier installs TLS material on the host.
func certDir(cfg *config.Config) string {
	return filepath.Join(cfg.DeployRoot, "certs")
}

// printVerdicts renders verdicts as styled status lines.
func printVerdicts(verdicts []health.Verdict) {
	for _, v := range verdicts {
		extra := v.Detail
		if v.Latency > 0 {
			extra = fmt.Sprintf("%s (%s)", v.Detail, v.Latency.Round(time.Millisecond))
		}
		switch v.State {
		case health.StateUp:
			ui.OK(v.Name, extra)
		case health.StateDown:
			ui.Fail(v.Name, extra)
		case health.StateNoCheck:
			ui.Skip(v.Name, extra)
		}
	}
}

// printSteps renders maintenance sub-step results.
func printSteps(steps []maintain.StepResult) {
	for _, s := range steps {
		if s.OK() {
			ui.OK(s.Name, "")
		} else {
			ui.Fail(s.Name, s.Err.Error())
		}
	}
}
