package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for a stackctl deployment. It replaces
// any ambient state (working directory, environment defaults) with explicit
// fields passed to every component.
type Config struct {
	StackName       string `yaml:"stack_name"`
	DeployRoot      string `yaml:"deploy_root"`
	CredentialsPath string `yaml:"credentials_path"`
	ReportDir       string `yaml:"report_dir"`

	Provisioner ProvisionerConfig `yaml:"provisioner"`
	Applier     ApplierConfig     `yaml:"applier"`
	Converge    ConvergeConfig    `yaml:"converge"`

	// Endpoints is the ordered probe list; insertion order is display order.
	Endpoints []EndpointConfig `yaml:"endpoints"`

	Backup   BackupConfig      `yaml:"backup"`
	Services ServicesConfig    `yaml:"services"`
	// LogSources maps an operator-facing name to a compose service name or
	// an absolute log file path (prefixed "file:").
	LogSources map[string]string `yaml:"log_sources"`
}

// ProvisionerConfig describes the compute resource to provision. When
// ssh_public_key is set, the key is registered under ssh_key_name and
// removed again on destroy; otherwise ssh_key_name must already exist.
type ProvisionerConfig struct {
	Location     string `yaml:"location"`
	ServerType   string `yaml:"server_type"`
	Image        string `yaml:"image"`
	AdminUser    string `yaml:"admin_user"`
	SSHKeyName   string `yaml:"ssh_key_name"`
	SSHPublicKey string `yaml:"ssh_public_key"`
}

// ApplierConfig references the playbook handed to the Configuration Applier.
type ApplierConfig struct {
	Playbook      string            `yaml:"playbook"`
	InventoryPath string            `yaml:"inventory_path"`
	ExtraVars     map[string]string `yaml:"extra_vars"`
}

// ConvergeConfig bounds the post-provision reachability wait.
type ConvergeConfig struct {
	Timeout  Duration `yaml:"timeout"`
	Interval Duration `yaml:"interval"`
}

// EndpointConfig is one named HTTP probe target.
type EndpointConfig struct {
	Name      string `yaml:"name"`
	URL       string `yaml:"url"`
	ReadyPath string `yaml:"ready_path"`
}

// BackupConfig holds backup targets, local retention, and the optional
// offsite object-storage destination.
type BackupConfig struct {
	Root          string         `yaml:"root"`
	RetentionDays int            `yaml:"retention_days"`
	Targets       []BackupTarget `yaml:"targets"`
	S3            *S3Config      `yaml:"s3,omitempty"`
}

// BackupTarget is one named directory tree to archive.
type BackupTarget struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// S3Config points at an S3-compatible bucket for offsite backup copies.
type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

// ServicesConfig names the compose project and restartable service groups.
type ServicesConfig struct {
	ComposeProject string              `yaml:"compose_project"`
	Images         []string            `yaml:"images"`
	Groups         map[string][]string `yaml:"groups"`
}

// Duration is a time.Duration that unmarshals from YAML strings like "60s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }
