package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stackctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const minimalConfig = `
stack_name: demo
provisioner:
  location: nbg1
  server_type: cx32
`

func TestLoadFile_AppliesDefaults(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "demo", cfg.StackName)
	assert.Equal(t, "/opt/stack", cfg.DeployRoot)
	assert.Equal(t, "/opt/stack/credentials.yaml", cfg.CredentialsPath)
	assert.Equal(t, "/opt/stack/reports", cfg.ReportDir)
	assert.Equal(t, "deploy", cfg.Provisioner.AdminUser)
	assert.Equal(t, "ubuntu-24.04", cfg.Provisioner.Image)
	assert.Equal(t, 5*time.Minute, cfg.Converge.Timeout.Std())
	assert.Equal(t, 5*time.Second, cfg.Converge.Interval.Std())
	assert.Equal(t, 7, cfg.Backup.RetentionDays)
	assert.Equal(t, "/opt/stack/backups", cfg.Backup.Root)
}

func TestLoadFile_FullConfig(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, `
stack_name: prod
deploy_root: /srv/app
provisioner:
  location: fsn1
  server_type: cx42
  admin_user: azureuser
converge:
  timeout: 60s
  interval: 5s
endpoints:
  - name: Main App
    url: http://example.test/
  - name: Grafana
    url: http://example.test:3000
    ready_path: /api/health
backup:
  retention_days: 14
  targets:
    - name: appdata
      path: /srv/app/data
log_sources:
  app: web
  syslog: file:/var/log/syslog
`))
	require.NoError(t, err)

	assert.Equal(t, 60*time.Second, cfg.Converge.Timeout.Std())
	require.Len(t, cfg.Endpoints, 2)
	assert.Equal(t, "Main App", cfg.Endpoints[0].Name)
	assert.Equal(t, "/api/health", cfg.Endpoints[1].ReadyPath)
	assert.Equal(t, 14, cfg.Backup.RetentionDays)
	assert.Equal(t, "/srv/app/backups", cfg.Backup.Root)
	assert.Equal(t, "web", cfg.LogSources["app"])
}

func TestLoadFile_MissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFile_InvalidYAML(t *testing.T) {
	_, err := LoadFile(writeConfig(t, "stack_name: [broken"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"missing stack name", func(c *Config) { c.StackName = "" }, "stack_name"},
		{"missing location", func(c *Config) { c.Provisioner.Location = "" }, "location"},
		{"unknown location", func(c *Config) { c.Provisioner.Location = "mars1" }, "not a known location"},
		{"missing server type", func(c *Config) { c.Provisioner.ServerType = "" }, "server_type"},
		{"endpoint without name", func(c *Config) {
			c.Endpoints = []EndpointConfig{{URL: "http://x/"}}
		}, "name is required"},
		{"duplicate endpoint", func(c *Config) {
			c.Endpoints = []EndpointConfig{
				{Name: "a", URL: "http://x/"},
				{Name: "a", URL: "http://y/"},
			}
		}, "duplicate name"},
		{"bad endpoint url", func(c *Config) {
			c.Endpoints = []EndpointConfig{{Name: "a", URL: "://"}}
		}, "invalid url"},
		{"relative ready path", func(c *Config) {
			c.Endpoints = []EndpointConfig{{Name: "a", URL: "http://x/", ReadyPath: "health"}}
		}, "must start with /"},
		{"negative retention", func(c *Config) { c.Backup.RetentionDays = -1 }, "retention_days"},
		{"backup target without path", func(c *Config) {
			c.Backup.Targets = []BackupTarget{{Name: "data"}}
		}, "path is required"},
		{"s3 without bucket", func(c *Config) {
			c.Backup.S3 = &S3Config{Endpoint: "https://fsn1.your-objectstorage.com"}
		}, "bucket"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				StackName: "demo",
				Provisioner: ProvisionerConfig{
					Location:   "nbg1",
					ServerType: "cx32",
				},
			}
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadTimeouts_EnvOverride(t *testing.T) {
	t.Setenv("STACKCTL_TIMEOUT_PROBE", "3s")
	t.Setenv("STACKCTL_RETRY_MAX_ATTEMPTS", "9")
	t.Setenv("STACKCTL_TIMEOUT_APPLY", "garbage")

	timeouts := LoadTimeouts()
	assert.Equal(t, 3*time.Second, timeouts.Probe)
	assert.Equal(t, 9, timeouts.RetryMaxAttempts)
	assert.Equal(t, 30*time.Minute, timeouts.Apply, "invalid value falls back to default")
}
