package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidLocations contains all valid Hetzner Cloud datacenter locations.
// https://docs.hetzner.com/cloud/general/locations/
var ValidLocations = map[string]bool{
	"nbg1": true, // Nuremberg, Germany
	"fsn1": true, // Falkenstein, Germany
	"hel1": true, // Helsinki, Finland
	"ash":  true, // Ashburn, USA
	"hil":  true, // Hillsboro, USA
	"sin":  true, // Singapore
}

// Validate checks the configuration for common errors.
func (c *Config) Validate() error {
	if c.StackName == "" {
		return fmt.Errorf("stack_name is required")
	}
	if c.Provisioner.Location == "" {
		return fmt.Errorf("provisioner.location is required")
	}
	if !ValidLocations[c.Provisioner.Location] {
		return fmt.Errorf("provisioner.location %q is not a known location", c.Provisioner.Location)
	}
	if c.Provisioner.ServerType == "" {
		return fmt.Errorf("provisioner.server_type is required")
	}

	if err := c.validateEndpoints(); err != nil {
		return err
	}
	return c.validateBackup()
}

func (c *Config) validateEndpoints() error {
	seen := make(map[string]bool, len(c.Endpoints))
	for i, ep := range c.Endpoints {
		if ep.Name == "" {
			return fmt.Errorf("endpoints[%d]: name is required", i)
		}
		if seen[ep.Name] {
			return fmt.Errorf("endpoints[%d]: duplicate name %q", i, ep.Name)
		}
		seen[ep.Name] = true

		u, err := url.Parse(ep.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("endpoints[%d] (%s): invalid url %q", i, ep.Name, ep.URL)
		}
		if ep.ReadyPath != "" && !strings.HasPrefix(ep.ReadyPath, "/") {
			return fmt.Errorf("endpoints[%d] (%s): ready_path must start with /", i, ep.Name)
		}
	}
	return nil
}

func (c *Config) validateBackup() error {
	if c.Backup.RetentionDays < 0 {
		return fmt.Errorf("backup.retention_days must not be negative")
	}
	for i, t := range c.Backup.Targets {
		if t.Name == "" {
			return fmt.Errorf("backup.targets[%d]: name is required", i)
		}
		if t.Path == "" {
			return fmt.Errorf("backup.targets[%d] (%s): path is required", i, t.Name)
		}
	}
	if s3 := c.Backup.S3; s3 != nil {
		if s3.Endpoint == "" || s3.Bucket == "" {
			return fmt.Errorf("backup.s3: endpoint and bucket are required when s3 is configured")
		}
	}
	return nil
}
