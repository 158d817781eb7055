package maintain

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// CheckStatus classifies one audit check outcome.
type CheckStatus string

const (
	CheckPass CheckStatus = "pass"
	CheckWarn CheckStatus = "warn"
	CheckFail CheckStatus = "fail"
)

// CheckResult is one audit line.
type CheckResult struct {
	Name   string
	Status CheckStatus
	Detail string
}

// Auditor runs the read-only security posture checks against the host.
type Auditor struct {
	CredentialsPath string
	CertDir         string
	DeployRoot      string
	// SSHDConfigPath is overridable in tests.
	SSHDConfigPath string
}

// NewAuditor returns an Auditor with the standard sshd config path.
func NewAuditor(credentialsPath, certDir, deployRoot string) *Auditor {
	return &Auditor{
		CredentialsPath: credentialsPath,
		CertDir:         certDir,
		DeployRoot:      deployRoot,
		SSHDConfigPath:  "/etc/ssh/sshd_config",
	}
}

// Audit runs every check and returns one result per check. Checks never
// modify anything.
func (a *Auditor) Audit() []CheckResult {
	return []CheckResult{
		a.checkCredentialsMode(),
		a.checkCredentialsDir(),
		a.checkCertDir(),
		a.checkRootLogin(),
		a.checkWorldWritable(),
	}
}

// Failed reports whether any result is a hard failure.
func Failed(results []CheckResult) bool {
	for _, r := range results {
		if r.Status == CheckFail {
			return true
		}
	}
	return false
}

func (a *Auditor) checkCredentialsMode() CheckResult {
	name := "credentials file permissions"
	info, err := os.Stat(a.CredentialsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return CheckResult{name, CheckWarn, "no credentials file present"}
		}
		return CheckResult{name, CheckFail, err.Error()}
	}
	if mode := info.Mode().Perm(); mode != 0o600 {
		return CheckResult{name, CheckFail, fmt.Sprintf("mode is %04o, want 0600", mode)}
	}
	return CheckResult{name, CheckPass, "mode 0600"}
}

func (a *Auditor) checkCredentialsDir() CheckResult {
	name := "credentials directory"
	dir := filepath.Dir(a.CredentialsPath)
	info, err := os.Stat(dir)
	if err != nil {
		return CheckResult{name, CheckWarn, err.Error()}
	}
	if info.Mode().Perm()&0o004 != 0 {
		return CheckResult{name, CheckFail, fmt.Sprintf("%s is world-readable", dir)}
	}
	return CheckResult{name, CheckPass, dir + " is not world-readable"}
}

func (a *Auditor) checkCertDir() CheckResult {
	name := "tls certificates"
	if a.CertDir == "" {
		return CheckResult{name, CheckWarn, "no certificate directory configured"}
	}
	entries, err := os.ReadDir(a.CertDir)
	if err != nil {
		return CheckResult{name, CheckFail, err.Error()}
	}
	if len(entries) == 0 {
		return CheckResult{name, CheckFail, a.CertDir + " is empty"}
	}
	return CheckResult{name, CheckPass, fmt.Sprintf("%d entries in %s", len(entries), a.CertDir)}
}

// checkRootLogin verifies sshd rejects password root login. An absent
// directive falls back to the sshd default (prohibit-password), which is
// acceptable but worth surfacing.
func (a *Auditor) checkRootLogin() CheckResult {
	name := "sshd root login"
	data, err := os.ReadFile(a.SSHDConfigPath) // #nosec G304
	if err != nil {
		return CheckResult{name, CheckWarn, err.Error()}
	}

	value := ""
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(strings.TrimSpace(line))
		if len(fields) >= 2 && strings.EqualFold(fields[0], "PermitRootLogin") {
			value = strings.ToLower(fields[1])
		}
	}
	switch value {
	case "no", "prohibit-password", "without-password":
		return CheckResult{name, CheckPass, "PermitRootLogin " + value}
	case "":
		return CheckResult{name, CheckWarn, "PermitRootLogin not set, relying on sshd default"}
	default:
		return CheckResult{name, CheckFail, "PermitRootLogin " + value}
	}
}

func (a *Auditor) checkWorldWritable() CheckResult {
	name := "world-writable files"
	var offenders []string
	err := filepath.WalkDir(a.DeployRoot, func(path string, d fs.DirEntry, werr error) error {
		if werr != nil {
			if os.IsNotExist(werr) {
				return nil
			}
			return werr
		}
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		info, ierr := d.Info()
		if ierr != nil {
			return nil
		}
		if info.Mode().Perm()&0o002 != 0 {
			offenders = append(offenders, path)
		}
		return nil
	})
	if err != nil {
		return CheckResult{name, CheckWarn, err.Error()}
	}
	if len(offenders) > 0 {
		return CheckResult{name, CheckFail, fmt.Sprintf("%d world-writable paths under %s, e.g. %s", len(offenders), a.DeployRoot, offenders[0])}
	}
	return CheckResult{name, CheckPass, "none under " + a.DeployRoot}
}
