package applier

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// recapLine matches one host line of an ansible-playbook PLAY RECAP block,
// e.g. "10.0.0.5 : ok=12 changed=3 unreachable=0 failed=0 ...".
var recapLine = regexp.MustCompile(`^(\S+)\s*:\s*(.*ok=\d+.*)$`)

// AnsibleApplier shells out to ansible-playbook. The command runner is a
// field so tests can substitute scripted output.
type AnsibleApplier struct {
	Binary  string
	Timeout time.Duration
	Logf    func(format string, v ...any)

	run func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewAnsibleApplier returns an applier invoking the ansible-playbook binary.
func NewAnsibleApplier(timeout time.Duration, logf func(format string, v ...any)) *AnsibleApplier {
	a := &AnsibleApplier{
		Binary:  "ansible-playbook",
		Timeout: timeout,
		Logf:    logf,
	}
	a.run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return exec.CommandContext(ctx, name, args...).CombinedOutput() // #nosec G204
	}
	return a
}

// Apply runs the playbook against the inventory and parses per-host results
// from the recap. A host is OK only if failed=0 and unreachable=0.
func (a *AnsibleApplier) Apply(ctx context.Context, inventoryPath, playbook string, extraVars map[string]string) ([]HostResult, error) {
	ctx, cancel := context.WithTimeout(ctx, a.Timeout)
	defer cancel()

	args := []string{"-i", inventoryPath, playbook}
	for _, k := range sortedKeys(extraVars) {
		args = append(args, "-e", fmt.Sprintf("%s=%s", k, extraVars[k]))
	}

	a.Logf("[apply] running %s %s", a.Binary, strings.Join(args, " "))
	output, runErr := a.run(ctx, a.Binary, args...)

	results := parseRecap(string(output))
	if len(results) == 0 {
		if runErr != nil {
			return nil, fmt.Errorf("configuration apply failed before producing a recap: %w", runErr)
		}
		return nil, fmt.Errorf("configuration apply produced no recap output")
	}
	return results, nil
}

func parseRecap(output string) []HostResult {
	var results []HostResult
	inRecap := false
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "PLAY RECAP") {
			inRecap = true
			continue
		}
		if !inRecap || line == "" {
			continue
		}
		m := recapLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		counters := parseCounters(m[2])
		failed := counters["failed"] + counters["unreachable"]
		result := HostResult{Host: m[1], OK: failed == 0}
		if failed > 0 {
			result.Message = fmt.Sprintf("failed=%d unreachable=%d", counters["failed"], counters["unreachable"])
		}
		results = append(results, result)
	}
	return results
}

func parseCounters(s string) map[string]int {
	counters := make(map[string]int)
	for _, field := range strings.Fields(s) {
		key, value, found := strings.Cut(field, "=")
		if !found {
			continue
		}
		if n, err := strconv.Atoi(value); err == nil {
			counters[key] = n
		}
	}
	return counters
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
