// Package health probes named endpoints, local system resources, and the
// workload runtime, classifying each as Up, Down, or NoCheckConfigured
// and aggregating the verdicts into ordered reports.
package health

import (
	"fmt"
	"time"
)

// State classifies a single probe outcome.
type State string

const (
	// StateUp means the probe succeeded.
	StateUp State = "Up"
	// StateDown means the probe failed, timed out, or returned non-2xx.
	StateDown State = "Down"
	// StateNoCheck means no check is configured for the subject; this is
	// reported as-is and never escalated to Down.
	StateNoCheck State = "NoCheckConfigured"
)

// EndpointSpec names one HTTP probe target. Order in the configured list
// is display order.
type EndpointSpec struct {
	Name      string
	URL       string
	ReadyPath string
}

// Verdict is one probe outcome. Ephemeral; aggregated into a Report.
type Verdict struct {
	Name    string
	State   State
	Latency time.Duration
	Detail  string
}

// Report is an ordered sequence of verdicts with a timestamped identity.
type Report struct {
	GeneratedAt time.Time
	Verdicts    []Verdict
}

// Failing reports whether any verdict is Down. NoCheckConfigured entries
// do not fail a report: a missing check is posture, not an outage.
func (r *Report) Failing() bool {
	for _, v := range r.Verdicts {
		if v.State == StateDown {
			return true
		}
	}
	return false
}

// Counts returns the number of Up, Down, and NoCheckConfigured verdicts.
func (r *Report) Counts() (up, down, noCheck int) {
	for _, v := range r.Verdicts {
		switch v.State {
		case StateUp:
			up++
		case StateDown:
			down++
		case StateNoCheck:
			noCheck++
		}
	}
	return up, down, noCheck
}

func upVerdict(name string, latency time.Duration, detail string) Verdict {
	return Verdict{Name: name, State: StateUp, Latency: latency, Detail: detail}
}

func downVerdict(name string, latency time.Duration, err error) Verdict {
	return Verdict{Name: name, State: StateDown, Latency: latency, Detail: err.Error()}
}

func downVerdictf(name string, format string, v ...any) Verdict {
	return Verdict{Name: name, State: StateDown, Detail: fmt.Sprintf(format, v...)}
}
