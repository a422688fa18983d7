package bootstrap

import (
	"fmt"
	"io"
	"time"
)

// Plan run statuses.
const (
	StatusOK       = "ok"
	StatusFailed   = "failed"
	StatusRejected = "rejected"
)

// PlanStatus is the tracked outcome of one plan.
type PlanStatus struct {
	Name     string
	Terminal string
	Status   string
	Duration time.Duration
	Detail   string
}

// Summary tracks and displays what a run did.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
	plans           []PlanStatus
}

// NewSummary creates a new run summary tracker.
func NewSummary(serviceName, version string) *Summary {
	return &Summary{serviceName: serviceName, version: version}
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// TrackPlan adds a plan's outcome to the summary.
func (s *Summary) TrackPlan(p PlanStatus) {
	s.plans = append(s.plans, p)
}

// Plans returns the tracked plan outcomes in order.
func (s *Summary) Plans() []PlanStatus {
	return s.plans
}

// Failed reports how many plans did not finish with StatusOK.
func (s *Summary) Failed() int {
	n := 0
	for _, p := range s.plans {
		if p.Status != StatusOK {
			n++
		}
	}
	return n
}

// Display writes the summary as a tree.
func (s *Summary) Display(w io.Writer) {
	version := s.version
	if version == "" {
		version = "dev"
	}
	fmt.Fprintf(w, "\n%s v%s started in %.2fs\n\n", s.serviceName, version, s.startupDuration.Seconds())

	if len(s.plans) == 0 {
		fmt.Fprintf(w, "   └── No plans run\n\n")
		return
	}

	fmt.Fprintf(w, "Plans\n")
	for i, p := range s.plans {
		prefix := "├──"
		if i == len(s.plans)-1 {
			prefix = "└──"
		}
		line := fmt.Sprintf("   %s %s %s", prefix, statusIcon(p.Status), p.Name)
		if p.Terminal != "" {
			line += fmt.Sprintf(" [%s]", p.Terminal)
		}
		if p.Status == StatusOK {
			line += fmt.Sprintf(" %dms", p.Duration.Milliseconds())
		} else if p.Detail != "" {
			line += ": " + p.Detail
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w)

	total := len(s.plans)
	if failed := s.Failed(); failed == 0 {
		fmt.Fprintf(w, "✅ All plans completed (%d/%d)\n", total, total)
	} else {
		fmt.Fprintf(w, "⚠️  Some plans did not complete (%d/%d ok)\n", total-failed, total)
	}
}

func statusIcon(status string) string {
	switch status {
	case StatusOK:
		return "✅"
	case StatusRejected:
		return "⛔"
	case StatusFailed:
		return "❌"
	default:
		return "⚠️"
	}
}
