package snapshot

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// Summary aggregates the outcome of a complete collection run. It is computed
// only after all tasks finish and is consumed by the operator, not machines
// (a YAML sidecar is written for tooling that wants structure anyway).
type Summary struct {
	RunID          string       `yaml:"run_id"`
	Context        string       `yaml:"context"`
	StartedAt      time.Time    `yaml:"started_at"`
	FinishedAt     time.Time    `yaml:"finished_at"`
	Namespaces     []string     `yaml:"namespaces"`
	Tasks          []TaskReport `yaml:"tasks"`
	TotalArtifacts int          `yaml:"total_artifacts"`
	TotalFiles     int          `yaml:"total_files"`
	TotalBytes     int64        `yaml:"total_bytes"`
	Canceled       bool         `yaml:"canceled,omitempty"`
}

// Report renders the human-readable run report. It enumerates what was
// attempted, not just what succeeded, so the operator can spot silent gaps.
func (s *Summary) Report() string {
	p := message.NewPrinter(language.English)
	var b strings.Builder

	b.WriteString("cluster diagnostic snapshot\n")
	b.WriteString("===========================\n")
	fmt.Fprintf(&b, "run id:      %s\n", s.RunID)
	fmt.Fprintf(&b, "context:     %s\n", s.Context)
	fmt.Fprintf(&b, "started:     %s\n", s.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "duration:    %s\n", s.FinishedAt.Sub(s.StartedAt).Round(time.Millisecond))
	fmt.Fprintf(&b, "namespaces:  %s\n", strings.Join(s.Namespaces, ", "))
	if s.Canceled {
		b.WriteString("note:        run canceled by operator; archive is partial\n")
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "%-24s %10s %10s %8s %8s\n", "task", "attempted", "succeeded", "failed", "skipped")
	for _, t := range s.Tasks {
		fmt.Fprintf(&b, "%-24s %10d %10d %8d %8d", t.Task, t.Attempted, t.Succeeded, t.Failed, t.Skipped)
		if t.Note != "" {
			fmt.Fprintf(&b, "  (%s)", t.Note)
		}
		b.WriteByte('\n')
	}

	b.WriteString("\n")
	p.Fprintf(&b, "total artifacts: %d\n", s.TotalArtifacts)
	p.Fprintf(&b, "total files:     %d\n", s.TotalFiles)
	fmt.Fprintf(&b, "total size:      %s\n", formatBytes(s.TotalBytes))

	return b.String()
}

// YAML renders the machine-readable sidecar.
func (s *Summary) YAML() ([]byte, error) {
	return yaml.Marshal(s)
}

// formatBytes formats bytes into human-readable format.
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
