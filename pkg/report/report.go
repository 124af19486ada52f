/*
 * Copyright 2025 BranchFleet Networks, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package report renders run results into operator-facing summaries and
// writes them to per-site summary files.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/branchfleet/netrefresh/pkg/logger"
	"github.com/branchfleet/netrefresh/pkg/workflow"
)

// Kind labels which workflow produced a summary.
type Kind string

const (
	KindRefresh   Kind = "refresh"
	KindMigration Kind = "template-migration"
)

// Summary is the rendered outcome of one workflow run. Errors are
// carried verbatim from the result so the file matches what the
// operator saw on screen.
type Summary struct {
	RunID      string                 `json:"runId"`
	Kind       Kind                   `json:"kind"`
	Site       string                 `json:"site"`
	NetworkID  string                 `json:"networkId"`
	StartedAt  time.Time              `json:"startedAt"`
	FinishedAt time.Time              `json:"finishedAt"`
	Phases     []workflow.PhaseResult `json:"phases"`
	Added      []workflow.AddedDevice `json:"added,omitempty"`
	WanNote    string                 `json:"wanNote,omitempty"`
	Errors     []string               `json:"errors,omitempty"`
}

// FromResult builds a Summary from a workflow result, assigning a fresh
// run ID.
func FromResult(kind Kind, result *workflow.Result) *Summary {
	s := &Summary{
		RunID:      uuid.NewString(),
		Kind:       kind,
		Site:       result.Site,
		NetworkID:  result.NetworkID,
		StartedAt:  result.StartedAt,
		FinishedAt: result.FinishedAt,
		Phases:     result.Phases,
		Added:      result.Added,
		Errors:     result.Errors,
	}

	s.WanNote = wanNote(result)

	return s
}

func wanNote(result *workflow.Result) string {
	switch {
	case result.Snapshot == nil:
		return ""
	case result.ReplayedTo != "":
		return fmt.Sprintf("static WAN %s captured from %s and replayed to %s",
			result.Snapshot.StaticIP, result.Snapshot.SourceSerial, result.ReplayedTo)
	default:
		return fmt.Sprintf("static WAN %s captured from %s but not replayed",
			result.Snapshot.StaticIP, result.Snapshot.SourceSerial)
	}
}

// Render produces the plain-text summary block.
func (s *Summary) Render() string {
	var b strings.Builder

	title := fmt.Sprintf("%s summary - %s", strings.ToUpper(string(s.Kind)[:1])+string(s.Kind)[1:], s.Site)
	rule := strings.Repeat("=", 50)

	fmt.Fprintf(&b, "%s\n %s\n%s\n", rule, title, rule)
	fmt.Fprintf(&b, "Run ID:   %s\n", s.RunID)
	fmt.Fprintf(&b, "Network:  %s\n", s.NetworkID)
	fmt.Fprintf(&b, "Started:  %s\n", s.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Finished: %s (took %s)\n", s.FinishedAt.Format("2006-01-02 15:04:05"),
		s.FinishedAt.Sub(s.StartedAt).Round(time.Second))

	b.WriteString("\nPhases:\n")

	for _, ph := range s.Phases {
		status := fmt.Sprintf("%d affected", ph.Affected)

		switch {
		case ph.Skipped:
			status = "skipped"
		case len(ph.Errors) > 0:
			status = fmt.Sprintf("%d affected, %d errors", ph.Affected, len(ph.Errors))
		}

		fmt.Fprintf(&b, "  %-22s %s\n", ph.Name, status)

		for _, item := range ph.Items {
			fmt.Fprintf(&b, "      - %s\n", item)
		}
	}

	if len(s.Added) > 0 {
		b.WriteString("\nAdded devices:\n")

		for _, added := range s.Added {
			line := added.Serial

			if added.Name != "" {
				line += "  " + added.Name
			}

			if added.Model != "" {
				line += fmt.Sprintf("  (%s)", added.Model)
			}

			fmt.Fprintf(&b, "  - %s\n", line)
		}
	}

	if s.WanNote != "" {
		fmt.Fprintf(&b, "\nWAN: %s\n", s.WanNote)
	}

	if len(s.Errors) > 0 {
		fmt.Fprintf(&b, "\nErrors (%d):\n", len(s.Errors))

		for _, e := range s.Errors {
			fmt.Fprintf(&b, "  - %s\n", e)
		}
	} else {
		b.WriteString("\nNo errors.\n")
	}

	return b.String()
}

// Filename derives the summary file name from the site and start time,
// so re-runs never clobber an earlier summary.
func (s *Summary) Filename() string {
	return fmt.Sprintf("refresh-summary-%s-%s.txt", sanitizeSite(s.Site), s.StartedAt.Format("20060102-150405"))
}

// sanitizeSite reduces a site name to a filesystem-safe slug.
func sanitizeSite(site string) string {
	var b strings.Builder

	for _, r := range strings.ToLower(site) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case r == ' ', r == '_', r == '/':
			b.WriteRune('-')
		}
	}

	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		slug = "site"
	}

	return slug
}

// Writer persists summaries under a directory. A failed write is the
// operator's problem to notice, never the run's.
type Writer struct {
	Dir    string
	Logger logger.Logger
}

func NewWriter(dir string, log logger.Logger) *Writer {
	return &Writer{Dir: dir, Logger: log}
}

// Write renders the summary to its file and returns the path.
func (w *Writer) Write(summary *Summary) (string, error) {
	dir := w.Dir
	if dir == "" {
		dir = "."
	}

	path := filepath.Join(dir, summary.Filename())

	if err := os.WriteFile(path, []byte(summary.Render()), 0o600); err != nil {
		w.Logger.Warn().
			Err(err).
			Str("path", path).
			Msg("Could not write summary file")

		return "", fmt.Errorf("write summary: %w", err)
	}

	w.Logger.Info().Str("path", path).Msg("Summary written")

	return path, nil
}
