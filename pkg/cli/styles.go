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

package cli

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/branchfleet/netrefresh/pkg/staging"
)

// Dracula theme colors.
const (
	draculaForeground = "#F8F8F2"
	draculaCyan       = "#8BE9FD"
	draculaGreen      = "#50FA7B"
	draculaOrange     = "#FFB86C"
	draculaPink       = "#FF79C6"
	draculaPurple     = "#BD93F9"
	draculaRed        = "#FF5555"
	draculaYellow     = "#F1FA8C"
	draculaComment    = "#6272A4"
)

// Styles groups the lipgloss styles used across command output.
type Styles struct {
	Title   lipgloss.Style
	Header  lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Accent  lipgloss.Style
}

func newStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaPink)).
			Bold(true),
		Header: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaPurple)).
			Bold(true),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaGreen)),
		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaOrange)),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaRed)).
			Bold(true),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaComment)),
		Accent: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaCyan)),
	}
}

// renderCapacity lays out staging bucket usage as a table.
func (s *Styles) renderCapacity(statuses []staging.BucketStatus) string {
	var b strings.Builder

	b.WriteString(s.Title.Render("Staging capacity") + "\n\n")

	tw := tabwriter.NewWriter(&b, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NETWORK\tUSED\tFREE\tSTAGED")

	totalFree := 0

	for _, st := range statuses {
		staged := make([]string, 0, len(st.Staged))
		for _, d := range st.Staged {
			label := d.Serial
			if d.Name != "" {
				label = fmt.Sprintf("%s (%s)", d.Serial, d.Name)
			}

			staged = append(staged, label)
		}

		free := fmt.Sprintf("%d", st.Slack)
		if st.Err != nil {
			free = "unreadable"
		}

		fmt.Fprintf(tw, "%s\t%d/%d\t%s\t%s\n", st.Name, st.Used, st.Capacity, free, strings.Join(staged, ", "))

		totalFree += st.Slack
	}

	_ = tw.Flush()

	b.WriteString("\n" + s.Muted.Render(fmt.Sprintf("%d free slots across %d networks", totalFree, len(statuses))) + "\n")

	return b.String()
}

// renderDistribution lays out a staging batch result: where each serial
// landed and the removal commands for the follow-up visit.
func (s *Styles) renderDistribution(result *staging.DistributionResult) string {
	var b strings.Builder

	if len(result.Assignments) > 0 {
		b.WriteString(s.Title.Render("Staged devices") + "\n")

		networks := make([]string, 0, len(result.Assignments))
		for name := range result.Assignments {
			networks = append(networks, name)
		}

		sort.Strings(networks)

		for _, name := range networks {
			b.WriteString(fmt.Sprintf("  %s: %s\n", s.Accent.Render(name), strings.Join(result.Assignments[name], ", ")))
		}
	}

	if len(result.Failed) > 0 {
		b.WriteString(s.Error.Render(fmt.Sprintf("Failed to claim: %s", strings.Join(result.Failed, ", "))) + "\n")
	}

	if len(result.Unassigned) > 0 {
		b.WriteString(s.Warning.Render(fmt.Sprintf("Not staged: %s", strings.Join(result.Unassigned, ", "))) + "\n")
	}

	if len(result.RemovalCommands) > 0 {
		b.WriteString("\n" + s.Header.Render("Removal commands for the swap visit:") + "\n")

		for _, cmd := range result.RemovalCommands {
			b.WriteString("  " + cmd + "\n")
		}
	}

	return b.String()
}
