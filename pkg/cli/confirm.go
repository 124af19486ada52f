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
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// PromptConfirmer asks yes/no questions before destructive operations.
// On a terminal it runs a small TUI; otherwise it reads one line from
// stdin so piped invocations still work.
type PromptConfirmer struct {
	styles      *Styles
	in          io.Reader
	out         io.Writer
	interactive func() bool
}

func NewPromptConfirmer() *PromptConfirmer {
	return &PromptConfirmer{
		styles:      newStyles(),
		in:          os.Stdin,
		out:         os.Stdout,
		interactive: isInputFromTerminal,
	}
}

// Confirm blocks until the operator answers. Anything other than an
// affirmative answer declines.
func (c *PromptConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	if !c.interactive() {
		return confirmFromReader(c.in, c.out, prompt)
	}

	program := tea.NewProgram(newConfirmModel(prompt, c.styles), tea.WithContext(ctx))

	final, err := program.Run()
	if err != nil {
		return false, err
	}

	m, ok := final.(*confirmModel)
	if !ok {
		return false, nil
	}

	return m.approved, nil
}

// autoConfirmer approves every prompt, for -yes runs.
type autoConfirmer struct{}

func (autoConfirmer) Confirm(_ context.Context, _ string) (bool, error) {
	return true, nil
}

func confirmFromReader(in io.Reader, out io.Writer, prompt string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N]: ", prompt)

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}

	return isAffirmative(line), nil
}

func isAffirmative(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func isInputFromTerminal() bool {
	fileInfo, _ := os.Stdin.Stat()

	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

type confirmModel struct {
	prompt   string
	input    textinput.Model
	styles   *Styles
	approved bool
	done     bool
}

func newConfirmModel(prompt string, styles *Styles) *confirmModel {
	ti := textinput.New()
	ti.Placeholder = "y/N"
	ti.Focus()
	ti.Width = 10
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(draculaCyan))
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(draculaForeground))
	ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(draculaComment))

	return &confirmModel{prompt: prompt, input: ti, styles: styles}
}

func (*confirmModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		//nolint:exhaustive // Default case handles all unlisted keys
		switch keyMsg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.approved = false
			m.done = true

			return m, tea.Quit
		case tea.KeyEnter:
			m.approved = isAffirmative(m.input.Value())
			m.done = true

			return m, tea.Quit
		}
	}

	return m, cmd
}

func (m *confirmModel) View() string {
	if m.done {
		return ""
	}

	var content strings.Builder

	for _, line := range strings.Split(m.prompt, "\n") {
		content.WriteString(m.styles.Warning.Render(line) + "\n")
	}

	content.WriteString("\n" + m.input.View() + "\n\n")
	content.WriteString(m.styles.Muted.Render("Enter → answer | Ctrl+C/Esc → abort"))

	return content.String()
}
