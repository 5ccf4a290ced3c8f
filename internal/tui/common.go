// Package tui implements the full-screen interview interface using Bubble Tea.
package tui

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/memoflow-dev/memoflow/internal/interview"
)

// IsTTY returns true if stdout is connected to a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// RunInterview runs one interview session in the alternate screen. After
// the program exits, the save locations are printed to the normal screen
// so they survive the TUI teardown.
func RunInterview(ctx context.Context, d *interview.Driver) error {
	p := tea.NewProgram(newInterviewModel(ctx, d), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return err
	}

	m, ok := final.(interviewModel)
	if !ok {
		return nil
	}
	if m.err != nil {
		return m.err
	}
	if m.savedPath != "" {
		fmt.Printf("Session saved: %s (%d exchanges)\n", m.savedPath, d.Exchanges())
	}
	if m.insightsPath != "" {
		fmt.Printf("Insights saved: %s\n", m.insightsPath)
	}
	return nil
}
