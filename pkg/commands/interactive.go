package commands

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/mattn/go-isatty"

	"tableflip.dev/widgets/pkg/tui/harness"
)

var errNotTerminal = errors.New("interactive widgets need a terminal on stdout")

func requireTerminal() error {
	fd := os.Stdout.Fd()
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		return nil
	}
	return errNotTerminal
}

// runHarness runs h full screen and prints the committed value.
func runHarness(h *harness.Model) error {
	p := tea.NewProgram(h, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return err
	}
	if v, ok := h.Result(); ok {
		fmt.Println(v)
	}
	return nil
}
