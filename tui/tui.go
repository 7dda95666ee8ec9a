// Package tui provides the looping surface: a single screen that keeps a clip
// playing, resumes it on a tap and opens the selection menu on a tap sequence.
package tui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/vidloop/vidloop/picker"
	"github.com/vidloop/vidloop/selector"
	"github.com/vidloop/vidloop/store"
)

// Options holds the collaborators the screen drives.
type Options struct {
	Store   store.Store
	Engine  selector.Engine
	Library *picker.Library

	// Clock defaults to the real clock.
	Clock clockwork.Clock
}

// Run starts the screen and blocks until the user quits.
func Run(options *Options) error {
	if options.Store == nil {
		return errors.New("tui: a store is required")
	}
	if options.Library == nil {
		options.Library = picker.LibraryFromConfig()
	}

	bubble := newBubble(options)
	_, err := tea.NewProgram(bubble, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
