package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/vidloop/vidloop/player"
	"github.com/vidloop/vidloop/store"
)

// Init unlocks rotation, restores the saved clip and starts playing it.
func (b *statefulBubble) Init() tea.Cmd {
	if orientation, ok := b.env.Engine.(player.Orientation); ok {
		orientation.UnlockRotation()
	}

	effects := b.selector.Initialize(store.LoadRef(b.env.Store))
	return tea.Batch(b.dispatch(effects), b.waitForPlayerEvent())
}
