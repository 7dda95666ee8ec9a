package tui

import (
	"fmt"
	"path/filepath"

	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/vidloop/vidloop/log"
	"github.com/vidloop/vidloop/picker"
	"github.com/vidloop/vidloop/selector"
)

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if cmd := b.notifier.Update(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
		var cmd tea.Cmd
		b.pickerC, cmd = b.pickerC.Update(msg)
		return b, tea.Batch(append(cmds, cmd)...)
	case windowLapsedMsg:
		b.detector.Expire(msg.generation)
		return b, tea.Batch(cmds...)
	case spinner.TickMsg:
		if b.applying == 0 {
			return b, tea.Batch(cmds...)
		}
		var cmd tea.Cmd
		b.spinnerC, cmd = b.spinnerC.Update(msg)
		return b, tea.Batch(append(cmds, cmd)...)
	case effectsAppliedMsg:
		b.applying = max(b.applying-1, 0)
		cmds = append(cmds, b.present(msg.interactive))
		if msg.err != nil {
			cmds = append(cmds, b.dispatch(b.selector.PlaybackFailed(msg.err)))
		} else {
			cmds = append(cmds, b.notify(status(msg.applied)))
		}
		return b, tea.Batch(cmds...)
	case permissionMsg:
		permission := msg.permission
		if msg.err != nil {
			log.Warnf("library access: %v", msg.err)
			permission = picker.Denied
		}
		return b, tea.Batch(append(cmds, b.dispatch(b.selector.PermissionResolved(permission)))...)
	case playerEventMsg:
		cmds = append(cmds, b.waitForPlayerEvent())
		if msg.event.Failed() {
			cmds = append(cmds, b.dispatch(b.selector.PlaybackFailed(msg.event.Err())))
		}
		return b, tea.Batch(cmds...)
	case tea.KeyMsg:
		if bubblesKey.Matches(msg, b.keymap.forceQuit) {
			return b, tea.Quit
		}
	}

	var cmd tea.Cmd
	switch b.state {
	case surfaceState:
		cmd = b.updateSurface(msg)
	case menuState:
		cmd = b.updateMenu(msg)
	case pickerState:
		cmd = b.updatePicker(msg)
	case noticeState:
		cmd = b.updateNotice(msg)
	}

	return b, tea.Batch(append(cmds, cmd)...)
}

func (b *statefulBubble) updateSurface(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case bubblesKey.Matches(msg, b.keymap.quit):
			return tea.Quit
		case bubblesKey.Matches(msg, b.keymap.tap):
			return b.tap()
		}
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			return b.tap()
		}
	}

	return nil
}

func (b *statefulBubble) updateMenu(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.confirm):
			choice := selector.ChoiceCancel
			if item, ok := b.menuC.SelectedItem().(*listItem); ok {
				choice = item.choice
			}
			return b.choose(choice)
		case bubblesKey.Matches(msg, b.keymap.back), bubblesKey.Matches(msg, b.keymap.quit):
			return b.choose(selector.ChoiceCancel)
		}
	}

	var cmd tea.Cmd
	b.menuC, cmd = b.menuC.Update(msg)
	return cmd
}

func (b *statefulBubble) choose(choice selector.Choice) tea.Cmd {
	b.previousState()
	return b.dispatch(b.selector.Choose(choice))
}

func (b *statefulBubble) updatePicker(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok && bubblesKey.Matches(msg, b.keymap.back) {
		return b.resolvePick(picker.Canceled())
	}

	var cmd tea.Cmd
	b.pickerC, cmd = b.pickerC.Update(msg)

	if ok, path := b.pickerC.DidSelectFile(msg); ok {
		return tea.Batch(cmd, b.resolvePick(picker.Picked(path)))
	}

	if ok, path := b.pickerC.DidSelectDisabledFile(msg); ok {
		return tea.Batch(cmd, b.notify(fmt.Sprintf("%s is not a video", filepath.Base(path))))
	}

	return cmd
}

// resolvePick leaves the picker and hands its result to the selector.
func (b *statefulBubble) resolvePick(result picker.Result) tea.Cmd {
	b.previousState()
	return b.dispatch(b.selector.PickResolved(result))
}

func (b *statefulBubble) updateNotice(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if bubblesKey.Matches(msg, b.keymap.dismiss) {
			b.dismissNotice()
		}
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			b.dismissNotice()
		}
	}

	return nil
}
