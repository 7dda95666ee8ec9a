package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
	"github.com/vidloop/vidloop/gesture"
	"github.com/vidloop/vidloop/internal/ui"
	"github.com/vidloop/vidloop/log"
	"github.com/vidloop/vidloop/picker"
	"github.com/vidloop/vidloop/player"
	"github.com/vidloop/vidloop/selector"
	"github.com/vidloop/vidloop/util"
)

type (
	// effectsAppliedMsg reports a finished selector.Apply run.
	effectsAppliedMsg struct {
		applied     []selector.Effect
		interactive []selector.Effect
		err         error
	}

	windowLapsedMsg struct {
		generation uint64
	}

	permissionMsg struct {
		permission picker.Permission
		err        error
	}

	playerEventMsg struct {
		event player.Event
	}
)

// dispatch carries out effects. Purely interactive batches are presented at
// once; anything touching the store or the engine runs off the event loop.
func (b *statefulBubble) dispatch(effects []selector.Effect) tea.Cmd {
	if len(effects) == 0 {
		return nil
	}

	if lo.EveryBy(effects, selector.Effect.Interactive) {
		return b.present(effects)
	}

	env, queue := b.env, b.queue
	ticket := queue.ticket()
	apply := func() tea.Msg {
		var msg effectsAppliedMsg
		queue.run(ticket, func() {
			interactive, err := selector.Apply(context.Background(), env, effects)
			msg = effectsAppliedMsg{applied: effects, interactive: interactive, err: err}
		})
		return msg
	}

	b.applying++
	if b.applying > 1 {
		return apply
	}

	return tea.Batch(apply, b.spinnerC.Tick)
}

// present shows interactive effects in order.
func (b *statefulBubble) present(effects []selector.Effect) tea.Cmd {
	var cmds []tea.Cmd

	for _, e := range effects {
		switch e.Kind {
		case selector.EffectPresentMenu:
			b.menuC.ResetSelected()
			b.newState(menuState)
		case selector.EffectRequestPermission:
			cmds = append(cmds, b.requestPermission())
		case selector.EffectPickVideo:
			b.pickerC = newFilePicker(b.library)
			b.newState(pickerState)
			cmds = append(cmds, b.pickerC.Init(), tea.WindowSize())
		case selector.EffectNotice:
			b.raiseNotice(e.Err)
		}
	}

	return tea.Batch(cmds...)
}

func (b *statefulBubble) raiseNotice(err error) {
	log.Warn(err)
	b.notices = append(b.notices, err)
	b.newState(noticeState)
}

func (b *statefulBubble) dismissNotice() {
	if len(b.notices) > 0 {
		b.notices = b.notices[1:]
	}
	if len(b.notices) == 0 {
		b.previousState()
	}
}

// tap feeds the gesture detector and acts on its signal.
func (b *statefulBubble) tap() tea.Cmd {
	if b.selector.Pending() {
		return nil
	}

	signal, arm := b.detector.Tap()
	lapse := b.tick(gesture.Window, func(time.Time) tea.Msg {
		return windowLapsedMsg{generation: arm.Generation}
	})

	if signal == gesture.OpenMenu {
		return tea.Batch(lapse, b.dispatch(b.selector.OpenSelectionMenu()))
	}
	return tea.Batch(lapse, b.dispatch(b.selector.ResumePlayback()))
}

func (b *statefulBubble) requestPermission() tea.Cmd {
	library := b.library
	return func() tea.Msg {
		permission, err := library.RequestPermission(context.Background())
		return permissionMsg{permission: permission, err: err}
	}
}

func (b *statefulBubble) waitForPlayerEvent() tea.Cmd {
	if b.events == nil {
		return nil
	}

	events := b.events
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return nil
		}
		return playerEventMsg{event: event}
	}
}

// status describes a successful run for the notifier.
func status(applied []selector.Effect) string {
	if lo.ContainsBy(applied, func(e selector.Effect) bool { return e.Kind == selector.EffectErase }) {
		return "Saved clip forgotten"
	}

	played, ok := lo.Find(applied, func(e selector.Effect) bool { return e.Kind == selector.EffectPlay })
	if !ok {
		return ""
	}

	if played.Source.IsExternal() {
		return fmt.Sprintf("Looping %s", util.FileStem(played.Source.Ref()))
	}
	return "Looping the default clip"
}

func (b *statefulBubble) notify(text string) tea.Cmd {
	if text == "" {
		return nil
	}
	return ui.Notify(text)
}
