package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wrap"
	"github.com/spf13/viper"
	"github.com/vidloop/vidloop/color"
	"github.com/vidloop/vidloop/constant"
	"github.com/vidloop/vidloop/gesture"
	"github.com/vidloop/vidloop/icon"
	"github.com/vidloop/vidloop/key"
	"github.com/vidloop/vidloop/selector"
	"github.com/vidloop/vidloop/source"
	"github.com/vidloop/vidloop/style"
	"github.com/vidloop/vidloop/util"
)

var (
	listExtraPaddingStyle = lipgloss.NewStyle().Padding(1, 2, 1, 0)
	paddingStyle          = lipgloss.NewStyle().Padding(1, 2)
)

func (b *statefulBubble) View() string {
	var output string

	switch b.state {
	case surfaceState:
		output = b.viewSurface()
	case menuState:
		output = b.viewMenu()
	case pickerState:
		output = b.viewPicker()
	case noticeState:
		output = b.viewNotice()
	default:
		output = "Unknown state"
	}

	return b.notifier.View(output)
}

func (b *statefulBubble) viewSurface() string {
	lines := []string{style.Title(constant.App), ""}

	if viper.GetBool(key.TUIShowSource) {
		lines = append(lines,
			style.Truncate(b.width)(fmt.Sprintf("%s %s", icon.Get(icon.Play), describe(b.selector.Active()))),
			"",
		)
	}

	lines = append(lines, style.Faint(fmt.Sprintf("Tap to resume. Tap %d times quickly for the menu.", gesture.SequenceLength)))

	if b.applying > 0 {
		lines = append(lines, "", b.spinnerC.View()+" "+style.Faint("Working"))
	}

	if count := b.detector.Count(); count > 0 && viper.GetBool(key.TUIShowTaps) {
		lines = append(lines, "", viewTaps(count))
	}

	return b.renderLines(true, lines)
}

func viewTaps(count int) string {
	filled := style.Fg(style.AccentColor)(strings.Repeat("●", count))
	empty := style.Faint(strings.Repeat("○", gesture.SequenceLength-count))
	return filled + empty + " " + style.Faint(util.Quantify(count, "tap", "taps"))
}

func describe(src source.Source) string {
	if !src.IsExternal() {
		return "Default clip"
	}
	return style.Fg(color.Purple)(src.Ref())
}

func (b *statefulBubble) viewMenu() string {
	return listExtraPaddingStyle.Render(b.menuC.View())
}

func (b *statefulBubble) viewPicker() string {
	return b.renderLines(true, []string{
		style.Title("Pick a clip"),
		"",
		style.Truncate(b.width)(style.Faint(b.pickerC.CurrentDirectory)),
		"",
		b.pickerC.View(),
	})
}

func (b *statefulBubble) viewNotice() string {
	if len(b.notices) == 0 {
		return b.renderLines(true, nil)
	}

	err := b.notices[0]
	body := wrap.String(util.Capitalize(err.Error()), util.Max(b.width-2, 1))

	return b.renderLines(true, []string{
		style.ErrorTitle(noticeTitle(err)),
		"",
		icon.Get(icon.Warn) + " " + body,
	})
}

func noticeTitle(err error) string {
	var playbackErr *selector.PlaybackError

	switch {
	case errors.Is(err, selector.ErrPermissionDenied):
		return "Permission denied"
	case errors.Is(err, selector.ErrSelectionCancelled):
		return "No video selected"
	case errors.As(err, &playbackErr):
		return "Playback error"
	default:
		return "Error"
	}
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	l := strings.Join(lines, "\n")
	if addHelp {
		l += strings.Repeat("\n", util.Max(b.height-len(lines), 1))
		l += b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}
