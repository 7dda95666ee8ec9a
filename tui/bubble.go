package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jonboulle/clockwork"
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/vidloop/vidloop/gesture"
	"github.com/vidloop/vidloop/internal/ui"
	"github.com/vidloop/vidloop/key"
	"github.com/vidloop/vidloop/picker"
	"github.com/vidloop/vidloop/player"
	"github.com/vidloop/vidloop/selector"
	"github.com/vidloop/vidloop/style"
	"github.com/vidloop/vidloop/util"
)

// eventSource is implemented by engines that report playback events.
type eventSource interface {
	Events() <-chan player.Event
}

// statefulBubble is the screen model.
type statefulBubble struct {
	state         state
	statesHistory util.Stack[state]

	keymap *statefulKeymap

	// components
	menuC    list.Model
	pickerC  filepicker.Model
	helpC    help.Model
	spinnerC spinner.Model

	selector *selector.Selector
	detector *gesture.Detector
	tick     func(time.Duration, func(time.Time) tea.Msg) tea.Cmd
	env      selector.Env
	library  *picker.Library
	events   <-chan player.Event

	// queue runs effect batches one at a time in dispatch order.
	queue *applyQueue
	// applying counts effect runs still in flight.
	applying int

	notices  []error
	notifier *ui.Model

	width, height int
}

// setState switches the state and its keymap without touching history.
func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

// newState enters s, remembering the current state for previousState.
func (b *statefulBubble) newState(s state) {
	if b.state == s {
		return
	}

	b.statesHistory.Push(b.state)
	b.setState(s)
}

func (b *statefulBubble) previousState() {
	if b.statesHistory.Len() > 0 {
		b.setState(b.statesHistory.Pop())
		return
	}
	b.setState(surfaceState)
}

func (b *statefulBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()
	xx, yy := listExtraPaddingStyle.GetFrameSize()

	listWidth := width - xx
	listHeight := height - yy

	b.menuC.SetSize(listWidth, listHeight)
	b.menuC.Help.Width = listWidth

	b.width = width - x
	b.height = height - y
	b.helpC.Width = listWidth
}

func newBubble(options *Options) *statefulBubble {
	clock := options.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	keymap := newStatefulKeymap()
	bubble := statefulBubble{
		statesHistory: util.Stack[state]{},
		keymap:        keymap,

		selector: selector.New(),
		detector: gesture.New(clock),
		tick:     tea.Tick,
		env: selector.Env{
			Store:  options.Store,
			Engine: options.Engine,
		},
		library:  options.Library,
		queue:    newApplyQueue(),
		notifier: &ui.Model{},
	}

	if source, ok := options.Engine.(eventSource); ok {
		bubble.events = source.Events()
	}

	bubble.helpC = help.New()

	bubble.spinnerC = spinner.New()
	bubble.spinnerC.Spinner = spinner.Dot
	bubble.spinnerC.Style = lipgloss.NewStyle().Foreground(style.AccentColor)

	delegate := list.NewDefaultDelegate()
	delegate.SetSpacing(viper.GetInt(key.TUIItemSpacing))
	delegate.Styles.SelectedTitle = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(style.AccentColor).
		Foreground(style.AccentColor).
		Padding(0, 0, 0, 1)
	delegate.Styles.NormalTitle = delegate.Styles.NormalTitle.Foreground(lipgloss.Color("7"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedTitle

	items := lo.Map(menuItems(options.Library.Root), func(item *listItem, _ int) list.Item {
		return item
	})

	bubble.menuC = list.New(items, delegate, 0, 0)
	bubble.menuC.KeyMap = keymap.forList()
	bubble.menuC.AdditionalShortHelpKeys = keymap.ShortHelp
	bubble.menuC.AdditionalFullHelpKeys = func() []bubblesKey.Binding {
		return keymap.FullHelp()[0]
	}
	bubble.menuC.Title = "Choose a clip"
	bubble.menuC.Styles.Title = lipgloss.NewStyle().Foreground(style.Base).Background(style.AccentColor).Padding(0, 1)
	bubble.menuC.SetFilteringEnabled(false)
	bubble.menuC.SetShowStatusBar(false)
	bubble.menuC.SetShowPagination(false)

	bubble.pickerC = newFilePicker(options.Library)

	if w, h, err := util.TerminalSize(); err == nil {
		bubble.resize(w, h)
	}

	return &bubble
}

func newFilePicker(library *picker.Library) filepicker.Model {
	fp := filepicker.New()
	fp.CurrentDirectory = library.Root
	fp.AllowedTypes = library.Extensions
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.AutoHeight = true
	fp.Styles.Cursor = lipgloss.NewStyle().Foreground(style.AccentColor).Bold(true)
	fp.Styles.Directory = lipgloss.NewStyle().Foreground(style.Lavender).Bold(true)
	fp.Styles.File = lipgloss.NewStyle().Foreground(style.Text)
	fp.Styles.Selected = lipgloss.NewStyle().Foreground(style.AccentColor).Bold(true)
	fp.Styles.DisabledFile = lipgloss.NewStyle().Foreground(style.FaintColor)
	return fp
}
