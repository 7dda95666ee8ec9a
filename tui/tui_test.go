package tui

import (
	"errors"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/samber/lo"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/vidloop/vidloop/filesystem"
	"github.com/vidloop/vidloop/gesture"
	"github.com/vidloop/vidloop/internal/ui"
	"github.com/vidloop/vidloop/key"
	"github.com/vidloop/vidloop/picker"
	"github.com/vidloop/vidloop/player"
	"github.com/vidloop/vidloop/selector"
	"github.com/vidloop/vidloop/source"
	"github.com/vidloop/vidloop/store"
)

type memStore map[string]string

func (m memStore) Get(k string) (mo.Option[string], error) {
	if v, ok := m[k]; ok {
		return mo.Some(v), nil
	}
	return mo.None[string](), nil
}

func (m memStore) Set(k, v string) error { m[k] = v; return nil }
func (m memStore) Remove(k string) error { delete(m, k); return nil }

type fakeEngine struct {
	played   []source.Source
	resumed  int
	calls    []string
	unlocked bool
	fail     error
}

func (f *fakeEngine) Play(s source.Source) error {
	f.played = append(f.played, s)
	f.calls = append(f.calls, "play")
	return f.fail
}

func (f *fakeEngine) Resume(source.Source) error {
	f.resumed++
	f.calls = append(f.calls, "resume")
	return f.fail
}

func (f *fakeEngine) UnlockRotation() {
	f.unlocked = true
}

// harness runs commands synchronously and feeds their messages back.
// Window lapses and notifications are recorded instead of scheduled.
type harness struct {
	b             *statefulBubble
	clock         *clockwork.FakeClock
	lapses        []tea.Msg
	notifications []string
}

func newHarness(s memStore, engine *fakeEngine, root string) *harness {
	viper.Set(key.TUIShowSource, true)
	viper.Set(key.TUIShowTaps, true)

	clock := clockwork.NewFakeClock()
	h := &harness{clock: clock}
	h.b = newBubble(&Options{
		Store:   s,
		Engine:  engine,
		Library: picker.NewLibrary(root, []string{"mp4"}),
		Clock:   clock,
	})
	h.b.tick = func(_ time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
		h.lapses = append(h.lapses, fn(time.Time{}))
		return nil
	}
	h.send(tea.WindowSizeMsg{Width: 100, Height: 40})
	return h
}

func (h *harness) run(cmd tea.Cmd) {
	if cmd == nil {
		return
	}

	switch msg := cmd().(type) {
	case nil:
	case tea.BatchMsg:
		for _, c := range msg {
			h.run(c)
		}
	case ui.NotificationMsg:
		h.notifications = append(h.notifications, msg.Text)
	default:
		h.send(msg)
	}
}

func (h *harness) send(msg tea.Msg) {
	_, cmd := h.b.Update(msg)
	h.run(cmd)
}

func (h *harness) start() {
	h.run(h.b.Init())
}

func (h *harness) taps(n int) {
	for i := 0; i < n; i++ {
		h.send(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	}
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	down  = tea.KeyMsg{Type: tea.KeyDown}
	click = tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
)

func TestStartup(t *testing.T) {
	Convey("Given a fresh install", t, func() {
		engine := &fakeEngine{}
		h := newHarness(memStore{}, engine, "/videos")
		h.start()

		Convey("The default clip plays once and rotation is unlocked", func() {
			So(engine.played, ShouldResemble, []source.Source{source.Default()})
			So(engine.unlocked, ShouldBeTrue)
			So(h.b.state, ShouldEqual, surfaceState)
			So(h.notifications, ShouldContain, "Looping the default clip")
		})

		Convey("No effect run is left in flight", func() {
			So(h.b.applying, ShouldEqual, 0)
			So(h.b.View(), ShouldNotContainSubstring, "Working")

			Convey("And a late spinner tick is dropped", func() {
				_, cmd := h.b.Update(spinner.TickMsg{})
				So(cmd, ShouldBeNil)
			})
		})

		Convey("A pending effect run shows the spinner", func() {
			h.b.applying = 1
			So(h.b.View(), ShouldContainSubstring, "Working")
		})
	})

	Convey("Given a saved clip", t, func() {
		engine := &fakeEngine{}
		h := newHarness(memStore{store.RefKey: "/videos/cat.mp4"}, engine, "/videos")
		h.start()

		Convey("The saved clip plays", func() {
			So(engine.played, ShouldHaveLength, 1)
			So(engine.played[0].Ref(), ShouldEqual, "/videos/cat.mp4")
			So(h.b.View(), ShouldContainSubstring, "/videos/cat.mp4")
		})
	})
}

func TestTaps(t *testing.T) {
	Convey("Given a playing surface", t, func() {
		engine := &fakeEngine{}
		h := newHarness(memStore{}, engine, "/videos")
		h.start()

		Convey("Single taps resume playback", func() {
			h.taps(1)
			h.send(click)
			So(engine.resumed, ShouldEqual, 2)
			So(h.b.state, ShouldEqual, surfaceState)
			So(h.b.detector.Count(), ShouldEqual, 2)
		})

		Convey("Five quick taps open the menu", func() {
			h.taps(gesture.SequenceLength)
			So(engine.resumed, ShouldEqual, gesture.SequenceLength-1)
			So(h.b.state, ShouldEqual, menuState)
			So(h.b.selector.Pending(), ShouldBeTrue)

			Convey("Taps are ignored while the menu is open", func() {
				h.send(click)
				So(engine.resumed, ShouldEqual, gesture.SequenceLength-1)
			})

			Convey("Escape cancels back to the surface", func() {
				h.send(esc)
				So(h.b.state, ShouldEqual, surfaceState)
				So(h.b.selector.Pending(), ShouldBeFalse)
				So(engine.played, ShouldHaveLength, 1)
			})
		})

		Convey("A pause longer than the window restarts the count", func() {
			h.taps(4)
			h.clock.Advance(gesture.Window + 100*time.Millisecond)
			h.taps(1)
			So(h.b.state, ShouldEqual, surfaceState)
			So(engine.resumed, ShouldEqual, 5)
		})

		Convey("A lapsed window resets the count", func() {
			h.taps(3)
			h.send(h.lapses[len(h.lapses)-1])
			So(h.b.detector.Count(), ShouldEqual, 0)

			h.taps(2)
			So(h.b.state, ShouldEqual, surfaceState)
		})

		Convey("A stale lapse is ignored", func() {
			h.taps(3)
			stale := h.lapses[0]
			h.send(stale)
			So(h.b.detector.Count(), ShouldEqual, 3)
		})
	})
}

func TestMenu(t *testing.T) {
	Convey("Given the open menu over a saved clip", t, func() {
		filesystem.SetMemMapFs()
		defer filesystem.SetOsFs()
		So(filesystem.API().MkdirAll("/videos", 0o755), ShouldBeNil)

		s := memStore{store.RefKey: "/videos/cat.mp4"}
		engine := &fakeEngine{}
		h := newHarness(s, engine, "/videos")
		h.start()
		h.taps(gesture.SequenceLength)
		So(h.b.state, ShouldEqual, menuState)

		Convey("Choosing the default clip keeps the saved reference", func() {
			h.send(enter)
			So(h.b.state, ShouldEqual, surfaceState)
			So(engine.played, ShouldHaveLength, 2)
			So(engine.played[1], ShouldResemble, source.Default())
			So(s[store.RefKey], ShouldEqual, "/videos/cat.mp4")
		})

		Convey("Clearing the cache forgets the saved reference", func() {
			h.send(down)
			h.send(down)
			h.send(enter)
			So(s, ShouldBeEmpty)
			So(engine.played[len(engine.played)-1], ShouldResemble, source.Default())
			So(h.notifications, ShouldContain, "Saved clip forgotten")
		})

		Convey("Picking opens the file picker once access is granted", func() {
			h.send(down)
			h.send(enter)
			So(h.b.state, ShouldEqual, pickerState)
			So(h.b.pickerC.CurrentDirectory, ShouldEqual, "/videos")

			Convey("A picked clip is saved and played", func() {
				h.run(h.b.resolvePick(picker.Picked("/videos/dog.mp4")))
				So(h.b.state, ShouldEqual, surfaceState)
				So(s[store.RefKey], ShouldEqual, "/videos/dog.mp4")
				So(engine.played[len(engine.played)-1].Ref(), ShouldEqual, "/videos/dog.mp4")
				So(h.notifications, ShouldContain, "Looping dog")
			})

			Convey("Escape cancels with a notice and keeps the clip", func() {
				h.send(esc)
				So(h.b.state, ShouldEqual, noticeState)
				So(errors.Is(h.b.notices[0], selector.ErrSelectionCancelled), ShouldBeTrue)
				So(h.b.View(), ShouldContainSubstring, "No video selected")
				So(h.b.selector.Active().Ref(), ShouldEqual, "/videos/cat.mp4")

				h.send(enter)
				So(h.b.state, ShouldEqual, surfaceState)
			})
		})
	})

	Convey("Given a missing library", t, func() {
		filesystem.SetMemMapFs()
		defer filesystem.SetOsFs()

		engine := &fakeEngine{}
		h := newHarness(memStore{}, engine, "/videos")
		h.start()
		h.taps(gesture.SequenceLength)

		Convey("Picking shows the permission notice", func() {
			h.send(down)
			h.send(enter)
			So(h.b.state, ShouldEqual, noticeState)
			So(errors.Is(h.b.notices[0], selector.ErrPermissionDenied), ShouldBeTrue)
			So(h.b.selector.Pending(), ShouldBeFalse)

			h.send(click)
			So(h.b.state, ShouldEqual, surfaceState)
		})
	})
}

func TestPlaybackErrors(t *testing.T) {
	Convey("Given an engine that cannot play", t, func() {
		engine := &fakeEngine{fail: errors.New("codec missing")}
		h := newHarness(memStore{store.RefKey: "/videos/cat.mp4"}, engine, "/videos")
		h.start()

		Convey("The failure is shown and the clip stays active", func() {
			So(h.b.state, ShouldEqual, noticeState)
			var playbackErr *selector.PlaybackError
			So(errors.As(h.b.notices[0], &playbackErr), ShouldBeTrue)
			So(h.b.selector.Active().Ref(), ShouldEqual, "/videos/cat.mp4")
			So(h.b.View(), ShouldContainSubstring, "Playback error")
		})
	})

	Convey("Given a player reporting a failed file", t, func() {
		engine := &fakeEngine{}
		h := newHarness(memStore{}, engine, "/videos")
		h.start()

		h.send(playerEventMsg{event: player.Event{Name: "end-file", Reason: "error"}})

		Convey("A notice is raised", func() {
			So(h.b.state, ShouldEqual, noticeState)
			So(errors.Is(h.b.notices[0], player.ErrPlaybackFailed), ShouldBeTrue)
		})
	})

	Convey("Given a player reporting a normal event", t, func() {
		engine := &fakeEngine{}
		h := newHarness(memStore{}, engine, "/videos")
		h.start()

		h.send(playerEventMsg{event: player.Event{Name: "pause", Data: false}})

		Convey("Nothing happens", func() {
			So(h.b.state, ShouldEqual, surfaceState)
			So(h.b.notices, ShouldBeEmpty)
		})
	})
}

func TestStatus(t *testing.T) {
	Convey("Status lines describe what happened", t, func() {
		external := lo.Must(source.External("/videos/cat.mp4"))

		So(status([]selector.Effect{{Kind: selector.EffectResume}}), ShouldBeEmpty)
		So(status([]selector.Effect{{Kind: selector.EffectPlay, Source: external}}), ShouldEqual, "Looping cat")
		So(status([]selector.Effect{
			{Kind: selector.EffectErase},
			{Kind: selector.EffectPlay, Source: source.Default()},
		}), ShouldEqual, "Saved clip forgotten")
	})
}

// execute runs cmd and everything it batches without feeding messages back.
func execute(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	if batch, ok := cmd().(tea.BatchMsg); ok {
		for _, c := range batch {
			execute(c)
		}
	}
}

func TestApplyOrder(t *testing.T) {
	Convey("Given an apply queue", t, func() {
		q := newApplyQueue()
		first, second := q.ticket(), q.ticket()

		Convey("Later tickets wait for earlier ones", func() {
			var order []string
			done := make(chan struct{})
			go func() {
				defer close(done)
				q.run(second, func() { order = append(order, "second") })
			}()

			q.run(first, func() { order = append(order, "first") })
			<-done
			So(order, ShouldResemble, []string{"first", "second"})
		})
	})

	Convey("Given two effect runs dispatched one after another", t, func() {
		engine := &fakeEngine{}
		h := newHarness(memStore{}, engine, "/videos")
		h.start()
		engine.calls = nil

		resume := h.b.dispatch(h.b.selector.ResumePlayback())
		forget := h.b.dispatch(h.b.selector.ClearCache())

		Convey("They reach the engine in dispatch order even when started out of order", func() {
			done := make(chan struct{})
			go func() {
				defer close(done)
				execute(forget)
			}()

			execute(resume)
			<-done
			So(engine.calls, ShouldResemble, []string{"resume", "play"})
		})
	})
}
