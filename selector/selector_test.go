package selector

import (
	"context"
	"errors"
	"testing"

	"github.com/samber/lo"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/vidloop/vidloop/picker"
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
	played  []source.Source
	resumed []source.Source
	fail    error
}

func (f *fakeEngine) Play(s source.Source) error {
	f.played = append(f.played, s)
	return f.fail
}

func (f *fakeEngine) Resume(s source.Source) error {
	f.resumed = append(f.resumed, s)
	return f.fail
}

func kinds(effects []Effect) []EffectKind {
	return lo.Map(effects, func(e Effect, _ int) EffectKind { return e.Kind })
}

func external(ref string) source.Source {
	return lo.Must(source.External(ref))
}

// pick walks the selector through a granted permission and a successful pick.
func pick(s *Selector, ref string) []Effect {
	s.SelectExternal()
	s.PermissionResolved(picker.Granted)
	return s.PickResolved(picker.Picked(ref))
}

func TestInitialize(t *testing.T) {
	Convey("Given nothing persisted", t, func() {
		s := New()
		effects := s.Initialize(mo.None[string]())

		Convey("The default clip is active and played exactly once", func() {
			So(s.Active().Equal(source.Default()), ShouldBeTrue)
			So(effects, ShouldResemble, []Effect{{Kind: EffectPlay, Source: source.Default()}})
		})
	})

	Convey("Given a persisted reference", t, func() {
		s := New()
		effects := s.Initialize(mo.Some("X"))

		Convey("The picked clip is active and the default is never played", func() {
			So(s.Active().Equal(external("X")), ShouldBeTrue)
			So(effects, ShouldHaveLength, 1)
			So(effects[0].Source.Equal(external("X")), ShouldBeTrue)
			So(lo.ContainsBy(effects, func(e Effect) bool {
				return e.Kind == EffectPlay && !e.Source.IsExternal()
			}), ShouldBeFalse)
		})
	})

	Convey("Given a blank persisted reference", t, func() {
		s := New()
		s.Initialize(mo.Some(""))
		So(s.Active().IsExternal(), ShouldBeFalse)
	})
}

func TestTransitions(t *testing.T) {
	Convey("Given an initialized selector", t, func() {
		s := New()
		s.Initialize(mo.None[string]())

		Convey("ResumePlayback keeps the active source", func() {
			effects := s.ResumePlayback()
			So(kinds(effects), ShouldResemble, []EffectKind{EffectResume})
			So(s.Active().Equal(source.Default()), ShouldBeTrue)
		})

		Convey("A successful pick replaces, persists and plays", func() {
			effects := pick(s, "Y")
			So(s.Active().Equal(external("Y")), ShouldBeTrue)
			So(kinds(effects), ShouldResemble, []EffectKind{EffectPersist, EffectPlay})
			So(effects[0].Ref, ShouldEqual, "Y")
			So(effects[1].Source.Equal(external("Y")), ShouldBeTrue)
			So(s.Pending(), ShouldBeFalse)

			Convey("And a second pick fully replaces the first", func() {
				pick(s, "Z")
				So(s.Active().Equal(external("Z")), ShouldBeTrue)
			})

			Convey("ClearCache erases and returns to the default clip", func() {
				effects := s.ClearCache()
				So(kinds(effects), ShouldResemble, []EffectKind{EffectErase, EffectPlay})
				So(effects[1].Source.Equal(source.Default()), ShouldBeTrue)
				So(s.Active().Equal(source.Default()), ShouldBeTrue)
			})

			Convey("ResetToDefault returns to the default clip without erasing", func() {
				effects := s.ResetToDefault()
				So(kinds(effects), ShouldResemble, []EffectKind{EffectPlay})
				So(s.Active().Equal(source.Default()), ShouldBeTrue)
			})

			Convey("A playback failure leaves the source untouched", func() {
				effects := s.PlaybackFailed(errors.New("corrupt"))
				So(kinds(effects), ShouldResemble, []EffectKind{EffectNotice})

				var pe *PlaybackError
				So(errors.As(effects[0].Err, &pe), ShouldBeTrue)
				So(pe.Source.Equal(external("Y")), ShouldBeTrue)
				So(s.Active().Equal(external("Y")), ShouldBeTrue)
			})
		})

		Convey("A denied permission shows a notice and changes nothing", func() {
			So(kinds(s.SelectExternal()), ShouldResemble, []EffectKind{EffectRequestPermission})
			So(s.Pending(), ShouldBeTrue)

			effects := s.PermissionResolved(picker.Denied)
			So(kinds(effects), ShouldResemble, []EffectKind{EffectNotice})
			So(effects[0].Err, ShouldEqual, ErrPermissionDenied)
			So(s.Pending(), ShouldBeFalse)
			So(s.Active().Equal(source.Default()), ShouldBeTrue)
		})

		Convey("A cancelled pick shows a notice and changes nothing", func() {
			s.SelectExternal()
			So(kinds(s.PermissionResolved(picker.Granted)), ShouldResemble, []EffectKind{EffectPickVideo})

			effects := s.PickResolved(picker.Canceled())
			So(effects[0].Err, ShouldEqual, ErrSelectionCancelled)
			So(s.Active().Equal(source.Default()), ShouldBeTrue)
		})

		Convey("A pick with an empty reference counts as cancelled", func() {
			effects := pick(s, "")
			So(effects[0].Err, ShouldEqual, ErrSelectionCancelled)
		})

		Convey("Out-of-order answers are ignored", func() {
			So(s.PermissionResolved(picker.Granted), ShouldBeNil)
			So(s.PickResolved(picker.Picked("Y")), ShouldBeNil)
			So(s.Choose(ChoiceDefault), ShouldBeNil)
			So(s.Active().Equal(source.Default()), ShouldBeTrue)
		})
	})
}

func TestMenu(t *testing.T) {
	Convey("Given an open menu", t, func() {
		s := New()
		s.Initialize(mo.Some("Y"))
		So(kinds(s.OpenSelectionMenu()), ShouldResemble, []EffectKind{EffectPresentMenu})
		So(s.Pending(), ShouldBeTrue)

		Convey("It offers three actions plus cancel", func() {
			So(Choices(), ShouldResemble, []Choice{ChoiceDefault, ChoicePick, ChoiceClearCache, ChoiceCancel})
			So(ChoiceClearCache.String(), ShouldEqual, "Clear cache")
		})

		Convey("It cannot be opened twice", func() {
			So(s.OpenSelectionMenu(), ShouldBeNil)
		})

		Convey("Cancel changes nothing", func() {
			So(s.Choose(ChoiceCancel), ShouldBeNil)
			So(s.Pending(), ShouldBeFalse)
			So(s.Active().Equal(external("Y")), ShouldBeTrue)
		})

		Convey("Use default clip resets", func() {
			So(kinds(s.Choose(ChoiceDefault)), ShouldResemble, []EffectKind{EffectPlay})
			So(s.Active().IsExternal(), ShouldBeFalse)
		})

		Convey("Pick new clip starts the pick flow", func() {
			So(kinds(s.Choose(ChoicePick)), ShouldResemble, []EffectKind{EffectRequestPermission})
			So(s.Pending(), ShouldBeTrue)
		})

		Convey("Clear cache erases", func() {
			So(kinds(s.Choose(ChoiceClearCache)), ShouldResemble, []EffectKind{EffectErase, EffectPlay})
		})
	})
}

func TestApply(t *testing.T) {
	Convey("Given a store and an engine", t, func() {
		ctx := context.Background()
		st := memStore{}
		engine := &fakeEngine{}
		env := Env{Store: st, Engine: engine}
		s := New()

		_, err := Apply(ctx, env, s.Initialize(store.LoadRef(st)))
		So(err, ShouldBeNil)
		So(engine.played, ShouldHaveLength, 1)
		So(engine.played[0].Equal(source.Default()), ShouldBeTrue)

		Convey("A pick persists the reference and plays it", func() {
			_, err := Apply(ctx, env, pick(s, "Y"))
			So(err, ShouldBeNil)
			So(st[store.RefKey], ShouldEqual, "Y")
			So(engine.played[len(engine.played)-1].Equal(external("Y")), ShouldBeTrue)

			Convey("ResetToDefault keeps the persisted reference", func() {
				_, err := Apply(ctx, env, s.ResetToDefault())
				So(err, ShouldBeNil)
				So(st[store.RefKey], ShouldEqual, "Y")
				So(engine.played[len(engine.played)-1].Equal(source.Default()), ShouldBeTrue)
			})

			Convey("ClearCache removes the persisted reference", func() {
				_, err := Apply(ctx, env, s.ClearCache())
				So(err, ShouldBeNil)
				_, ok := st[store.RefKey]
				So(ok, ShouldBeFalse)
				So(engine.played[len(engine.played)-1].Equal(source.Default()), ShouldBeTrue)
			})

			Convey("The next launch restores it", func() {
				next := New()
				next.Initialize(store.LoadRef(st))
				So(next.Active().Equal(external("Y")), ShouldBeTrue)
			})
		})

		Convey("Interactive effects are handed back", func() {
			interactive, err := Apply(ctx, env, s.OpenSelectionMenu())
			So(err, ShouldBeNil)
			So(kinds(interactive), ShouldResemble, []EffectKind{EffectPresentMenu})
		})

		Convey("A playback failure is reported and the state is untouched", func() {
			engine.fail = errors.New("unsupported codec")
			_, err := Apply(ctx, env, s.ResumePlayback())

			var pe *PlaybackError
			So(errors.As(err, &pe), ShouldBeTrue)
			So(errors.Is(err, engine.fail), ShouldBeTrue)
			So(s.Active().Equal(source.Default()), ShouldBeTrue)
			So(len(engine.resumed), ShouldEqual, 1)
		})

		Convey("Without an engine only storage effects run", func() {
			_, err := Apply(ctx, Env{Store: st}, pick(s, "Q"))
			So(err, ShouldBeNil)
			So(st[store.RefKey], ShouldEqual, "Q")
		})

		Convey("A cancelled context stops early", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := Apply(cctx, env, s.ClearCache())
			So(err, ShouldEqual, context.Canceled)
		})
	})
}
