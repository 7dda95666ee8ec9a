package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/vidloop/vidloop/config"
	"github.com/vidloop/vidloop/constant"
	"github.com/vidloop/vidloop/key"
	"github.com/vidloop/vidloop/picker"
	"github.com/vidloop/vidloop/selector"
	"github.com/vidloop/vidloop/source"
	"github.com/vidloop/vidloop/store"
	"github.com/vidloop/vidloop/where"
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

type stuckStore struct{ memStore }

func (stuckStore) Remove(string) error { return errors.New("read-only") }

type fakePicker struct {
	permission picker.Permission
	result     picker.Result
	err        error
	picks      int
}

func (f *fakePicker) RequestPermission(context.Context) (picker.Permission, error) {
	return f.permission, nil
}

func (f *fakePicker) Pick(context.Context) (picker.Result, error) {
	f.picks++
	return f.result, f.err
}

type readOnlyStore struct{ memStore }

func (readOnlyStore) Set(string, string) error { return errors.New("read-only") }

func startPick(s store.Store, p picker.Picker) (*selector.Selector, error) {
	return pickClip(context.Background(), s, p)
}

func TestDrive(t *testing.T) {
	Convey("Given the pick command flow", t, func() {
		s := memStore{}

		Convey("A picked clip is persisted", func() {
			sel, err := startPick(s, &fakePicker{permission: picker.Granted, result: picker.Picked("/videos/cat.mp4")})
			So(err, ShouldBeNil)
			So(s[store.RefKey], ShouldEqual, "/videos/cat.mp4")
			So(sel.Active().Ref(), ShouldEqual, "/videos/cat.mp4")
		})

		Convey("Denied access stops before picking", func() {
			p := &fakePicker{permission: picker.Denied}
			_, err := startPick(s, p)
			So(errors.Is(err, selector.ErrPermissionDenied), ShouldBeTrue)
			So(p.picks, ShouldEqual, 0)
			So(s, ShouldBeEmpty)
		})

		Convey("A cancelled pick leaves the saved clip alone", func() {
			s[store.RefKey] = "/videos/dog.mp4"
			_, err := startPick(s, &fakePicker{permission: picker.Granted, result: picker.Canceled()})
			So(errors.Is(err, selector.ErrSelectionCancelled), ShouldBeTrue)
			So(s[store.RefKey], ShouldEqual, "/videos/dog.mp4")
		})

		Convey("A pick that cannot be saved is reported", func() {
			sel, err := startPick(readOnlyStore{s}, &fakePicker{permission: picker.Granted, result: picker.Picked("/videos/cat.mp4")})
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "could not be saved")
			So(sel.Active().Ref(), ShouldEqual, "/videos/cat.mp4")
			So(store.LoadRef(s).IsPresent(), ShouldBeFalse)
		})

		Convey("Picking the already saved clip succeeds", func() {
			s[store.RefKey] = "/videos/cat.mp4"
			_, err := startPick(s, &fakePicker{permission: picker.Granted, result: picker.Picked("/videos/cat.mp4")})
			So(err, ShouldBeNil)
		})

		Convey("Picker failures surface", func() {
			_, err := startPick(s, &fakePicker{permission: picker.Granted, err: picker.ErrNoVideos})
			So(errors.Is(err, picker.ErrNoVideos), ShouldBeTrue)
		})
	})
}

func TestForget(t *testing.T) {
	Convey("Given a saved clip", t, func() {
		Convey("Forgetting removes it", func() {
			s := memStore{store.RefKey: "/videos/cat.mp4"}
			So(forget(context.Background(), s), ShouldBeNil)
			So(s, ShouldBeEmpty)
		})

		Convey("A store that cannot forget is reported", func() {
			s := stuckStore{memStore{store.RefKey: "/videos/cat.mp4"}}
			So(forget(context.Background(), s), ShouldNotBeNil)
		})
	})
}

func TestCurrentStatus(t *testing.T) {
	Convey("Given the status command", t, func() {
		Convey("Nothing saved reports the default clip", func() {
			status := currentStatus(memStore{})
			So(status.Active.Kind, ShouldEqual, source.KindDefault.String())
			So(status.Active.Ref, ShouldBeEmpty)
			So(status.Target, ShouldEqual, constant.BundledClip)
			So(status.Backend, ShouldEqual, store.BackendFile)
		})

		Convey("A saved clip is reported with its target", func() {
			status := currentStatus(memStore{store.RefKey: "/videos/cat.mp4"})
			So(status.Active.Kind, ShouldEqual, source.KindExternal.String())
			So(status.Target, ShouldEqual, "/videos/cat.mp4")
		})
	})
}

func TestConfigHelpers(t *testing.T) {
	Convey("Given the registered config fields", t, func() {
		Convey("Typos suggest the nearest key", func() {
			So(closestKey("video.lop"), ShouldEqual, key.VideoLoop)
		})

		Convey("Values are parsed by the default's type", func() {
			v, err := parseValue(config.Default[key.VideoLoop], []string{"false"})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, false)

			v, err = parseValue(config.Default[key.TUIItemSpacing], []string{"2"})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 2)

			v, err = parseValue(config.Default[key.PickerExtensions], []string{".mp4", ".webm"})
			So(err, ShouldBeNil)
			So(v, ShouldResemble, []string{".mp4", ".webm"})

			_, err = parseValue(config.Default[key.VideoLoop], []string{"maybe"})
			So(err, ShouldNotBeNil)

			_, err = parseValue(config.Default[key.Player], nil)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestEnvNames(t *testing.T) {
	Convey("Every exposed key maps to one prefixed variable", t, func() {
		names := envNames()
		So(names, ShouldContain, where.EnvConfigPath)
		So(names, ShouldContain, "VIDLOOP_VIDEO_LOOP")
		So(len(names), ShouldEqual, len(config.EnvExposed)+1)
	})
}

func TestInstallHint(t *testing.T) {
	Convey("Only mpv has an install hint", t, func() {
		So(installHint("vlc"), ShouldBeEmpty)
	})
}
