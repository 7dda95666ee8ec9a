package config

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/vidloop/vidloop/constant"
	"github.com/vidloop/vidloop/filesystem"
	"github.com/vidloop/vidloop/key"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Config Setup", t, func() {
		Convey("Should initialize without a config file", func() {
			So(Setup(), ShouldBeNil)
		})

		Convey("Should populate defaults", func() {
			So(Setup(), ShouldBeNil)
			for name := range Default {
				So(viper.Get(name), ShouldNotBeNil)
			}
			So(viper.GetString(key.VideoDefaultClip), ShouldEqual, constant.BundledClip)
			So(viper.GetString(key.StoreBackend), ShouldEqual, "file")
		})

		Convey("EnvKeyReplacer should convert dots to underscores", func() {
			So(EnvKeyReplacer.Replace("video.default_clip"), ShouldEqual, "video_default_clip")
		})
	})
}

func TestField(t *testing.T) {
	Convey("Given a registered field", t, func() {
		field := Default[key.VideoLoop]

		Convey("Env is prefixed with the app name", func() {
			So(field.Env(), ShouldEqual, "VIDLOOP_VIDEO_LOOP")
		})

		Convey("Its type name follows the default value", func() {
			So(field.typeName(), ShouldEqual, "bool")
			ext := Default[key.PickerExtensions]
			So(ext.typeName(), ShouldEqual, "[]string")
		})

		Convey("JSON output carries the default", func() {
			data, err := field.MarshalJSON()
			So(err, ShouldBeNil)
			So(string(data), ShouldContainSubstring, `"default":true`)
		})
	})
}
