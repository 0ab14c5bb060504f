package logger

import (
	"testing"

	"github.com/MahdiRahman4/CodeJam2025/internal/config"

	"github.com/rs/zerolog"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseLevel(t *testing.T) {
	Convey("ParseLevel", t, func() {
		Convey("accepts known levels regardless of case", func() {
			So(ParseLevel("debug"), ShouldEqual, zerolog.DebugLevel)
			So(ParseLevel(" WARN "), ShouldEqual, zerolog.WarnLevel)
			So(ParseLevel("error"), ShouldEqual, zerolog.ErrorLevel)
		})

		Convey("falls back to info", func() {
			So(ParseLevel(""), ShouldEqual, zerolog.InfoLevel)
			So(ParseLevel("verbose"), ShouldEqual, zerolog.InfoLevel)
		})
	})

	Convey("SetLevel applies the level to the logger", t, func() {
		l := SetLevel(zerolog.WarnLevel)
		So(l.GetLevel(), ShouldEqual, zerolog.WarnLevel)
	})
}

func TestNew(t *testing.T) {
	Convey("New takes its level from the configuration", t, func() {
		So(New(&config.Config{LogLevel: "debug"}).GetLevel(), ShouldEqual, zerolog.DebugLevel)
		So(New(&config.Config{LogLevel: "error"}).GetLevel(), ShouldEqual, zerolog.ErrorLevel)
		So(New(&config.Config{}).GetLevel(), ShouldEqual, zerolog.InfoLevel)
	})
}
