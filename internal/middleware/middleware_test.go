package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRequestID(t *testing.T) {
	Convey("Given a handler behind the request id middleware", t, func() {
		var buf bytes.Buffer
		logger := zerolog.New(&buf)

		var seenID string
		var ctxLogged bool
		h := RequestID(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seenID = GetRequestID(r.Context())
			zerolog.Ctx(r.Context()).Info().Msg("inside")
			ctxLogged = true
			w.WriteHeader(http.StatusTeapot)
		}))

		Convey("When the caller sends no id", func() {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/leaderboard", nil))

			Convey("Then one is generated and echoed back", func() {
				So(seenID, ShouldNotBeEmpty)
				So(rec.Header().Get(RequestIDHeader), ShouldEqual, seenID)
				So(rec.Code, ShouldEqual, http.StatusTeapot)
			})

			Convey("Then the context logger and completion line carry it", func() {
				So(ctxLogged, ShouldBeTrue)
				So(buf.String(), ShouldContainSubstring, `"request_id":"`+seenID+`"`)
				So(buf.String(), ShouldContainSubstring, `"message":"inside"`)
				So(buf.String(), ShouldContainSubstring, `"status":418`)
			})
		})

		Convey("When the caller supplies an id", func() {
			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			req.Header.Set(RequestIDHeader, "abc-123")
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			Convey("Then it is kept", func() {
				So(seenID, ShouldEqual, "abc-123")
				So(rec.Header().Get(RequestIDHeader), ShouldEqual, "abc-123")
			})
		})
	})

	Convey("A bare context has no request id", t, func() {
		So(GetRequestID(httptest.NewRequest(http.MethodGet, "/", nil).Context()), ShouldBeEmpty)
	})
}
