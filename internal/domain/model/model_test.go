package model_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/okian/streamgem/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseCategory(t *testing.T) {
	Convey("Given the closed category set", t, func() {
		Convey("When parsing a known category in any case", func() {
			c, ok := model.ParseCategory("  just chatting ")

			Convey("Then it resolves to the canonical value", func() {
				So(ok, ShouldBeTrue)
				So(c, ShouldEqual, model.CategoryJustChatting)
			})
		})

		Convey("When parsing an unknown category", func() {
			_, ok := model.ParseCategory("Cooking")

			Convey("Then it is rejected", func() {
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When listing categories", func() {
			Convey("Then all six are returned in display order", func() {
				So(model.Categories(), ShouldResemble, []model.Category{
					"Gaming", "Art", "Music", "Just Chatting", "Coding", "Retro",
				})
			})
		})
	})
}

func TestRawCandidateDecode(t *testing.T) {
	Convey("Given a batch of loosely typed candidates", t, func() {
		payload := `[
			{"name":"Pixel Pat","username":"pixelpat","platform":"twitch","game":"Celeste","description":"speedruns","url":"https://twitch.tv/pixelpat","viewerCount":"32","tags":["speedrun","indie"]},
			{"name":"Numbers","url":"https://twitch.tv/numbers","viewerCount":41},
			{"name":"Broken","url":"https://twitch.tv/broken","tags":"not-a-list"},
			{"name":42,"url":"https://twitch.tv/x"},
			"just a string",
			null
		]`

		var batch []model.RawCandidate
		err := json.Unmarshal([]byte(payload), &batch)

		Convey("Then the batch itself always decodes", func() {
			So(err, ShouldBeNil)
			So(batch, ShouldHaveLength, 6)
		})

		Convey("And well formed candidates keep their fields", func() {
			c := batch[0]
			So(c.Err(), ShouldBeNil)
			So(c.Name, ShouldEqual, "Pixel Pat")
			So(c.Username, ShouldEqual, "pixelpat")
			So(c.ViewerCount, ShouldEqual, "32")
			So(c.Tags, ShouldResemble, []string{"speedrun", "indie"})
		})

		Convey("And numeric viewer counts are accepted as text", func() {
			So(batch[1].Err(), ShouldBeNil)
			So(batch[1].ViewerCount, ShouldEqual, "41")
			So(batch[1].Tags, ShouldBeNil)
		})

		Convey("And wrongly typed fields mark only that candidate", func() {
			So(errors.Is(batch[2].Err(), model.ErrCandidateShape), ShouldBeTrue)
			So(errors.Is(batch[3].Err(), model.ErrCandidateShape), ShouldBeTrue)
			So(errors.Is(batch[4].Err(), model.ErrCandidateShape), ShouldBeTrue)
		})

		Convey("And null entries are malformed too", func() {
			So(batch[5].Err(), ShouldNotBeNil)
		})
	})
}
