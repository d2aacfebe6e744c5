package normalize_test

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"testing"

	"github.com/okian/streamgem/internal/domain/model"
	"github.com/okian/streamgem/internal/domain/normalize"
	. "github.com/smartystreets/goconvey/convey"
)

func candidate(name, url string) model.RawCandidate {
	return model.RawCandidate{
		Name:        name,
		Platform:    "twitch",
		Game:        "Celeste",
		Description: "cozy speedruns",
		URL:         url,
		ViewerCount: "32",
		Tags:        []string{"speedrun"},
	}
}

func sequentialIDs() func() string {
	i := 0
	return func() string {
		i++
		return fmt.Sprintf("id-%d", i)
	}
}

func TestNormalize(t *testing.T) {
	Convey("Given a normalizer embedded under a preview host", t, func() {
		n := normalize.New(
			normalize.WithHostname("my-app.bolt.new"),
			normalize.WithIDGenerator(sequentialIDs()),
		)

		Convey("When normalizing a well formed candidate", func() {
			in := candidate("Pixel Pat", "https://twitch.tv/pixelpat")
			in.Username = "PixelPat"
			s, err := n.Normalize(in, "Gaming")

			Convey("Then copied fields are unchanged", func() {
				So(err, ShouldBeNil)
				So(s.Name, ShouldEqual, in.Name)
				So(s.Game, ShouldEqual, in.Game)
				So(s.Description, ShouldEqual, in.Description)
				So(s.URL, ShouldEqual, in.URL)
				So(s.Tags, ShouldResemble, in.Tags)
				So(s.Platform, ShouldEqual, model.PlatformTwitch)
			})

			Convey("And derived fields are filled", func() {
				So(s.ID, ShouldEqual, "id-1")
				So(s.Handle, ShouldEqual, "pixelpat")
				So(s.ViewerCount, ShouldEqual, "32 viewers")
				So(s.Thumbnail, ShouldEqual, "https://picsum.photos/seed/pixelpat/400/225")
				So(s.EmbedURL, ShouldStartWith, "https://player.twitch.tv/?channel=pixelpat&parent=my-app.bolt.new&parent=bolt.new&parent=localhost")
				So(s.EmbedURL, ShouldEndWith, "&muted=true")
			})
		})

		Convey("When the username is missing", func() {
			s, err := n.Normalize(candidate("My Cool Streamer", "https://twitch.tv/x"), "Gaming")

			Convey("Then the handle comes from the name", func() {
				So(err, ShouldBeNil)
				So(s.Handle, ShouldEqual, "mycoolstreamer")
			})
		})

		Convey("When the username has spaces and capitals", func() {
			in := candidate("Whatever", "https://twitch.tv/x")
			in.Username = "Foo Bar"
			s, err := n.Normalize(in, "Gaming")

			Convey("Then they are stripped and lower-cased", func() {
				So(err, ShouldBeNil)
				So(s.Handle, ShouldEqual, "foobar")
			})
		})

		Convey("When name or url is missing", func() {
			_, errName := n.Normalize(candidate("", "https://twitch.tv/x"), "Gaming")
			_, errURL := n.Normalize(candidate("Someone", "   "), "Gaming")

			Convey("Then the record is malformed with the matching reason", func() {
				var mre *normalize.MalformedRecordError
				So(errors.As(errName, &mre), ShouldBeTrue)
				So(mre.Reason, ShouldEqual, normalize.ReasonMissingName)
				So(errors.As(errURL, &mre), ShouldBeTrue)
				So(mre.Reason, ShouldEqual, normalize.ReasonMissingURL)
			})
		})

		Convey("When optional fields are absent", func() {
			in := model.RawCandidate{Name: "Bare", URL: "https://twitch.tv/bare"}
			s, err := n.Normalize(in, "Retro")

			Convey("Then defaults keep every required field non-empty", func() {
				So(err, ShouldBeNil)
				So(s.Game, ShouldEqual, "Retro")
				So(s.Description, ShouldEqual, normalize.DefaultDescription)
				So(s.ViewerCount, ShouldEqual, normalize.DefaultViewerCount)
				So(s.Tags, ShouldNotBeNil)
				So(s.Tags, ShouldBeEmpty)
			})
		})

		Convey("When the candidate failed to decode", func() {
			var batch []model.RawCandidate
			So(decode(`[{"name":"X","url":"u","tags":7}]`, &batch), ShouldBeNil)
			_, err := n.Normalize(batch[0], "Gaming")

			Convey("Then it is dropped as a decode failure", func() {
				var mre *normalize.MalformedRecordError
				So(errors.As(err, &mre), ShouldBeTrue)
				So(mre.Reason, ShouldEqual, normalize.ReasonDecode)
				So(errors.Is(err, model.ErrCandidateShape), ShouldBeTrue)
			})
		})
	})
}

func TestNormalizeBatch(t *testing.T) {
	Convey("Given a batch of four candidates with one missing url", t, func() {
		n := normalize.New(normalize.WithIDGenerator(sequentialIDs()))
		batch := []model.RawCandidate{
			candidate("Alpha", "https://twitch.tv/alpha"),
			candidate("Bravo", ""),
			candidate("Charlie", "https://twitch.tv/charlie"),
			candidate("Delta", "https://twitch.tv/delta"),
		}

		out := n.NormalizeBatch(context.Background(), "Gaming", batch)

		Convey("Then exactly three records remain in input order", func() {
			So(out, ShouldHaveLength, 3)
			So(out[0].Name, ShouldEqual, "Alpha")
			So(out[1].Name, ShouldEqual, "Charlie")
			So(out[2].Name, ShouldEqual, "Delta")
		})
	})

	Convey("Given a batch with a repeated handle", t, func() {
		n := normalize.New()
		first := candidate("Same Person", "https://twitch.tv/sameperson")
		second := candidate("same person", "https://twitch.tv/sameperson")
		second.Game = "Other"

		out := n.NormalizeBatch(context.Background(), "Gaming", []model.RawCandidate{first, second})

		Convey("Then only the first occurrence is kept", func() {
			So(out, ShouldHaveLength, 1)
			So(out[0].Game, ShouldEqual, "Celeste")
		})
	})

	Convey("Given arbitrary batches", t, func() {
		n := normalize.New()
		batches := [][]model.RawCandidate{
			nil,
			{},
			{{}},
			{candidate("", ""), candidate(" ", "x"), candidate("a", "")},
			{candidate("a", "u1"), candidate("b", "u2"), candidate("A", "u3")},
		}

		Convey("Then the output is never longer than the input and never nil", func() {
			for _, b := range batches {
				out := n.NormalizeBatch(context.Background(), "Art", b)
				So(out, ShouldNotBeNil)
				So(len(out), ShouldBeLessThanOrEqualTo, len(b))
				for _, s := range out {
					So(s.Name, ShouldNotBeBlank)
					So(s.Game, ShouldNotBeBlank)
					So(s.Description, ShouldNotBeBlank)
					So(s.URL, ShouldNotBeBlank)
				}
			}
		})
	})

	Convey("Given two runs over identical input", t, func() {
		n := normalize.New()
		in := []model.RawCandidate{candidate("Alpha", "https://twitch.tv/alpha")}

		a := n.NormalizeBatch(context.Background(), "Gaming", in)
		b := n.NormalizeBatch(context.Background(), "Gaming", in)

		Convey("Then ids differ and everything else matches", func() {
			So(a[0].ID, ShouldNotEqual, b[0].ID)
			So(a[0].ID, ShouldHaveLength, 20)
			a[0].ID, b[0].ID = "", ""
			So(a[0], ShouldResemble, b[0])
		})
	})
}

func TestEmbedURLWithoutHostname(t *testing.T) {
	Convey("Given no execution hostname", t, func() {
		n := normalize.New()
		s, err := n.Normalize(candidate("Alpha", "https://twitch.tv/alpha"), "Gaming")
		So(err, ShouldBeNil)

		u, perr := url.Parse(s.EmbedURL)
		So(perr, ShouldBeNil)
		q := u.Query()

		Convey("Then the player is still muted and loopback parents are present", func() {
			So(q.Get("muted"), ShouldEqual, "true")
			So(q.Get("channel"), ShouldEqual, "alpha")
			So(q["parent"], ShouldContain, "localhost")
			So(q["parent"], ShouldContain, "127.0.0.1")
			So(q["parent"], ShouldResemble, normalize.FixedParentDomains())
		})

		Convey("And each parent is its own repeated parameter", func() {
			So(strings.Count(s.EmbedURL, "parent="), ShouldEqual, len(normalize.FixedParentDomains()))
		})
	})
}

func TestFormatViewerCount(t *testing.T) {
	Convey("Given viewer count text", t, func() {
		So(normalize.FormatViewerCount("32"), ShouldEqual, "32 viewers")
		So(normalize.FormatViewerCount("45 viewers"), ShouldEqual, "45 viewers")
		So(normalize.FormatViewerCount("~20"), ShouldEqual, "~20 viewers")
		So(normalize.FormatViewerCount("12 Viewers"), ShouldEqual, "12 Viewers")
		So(normalize.FormatViewerCount(""), ShouldEqual, normalize.DefaultViewerCount)
		So(normalize.FormatViewerCount("   "), ShouldEqual, "20-50 viewers")
	})
}
