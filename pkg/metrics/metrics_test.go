package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then every metric is registered under the streamgem namespace", func() {
				So(manager, ShouldNotBeNil)
				manager.discoveryRequests.WithLabelValues("Gaming", "ok").Inc()

				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := make(map[string]bool, len(families))
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["streamgem_discovery_requests_total"], ShouldBeTrue)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_ns"),
				WithSubsystem("test_sub"),
				WithLatencyBuckets([]float64{1, 10, 100}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then names and constant labels follow the options", func() {
				manager.votes.Inc()

				families, err := registry.Gather()
				So(err, ShouldBeNil)
				var found bool
				for _, f := range families {
					if f.GetName() != "test_ns_test_sub_votes_total" {
						continue
					}
					found = true
					labels := f.GetMetric()[0].GetLabel()
					So(labels, ShouldHaveLength, 1)
					So(labels[0].GetName(), ShouldEqual, "env")
					So(labels[0].GetValue(), ShouldEqual, "test")
				}
				So(found, ShouldBeTrue)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics", t, func() {
		Convey("When recording discovery outcomes", func() {
			before := testutil.ToFloat64(globalManager.discoveryRequests.WithLabelValues("Retro", "upstream_error"))
			RecordDiscoveryRequest("Retro", "upstream_error")

			Convey("Then the labelled counter increases by one", func() {
				after := testutil.ToFloat64(globalManager.discoveryRequests.WithLabelValues("Retro", "upstream_error"))
				So(after-before, ShouldEqual, 1)
			})
		})

		Convey("When recording dropped records", func() {
			before := testutil.ToFloat64(globalManager.recordsDropped.WithLabelValues("missing_url"))
			RecordRecordDropped("missing_url")
			RecordRecordDropped("missing_url")

			Convey("Then the reason counter increases", func() {
				after := testutil.ToFloat64(globalManager.recordsDropped.WithLabelValues("missing_url"))
				So(after-before, ShouldEqual, 2)
			})
		})

		Convey("When updating gauges", func() {
			UpdateLeaderboardSize(7)
			UpdateCatalogSize(12)

			Convey("Then they hold the last value", func() {
				So(testutil.ToFloat64(globalManager.leaderboardSize), ShouldEqual, 7)
				So(testutil.ToFloat64(globalManager.catalogSize), ShouldEqual, 12)
			})
		})

		Convey("When recording the remaining metrics", func() {
			Convey("Then nothing panics", func() {
				So(func() {
					RecordUpstreamLatency(420)
					RecordCandidatesReceived(4)
					RecordStreamersEmitted(3)
					RecordVote()
					RecordDuplicateVote()
					RecordOfflineReport()
					RecordOfflineSuppressed(1)
					RecordRepositoryUpdateLatency(0.1)
					RecordRepositoryQueryLatency(0.2)
					RecordHTTPRequest("streamers", "GET", "200")
					RecordHTTPRequestDuration("streamers", "GET", "200", 12)
					RecordErrorByComponent("discovery", "upstream")
					RecordErrorByType("server_error", "high")
					RecordErrorByEndpoint("streamers", "GET", "server_error")
					RecordErrorLatency("http", "server_error", 3)
					UpdateSystemMemoryUsage(1 << 20)
					UpdateSystemGoroutineCount(10)
					RecordSystemGCPauseTime(0.5)
				}, ShouldNotPanic)
			})
		})

		Convey("When fetching the registry", func() {
			Convey("Then it is the custom registry", func() {
				So(GetRegistry(), ShouldEqual, customRegistry)
			})
		})
	})
}
