package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Pipeline names used as label values.
const (
	PipelineSearch   = "search"
	PipelineEpisodes = "episodes"
)

var (
	// UpstreamRequestsTotal counts TVmaze requests by endpoint and outcome
	// ("200", "404", "error", "cache").
	UpstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "showfinder",
			Name:      "upstream_requests_total",
			Help:      "Total number of requests sent to the TVmaze API.",
		},
		[]string{"endpoint", "outcome"},
	)

	UpstreamRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "showfinder",
			Name:      "upstream_request_duration_seconds",
			Help:      "Latency of requests sent to the TVmaze API.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// PipelineRunsTotal counts pipeline runs by pipeline and result kind ("ok" on success).
	PipelineRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "showfinder",
			Name:      "pipeline_runs_total",
			Help:      "Total number of search and episode pipeline runs.",
		},
		[]string{"pipeline", "result"},
	)

	// StaleResponsesTotal counts responses discarded because a newer run of the same pipeline had started.
	StaleResponsesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "showfinder",
			Name:      "stale_responses_total",
			Help:      "Total number of pipeline responses discarded as stale.",
		},
		[]string{"pipeline"},
	)

	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "showfinder",
			Name:      "active_sessions",
			Help:      "Number of web sessions currently held in memory.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		UpstreamRequestsTotal,
		UpstreamRequestDuration,
		PipelineRunsTotal,
		StaleResponsesTotal,
		ActiveSessions,
	)
}
