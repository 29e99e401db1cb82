package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APIPages counts gist list pages fetched from the GitHub API.
	APIPages = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gistfeed_api_pages_total",
		Help: "Number of gist list pages fetched from the GitHub API",
	})

	// FetchFailures counts raw file downloads that failed.
	FetchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gistfeed_fetch_failures_total",
		Help: "Number of raw gist content fetches that failed",
	})

	// GistsRendered counts gists whose preview rendered successfully.
	GistsRendered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gistfeed_gists_rendered_total",
		Help: "Number of gists rendered into the feed",
	})

	// RenderFailures counts gists that fell back to the failure placeholder.
	RenderFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gistfeed_render_failures_total",
		Help: "Number of gist previews that could not be rendered",
	})

	// FeedBuilds counts feed builds by their terminal state.
	FeedBuilds = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gistfeed_feed_builds_total",
		Help: "Number of feed builds by terminal state",
	}, []string{"state"})
)
