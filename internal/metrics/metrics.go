// Package metrics provides Prometheus instrumentation for the bot.
//
// The process exposes them at GET /metrics on the ops listener
// (see cmd/moviebot). Standard Go runtime and process metrics come for free
// from prometheus/client_golang.
//
// Bot-specific metrics:
//
//	moviebot_commands_total        — counter: commands handled by name/result
//	moviebot_enrichment_total      — counter: TMDB enrichment outcomes
//	moviebot_reply_chunks_total    — counter: reply messages sent to the transport
//	moviebot_store_errors_total    — counter: unexpected store failures by operation
//	moviebot_command_duration_secs — histogram: command handling latency by name
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ── Counters ──────────────────────────────────────────────────────────────────

// Commands counts handled commands by command name and result.
// result is one of: ok, conflict, not_found, invalid, error, ignored.
var Commands = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "moviebot_commands_total",
	Help: "Total chat commands handled.",
}, []string{"command", "result"})

// Enrichment counts metadata enrichment outcomes: found, not_found, unavailable.
var Enrichment = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "moviebot_enrichment_total",
	Help: "TMDB enrichment outcomes.",
}, []string{"outcome"})

// ReplyChunks counts reply messages handed to the chat transport.
var ReplyChunks = promauto.NewCounter(prometheus.CounterOpts{
	Name: "moviebot_reply_chunks_total",
	Help: "Reply messages sent, counting each chunk of a long reply.",
})

// StoreErrors counts unexpected persistence failures by operation.
var StoreErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "moviebot_store_errors_total",
	Help: "Unexpected store failures by operation.",
}, []string{"operation"})

// ── Histograms ────────────────────────────────────────────────────────────────

// CommandDuration tracks end-to-end command handling latency. Adds that hit
// TMDB land in the seconds buckets; everything else should stay well under.
var CommandDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "moviebot_command_duration_seconds",
	Help:    "Command handling latency in seconds.",
	Buckets: prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
}, []string{"command"})

// ── Handler ───────────────────────────────────────────────────────────────────

// Handler returns the Prometheus HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveCommand records one handled command: its result counter and latency.
func ObserveCommand(command, result string, start time.Time) {
	Commands.WithLabelValues(command, result).Inc()
	CommandDuration.WithLabelValues(command).Observe(time.Since(start).Seconds())
}
