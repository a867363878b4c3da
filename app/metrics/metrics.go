package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics describes one run. Each run owns its registry so the textfile only
// ever contains this run's values.
type Metrics struct {
	Registry *prometheus.Registry

	RunsTotal        *prometheus.CounterVec
	RunDuration      prometheus.Gauge
	LastSuccess      prometheus.Gauge
	Candidates       prometheus.Gauge
	Articles         *prometheus.GaugeVec
	SelectorTimeouts prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		RunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "feed_runs_total",
				Help: "Feed generation runs by result.",
			},
			[]string{"result"}, // success, no_articles, navigation, serialization, write, error
		),
		RunDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "feed_run_duration_seconds",
			Help: "Duration of the last feed generation run.",
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "feed_last_success_timestamp_seconds",
			Help: "Unix time of the last successful run.",
		}),
		Candidates: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "feed_candidates",
			Help: "Raw anchors matched on the listing page.",
		}),
		Articles: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "feed_articles",
				Help: "Articles in the generated feed by date source.",
			},
			[]string{"date_source"}, // title, run_time
		),
		SelectorTimeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "feed_selector_timeouts_total",
			Help: "Runs where the article selector never appeared.",
		}),
	}

	m.Registry.MustRegister(
		m.RunsTotal,
		m.RunDuration,
		m.LastSuccess,
		m.Candidates,
		m.Articles,
		m.SelectorTimeouts,
	)

	return m
}

func (m *Metrics) ObserveArticles(dated, undated int) {
	m.Articles.WithLabelValues("title").Set(float64(dated))
	m.Articles.WithLabelValues("run_time").Set(float64(undated))
}

// ObserveRun records the outcome. A failed run drops the last-success gauge
// from the registry so the textfile never overwrites a real timestamp with 0.
func (m *Metrics) ObserveRun(result string, duration time.Duration, finishedAt time.Time) {
	m.RunsTotal.WithLabelValues(result).Inc()
	m.RunDuration.Set(duration.Seconds())
	if result == ResultSuccess {
		m.LastSuccess.Set(float64(finishedAt.Unix()))
		return
	}
	m.Registry.Unregister(m.LastSuccess)
}

// WriteTextfile writes the registry in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}
