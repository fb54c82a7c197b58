// Package metrics собирает длительности ожиданий и итоги сценариев
// и выгружает их в textfile для node_exporter.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"imunetrackE2E/internal/framework"
)

const namespace = "imunetrack_e2e"

// Collector реализует browser.WaitObserver и framework.TestLogger.
type Collector struct {
	registry *prometheus.Registry

	waitDuration     *prometheus.HistogramVec
	waitsTotal       *prometheus.CounterVec
	scenariosTotal   *prometheus.CounterVec
	scenarioDuration prometheus.Histogram
	scenarioErrors   prometheus.Counter
	lastRun          prometheus.Gauge
}

func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		waitDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "wait_duration_seconds",
			Help:      "Duration of browser waits by kind and outcome.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 10, 30},
		}, []string{"kind", "satisfied"}),
		waitsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "waits_total",
			Help:      "Number of browser waits by kind and outcome.",
		}, []string{"kind", "satisfied"}),
		scenariosTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scenarios_total",
			Help:      "Finished scenarios by status.",
		}, []string{"status"}),
		scenarioDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scenario_duration_seconds",
			Help:      "Scenario duration including session setup.",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 8),
		}),
		scenarioErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scenario_errors_total",
			Help:      "Assertion and setup errors reported by scenarios.",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the last finished run.",
		}),
	}
	c.registry.MustRegister(
		c.waitDuration,
		c.waitsTotal,
		c.scenariosTotal,
		c.scenarioDuration,
		c.scenarioErrors,
		c.lastRun,
	)
	return c
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) ObserveWait(kind string, satisfied bool, elapsed time.Duration) {
	labels := prometheus.Labels{"kind": kind, "satisfied": strconv.FormatBool(satisfied)}
	c.waitDuration.With(labels).Observe(elapsed.Seconds())
	c.waitsTotal.With(labels).Inc()
}

func (c *Collector) TestStarted(framework.TestID) {}

func (c *Collector) TestError(framework.TestID, error) {
	c.scenarioErrors.Inc()
}

func (c *Collector) TestFinished(_ framework.TestID, result framework.TestResult, _ framework.CapturedOutput) {
	c.scenariosTotal.WithLabelValues(result.Status()).Inc()
	c.scenarioDuration.Observe(result.Duration.Seconds())
}

func (c *Collector) TestSkipped(framework.TestID, string) {
	c.scenariosTotal.WithLabelValues("skipped").Inc()
}

// WriteTextfile отмечает время прогона и атомарно пишет метрики в файл.
func (c *Collector) WriteTextfile(path string, finished time.Time) error {
	c.lastRun.Set(float64(finished.Unix()))
	return prometheus.WriteToTextfile(path, c.registry)
}
