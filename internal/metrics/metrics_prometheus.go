package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	internalerrors "github.com/pluralsh/scan-harness/pkg/harness/errors"
)

var (
	recorder = (&prometheusRecorder{}).init()
)

type prometheusRecorder struct {
	registry *prometheus.Registry

	scanDurationHistogram    *prometheus.HistogramVec
	scanRecoveryCounter      *prometheus.CounterVec
	bomWaitDurationHistogram *prometheus.HistogramVec
	policyStatusCounter      *prometheus.CounterVec
	buildResultCounter       *prometheus.CounterVec
}

func (in *prometheusRecorder) ScanDuration(duration time.Duration, result string) {
	in.scanDurationHistogram.WithLabelValues(result).Observe(duration.Seconds())
}

func (in *prometheusRecorder) ScanRecovery(reason string) {
	in.scanRecoveryCounter.WithLabelValues(reason).Inc()
}

func (in *prometheusRecorder) BomWaitDuration(duration time.Duration, err error) {
	outcome := "ready"
	switch {
	case errors.Is(err, internalerrors.ErrTimeout):
		outcome = "timeout"
	case err != nil:
		outcome = "error"
	}

	in.bomWaitDurationHistogram.WithLabelValues(outcome).Observe(duration.Seconds())
}

func (in *prometheusRecorder) PolicyStatus(status string) {
	in.policyStatusCounter.WithLabelValues(status).Inc()
}

func (in *prometheusRecorder) BuildResult(result string) {
	in.buildResultCounter.WithLabelValues(result).Inc()
}

func (in *prometheusRecorder) WriteToTextfile(path string) error {
	return prometheus.WriteToTextfile(path, in.registry)
}

func (in *prometheusRecorder) init() Recorder {
	in.registry = prometheus.NewRegistry()
	factory := promauto.With(in.registry)

	in.scanDurationHistogram = factory.NewHistogramVec(prometheus.HistogramOpts{
		Name:    ScanDurationMetricName,
		Help:    ScanDurationMetricDescription,
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	}, []string{ScanMetricLabelResult})

	in.scanRecoveryCounter = factory.NewCounterVec(prometheus.CounterOpts{
		Name: ScanRecoveryMetricName,
		Help: ScanRecoveryMetricDescription,
	}, []string{ScanRecoveryMetricLabelReason})

	in.bomWaitDurationHistogram = factory.NewHistogramVec(prometheus.HistogramOpts{
		Name:    BomWaitDurationMetricName,
		Help:    BomWaitDurationMetricDescription,
		Buckets: prometheus.ExponentialBuckets(1, 2, 10),
	}, []string{BomWaitMetricLabelOutcome})

	in.policyStatusCounter = factory.NewCounterVec(prometheus.CounterOpts{
		Name: PolicyStatusMetricName,
		Help: PolicyStatusMetricDescription,
	}, []string{PolicyStatusMetricLabelStatus})

	in.buildResultCounter = factory.NewCounterVec(prometheus.CounterOpts{
		Name: BuildResultMetricName,
		Help: BuildResultMetricDescription,
	}, []string{BuildResultMetricLabelResult})

	return in
}

func Record() Recorder {
	return recorder
}
