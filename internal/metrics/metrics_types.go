package metrics

import (
	"time"
)

const (
	ScanDurationMetricName        = "scan_harness_scan_duration_seconds"
	ScanDurationMetricDescription = "The duration of the scan CLI invocations"
	ScanMetricLabelResult         = "result"

	ScanRecoveryMetricName        = "scan_harness_scan_recoveries_total"
	ScanRecoveryMetricDescription = "The total number of scan CLI re-invocations caused by known failure signatures"
	ScanRecoveryMetricLabelReason = "reason"

	BomWaitDurationMetricName        = "scan_harness_bom_wait_duration_seconds"
	BomWaitDurationMetricDescription = "The time spent waiting for the uploaded scans to be ingested"
	BomWaitMetricLabelOutcome        = "outcome"

	PolicyStatusMetricName        = "scan_harness_policy_checks_total"
	PolicyStatusMetricDescription = "The total number of policy checks by overall status"
	PolicyStatusMetricLabelStatus = "status"

	BuildResultMetricName        = "scan_harness_build_results_total"
	BuildResultMetricDescription = "The total number of finished builds by result"
	BuildResultMetricLabelResult = "result"
)

type Recorder interface {
	ScanDuration(duration time.Duration, result string)
	ScanRecovery(reason string)
	BomWaitDuration(duration time.Duration, err error)
	PolicyStatus(status string)
	BuildResult(result string)
	// WriteToTextfile exports all metrics in the Prometheus text format,
	// i.e. for the node exporter textfile collector.
	WriteToTextfile(path string) error
}
