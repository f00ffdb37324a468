/*
Package metrics provides Prometheus instrumentation for the evaluation
engine.

The Collector registers counters and histograms through promauto against
a caller-supplied Registerer (defaulting to the global registry), grouped
by engine id and evaluation mode. It implements the orchestrator's
MetricsRecorder interface so the minimize package stays free of a
Prometheus dependency in its public contract.
*/
package metrics
