// Package telemetry wraps OpenTelemetry SDK initialization for gradflow,
// providing a centrally configured TracerProvider and MeterProvider.
// When telemetry is disabled the global providers remain noop and no
// external connection is made.
package telemetry
