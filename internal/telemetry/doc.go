// Package telemetry holds the metrics and tracing instruments used while a
// network's lifecycle phases run.
//
// Metrics are plain Prometheus collectors registered on a caller-owned
// registry, so embedding programs and tests never touch the global default
// registry. Spans come from the process-wide OpenTelemetry tracer provider;
// without a configured provider they are no-ops.
package telemetry
