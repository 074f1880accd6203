/*
Package observability provides lifecycle hooks for monitoring arbor engines.

Metrics exposes Prometheus collectors for node dispatches, settlements and
invocation durations; LogHooks writes the same events as structured slog
records. Both plug into arbor.WithLifecycleHooks. Tracing is built into the
engine and configured with arbor.WithTracer.
*/
package observability
