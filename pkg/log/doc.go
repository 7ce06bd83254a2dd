/*
Package log provides structured logging for the RTPS participant core using
zerolog.

Init configures the process-wide Logger from a Config (level, JSON vs.
console output, destination writer). Component loggers are derived with the
With* helpers, which attach a field identifying the RTPS concept the message
is about (participant, entity, topic) rather than a generic string tag.

The core itself never calls Init — that belongs to cmd/rtpsd, consistent
with spec.md treating "logging" as an ambient concern the orchestrator and
caches consume but do not own.
*/
package log
