/*
Package metrics provides Prometheus metrics collection and exposition for the
RTPS participant core.

Gauges and counters are registered at package init and exported via Handler,
an http.Handler suitable for mounting at /metrics (see cmd/rtpsd). Naming
follows the rtps_ prefix convention: entity counts (participants, writers,
readers), matching outcomes (matched pairs, incompatible-QoS events by
policy id), history-cache occupancy and rejections, wire-codec decode
counters, discovery-cycle timing, and mailbox processing latency per spec.md
§4.6's typed-mail taxonomy.

Timer is a small stopwatch helper used at call sites that need to record an
operation's duration into a histogram without threading time.Now() through
every function signature.

HealthStatus and the accompanying aggregator (health.go) provide a process
liveness/readiness report, carried over unchanged from the teacher
repository. Readiness treats the teacher's fixed component names ("raft",
"containerd", "api") as the critical components; no RTPS subsystem is
among them.
*/
package metrics
