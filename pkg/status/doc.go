/*
Package status implements the DDS communication-status values (spec.md
§4.1-§4.4: PUBLICATION_MATCHED, SUBSCRIPTION_MATCHED,
OFFERED_INCOMPATIBLE_QOS, REQUESTED_INCOMPATIBLE_QOS,
OFFERED_DEADLINE_MISSED, REQUESTED_DEADLINE_MISSED, LIVELINESS_LOST,
LIVELINESS_CHANGED, SAMPLE_LOST, SAMPLE_REJECTED, INCONSISTENT_TOPIC), the
per-entity status trackers that accumulate them with read-resets-change
semantics, and the broker that delivers status-changed notifications to
listener-delivery tasks.

Grounding: the broker is adapted from cuemby-warren/pkg/events/events.go —
same non-blocking-publish, buffered-channel, broadcast-to-subscribers shape,
repurposed to carry status-changed notifications instead of cluster events.
The status value shapes and their total/current-count-with-change-reset
semantics are transcribed from spec.md §4.1-§4.4; the three-level fan-out
precedence (entity listener, then publisher/subscriber listener, then
participant listener, at most one fires) is spec.md §4.4's explicit rule.
*/
package status
