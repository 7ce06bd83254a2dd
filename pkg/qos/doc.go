/*
Package qos defines the DDS QoS policy structs an entity carries, the
writer-vs-reader compatibility matrix (spec.md §4.4), and the policy ids
OFFERED_INCOMPATIBLE_QOS / REQUESTED_INCOMPATIBLE_QOS statuses report.

Grounding: the policy field shapes are grounded on
original_source/dds/src/dcps/qos.rs (domain_participant QoS structs); the
compatibility matrix is transcribed directly from spec.md §4.4's table. No
pack example carries a QoS-policy package of its own, so there is nothing to
imitate for structure beyond plain Go structs with named kind enums, the
idiom the teacher repository uses throughout pkg/types for its own
enumerations (e.g. TaskState).
*/
package qos
