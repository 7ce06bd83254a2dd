/*
Package rtps implements the OMG RTPS 2.1-2.4 wire codec: message header and
submessage framing, the recognised submessage bodies (spec.md §4.1), the
inline-QoS parameter list, sequence-number sets, and the GUID/locator/time
primitives those submessages carry.

Grounding: the byte layouts in this package are taken field-for-field from
original_source's src/parser/*.rs (s2e-systems/dust-dds), cross-checked
against spec.md §4.1 and §6. There is no third-party binary-framing library
anywhere in the retrieval pack (the closest Go precedent,
ClusterCockpit-cc-backend's pkg/metricstore/binaryCheckpoint.go, is itself
built on the standard library's encoding/binary), so this package uses
encoding/binary directly — the required stdlib justification is that no
example repo in the pack wires a third-party codec for bit-exact wire
framing of this kind.

Decode is never fatal: malformed input yields a *CodecError and the caller
(pkg/transport, pkg/participant) drops the offending datagram and continues,
per spec.md §4.1's failure-conditions list.
*/
package rtps
