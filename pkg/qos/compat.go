package qos

// Incompatibility names one policy that failed the writer-vs-reader
// compatibility check.
type Incompatibility struct {
	PolicyId PolicyId
}

// Compatible evaluates writer against reader per spec.md §4.4's matrix,
// returning every policy that fails (empty means the pair matches). The
// first entry is what OFFERED_INCOMPATIBLE_QOS / REQUESTED_INCOMPATIBLE_QOS
// record as last_triggering policy id.
func Compatible(writer, reader Policies) []Incompatibility {
	var bad []Incompatibility
	add := func(id PolicyId) { bad = append(bad, Incompatibility{PolicyId: id}) }

	if writer.Durability.Kind < reader.Durability.Kind {
		add(PolicyIdDurability)
	}
	if writer.Presentation.AccessScope < reader.Presentation.AccessScope ||
		writer.Presentation.CoherentAccess != reader.Presentation.CoherentAccess ||
		writer.Presentation.OrderedAccess != reader.Presentation.OrderedAccess {
		add(PolicyIdPresentation)
	}
	if writer.Deadline.Period > reader.Deadline.Period {
		add(PolicyIdDeadline)
	}
	if writer.LatencyBudget.Duration < reader.LatencyBudget.Duration {
		add(PolicyIdLatencyBudget)
	}
	if writer.Liveliness.Kind < reader.Liveliness.Kind {
		add(PolicyIdLiveliness)
	}
	if writer.Reliability.Kind < reader.Reliability.Kind {
		add(PolicyIdReliability)
	}
	if writer.DestinationOrder.Kind < reader.DestinationOrder.Kind {
		add(PolicyIdDestinationOrder)
	}
	if writer.Ownership.Kind != reader.Ownership.Kind {
		add(PolicyIdOwnership)
	}
	if !representationAccepted(writer.DataRepresentation, reader.DataRepresentation) {
		add(PolicyIdDataRepresentation)
	}
	return bad
}

func representationAccepted(writerRep, readerRep DataRepresentation) bool {
	accepted := readerRep.effective()
	for _, offered := range writerRep.effective() {
		for _, a := range accepted {
			if offered == a {
				return true
			}
		}
	}
	return false
}
