package status

// Listener receives status-changed notifications for kinds in its mask.
type Listener interface {
	Mask() Kind
	OnStatusChanged(Event)
}

// Chain is the three-level fan-out a data-writer/reader, its
// publisher/subscriber, and its participant each may install (spec.md
// §4.4: "deliver to the innermost listener mask-subscribed to that kind").
type Chain struct {
	Entity      Listener
	Group       Listener
	Participant Listener
}

// Deliver picks the innermost listener whose mask subscribes to ev.Kind
// and calls it; at most one listener fires, matching spec.md §4.4's
// "at most one listener fires per event".
func (c Chain) Deliver(ev Event) {
	for _, l := range []Listener{c.Entity, c.Group, c.Participant} {
		if l != nil && l.Mask().Subscribed(ev.Kind) {
			l.OnStatusChanged(ev)
			return
		}
	}
}
