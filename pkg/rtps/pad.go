package rtps

// Pad is a no-op submessage used only to align the submessages that follow
// it; its content (if any) is ignored.
type Pad struct{}

func (Pad) Kind() SubmessageKind { return SubmessageKindPad }
