package main

import (
	"github.com/rs/zerolog"

	"github.com/lattice-dds/rtps/pkg/status"
)

// logListener is the participant-level status.Listener fallback
// (spec.md §4.4's three-level fan-out terminates here when no
// entity/group listener claims an event): it just logs.
type logListener struct {
	logger zerolog.Logger
}

func (l logListener) Mask() status.Kind { return status.AllStatuses }

func (l logListener) OnStatusChanged(ev status.Event) {
	l.logger.Info().
		Str("entity", ev.Entity.String()).
		Str("kind", ev.Kind.String()).
		Interface("value", ev.Value).
		Msg("status changed")
}
