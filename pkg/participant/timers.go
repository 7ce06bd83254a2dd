package participant

import "time"

// runMaintenance is the deadline/lifespan ticker doc.go describes,
// grounded on pkg/discovery's own run()/ticker/select/stopCh loop. Each
// tick posts a sweep as ordinary mail so the sweep itself runs on the
// mailbox goroutine alongside every other mutation (spec.md §5).
func (p *Participant) runMaintenance() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.maintenancePeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.post(p.sweepTimers)
		case <-p.stopCh:
			return
		}
	}
}

// sweepTimers runs LIFESPAN expiry and DEADLINE checking over every
// writer's history cache (spec.md §4.2). Both cache.Writer methods are
// no-ops for entities whose policy leaves the relevant duration unset.
func (p *Participant) sweepTimers() {
	now := p.now()
	for _, w := range p.writers {
		w.Cache.RemoveExpired(now)
		w.Cache.CheckDeadlines(now)
	}
}
