// internal/publish/runner.go
package publish

import (
	"context"
	"time"

	"github.com/tamzrod/veeprom/internal/snapshot"
)

// Run publishes once immediately, then on every tick until ctx is done.
// Failures are logged; the next tick retries with a full block.
func (p *Publisher) Run(ctx context.Context, interval time.Duration, take func() snapshot.Snapshot) {
	p.tick(take)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick(take)
		}
	}
}

func (p *Publisher) tick(take func() snapshot.Snapshot) {
	if err := p.Publish(take()); err != nil {
		log.Warningf("unit=%d base=%d: %v", p.target.UnitID, p.target.BaseRegister, err)
	}
}
