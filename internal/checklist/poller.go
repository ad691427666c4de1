package checklist

import (
	"context"
	"time"

	"github.com/dtroode/m2m-server/internal/logger"
)

// Poller re-evaluates the gate on a fixed interval.
type Poller struct {
	gate     *Gate
	interval time.Duration
	logger   *logger.Logger
	onPrompt func(Snapshot)
}

// NewPoller creates a poller. onPrompt, if set, runs whenever an evaluation
// leaves the gate prompting.
func NewPoller(gate *Gate, interval time.Duration, logger *logger.Logger, onPrompt func(Snapshot)) *Poller {
	return &Poller{
		gate:     gate,
		interval: interval,
		logger:   logger,
		onPrompt: onPrompt,
	}
}

// Run evaluates immediately and then on every tick until ctx is done.
func (p *Poller) Run(ctx context.Context) {
	p.logger.Info("Checklist poller: started", "interval", p.interval)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Checklist poller: stopped")
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func (p *Poller) tick(ctx context.Context) {
	snap, err := p.gate.Evaluate(ctx)
	if err != nil {
		p.logger.Error("Checklist poller: evaluation failed", "error", err)
		return
	}

	if snap.State == StatePrompted && p.onPrompt != nil {
		p.onPrompt(snap)
	}
}
