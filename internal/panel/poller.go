// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package panel

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/garcessebastian/camila-tui/internal/api"
	"github.com/garcessebastian/camila-tui/internal/model"
)

// =============================================================================
// LIVE UPDATES POLLER
// =============================================================================

// DefaultPollInterval matches the panel's live-updates cadence.
const DefaultPollInterval = 10 * time.Second

// Snapshot is the merged live view handed to the update callback.
type Snapshot struct {
	Patients []model.PatientRecord
	Alerts   []model.Alert
	// CheckedAt is the server timestamp of the last successful poll.
	CheckedAt time.Time
}

// Poller periodically fetches incremental updates and folds them into a
// merged patient list. Failures are reported to OnError (if set) and
// otherwise swallowed; the next tick polls again regardless.
type Poller struct {
	client   *api.Client
	limiter  *rate.Limiter
	interval time.Duration

	mu        sync.Mutex
	lastCheck time.Time
	patients  []model.PatientRecord
	alerts    []model.Alert

	onUpdate func(Snapshot)
	onError  func(error)
}

// NewPoller builds a poller over the expert updates endpoint. A
// non-positive interval falls back to DefaultPollInterval.
func NewPoller(client *api.Client, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		client:   client,
		interval: interval,
		limiter:  rate.NewLimiter(rate.Every(interval), 1),
	}
}

// OnUpdate registers the callback invoked after each successful poll
// with the merged snapshot. Must be set before Run.
func (p *Poller) OnUpdate(fn func(Snapshot)) {
	p.onUpdate = fn
}

// OnError registers an observer for failed polls. Optional.
func (p *Poller) OnError(fn func(error)) {
	p.onError = fn
}

// Seed primes the merged list with an initial full fetch result so the
// first delta merges into it instead of starting empty.
func (p *Poller) Seed(patients []model.PatientRecord) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.patients = append([]model.PatientRecord(nil), patients...)
}

// Snapshot returns a copy of the current merged view.
func (p *Poller) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Snapshot{
		Patients:  append([]model.PatientRecord(nil), p.patients...),
		Alerts:    append([]model.Alert(nil), p.alerts...),
		CheckedAt: p.lastCheck,
	}
}

// Run polls until ctx is canceled. The limiter paces the loop; the
// first poll fires immediately.
func (p *Poller) Run(ctx context.Context) error {
	for {
		if err := p.limiter.Wait(ctx); err != nil {
			return err
		}
		p.pollOnce(ctx)
	}
}

func (p *Poller) pollOnce(ctx context.Context) {
	p.mu.Lock()
	since := p.lastCheck
	p.mu.Unlock()

	batch, err := p.client.ExpertUpdates(ctx, since)
	if err != nil {
		if p.onError != nil {
			p.onError(err)
		}
		return
	}

	p.mu.Lock()
	p.lastCheck = batch.Timestamp
	p.mergeLocked(batch)
	snap := Snapshot{
		Patients:  append([]model.PatientRecord(nil), p.patients...),
		Alerts:    append([]model.Alert(nil), p.alerts...),
		CheckedAt: p.lastCheck,
	}
	p.mu.Unlock()

	if p.onUpdate != nil {
		p.onUpdate(snap)
	}
}

// mergeLocked folds a delta into the merged view: known patients are
// updated in place, new ones are prepended so fresh arrivals surface at
// the top. Alerts accumulate newest-first, deduplicated by ID.
func (p *Poller) mergeLocked(batch *api.UpdateBatch) {
	for _, incoming := range batch.Patients {
		replaced := false
		for i := range p.patients {
			if p.patients[i].ID == incoming.ID {
				p.patients[i] = incoming
				replaced = true
				break
			}
		}
		if !replaced {
			p.patients = append([]model.PatientRecord{incoming}, p.patients...)
		}
	}

	for _, alert := range batch.Alerts {
		known := false
		for i := range p.alerts {
			if p.alerts[i].ID == alert.ID {
				known = true
				break
			}
		}
		if !known {
			p.alerts = append([]model.Alert{alert}, p.alerts...)
		}
	}
}
