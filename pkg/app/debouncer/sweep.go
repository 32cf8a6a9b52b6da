package debouncer

import (
	"context"
	"time"

	"github.com/NeuralTrust/TrustBatch/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
)

// Run sweeps every SweepInterval and whenever an armed fire time elapses,
// until ctx is done.
func (d *Debouncer) Run(ctx context.Context) error {
	d.logger.WithFields(logrus.Fields{
		"sweepInterval": d.cfg.SweepInterval.String(),
		"policies":      d.registry.Names(),
	}).Info("debouncer started")

	lastSweep := time.Time{}
	for {
		if d.shouldSweep(lastSweep) {
			d.Sweep(ctx)
			d.maybePurge(ctx)
			lastSweep = d.now()
		}

		timer := time.NewTimer(d.waitDuration(lastSweep))
		select {
		case <-ctx.Done():
			timer.Stop()
			d.logger.Info("debouncer stopped")
			return nil
		case <-timer.C:
		case <-d.wake:
			timer.Stop()
		}
	}
}

func (d *Debouncer) shouldSweep(lastSweep time.Time) bool {
	now := d.now()
	if lastSweep.IsZero() || now.Sub(lastSweep) >= d.cfg.SweepInterval {
		return true
	}
	next, ok := d.NextWake()
	return ok && !next.After(now)
}

func (d *Debouncer) waitDuration(lastSweep time.Time) time.Duration {
	now := d.now()
	wait := d.cfg.SweepInterval - now.Sub(lastSweep)
	if next, ok := d.NextWake(); ok {
		if until := next.Sub(now); until < wait {
			wait = until
		}
	}
	if wait < minWakeDelay {
		wait = minWakeDelay
	}
	return wait
}

// Sweep claims the due buckets of every policy and hands them to the dispatch
// queue. It returns the number of buckets claimed.
func (d *Debouncer) Sweep(ctx context.Context) int {
	now := d.now()
	claimed := 0
	for _, name := range d.registry.Names() {
		p, ok := d.registry.Lookup(name)
		if !ok {
			continue
		}
		d.disarm(name, now)
		claimed += d.sweepPolicy(ctx, p, now)
	}
	d.refreshDue(ctx, now)
	return claimed
}

func (d *Debouncer) sweepPolicy(ctx context.Context, p *Policy, now time.Time) int {
	storeCtx, cancel := context.WithTimeout(ctx, d.cfg.StoreTimeout)
	due, err := d.repo.FindDue(storeCtx, p.Name, now, d.cfg.BatchSize)
	cancel()
	if err != nil {
		prometheus.BatchesDispatched.WithLabelValues(p.Name, resultStoreError).Inc()
		d.logger.WithError(storageError("find due buckets", err)).
			WithField("policy", p.Name).
			Error("sweep failed, retrying on next tick")
		return 0
	}

	claimed := 0
	for _, b := range due {
		storeCtx, cancel := context.WithTimeout(ctx, d.cfg.StoreTimeout)
		final, ok, err := d.repo.MarkDispatched(storeCtx, b.ID, now)
		cancel()
		if err != nil {
			prometheus.BatchesDispatched.WithLabelValues(p.Name, resultStoreError).Inc()
			d.logger.WithError(storageError("mark dispatched", err)).
				WithFields(logrus.Fields{"policy": p.Name, "bucketID": b.ID}).
				Error("failed to claim bucket")
			continue
		}
		if !ok {
			prometheus.BatchesDispatched.WithLabelValues(p.Name, resultSkipped).Inc()
			continue
		}
		claimed++
		policy := p
		dispatchCtx := context.WithoutCancel(ctx)
		d.dispatch.enqueue(func() {
			_ = d.invoke(dispatchCtx, policy, final)
		})
	}

	// A full page means more buckets may be due right now.
	if len(due) >= d.cfg.BatchSize {
		d.Wake(p.Name, now)
	}
	return claimed
}

// disarm forgets armed times of policyName that the current sweep covers.
func (d *Debouncer) disarm(policyName string, now time.Time) {
	d.schedMu.Lock()
	defer d.schedMu.Unlock()
	if at, ok := d.schedule[policyName]; ok && !at.After(now) {
		delete(d.schedule, policyName)
	}
}

func (d *Debouncer) refreshDue(ctx context.Context, now time.Time) {
	storeCtx, cancel := context.WithTimeout(ctx, d.cfg.StoreTimeout)
	defer cancel()
	counts, err := d.repo.CountDue(storeCtx, now)
	if err != nil {
		d.logger.WithError(err).Warn("failed to count due buckets")
		return
	}
	for _, name := range d.registry.Names() {
		prometheus.BucketsDue.WithLabelValues(name).Set(float64(counts[name]))
	}
}

func (d *Debouncer) maybePurge(ctx context.Context) {
	now := d.now()
	if !d.lastPurge.IsZero() && now.Sub(d.lastPurge) < d.cfg.PurgeInterval {
		return
	}
	d.lastPurge = now
	if _, err := d.Purge(ctx); err != nil {
		d.logger.WithError(err).Warn("failed to purge dispatched buckets")
	}
}

// Purge deletes dispatched buckets older than the retention window.
func (d *Debouncer) Purge(ctx context.Context) (int64, error) {
	before := d.now().Add(-time.Duration(d.cfg.RetentionHours) * time.Hour)
	storeCtx, cancel := context.WithTimeout(ctx, d.cfg.StoreTimeout)
	defer cancel()
	purged, err := d.repo.PurgeDispatched(storeCtx, before)
	if err != nil {
		return 0, storageError("purge dispatched buckets", err)
	}
	if purged > 0 {
		d.logger.WithFields(logrus.Fields{
			"purged": purged,
			"before": before,
		}).Info("purged dispatched buckets")
	}
	return purged, nil
}
