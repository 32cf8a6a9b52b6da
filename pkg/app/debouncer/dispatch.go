package debouncer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NeuralTrust/TrustBatch/pkg/domain/bucket"
	"github.com/NeuralTrust/TrustBatch/pkg/infra/prometheus"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// invoke runs the callback of a claimed bucket. Failures are logged, counted
// and reported; the bucket stays dispatched.
func (d *Debouncer) invoke(ctx context.Context, p *Policy, b *bucket.Bucket) (err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("callback panic: %v", r)
		}
		prometheus.DispatchLatency.WithLabelValues(p.Name).Observe(float64(time.Since(start).Milliseconds()))
		fields := logrus.Fields{
			"policy":      p.Name,
			"bucketID":    b.ID,
			"groupingKey": b.GroupingKey,
			"members":     len(b.MemberEventIDs),
		}
		if err != nil {
			prometheus.BatchesDispatched.WithLabelValues(p.Name, resultFailed).Inc()
			d.logger.WithError(err).WithFields(fields).Error("batch callback failed")
			if d.failureReporter != nil {
				d.failureReporter(p.Name, b.Clone(), err)
			}
			return
		}
		prometheus.BatchesDispatched.WithLabelValues(p.Name, resultSuccess).Inc()
		d.logger.WithFields(fields).Debug("batch dispatched")
	}()

	return p.Callback(ctx, b.GroupingKey, b.Members())
}

// ForceFire claims a bucket outside the sweep and invokes its callback on the
// calling goroutine, returning the callback error.
func (d *Debouncer) ForceFire(ctx context.Context, bucketID uuid.UUID) error {
	storeCtx, cancel := context.WithTimeout(ctx, d.cfg.StoreTimeout)
	b, err := d.repo.Get(storeCtx, bucketID)
	cancel()
	if err != nil {
		if errors.Is(err, bucket.ErrBucketNotFound) {
			return err
		}
		return storageError("get bucket", err)
	}
	if b.Dispatched {
		return ErrAlreadyDispatched
	}
	p, ok := d.registry.Lookup(b.PolicyName)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPolicy, b.PolicyName)
	}

	storeCtx, cancel = context.WithTimeout(ctx, d.cfg.StoreTimeout)
	final, claimed, err := d.repo.MarkDispatched(storeCtx, bucketID, d.now())
	cancel()
	if err != nil {
		return storageError("mark dispatched", err)
	}
	if !claimed {
		return ErrAlreadyDispatched
	}

	d.logger.WithFields(logrus.Fields{
		"policy":   p.Name,
		"bucketID": bucketID,
	}).Info("force firing bucket")
	return d.invoke(ctx, p, final)
}

// ListBuckets returns the active buckets of a policy ordered by fire time.
func (d *Debouncer) ListBuckets(ctx context.Context, policyName string, limit int) ([]*bucket.Bucket, error) {
	if _, ok := d.registry.Lookup(policyName); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPolicy, policyName)
	}
	storeCtx, cancel := context.WithTimeout(ctx, d.cfg.StoreTimeout)
	defer cancel()
	buckets, err := d.repo.ListActiveByPolicy(storeCtx, policyName, limit)
	if err != nil {
		return nil, storageError("list buckets", err)
	}
	return buckets, nil
}
