package debouncer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/NeuralTrust/TrustBatch/pkg/domain/bucket"
	infraCache "github.com/NeuralTrust/TrustBatch/pkg/infra/cache"
	"github.com/NeuralTrust/TrustBatch/pkg/infra/cache/event"
	"github.com/NeuralTrust/TrustBatch/pkg/infra/prometheus"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	recordQueue   = "record"
	dispatchQueue = "dispatch"

	minWakeDelay = 50 * time.Millisecond
)

const (
	resultCreated  = "created"
	resultAppended = "appended"
	resultDropped  = "dropped"
	resultError    = "error"
	resultRejected = "rejected"

	resultSuccess    = "success"
	resultFailed     = "failed"
	resultSkipped    = "skipped"
	resultStoreError = "store_error"
)

// FailureReporter is told about every batch whose callback failed. The batch
// stays dispatched and is not retried.
type FailureReporter func(policyName string, b *bucket.Bucket, err error)

type Opts struct {
	TimeProvider    func() time.Time
	FailureReporter FailureReporter
	// Publisher announces new fire times to other instances. Optional.
	Publisher  infraCache.EventPublisher
	InstanceID string
}

//go:generate mockery --name=Service --dir=. --output=./mocks --filename=debouncer_mock.go --case=underscore --with-expecter
type Service interface {
	RecordEvent(ctx context.Context, policyName, groupingKey, eventID string, override *bucket.Timing) error
	Emit(ctx context.Context, policyName, groupingKey, eventID string, override *bucket.Timing) error
	ForceFire(ctx context.Context, bucketID uuid.UUID) error
	ListBuckets(ctx context.Context, policyName string, limit int) ([]*bucket.Bucket, error)
	Policies() []PolicyInfo
}

type Debouncer struct {
	logger          *logrus.Logger
	registry        *Registry
	repo            bucket.Repository
	cfg             Config
	timeProvider    func() time.Time
	failureReporter FailureReporter
	publisher       infraCache.EventPublisher
	instanceID      string

	writes   *pool
	dispatch *pool

	wake      chan struct{}
	schedMu   sync.Mutex
	schedule  map[string]time.Time
	lastPurge time.Time
}

func New(
	logger *logrus.Logger,
	registry *Registry,
	repo bucket.Repository,
	cfg Config,
	opts *Opts,
) *Debouncer {
	cfg = cfg.withDefaults()
	d := &Debouncer{
		logger:       logger,
		registry:     registry,
		repo:         repo,
		cfg:          cfg,
		timeProvider: time.Now,
		writes:       newPool(recordQueue, logger, cfg.QueueSize),
		dispatch:     newPool(dispatchQueue, logger, cfg.QueueSize),
		wake:         make(chan struct{}, 1),
		schedule:     make(map[string]time.Time),
	}
	if opts != nil {
		if opts.TimeProvider != nil {
			d.timeProvider = opts.TimeProvider
		}
		d.failureReporter = opts.FailureReporter
		d.publisher = opts.Publisher
		d.instanceID = opts.InstanceID
	}
	d.writes.startWorkers(cfg.Workers)
	d.dispatch.startWorkers(cfg.Workers)
	return d
}

// Close drains the record and dispatch queues.
func (d *Debouncer) Close() {
	d.writes.shutdown()
	d.dispatch.shutdown()
}

func (d *Debouncer) Policies() []PolicyInfo {
	return d.registry.Policies()
}

// RecordEvent appends eventID to the active bucket of (policyName, groupingKey)
// and waits for the store. An override only applies when it creates the bucket.
func (d *Debouncer) RecordEvent(
	ctx context.Context,
	policyName, groupingKey, eventID string,
	override *bucket.Timing,
) error {
	params, err := d.prepare(policyName, groupingKey, eventID, override)
	if err != nil {
		return err
	}
	return d.record(ctx, params)
}

// Emit is the fire-and-forget form of RecordEvent. Configuration errors are
// returned; the write itself happens on the record queue and its failures are
// only logged and counted.
func (d *Debouncer) Emit(
	ctx context.Context,
	policyName, groupingKey, eventID string,
	override *bucket.Timing,
) error {
	params, err := d.prepare(policyName, groupingKey, eventID, override)
	if err != nil {
		return err
	}
	writeCtx := context.WithoutCancel(ctx)
	queued := d.writes.tryEnqueue(func() {
		if err := d.record(writeCtx, params); err != nil {
			d.logger.WithError(err).WithFields(logrus.Fields{
				"policy":      params.PolicyName,
				"groupingKey": params.GroupingKey,
				"eventID":     params.EventID,
			}).Error("failed to record event")
		}
	})
	if !queued {
		prometheus.EventsRecorded.WithLabelValues(policyName, resultDropped).Inc()
	}
	return nil
}

func (d *Debouncer) prepare(
	policyName, groupingKey, eventID string,
	override *bucket.Timing,
) (bucket.UpsertParams, error) {
	p, ok := d.registry.Lookup(policyName)
	if !ok {
		return bucket.UpsertParams{}, fmt.Errorf("%w: %s", ErrUnknownPolicy, policyName)
	}
	params := bucket.UpsertParams{
		PolicyName:  policyName,
		GroupingKey: groupingKey,
		EventID:     eventID,
		Timing:      p.timingFor(groupingKey),
	}
	if override != nil {
		if err := override.Validate(); err != nil {
			return bucket.UpsertParams{}, invalidTiming(policyName, err)
		}
		policyMaxWait := params.Timing.MaxWaitMinutes
		params.Timing = *override
		if params.Timing.MaxWaitMinutes == 0 {
			params.Timing.MaxWaitMinutes = policyMaxWait
		}
		params.CreateOnly = true
	}
	return params, nil
}

func (d *Debouncer) record(ctx context.Context, params bucket.UpsertParams) error {
	params.Now = d.now()

	storeCtx, cancel := context.WithTimeout(ctx, d.cfg.StoreTimeout)
	defer cancel()
	res, err := d.repo.Upsert(storeCtx, params)
	if err != nil {
		if errors.Is(err, bucket.ErrBucketExists) {
			prometheus.EventsRecorded.WithLabelValues(params.PolicyName, resultRejected).Inc()
			return fmt.Errorf("%w: policy %s key %s", ErrTimingOverride, params.PolicyName, params.GroupingKey)
		}
		prometheus.EventsRecorded.WithLabelValues(params.PolicyName, resultError).Inc()
		return storageError("upsert bucket", err)
	}

	result := resultAppended
	if res.Created {
		result = resultCreated
	}
	prometheus.EventsRecorded.WithLabelValues(params.PolicyName, result).Inc()

	d.Wake(params.PolicyName, res.Bucket.FireAt)
	d.announce(ctx, res.Bucket)
	return nil
}

func (d *Debouncer) announce(ctx context.Context, b *bucket.Bucket) {
	if d.publisher == nil {
		return
	}
	err := d.publisher.Publish(ctx, event.BucketScheduledEvent{
		PolicyName: b.PolicyName,
		BucketID:   b.ID.String(),
		FireAt:     b.FireAt,
		Origin:     d.instanceID,
	})
	if err != nil {
		d.logger.WithError(err).WithField("policy", b.PolicyName).Warn("failed to announce bucket schedule")
	}
}

// Wake records that policyName has work at the given time. The run loop wakes
// up no later than the earliest known time.
func (d *Debouncer) Wake(policyName string, at time.Time) {
	if _, ok := d.registry.Lookup(policyName); !ok {
		return
	}
	d.schedMu.Lock()
	current, ok := d.schedule[policyName]
	changed := !ok || at.Before(current)
	if changed {
		d.schedule[policyName] = at
	}
	d.schedMu.Unlock()

	if changed {
		select {
		case d.wake <- struct{}{}:
		default:
		}
	}
}

// NextWake returns the earliest armed fire time.
func (d *Debouncer) NextWake() (time.Time, bool) {
	d.schedMu.Lock()
	defer d.schedMu.Unlock()
	var next time.Time
	found := false
	for _, at := range d.schedule {
		if !found || at.Before(next) {
			next = at
			found = true
		}
	}
	return next, found
}

func (d *Debouncer) now() time.Time {
	return d.timeProvider()
}
