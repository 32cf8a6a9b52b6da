package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/NeuralTrust/TrustBatch/pkg/domain/bucket"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type activeKey struct {
	policy string
	key    string
}

// memoryBucketRepository keeps buckets in process memory behind one mutex.
// Buckets do not survive a restart.
type memoryBucketRepository struct {
	mu      sync.Mutex
	buckets map[uuid.UUID]*bucket.Bucket
	active  map[activeKey]uuid.UUID
}

func NewMemoryBucketRepository() bucket.Repository {
	return &memoryBucketRepository{
		buckets: make(map[uuid.UUID]*bucket.Bucket),
		active:  make(map[activeKey]uuid.UUID),
	}
}

func (r *memoryBucketRepository) Upsert(ctx context.Context, params bucket.UpsertParams) (*bucket.UpsertResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fireAt, err := params.Timing.FireAt(params.Now)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	k := activeKey{policy: params.PolicyName, key: params.GroupingKey}
	if id, ok := r.active[k]; ok {
		if params.CreateOnly {
			return nil, bucket.ErrBucketExists
		}
		b := r.buckets[id]
		// Appends follow the timing the bucket was created with.
		candidate, err := b.TimingParams.FireAt(params.Now)
		if err != nil {
			return nil, err
		}
		b.MemberEventIDs = append(b.MemberEventIDs, params.EventID)
		b.FireAt = bucket.MergedFireAt(b.FireAt, candidate, b.TimingParams, b.DeadlineAt)
		b.UpdatedAt = params.Now
		return &bucket.UpsertResult{Bucket: b.Clone()}, nil
	}

	deadline := params.Timing.Deadline(params.Now)
	if deadline != nil && fireAt.After(*deadline) {
		fireAt = *deadline
	}
	b := &bucket.Bucket{
		ID:             uuid.New(),
		PolicyName:     params.PolicyName,
		GroupingKey:    params.GroupingKey,
		MemberEventIDs: pq.StringArray{params.EventID},
		TimingKind:     params.Timing.Kind,
		TimingParams:   params.Timing,
		FireAt:         fireAt,
		DeadlineAt:     deadline,
		CreatedAt:      params.Now,
		UpdatedAt:      params.Now,
	}
	r.buckets[b.ID] = b
	r.active[k] = b.ID
	return &bucket.UpsertResult{Bucket: b.Clone(), Created: true}, nil
}

func (r *memoryBucketRepository) FindDue(ctx context.Context, policyName string, now time.Time, limit int) ([]*bucket.Bucket, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.collect(limit, func(b *bucket.Bucket) bool {
		return b.PolicyName == policyName && !b.Dispatched && !b.FireAt.After(now)
	}), nil
}

func (r *memoryBucketRepository) MarkDispatched(ctx context.Context, id uuid.UUID, now time.Time) (*bucket.Bucket, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.buckets[id]
	if !ok || b.Dispatched {
		return nil, false, nil
	}
	b.Dispatched = true
	dispatchedAt := now
	b.DispatchedAt = &dispatchedAt
	b.UpdatedAt = now
	delete(r.active, activeKey{policy: b.PolicyName, key: b.GroupingKey})
	return b.Clone(), true, nil
}

func (r *memoryBucketRepository) ListActive(ctx context.Context) ([]*bucket.Bucket, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.collect(0, func(b *bucket.Bucket) bool { return !b.Dispatched }), nil
}

func (r *memoryBucketRepository) ListActiveByPolicy(ctx context.Context, policyName string, limit int) ([]*bucket.Bucket, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.collect(limit, func(b *bucket.Bucket) bool {
		return b.PolicyName == policyName && !b.Dispatched
	}), nil
}

func (r *memoryBucketRepository) Get(ctx context.Context, id uuid.UUID) (*bucket.Bucket, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.buckets[id]
	if !ok {
		return nil, bucket.ErrBucketNotFound
	}
	return b.Clone(), nil
}

func (r *memoryBucketRepository) CountDue(ctx context.Context, now time.Time) (map[string]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int64)
	for _, b := range r.buckets {
		if !b.Dispatched && !b.FireAt.After(now) {
			counts[b.PolicyName]++
		}
	}
	return counts, nil
}

func (r *memoryBucketRepository) PurgeDispatched(ctx context.Context, before time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var purged int64
	for id, b := range r.buckets {
		if b.Dispatched && b.DispatchedAt != nil && b.DispatchedAt.Before(before) {
			delete(r.buckets, id)
			purged++
		}
	}
	return purged, nil
}

// collect returns clones of the matching buckets ordered by fire time.
func (r *memoryBucketRepository) collect(limit int, match func(*bucket.Bucket) bool) []*bucket.Bucket {
	r.mu.Lock()
	out := make([]*bucket.Bucket, 0)
	for _, b := range r.buckets {
		if match(b) {
			out = append(out, b.Clone())
		}
	}
	r.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].FireAt.Equal(out[j].FireAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].FireAt.Before(out[j].FireAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
