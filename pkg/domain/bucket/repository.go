package bucket

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type UpsertParams struct {
	PolicyName  string
	GroupingKey string
	EventID     string
	Timing      Timing
	Now         time.Time
	// CreateOnly makes the upsert fail with ErrBucketExists instead of
	// appending when an active bucket already exists.
	CreateOnly bool
}

type UpsertResult struct {
	Bucket  *Bucket
	Created bool
}

// Repository is the durable timer store consumed by the debouncer.
//
//go:generate mockery --name=Repository --dir=. --output=./mocks --filename=bucket_repository_mock.go --case=underscore --with-expecter
type Repository interface {
	// Upsert atomically creates the active bucket of (policy, key) or appends
	// to it, and returns the bucket as it is after the mutation.
	Upsert(ctx context.Context, params UpsertParams) (*UpsertResult, error)
	FindDue(ctx context.Context, policyName string, now time.Time, limit int) ([]*Bucket, error)
	// MarkDispatched claims the bucket. It returns false when another worker
	// already dispatched it. The returned bucket carries the final member list.
	MarkDispatched(ctx context.Context, id uuid.UUID, now time.Time) (*Bucket, bool, error)
	ListActive(ctx context.Context) ([]*Bucket, error)
	ListActiveByPolicy(ctx context.Context, policyName string, limit int) ([]*Bucket, error)
	Get(ctx context.Context, id uuid.UUID) (*Bucket, error)
	CountDue(ctx context.Context, now time.Time) (map[string]int64, error)
	PurgeDispatched(ctx context.Context, before time.Time) (int64, error)
}
