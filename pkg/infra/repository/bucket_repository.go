package repository

import (
	"context"
	"errors"
	"time"

	"github.com/NeuralTrust/TrustBatch/pkg/domain/bucket"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Appends extend a delayed bucket by its stored delay, not by the caller's timing.
const upsertBucketSQL = `
INSERT INTO debounce_buckets (
	id, policy_name, grouping_key, member_event_ids, timing_kind, timing_params,
	fire_at, deadline_at, dispatched, created_at, updated_at
) VALUES (?, ?, ?, ?::text[], ?, ?::jsonb, ?, ?, false, ?, ?)
ON CONFLICT (policy_name, grouping_key) WHERE dispatched = false
DO UPDATE SET
	member_event_ids = array_append(debounce_buckets.member_event_ids, EXCLUDED.member_event_ids[1]),
	fire_at = CASE
		WHEN debounce_buckets.timing_kind = 'delayed' THEN LEAST(
			GREATEST(
				debounce_buckets.fire_at,
				EXCLUDED.updated_at + make_interval(mins => COALESCE((debounce_buckets.timing_params->>'delay_minutes')::int, 0))
			),
			COALESCE(debounce_buckets.deadline_at, 'infinity'::timestamptz)
		)
		ELSE debounce_buckets.fire_at
	END,
	updated_at = EXCLUDED.updated_at
RETURNING *, (xmax = 0) AS created`

const createBucketSQL = `
INSERT INTO debounce_buckets (
	id, policy_name, grouping_key, member_event_ids, timing_kind, timing_params,
	fire_at, deadline_at, dispatched, created_at, updated_at
) VALUES (?, ?, ?, ?::text[], ?, ?::jsonb, ?, ?, false, ?, ?)
ON CONFLICT (policy_name, grouping_key) WHERE dispatched = false
DO NOTHING
RETURNING *, true AS created`

const markDispatchedSQL = `
UPDATE debounce_buckets
SET dispatched = true, dispatched_at = ?, updated_at = ?
WHERE id = ? AND dispatched = false
RETURNING *`

type upsertRow struct {
	bucket.Bucket
	Created bool
}

type bucketRepository struct {
	db *gorm.DB
}

func NewBucketRepository(db *gorm.DB) bucket.Repository {
	return &bucketRepository{
		db: db,
	}
}

func (r *bucketRepository) Upsert(ctx context.Context, params bucket.UpsertParams) (*bucket.UpsertResult, error) {
	fireAt, err := params.Timing.FireAt(params.Now)
	if err != nil {
		return nil, err
	}
	deadline := params.Timing.Deadline(params.Now)
	if deadline != nil && fireAt.After(*deadline) {
		fireAt = *deadline
	}

	query := upsertBucketSQL
	if params.CreateOnly {
		query = createBucketSQL
	}

	var row upsertRow
	result := r.db.WithContext(ctx).Raw(query,
		uuid.New(),
		params.PolicyName,
		params.GroupingKey,
		pq.StringArray{params.EventID},
		params.Timing.Kind,
		params.Timing,
		fireAt,
		deadline,
		params.Now,
		params.Now,
	).Scan(&row)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		if params.CreateOnly {
			return nil, bucket.ErrBucketExists
		}
		return nil, errors.New("upsert returned no row")
	}

	b := row.Bucket
	return &bucket.UpsertResult{Bucket: &b, Created: row.Created}, nil
}

func (r *bucketRepository) FindDue(ctx context.Context, policyName string, now time.Time, limit int) ([]*bucket.Bucket, error) {
	var buckets []*bucket.Bucket
	query := r.db.WithContext(ctx).
		Where("policy_name = ? AND dispatched = false AND fire_at <= ?", policyName, now).
		Order("fire_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&buckets).Error; err != nil {
		return nil, err
	}
	return buckets, nil
}

func (r *bucketRepository) MarkDispatched(ctx context.Context, id uuid.UUID, now time.Time) (*bucket.Bucket, bool, error) {
	var b bucket.Bucket
	result := r.db.WithContext(ctx).Raw(markDispatchedSQL, now, now, id).Scan(&b)
	if result.Error != nil {
		return nil, false, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, false, nil
	}
	return &b, true, nil
}

func (r *bucketRepository) ListActive(ctx context.Context) ([]*bucket.Bucket, error) {
	var buckets []*bucket.Bucket
	if err := r.db.WithContext(ctx).
		Where("dispatched = false").
		Order("fire_at ASC").
		Find(&buckets).Error; err != nil {
		return nil, err
	}
	return buckets, nil
}

func (r *bucketRepository) ListActiveByPolicy(ctx context.Context, policyName string, limit int) ([]*bucket.Bucket, error) {
	var buckets []*bucket.Bucket
	query := r.db.WithContext(ctx).
		Where("policy_name = ? AND dispatched = false", policyName).
		Order("fire_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&buckets).Error; err != nil {
		return nil, err
	}
	return buckets, nil
}

func (r *bucketRepository) Get(ctx context.Context, id uuid.UUID) (*bucket.Bucket, error) {
	var b bucket.Bucket
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bucket.ErrBucketNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *bucketRepository) CountDue(ctx context.Context, now time.Time) (map[string]int64, error) {
	type row struct {
		PolicyName string
		Count      int64
	}
	var rows []row
	if err := r.db.WithContext(ctx).
		Model(&bucket.Bucket{}).
		Select("policy_name, count(*) AS count").
		Where("dispatched = false AND fire_at <= ?", now).
		Group("policy_name").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.PolicyName] = r.Count
	}
	return counts, nil
}

func (r *bucketRepository) PurgeDispatched(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("dispatched = true AND dispatched_at < ?", before).
		Delete(&bucket.Bucket{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
