package response

import (
	"time"

	"github.com/NeuralTrust/TrustBatch/pkg/domain/bucket"
	"github.com/google/uuid"
)

type BucketOutput struct {
	ID             uuid.UUID     `json:"id"`
	PolicyName     string        `json:"policy_name"`
	GroupingKey    string        `json:"grouping_key"`
	MemberEventIDs []string      `json:"member_event_ids"`
	EventCount     int           `json:"event_count"`
	Timing         bucket.Timing `json:"timing"`
	State          bucket.State  `json:"state"`
	FireAt         time.Time     `json:"fire_at"`
	DeadlineAt     *time.Time    `json:"deadline_at,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
}

type ListBucketsOutput struct {
	Policy  string         `json:"policy"`
	Buckets []BucketOutput `json:"buckets"`
	Count   int            `json:"count"`
}

func NewBucketOutput(b *bucket.Bucket, now time.Time) BucketOutput {
	members := b.Members()
	return BucketOutput{
		ID:             b.ID,
		PolicyName:     b.PolicyName,
		GroupingKey:    b.GroupingKey,
		MemberEventIDs: members,
		EventCount:     len(members),
		Timing:         b.TimingParams,
		State:          b.State(now),
		FireAt:         b.FireAt,
		DeadlineAt:     b.DeadlineAt,
		CreatedAt:      b.CreatedAt,
	}
}
