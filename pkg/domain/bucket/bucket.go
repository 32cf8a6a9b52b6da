package bucket

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type State string

const (
	StateAccumulating State = "accumulating"
	StateDue          State = "due"
	StateDispatched   State = "dispatched"
)

// Bucket accumulates the member events of one grouping key within one policy
// between its creation and its dispatch. A dispatched bucket is never reused.
type Bucket struct {
	ID             uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	PolicyName     string         `json:"policy_name" gorm:"column:policy_name"`
	GroupingKey    string         `json:"grouping_key" gorm:"column:grouping_key"`
	MemberEventIDs pq.StringArray `json:"member_event_ids" gorm:"column:member_event_ids;type:text[]"`
	TimingKind     Kind           `json:"timing_kind" gorm:"column:timing_kind"`
	TimingParams   Timing         `json:"timing_params" gorm:"column:timing_params;type:jsonb"`
	FireAt         time.Time      `json:"fire_at" gorm:"column:fire_at"`
	DeadlineAt     *time.Time     `json:"deadline_at,omitempty" gorm:"column:deadline_at"`
	Dispatched     bool           `json:"dispatched" gorm:"column:dispatched"`
	DispatchedAt   *time.Time     `json:"dispatched_at,omitempty" gorm:"column:dispatched_at"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

func (Bucket) TableName() string {
	return "debounce_buckets"
}

func (b *Bucket) State(now time.Time) State {
	if b.Dispatched {
		return StateDispatched
	}
	if !b.FireAt.After(now) {
		return StateDue
	}
	return StateAccumulating
}

func (b *Bucket) Members() []string {
	out := make([]string, len(b.MemberEventIDs))
	copy(out, b.MemberEventIDs)
	return out
}

// Clone returns a deep copy, so that callers never share member slices with a store.
func (b *Bucket) Clone() *Bucket {
	c := *b
	c.MemberEventIDs = b.Members()
	if b.DeadlineAt != nil {
		d := *b.DeadlineAt
		c.DeadlineAt = &d
	}
	if b.DispatchedAt != nil {
		d := *b.DispatchedAt
		c.DispatchedAt = &d
	}
	return &c
}

// MergedFireAt applies the append rule to an existing fire time: a delayed
// bucket moves forward to candidate (never backwards, never past its deadline),
// a scheduled bucket keeps its fire time.
func MergedFireAt(current, candidate time.Time, timing Timing, deadline *time.Time) time.Time {
	if !timing.MovesOnAppend() {
		return current
	}
	next := current
	if candidate.After(next) {
		next = candidate
	}
	if deadline != nil && next.After(*deadline) {
		next = *deadline
	}
	return next
}
