package event

import "time"

// BucketScheduledEvent announces the fire time of a bucket after an upsert.
type BucketScheduledEvent struct {
	PolicyName string    `json:"policy_name"`
	BucketID   string    `json:"bucket_id"`
	FireAt     time.Time `json:"fire_at"`
	Origin     string    `json:"origin"`
}

func (e BucketScheduledEvent) Type() string {
	return BucketScheduledEventType
}
