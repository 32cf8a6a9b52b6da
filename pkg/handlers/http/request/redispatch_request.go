package request

import (
	"errors"
	"fmt"
)

const maxRedispatchEvents = 1000

type RedispatchRequest struct {
	RecipientID string   `json:"recipient_id"`
	EventIDs    []string `json:"event_ids"`
}

func (r *RedispatchRequest) Validate() error {
	if r.RecipientID == "" {
		return errors.New("recipient_id is required")
	}
	if len(r.EventIDs) == 0 {
		return errors.New("event_ids must not be empty")
	}
	if len(r.EventIDs) > maxRedispatchEvents {
		return fmt.Errorf("at most %d event_ids are allowed", maxRedispatchEvents)
	}
	for i, id := range r.EventIDs {
		if id == "" {
			return fmt.Errorf("event_ids[%d] is empty", i)
		}
	}
	return nil
}
