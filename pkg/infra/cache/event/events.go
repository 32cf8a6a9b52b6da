package event

import "reflect"

type Event interface {
	Type() string
}

var BucketScheduledEventType = "BucketScheduledEvent"

var Registry = map[string]reflect.Type{
	BucketScheduledEventType: reflect.TypeOf(BucketScheduledEvent{}),
}
