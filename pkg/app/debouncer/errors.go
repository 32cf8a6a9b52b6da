package debouncer

import (
	"errors"
	"fmt"

	"github.com/NeuralTrust/TrustBatch/pkg/domain/bucket"
)

// ErrConfiguration is the family of programming mistakes: they are returned
// immediately and retrying never helps.
var ErrConfiguration = errors.New("debouncer configuration error")

var (
	ErrDuplicatePolicy = fmt.Errorf("%w: policy already registered", ErrConfiguration)
	ErrUnknownPolicy   = fmt.Errorf("%w: unknown policy", ErrConfiguration)
	ErrTimingOverride  = fmt.Errorf("%w: timing override on an existing bucket", ErrConfiguration)
	ErrInvalidTiming   = bucket.ErrInvalidTiming
)

var ErrStorageUnavailable = errors.New("timer store unavailable")

var (
	ErrBucketNotFound    = bucket.ErrBucketNotFound
	ErrAlreadyDispatched = bucket.ErrAlreadyDispatched
)

// IsRetryable reports whether err is a transient store failure.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStorageUnavailable)
}

func invalidTiming(policy string, err error) error {
	return fmt.Errorf("%w: policy %q: %w", ErrConfiguration, policy, err)
}

func storageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorageUnavailable, op, err)
}
