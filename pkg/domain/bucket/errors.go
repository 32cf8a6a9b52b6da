package bucket

import "errors"

var (
	ErrBucketNotFound    = errors.New("bucket not found")
	ErrBucketExists      = errors.New("an active bucket already exists for this key")
	ErrAlreadyDispatched = errors.New("bucket already dispatched")
)
