package subscription

import "errors"

var (
	ErrStoreUnavailable = errors.New("subscription store unavailable")
	ErrEmptyRepository  = errors.New("repository name is empty")
	ErrEmptyChannel     = errors.New("channel is empty")
)
