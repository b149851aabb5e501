package delivery

import "errors"

var (
	ErrNoTransport    = errors.New("no transport for channel")
	ErrInvalidChannel = errors.New("invalid channel address")
)
