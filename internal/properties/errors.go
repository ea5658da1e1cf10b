package properties

import "errors"

var (
	// ErrUnboundStore is returned when a write is attempted on a resolver constructed without a store.
	ErrUnboundStore = errors.New("no property store bound")
	// ErrProtectedKey is returned when a write targets a protected key.
	ErrProtectedKey = errors.New("property is protected")
)
