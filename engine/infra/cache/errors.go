package cache

import "errors"

var (
	ErrUnknownResolution = errors.New("cache: unknown resolution policy")
	ErrClosed            = errors.New("cache: notifier closed")
	errSubscriptionLost  = errors.New("cache: subscription channel closed")
)
