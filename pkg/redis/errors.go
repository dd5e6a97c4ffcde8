package redis

import "errors"

var (
	ErrParseURL          = errors.New("failed to parse redis connection url")
	ErrEmptyURL          = errors.New("empty redis connection url")
	ErrNotReady          = errors.New("redis did not become ready within the given time period")
	ErrHealthcheckFailed = errors.New("redis healthcheck failed")
)
