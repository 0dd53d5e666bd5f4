package data

import "time"

// TimeProvider abstracts time.Now so repository timestamps are testable.
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider returns the actual current time.
type RealTimeProvider struct{}

func (RealTimeProvider) Now() time.Time { return time.Now() }

// FixedTimeProvider always returns the configured instant; for tests.
type FixedTimeProvider struct {
	Fixed time.Time
}

func (p FixedTimeProvider) Now() time.Time { return p.Fixed }
