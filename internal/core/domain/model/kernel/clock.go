package kernel

import "time"

// Clock supplies transition timestamps. Handlers receive it explicitly so
// tests can pin time.
type Clock interface {
	// Now returns the current instant in UTC.
	Now() time.Time
}

// ClockFunc adapts a plain function to Clock.
type ClockFunc func() time.Time

// Now calls f and normalizes the result to UTC.
func (f ClockFunc) Now() time.Time {
	return f().UTC()
}

// SystemClock reports wall-clock time in UTC.
func SystemClock() Clock {
	return ClockFunc(time.Now)
}

// FixedClock always reports t. Used by tests and replays.
func FixedClock(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}
