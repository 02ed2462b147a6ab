// Package clock abstracts time so room timers and answer latencies can be
// driven deterministically in tests.
package clock

import "time"

// Timer is a single-shot timer handle.
type Timer interface {
	// Stop prevents the timer from firing. It reports whether the call
	// stopped the timer, false if it already fired or was stopped.
	Stop() bool
}

// Clock is the time source used by rooms and quizzes.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Real is the wall clock. time.Now carries a monotonic reading, so
// durations computed from it are immune to wall-clock jumps.
type Real struct{}

func (Real) Now() time.Time {
	return time.Now()
}

func (Real) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
