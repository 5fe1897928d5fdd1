// Package clock abstracts wall-clock access so handlers that stamp
// responses with the current time can be tested deterministically.
package clock

import "time"

type Clock interface {
	Now() time.Time
}

// System reads the real wall clock.
type System struct{}

func (System) Now() time.Time {
	return time.Now()
}

// Fixed always returns the same instant. Test use only.
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time {
	return f.T
}
