package application

import "time"

// Clock lets services measure elapsed time without depending on time.Now.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
