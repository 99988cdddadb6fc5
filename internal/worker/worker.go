// Package worker bounds how many images are processed concurrently.
package worker

import "context"

// Limiter is a counting admission limiter. Each image task acquires a
// slot before detection starts and releases it when the image is done.
type Limiter struct {
	slots chan struct{}
}

// NewLimiter returns a limiter admitting up to n concurrent holders.
// Values below 1 are treated as 1.
func NewLimiter(n int) *Limiter {
	if n < 1 {
		n = 1
	}
	return &Limiter{slots: make(chan struct{}, n)}
}

// Acquire blocks until a slot is free or ctx is cancelled.
func (l *Limiter) Acquire(ctx context.Context) error {
	select {
	case l.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees a slot previously taken with Acquire.
func (l *Limiter) Release() {
	<-l.slots
}
