// Package clockx abstracts the engine's time source so metadata
// timestamps can be pinned in tests.
package clockx

import "time"

type Clock interface {
	Now() time.Time
}

// System is the wall clock.
type System struct{}

func (System) Now() time.Time { return time.Now() }

// Fake returns a fixed instant until advanced.
type Fake struct {
	T time.Time
}

func (f *Fake) Now() time.Time { return f.T }

func (f *Fake) Advance(d time.Duration) { f.T = f.T.Add(d) }
