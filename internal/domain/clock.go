package domain

import "github.com/jonboulle/clockwork"

// clock is a package-level time source so tests can freeze time via SetClock.
// Days-to-approach math depends on "now"; production uses the real clock and
// tests inject a fake for deterministic output.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source for metrics extraction. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
