package ratelimit

import "time"

// signalThrottle lets one signal through per interval.
type signalThrottle struct {
	interval time.Duration
	last     time.Time
	fired    bool
}

func newSignalThrottle(interval time.Duration) *signalThrottle {
	return &signalThrottle{interval: interval}
}

func (s *signalThrottle) allow(now time.Time) bool {
	if s.fired && now.Sub(s.last) < s.interval {
		return false
	}
	s.last = now
	s.fired = true
	return true
}
