//go:build !linux

package main

import "time"

// pace sleeps out the remainder of period after start. Non-Linux
// platforms fall back to time.Sleep; only Linux gets the
// x/sys/unix clock_nanosleep-based pacer.
func pace(start time.Time, period time.Duration) {
	elapsed := time.Since(start)
	if elapsed < period {
		time.Sleep(period - elapsed)
	}
}
