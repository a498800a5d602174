//go:build linux

package main

import (
	"time"

	"golang.org/x/sys/unix"
)

// pace sleeps out the remainder of period after start using
// clock_nanosleep via x/sys/unix, which holds tighter to the requested
// duration than time.Sleep under load — matters when --realtime is
// set and ticks are meant to track wall-clock time.
func pace(start time.Time, period time.Duration) {
	remaining := period - time.Since(start)
	if remaining <= 0 {
		return
	}
	ts := unix.NsecToTimespec(remaining.Nanoseconds())
	for {
		err := unix.ClockNanosleep(unix.CLOCK_MONOTONIC, 0, &ts, &ts)
		if err == nil || err != unix.EINTR {
			return
		}
	}
}
