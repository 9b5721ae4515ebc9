package jobmodel

import "time"

// monotonicBase is the reference instant NowMonotonicUs measures from.
var monotonicBase = time.Now()

// NowMonotonicUs returns a monotonic microsecond timestamp (microseconds
// since package initialization) suitable for measuring elapsed execution
// time. Go's time.Now() already carries a monotonic reading alongside the
// wall clock (see the "Monotonic Clocks" section of the time package docs);
// Sub between two such values is monotonic regardless of wall-clock
// adjustments, which is exactly the CLOCK_MONOTONIC contract the original
// HAL's cpu_get_time_us relied on.
func NowMonotonicUs() int64 {
	return time.Since(monotonicBase).Microseconds()
}

// ElapsedUs returns the elapsed microseconds between a start time.Time
// (captured with time.Now()) and now, clamped to zero — a worker's
// execution_time_us can never be negative even under clock skew.
func ElapsedUs(start time.Time) uint32 {
	d := time.Since(start)
	if d < 0 {
		return 0
	}
	us := d.Microseconds()
	if us > int64(^uint32(0)) {
		return ^uint32(0)
	}
	return uint32(us)
}

// Deadline computes the absolute wall-clock instant timeoutUs microseconds
// from now, for a timed wait: an absolute deadline derived from the current
// real-time clock plus timeoutUs.
func Deadline(timeoutUs uint32) time.Time {
	return time.Now().Add(time.Duration(timeoutUs) * time.Microsecond)
}
