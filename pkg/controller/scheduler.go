package controller

import "time"

// Scheduler runs fn once after d. The returned stop function cancels a pending
// run and reports whether it did.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) (stop func() bool)
}

// SchedulerFunc adapts a function to Scheduler.
type SchedulerFunc func(d time.Duration, fn func()) func() bool

// AfterFunc calls f.
func (f SchedulerFunc) AfterFunc(d time.Duration, fn func()) func() bool {
	return f(d, fn)
}

// TimerScheduler schedules with time.AfterFunc.
type TimerScheduler struct{}

// AfterFunc implements Scheduler.
func (TimerScheduler) AfterFunc(d time.Duration, fn func()) func() bool {
	return time.AfterFunc(d, fn).Stop
}
