package testsupport

import (
	"sort"
	"sync"
	"time"
)

// ManualScheduler queues callbacks on a virtual clock that only moves when
// Advance is called. It satisfies controller.Scheduler.
type ManualScheduler struct {
	mu      sync.Mutex
	now     time.Duration
	seq     int
	pending []*manualTask
}

type manualTask struct {
	at  time.Duration
	seq int
	fn  func()
}

// AfterFunc queues fn to run once the clock reaches now+d.
func (s *ManualScheduler) AfterFunc(d time.Duration, fn func()) func() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	task := &manualTask{at: s.now + d, seq: s.seq, fn: fn}
	s.pending = append(s.pending, task)
	return func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, p := range s.pending {
			if p == task {
				s.pending = append(s.pending[:i], s.pending[i+1:]...)
				return true
			}
		}
		return false
	}
}

// Advance moves the clock forward by d and runs every callback that became
// due, in schedule order. Callbacks run without the scheduler lock held.
func (s *ManualScheduler) Advance(d time.Duration) int {
	s.mu.Lock()
	s.now += d
	var due, rest []*manualTask
	for _, task := range s.pending {
		if task.at <= s.now {
			due = append(due, task)
		} else {
			rest = append(rest, task)
		}
	}
	s.pending = rest
	s.mu.Unlock()

	sort.Slice(due, func(i, j int) bool {
		if due[i].at != due[j].at {
			return due[i].at < due[j].at
		}
		return due[i].seq < due[j].seq
	})
	for _, task := range due {
		task.fn()
	}
	return len(due)
}

// Pending reports how many callbacks are waiting.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
