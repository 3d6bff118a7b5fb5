package controller

import (
	"sort"
	"time"
)

type task struct {
	due time.Time
	seq uint64
	fn  func()
}

// queue holds deferred work run from Frame. Tasks due at the same time run
// in the order they were scheduled.
type queue struct {
	tasks []task
	seq   uint64
}

func (q *queue) add(due time.Time, fn func()) {
	q.seq++
	q.tasks = append(q.tasks, task{due: due, seq: q.seq, fn: fn})
	sort.SliceStable(q.tasks, func(i, j int) bool {
		return q.tasks[i].due.Before(q.tasks[j].due)
	})
}

// due removes and returns every task due at or before now.
func (q *queue) due(now time.Time) []func() {
	n := 0
	for n < len(q.tasks) && !q.tasks[n].due.After(now) {
		n++
	}
	if n == 0 {
		return nil
	}
	out := make([]func(), n)
	for i := 0; i < n; i++ {
		out[i] = q.tasks[i].fn
	}
	q.tasks = append(q.tasks[:0], q.tasks[n:]...)
	return out
}

func (q *queue) len() int { return len(q.tasks) }

func (q *queue) clear() { q.tasks = nil }
