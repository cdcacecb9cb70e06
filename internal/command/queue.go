package command

import "fmt"

// Policy decides which end of the queue Pop takes from.
type Policy int

const (
	// LIFO pops the most recent command first. A backlog drains in reverse
	// arrival order.
	LIFO Policy = iota
	// FIFO pops in arrival order.
	FIFO
)

// String returns the configuration name of the policy.
func (p Policy) String() string {
	switch p {
	case LIFO:
		return "lifo"
	case FIFO:
		return "fifo"
	default:
		return "unknown"
	}
}

// ParsePolicy parses "lifo" or "fifo". An empty string selects LIFO.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "lifo":
		return LIFO, nil
	case "fifo":
		return FIFO, nil
	default:
		return LIFO, fmt.Errorf("command: unknown queue policy %q", s)
	}
}

// Queue buffers pending commands across frames.
// New commands are always appended at the tail.
type Queue struct {
	policy  Policy
	limit   int // 0 means unbounded
	items   []Command
	dropped int
}

// NewQueue creates an empty queue. A positive limit bounds its length.
func NewQueue(policy Policy, limit int) *Queue {
	if limit < 0 {
		limit = 0
	}
	return &Queue{policy: policy, limit: limit}
}

// Push appends c at the tail. When the queue is full the oldest pending
// command is discarded first and Push reports true.
func (q *Queue) Push(c Command) (dropped bool) {
	if q.limit > 0 && len(q.items) >= q.limit {
		copy(q.items, q.items[1:])
		q.items = q.items[:len(q.items)-1]
		q.dropped++
		dropped = true
	}
	q.items = append(q.items, c)
	return dropped
}

// Pop removes one command according to the policy.
func (q *Queue) Pop() (Command, bool) {
	n := len(q.items)
	if n == 0 {
		return Command{}, false
	}

	var c Command
	if q.policy == FIFO {
		c = q.items[0]
		copy(q.items, q.items[1:])
	} else {
		c = q.items[n-1]
	}
	q.items = q.items[:n-1]
	return c, true
}

// Len returns the number of pending commands.
func (q *Queue) Len() int {
	return len(q.items)
}

// Dropped returns how many commands were discarded because the queue was full.
func (q *Queue) Dropped() int {
	return q.dropped
}

// Policy returns the drain order of the queue.
func (q *Queue) Policy() Policy {
	return q.policy
}
