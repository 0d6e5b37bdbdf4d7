// Implements the ReadyQueue, which holds processes waiting for a CPU.
// Devices reuse the same type as their FIFO I/O wait queue.

package sim

import (
	"fmt"
	"strings"
)

// ReadyQueue is an ordered collection of waiting processes. Enqueue order is
// round-robin order; dispatch policies may pick any position.
type ReadyQueue struct {
	queue []*Process
}

// Enqueue adds a process to the back of the queue.
func (rq *ReadyQueue) Enqueue(p *Process) {
	if p == nil {
		panic("Enqueue: process must not be nil")
	}
	rq.queue = append(rq.queue, p)
}

func (rq *ReadyQueue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, p := range rq.queue {
		sb.WriteString(p.String())
		if i < len(rq.queue)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}

// Len returns the number of processes in the queue.
func (rq *ReadyQueue) Len() int {
	return len(rq.queue)
}

// Items returns the queue contents for iteration.
// The returned slice is the queue's internal storage; callers MUST NOT
// append to or reslice it.
func (rq *ReadyQueue) Items() []*Process {
	return rq.queue
}

// Dequeue removes and returns the head of the queue, or nil when empty.
func (rq *ReadyQueue) Dequeue() *Process {
	if len(rq.queue) == 0 {
		return nil
	}
	p := rq.queue[0]
	rq.queue = rq.queue[1:]
	return p
}

// RemoveAt removes and returns the process at index i, preserving the order
// of the remaining entries. Panics when i is out of range.
func (rq *ReadyQueue) RemoveAt(i int) *Process {
	if i < 0 || i >= len(rq.queue) {
		panic(fmt.Sprintf("RemoveAt: index %d out of range [0,%d)", i, len(rq.queue)))
	}
	p := rq.queue[i]
	rq.queue = append(rq.queue[:i], rq.queue[i+1:]...)
	return p
}
