package sim

import (
	"testing"
)

func TestReadyQueue_EnqueueDequeue_FIFO(t *testing.T) {
	// GIVEN a queue [P1 P2]
	rq := &ReadyQueue{}
	rq.Enqueue(&Process{ID: 1})
	rq.Enqueue(&Process{ID: 2})
	if rq.String() != "[P1 P2]" {
		t.Errorf("String: got %s, want [P1 P2]", rq.String())
	}

	// WHEN dequeued
	got := rq.Dequeue()

	// THEN the head leaves first and the tail remains
	if got == nil || got.ID != 1 {
		t.Errorf("Dequeue: got %v, want P1", got)
	}
	if rq.Len() != 1 {
		t.Errorf("Len after Dequeue: got %d, want 1", rq.Len())
	}
}

func TestReadyQueue_Empty_DequeueReturnsNil(t *testing.T) {
	rq := &ReadyQueue{}
	if rq.Dequeue() != nil {
		t.Error("Dequeue on empty queue: want nil")
	}
}

func TestReadyQueue_RemoveAt_PreservesOrder(t *testing.T) {
	// GIVEN a queue [P1 P2 P3 P4]
	rq := &ReadyQueue{}
	for i := 1; i <= 4; i++ {
		rq.Enqueue(&Process{ID: i})
	}

	// WHEN the middle element is removed
	got := rq.RemoveAt(2)

	// THEN it is returned and the remaining order is unchanged
	if got.ID != 3 {
		t.Errorf("RemoveAt(2) = %v, want P3", got)
	}
	if rq.String() != "[P1 P2 P4]" {
		t.Errorf("after RemoveAt: got %s, want [P1 P2 P4]", rq.String())
	}
	if rq.Dequeue().ID != 1 || rq.Len() != 2 {
		t.Errorf("Dequeue after RemoveAt: unexpected state %s", rq.String())
	}
}

func TestReadyQueue_RemoveAt_OutOfRange_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("RemoveAt out of range did not panic")
		}
	}()
	rq := &ReadyQueue{}
	rq.RemoveAt(0)
}

func TestReadyQueue_Enqueue_Nil_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Enqueue(nil) did not panic")
		}
	}()
	rq := &ReadyQueue{}
	rq.Enqueue(nil)
}
