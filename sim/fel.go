package sim

import "container/heap"

type felEntry struct {
	ev  Event
	seq uint64
}

// FutureEventList is the time-ordered queue of pending events.
// Ordering: timestamp → Deschedule before everything else → insertion order.
type FutureEventList struct {
	entries []felEntry
	nextSeq uint64
}

// NewFutureEventList creates an empty event list.
func NewFutureEventList() *FutureEventList {
	fel := &FutureEventList{entries: make([]felEntry, 0)}
	heap.Init(fel)
	return fel
}

// Len implements heap.Interface
func (f *FutureEventList) Len() int {
	return len(f.entries)
}

// Less implements heap.Interface with deterministic ordering.
func (f *FutureEventList) Less(i, j int) bool {
	ei, ej := f.entries[i], f.entries[j]
	if ei.ev.Timestamp() != ej.ev.Timestamp() {
		return ei.ev.Timestamp() < ej.ev.Timestamp()
	}
	di, dj := ei.ev.Kind() == EventDeschedule, ej.ev.Kind() == EventDeschedule
	if di != dj {
		return di
	}
	return ei.seq < ej.seq
}

// Swap implements heap.Interface
func (f *FutureEventList) Swap(i, j int) {
	f.entries[i], f.entries[j] = f.entries[j], f.entries[i]
}

// Push implements heap.Interface
func (f *FutureEventList) Push(x any) {
	f.entries = append(f.entries, x.(felEntry))
}

// Pop implements heap.Interface
func (f *FutureEventList) Pop() any {
	old := f.entries
	n := len(old)
	item := old[n-1]
	f.entries = old[0 : n-1]
	return item
}

// Schedule adds an event to the list.
func (f *FutureEventList) Schedule(ev Event) {
	heap.Push(f, felEntry{ev: ev, seq: f.nextSeq})
	f.nextSeq++
}

// PopNext removes and returns the earliest event, or nil when the list is empty.
func (f *FutureEventList) PopNext() Event {
	if f.Len() == 0 {
		return nil
	}
	return heap.Pop(f).(felEntry).ev
}

// Peek returns the earliest event without removing it.
func (f *FutureEventList) Peek() Event {
	if f.Len() == 0 {
		return nil
	}
	return f.entries[0].ev
}
