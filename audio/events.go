package audio

import (
	"sync/atomic"
)

type eventKind int

const (
	evKeyDown eventKind = iota
	evKeyUp
	evFilterReset
)

// controlEvent crosses from the control thread to the render callback. Key
// edges and filter contour resets touch several render-owned fields at once,
// so they can't go through a property cell.
type controlEvent struct {
	kind eventKind
	note int
}

// eventQueue is a lock-free spsc queue. Pushes never block: when the render
// side isn't draining, for example while the audio device is off, a full
// queue drops the event instead of wedging the control thread.
type eventQueue struct {
	events      []controlEvent
	read, write atomic.Uint32
}

func newEventQueue(size int) *eventQueue {
	if size <= 0 || size&(size-1) != 0 {
		panic("event queue size must be a power of 2")
	}
	return &eventQueue{events: make([]controlEvent, size)}
}

func (q *eventQueue) push(ev controlEvent) bool {
	read := q.read.Load()
	write := q.write.Load()
	if write-read == uint32(len(q.events)) {
		return false
	}
	q.events[write%uint32(len(q.events))] = ev
	q.write.Store(write + 1)
	return true
}

func (q *eventQueue) drain(f func(controlEvent)) {
	read := q.read.Load()
	write := q.write.Load()
	if read == write {
		return
	}
	for read != write {
		f(q.events[read%uint32(len(q.events))])
		read++
	}
	q.read.Store(read)
}
