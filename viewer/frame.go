package viewer

// Scheduler runs a callback at the next frame boundary.
type Scheduler interface {
	RequestFrame(fn func())
}

// FrameQueue collects frame callbacks until the render loop flushes them.
// Call Flush once per Draw.
type FrameQueue struct {
	callbacks []func()
}

func NewFrameQueue() *FrameQueue {
	return &FrameQueue{}
}

func (q *FrameQueue) RequestFrame(fn func()) {
	if fn == nil {
		return
	}
	q.callbacks = append(q.callbacks, fn)
}

// Flush runs the callbacks queued so far and returns how many ran.
// Callbacks requested while flushing wait for the next frame.
func (q *FrameQueue) Flush() int {
	callbacks := q.callbacks
	q.callbacks = nil
	for _, fn := range callbacks {
		fn()
	}
	return len(callbacks)
}

// Pending reports how many callbacks are waiting for the next frame.
func (q *FrameQueue) Pending() int {
	return len(q.callbacks)
}
