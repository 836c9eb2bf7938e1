package compare

import "sync"

// EventKind names a pointer or touch event observed at window scope
type EventKind string

const (
	PointerDown EventKind = "pointerdown"
	PointerMove EventKind = "pointermove"
	PointerUp   EventKind = "pointerup"
	TouchStart  EventKind = "touchstart"
	TouchMove   EventKind = "touchmove"
	TouchEnd    EventKind = "touchend"
)

// Rect is the horizontal extent of the comparison container in client coordinates
type Rect struct {
	Left  float64 `json:"left"`
	Width float64 `json:"width"`
}

// Event is a window-level pointer event. Rect is the container's bounding
// box at the time of the event.
type Event struct {
	Kind EventKind `json:"kind"`
	X    float64   `json:"x"`
	Rect Rect      `json:"rect"`
}

func (e Event) isMove() bool {
	return e.Kind == PointerMove || e.Kind == TouchMove
}

func (e Event) isRelease() bool {
	return e.Kind == PointerUp || e.Kind == TouchEnd
}

type Listener func(Event)

// Window fans out window-scope events to its current subscribers
type Window struct {
	mu        sync.Mutex
	next      int
	listeners map[int]Listener
}

func NewWindow() *Window {
	return &Window{listeners: make(map[int]Listener)}
}

// Subscribe registers l until the returned function is called.
// Calling the returned function more than once is a no-op.
func (w *Window) Subscribe(l Listener) (unsubscribe func()) {
	w.mu.Lock()
	defer w.mu.Unlock()

	id := w.next
	w.next++
	w.listeners[id] = l

	var once sync.Once
	return func() {
		once.Do(func() {
			w.mu.Lock()
			defer w.mu.Unlock()
			delete(w.listeners, id)
		})
	}
}

// Dispatch delivers e to every subscriber. Listeners may unsubscribe during delivery.
func (w *Window) Dispatch(e Event) {
	w.mu.Lock()
	listeners := make([]Listener, 0, len(w.listeners))
	for _, l := range w.listeners {
		listeners = append(listeners, l)
	}
	w.mu.Unlock()

	for _, l := range listeners {
		l(e)
	}
}

// Subscribers reports how many listeners are attached
func (w *Window) Subscribers() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.listeners)
}
