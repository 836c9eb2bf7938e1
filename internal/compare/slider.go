package compare

import (
	"math"
	"sync"
)

const DefaultPosition = 50

// Slider is the before/after reveal divider. Position is the percentage of
// the container width, from the leading edge, where the restored image is shown.
type Slider struct {
	mu       sync.Mutex
	position float64
	dragging bool
	drag     uint64
	release  func()
	onChange func(float64)
}

func NewSlider() *Slider {
	return &Slider{position: DefaultPosition}
}

// OnChange registers a callback invoked with the new position after each move
func (s *Slider) OnChange(fn func(position float64)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Start begins a drag and captures window-scope move and release events
// until the next release anywhere in the window.
func (s *Slider) Start(w *Window) {
	s.Begin(w)
}

// Begin is Start that also returns an id for the drag it began, for use with
// EndDrag. It returns 0 when a drag was already in progress.
func (s *Slider) Begin(w *Window) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dragging {
		return 0
	}
	s.drag++
	s.dragging = true
	s.release = w.Subscribe(s.handle)
	return s.drag
}

func (s *Slider) handle(e Event) {
	switch {
	case e.isMove():
		s.Move(e.X, e.Rect)
	case e.isRelease():
		s.End()
	}
}

// Move recomputes the position from a pointer x coordinate. It is ignored
// unless a drag is in progress.
func (s *Slider) Move(x float64, r Rect) {
	s.mu.Lock()
	if !s.dragging {
		s.mu.Unlock()
		return
	}
	pos, ok := PositionFor(x, r)
	if !ok {
		s.mu.Unlock()
		return
	}
	s.position = pos
	fn := s.onChange
	s.mu.Unlock()

	if fn != nil {
		fn(pos)
	}
}

// End stops the drag and releases the window subscription
func (s *Slider) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.end()
}

// EndDrag ends the drag only if it is still the one Begin returned id for
func (s *Slider) EndDrag(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id != 0 && s.dragging && s.drag == id {
		s.end()
	}
}

func (s *Slider) end() {
	s.dragging = false
	if s.release != nil {
		s.release()
		s.release = nil
	}
}

func (s *Slider) Position() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position
}

func (s *Slider) Dragging() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dragging
}

// ClipInset is the trailing-edge inset percentage applied to the restored image
func (s *Slider) ClipInset() float64 {
	return 100 - s.Position()
}

// Reset ends any drag and returns the divider to the middle
func (s *Slider) Reset() {
	s.End()
	s.mu.Lock()
	s.position = DefaultPosition
	s.mu.Unlock()
}

// PositionFor maps a pointer x coordinate to a percentage of r, clamped to [0,100].
// It reports false for an empty container.
func PositionFor(x float64, r Rect) (float64, bool) {
	if r.Width <= 0 || math.IsNaN(x) || math.IsNaN(r.Left) {
		return 0, false
	}
	offset := x - r.Left
	if offset < 0 {
		offset = 0
	}
	if offset > r.Width {
		offset = r.Width
	}
	return offset / r.Width * 100, true
}

// Clamp limits a position to [0,100]
func Clamp(position float64) float64 {
	if position < 0 {
		return 0
	}
	if position > 100 {
		return 100
	}
	return position
}
