package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lehigh-university-libraries/restorer/internal/compare"
	"github.com/lehigh-university-libraries/restorer/internal/upload"
)

// Session is one browser session: its controller plus the comparison view
type Session struct {
	ID        string
	CreatedAt time.Time

	*Controller
	Slider *compare.Slider
	Window *compare.Window

	mu         sync.Mutex
	nextWatch  int
	sliderSubs map[int]func(float64)
}

func New(restorer Restorer) *Session {
	s := &Session{
		ID:         uuid.NewString(),
		CreatedAt:  time.Now(),
		Controller: NewController(restorer),
		Slider:     compare.NewSlider(),
		Window:     compare.NewWindow(),
		sliderSubs: make(map[int]func(float64)),
	}
	s.Slider.OnChange(s.publishSlider)
	return s
}

// Reset clears the session state and recentres the comparison slider
func (s *Session) Reset() State {
	s.Slider.Reset()
	s.publishSlider(s.Slider.Position())
	return s.Controller.Reset()
}

// Upload replaces the original image and recentres the comparison slider
func (s *Session) Upload(img upload.Image) State {
	s.Slider.Reset()
	s.publishSlider(s.Slider.Position())
	return s.Controller.Upload(img)
}

// WatchSlider registers fn for slider position changes until cancel is called
func (s *Session) WatchSlider(fn func(position float64)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextWatch
	s.nextWatch++
	s.sliderSubs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.sliderSubs, id)
	}
}

func (s *Session) publishSlider(position float64) {
	s.mu.Lock()
	subs := make([]func(float64), 0, len(s.sliderSubs))
	for _, fn := range s.sliderSubs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(position)
	}
}
