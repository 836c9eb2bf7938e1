package session

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/lehigh-university-libraries/restorer/internal/models"
	"github.com/lehigh-university-libraries/restorer/internal/upload"
)

const (
	ValidationMessage = "Please upload an image and select a restoration option."
	FailureMessage    = "An error occurred during restoration. Please try again."
	PreparingMessage  = "Preparing your photo for restoration..."
	ProcessingMessage = "AI is working its magic... this may take a moment."

	restoredPrefix = "data:image/png;base64,"
)

var (
	// ErrValidation is returned by Restore when no image or no option is set
	ErrValidation = errors.New("image and option required")
	// ErrInProgress is returned by Restore while another restoration is running
	ErrInProgress = errors.New("restoration already in progress")
	// ErrRestorationFailed wraps the cause of a failed restoration
	ErrRestorationFailed = errors.New("restoration failed")
	// ErrSuperseded is returned when the session was reset or re-uploaded
	// while the restoration was running; the result is discarded
	ErrSuperseded = errors.New("restoration superseded by a newer session state")
)

// Restorer is the remote restoration client used by the controller
type Restorer interface {
	Restore(ctx context.Context, imageBase64, mimeType string, option models.RestorationOption, prefs models.Preferences) (string, error)
}

// State is the complete, resettable state of one upload-configure-restore cycle
type State struct {
	Original         upload.Image             `json:"-"`
	OriginalName     string                   `json:"original_name,omitempty"`
	OriginalImageURL string                   `json:"original_image_url,omitempty"`
	RestoredImageURL string                   `json:"restored_image_url,omitempty"`
	IsLoading        bool                     `json:"is_loading"`
	LoadingMessage   string                   `json:"loading_message,omitempty"`
	Error            string                   `json:"error,omitempty"`
	SelectedOption   models.RestorationOption `json:"selected_option,omitempty"`
	Preferences      models.Preferences       `json:"preferences"`
	// Generation changes whenever the original image is replaced or cleared
	Generation uint64 `json:"generation"`
}

// InitialState is the state of a new or reset session
func InitialState() State {
	return State{Preferences: models.DefaultPreferences()}
}

// CanRestore reports whether the restore trigger should be enabled
func (s State) CanRestore() bool {
	return !s.Original.Empty() && s.SelectedOption != "" && !s.IsLoading
}

// DownloadReady reports whether a restored image can be saved
func (s State) DownloadReady() bool {
	return s.RestoredImageURL != "" && !s.IsLoading
}

// RestoredImage decodes the restored image from its data URL
func (s State) RestoredImage() ([]byte, error) {
	if s.RestoredImageURL == "" {
		return nil, fmt.Errorf("no restored image")
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(s.RestoredImageURL, restoredPrefix))
	if err != nil {
		return nil, fmt.Errorf("failed to decode restored image: %w", err)
	}
	return data, nil
}

// Download is a restored image ready to be saved client-side
type Download struct {
	Filename string
	MIMEType string
	Data     []byte
}

// Controller owns one session's state and sequences upload, configure,
// restore and reset. It is safe for concurrent use.
type Controller struct {
	mu       sync.Mutex
	state    State
	restorer Restorer
	// generation changes on upload and reset so in-flight results can be discarded
	generation uint64

	// pubMu is taken before mu is released so snapshots reach subscribers
	// in the order the changes were made
	pubMu   sync.Mutex
	subMu   sync.Mutex
	nextSub int
	subs    map[int]func(State)
}

func NewController(restorer Restorer) *Controller {
	return &Controller{
		state:    InitialState(),
		restorer: restorer,
		subs:     make(map[int]func(State)),
	}
}

// Snapshot returns a copy of the current state
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe registers fn to receive every state change until cancel is called
func (c *Controller) Subscribe(fn func(State)) (cancel func()) {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn

	return func() {
		c.subMu.Lock()
		defer c.subMu.Unlock()
		delete(c.subs, id)
	}
}

func (c *Controller) publish(s State) {
	c.subMu.Lock()
	subs := make([]func(State), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.subMu.Unlock()

	for _, fn := range subs {
		fn(s)
	}
}

// unlockAndPublish releases mu and delivers the state it guarded. Callers
// must hold mu. Subscribers must not call back into the controller.
func (c *Controller) unlockAndPublish() State {
	s := c.state
	c.pubMu.Lock()
	c.mu.Unlock()
	defer c.pubMu.Unlock()

	c.publish(s)
	return s
}

// update applies fn under the lock and publishes the resulting state
func (c *Controller) update(fn func(*State)) State {
	c.mu.Lock()
	fn(&c.state)
	return c.unlockAndPublish()
}

// Upload replaces the session with a freshly loaded image
func (c *Controller) Upload(img upload.Image) State {
	return c.update(func(s *State) {
		c.generation++
		*s = InitialState()
		s.Generation = c.generation
		s.Original = img
		s.OriginalName = img.Name
		s.OriginalImageURL = img.DataURL()
	})
}

// SelectOption records the restoration mode; allowed at any time
func (c *Controller) SelectOption(option models.RestorationOption) State {
	return c.update(func(s *State) {
		s.SelectedOption = option
	})
}

// UpdatePreferences applies a copy-with-changes update to the preference record
func (c *Controller) UpdatePreferences(u models.PreferencesUpdate) State {
	return c.update(func(s *State) {
		s.Preferences = s.Preferences.With(u)
	})
}

// Reset returns every field to its initial value
func (c *Controller) Reset() State {
	return c.update(func(s *State) {
		c.generation++
		*s = InitialState()
		s.Generation = c.generation
	})
}

// Restore sends the loaded image to the restoration client. Without both an
// image and an option it records the validation error and returns
// ErrValidation without touching the loading state.
func (c *Controller) Restore(ctx context.Context) error {
	c.mu.Lock()
	if c.state.Original.Empty() || c.state.SelectedOption == "" {
		c.state.Error = ValidationMessage
		c.unlockAndPublish()
		return ErrValidation
	}
	if c.state.IsLoading {
		c.mu.Unlock()
		return ErrInProgress
	}

	c.state.IsLoading = true
	c.state.Error = ""
	c.state.LoadingMessage = PreparingMessage
	img := c.state.Original
	option := c.state.SelectedOption
	prefs := c.state.Preferences
	gen := c.generation
	c.unlockAndPublish()

	payload := img.Base64()

	if !c.updateIfCurrent(gen, func(s *State) { s.LoadingMessage = ProcessingMessage }) {
		return ErrSuperseded
	}

	restored, err := c.restorer.Restore(ctx, payload, img.MIMEType, option, prefs)

	applied := c.updateIfCurrent(gen, func(s *State) {
		s.IsLoading = false
		s.LoadingMessage = ""
		if err != nil {
			s.Error = FailureMessage
			return
		}
		s.RestoredImageURL = restoredPrefix + restored
	})

	if err != nil {
		slog.Error("Restoration failed", "option", option, "file", img.Name, "err", err)
		return fmt.Errorf("%w: %w", ErrRestorationFailed, err)
	}
	if !applied {
		slog.Info("Discarding restoration result for superseded session state", "file", img.Name)
		return ErrSuperseded
	}
	return nil
}

func (c *Controller) updateIfCurrent(gen uint64, fn func(*State)) bool {
	c.mu.Lock()
	if c.generation != gen {
		c.mu.Unlock()
		return false
	}
	fn(&c.state)
	c.unlockAndPublish()
	return true
}

// Download returns the restored image and its save name. It reports false
// when no restored image exists and never changes state.
func (c *Controller) Download() (Download, bool) {
	s := c.Snapshot()
	if s.RestoredImageURL == "" {
		return Download{}, false
	}
	data, err := s.RestoredImage()
	if err != nil {
		slog.Error("Unable to decode restored image", "err", err)
		return Download{}, false
	}
	return Download{
		Filename: DownloadName(s.OriginalName),
		MIMEType: "image/png",
		Data:     data,
	}, true
}

// DownloadName is the save name for a restored copy of originalName
func DownloadName(originalName string) string {
	if originalName == "" {
		originalName = "photo"
	}
	return "restored-" + originalName + ".png"
}
