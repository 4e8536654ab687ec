package monitor

import (
	"time"

	"security-camera-monitor/internal/models"
)

// State of the recording session controller.
type State int

const (
	StateIdle State = iota
	StateRecording
)

func (s State) String() string {
	if s == StateRecording {
		return "RECORDING"
	}
	return "IDLE"
}

// Session tracks one motion episode from onset to confirmed quiet.
// Exactly one session is active at a time; a new burst after finalize
// always creates a fresh session with its own artifacts.
type Session struct {
	ID             string
	StartTime      time.Time
	LastMotionTime time.Time
	VideoPath      string
	ScreenshotPath string

	recorder Recorder
}

// Source supplies timestamped frames from a camera device. Next blocks
// until a frame is available.
type Source interface {
	Next() (models.Frame, error)
	Close() error
}

// Recorder appends frames to one video artifact. Close flushes and
// finalizes the artifact; the path must not be read as complete before
// Close returns.
type Recorder interface {
	WriteFrame(f models.Frame) error
	Close() error
}

// ArtifactStore creates the per-episode artifacts on local storage.
type ArtifactStore interface {
	NewVideoWriter(path string, first models.Frame) (Recorder, error)
	SaveScreenshot(path string, f models.Frame) error
}

// Dispatcher delivers a motion alert referencing a screenshot. Delivery
// failures are non-fatal to the monitor.
type Dispatcher interface {
	Send(screenshotPath string, meta models.NotificationMeta) error
}

// EventPublisher interface to decouple the controller from the specific
// mqtt implementation.
type EventPublisher interface {
	Publish(topic string, payload interface{}) error
}
