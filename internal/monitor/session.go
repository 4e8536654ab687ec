package monitor

import (
	"fmt"
	"path/filepath"
	"time"

	"security-camera-monitor/internal/logger"
	"security-camera-monitor/internal/models"

	"github.com/google/uuid"
)

type ControllerOption func(*Controller)

func WithEventPublisher(pub EventPublisher, topic string) ControllerOption {
	return func(c *Controller) {
		c.events = pub
		c.eventTopic = topic
	}
}

func WithCameraID(id int) ControllerOption {
	return func(c *Controller) {
		c.cameraID = id
	}
}

// Controller is the recording session state machine. Motion onset opens a
// session (video + screenshot artifacts, one alert); continued motion
// extends it; record_seconds of continuous quiet finalizes it. All timing
// decisions use frame timestamps, so frame-time scenarios are
// deterministic.
type Controller struct {
	store      ArtifactStore
	dispatcher Dispatcher
	events     EventPublisher
	eventTopic string
	cameraID   int

	saveDir   string
	recordFor time.Duration

	state   State
	session *Session

	// Same-second start collisions get a sequence suffix.
	lastStamp string
	stampSeq  int
}

func NewController(store ArtifactStore, dispatcher Dispatcher, saveDir string, recordSeconds int, opts ...ControllerOption) *Controller {
	c := &Controller{
		store:      store,
		dispatcher: dispatcher,
		saveDir:    saveDir,
		recordFor:  time.Duration(recordSeconds) * time.Second,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Controller) State() State {
	return c.state
}

// Process feeds one classified frame into the state machine. A returned
// error is an artifact write failure: the session has been aborted and
// the controller is back in IDLE; the caller reports it and the loop
// continues.
func (c *Controller) Process(frame models.Frame, sig models.MotionSignal) error {
	switch c.state {
	case StateIdle:
		if !sig.Detected {
			return nil
		}
		return c.startSession(frame, sig)

	case StateRecording:
		if sig.Detected {
			// Motion continuation extends the recording window.
			c.session.LastMotionTime = sig.Timestamp
		}

		if err := c.session.recorder.WriteFrame(frame); err != nil {
			path := c.session.VideoPath
			c.abortSession()
			return fmt.Errorf("%w: appending frame to %s: %v", models.ErrArtifactWrite, path, err)
		}

		if !sig.Detected && sig.Timestamp.Sub(c.session.LastMotionTime) >= c.recordFor {
			return c.finalizeSession(sig.Timestamp)
		}
		return nil
	}
	return nil
}

// Finalize closes any active session, flushing its video artifact. Called
// on shutdown and on fatal capture errors.
func (c *Controller) Finalize(now time.Time) error {
	if c.state != StateRecording {
		return nil
	}
	return c.finalizeSession(now)
}

func (c *Controller) startSession(frame models.Frame, sig models.MotionSignal) error {
	base := c.artifactBase(sig.Timestamp)
	session := &Session{
		ID:             uuid.NewString(),
		StartTime:      sig.Timestamp,
		LastMotionTime: sig.Timestamp,
		VideoPath:      filepath.Join(c.saveDir, base+".avi"),
		ScreenshotPath: filepath.Join(c.saveDir, base+".jpg"),
	}

	if err := c.store.SaveScreenshot(session.ScreenshotPath, frame); err != nil {
		return fmt.Errorf("%w: screenshot %s: %v", models.ErrArtifactWrite, session.ScreenshotPath, err)
	}

	recorder, err := c.store.NewVideoWriter(session.VideoPath, frame)
	if err != nil {
		return fmt.Errorf("%w: opening %s: %v", models.ErrArtifactWrite, session.VideoPath, err)
	}
	session.recorder = recorder

	if err := recorder.WriteFrame(frame); err != nil {
		recorder.Close()
		return fmt.Errorf("%w: appending frame to %s: %v", models.ErrArtifactWrite, session.VideoPath, err)
	}

	c.session = session
	c.state = StateRecording
	logger.Infof("Motion detected (%.2f%% changed), recording to %s", sig.ChangedFraction*100, session.VideoPath)

	// One alert per episode, sent at onset, never at finalize.
	c.dispatch(session, sig)
	c.publishEvent(models.SessionEvent{
		Type:           "start",
		SessionID:      session.ID,
		StartTime:      session.StartTime,
		VideoPath:      session.VideoPath,
		ScreenshotPath: session.ScreenshotPath,
	})

	return nil
}

func (c *Controller) finalizeSession(now time.Time) error {
	session := c.session
	c.session = nil
	c.state = StateIdle

	if err := session.recorder.Close(); err != nil {
		return fmt.Errorf("%w: finalizing %s: %v", models.ErrArtifactWrite, session.VideoPath, err)
	}

	logger.Infof("Recording finished: %s", session.VideoPath)

	end := now
	c.publishEvent(models.SessionEvent{
		Type:           "end",
		SessionID:      session.ID,
		StartTime:      session.StartTime,
		EndTime:        &end,
		VideoPath:      session.VideoPath,
		ScreenshotPath: session.ScreenshotPath,
	})

	return nil
}

func (c *Controller) abortSession() {
	if c.session != nil && c.session.recorder != nil {
		c.session.recorder.Close()
	}
	c.session = nil
	c.state = StateIdle
}

func (c *Controller) dispatch(session *Session, sig models.MotionSignal) {
	if c.dispatcher == nil {
		return
	}
	meta := models.NotificationMeta{
		SessionID:  session.ID,
		CameraID:   c.cameraID,
		DetectedAt: sig.Timestamp,
	}
	if err := c.dispatcher.Send(session.ScreenshotPath, meta); err != nil {
		logger.Errorf("Failed to send notification: %v", err)
	}
}

func (c *Controller) publishEvent(evt models.SessionEvent) {
	if c.events == nil {
		return
	}
	if err := c.events.Publish(c.eventTopic, evt); err != nil {
		logger.Errorf("Failed to publish session event: %v", err)
	}
}

// artifactBase derives the shared filename stem for one episode from its
// start time. Two episodes starting within the same second get a
// sequence suffix so artifacts are never overwritten.
func (c *Controller) artifactBase(start time.Time) string {
	stamp := start.Format("20060102_150405")
	if stamp == c.lastStamp {
		c.stampSeq++
		return fmt.Sprintf("motion_%s_%d", stamp, c.stampSeq)
	}
	c.lastStamp = stamp
	c.stampSeq = 1
	return "motion_" + stamp
}
