package monitor

import (
	"context"
	"fmt"
	"time"

	"security-camera-monitor/internal/detect"
	"security-camera-monitor/internal/logger"
	"security-camera-monitor/internal/reference"
)

// Monitor is the top-level driver: a sequential pipeline that pulls one
// frame per iteration, classifies it against the reference baseline and
// feeds the verdict to the session controller. The stop signal is
// observed at iteration boundaries only, so an active recording is always
// finalized cleanly.
type Monitor struct {
	source     Source
	ref        *reference.Model
	classifier *detect.Classifier
	controller *Controller

	refreshEvery  time.Duration
	lastRefresh   time.Time
	lastFrameTime time.Time
}

func New(source Source, ref *reference.Model, classifier *detect.Classifier, controller *Controller, refreshSeconds int) *Monitor {
	return &Monitor{
		source:       source,
		ref:          ref,
		classifier:   classifier,
		controller:   controller,
		refreshEvery: time.Duration(refreshSeconds) * time.Second,
	}
}

// Run drives the loop until ctx is cancelled or the frame source fails.
// Frame source errors are fatal; artifact write errors abort the current
// episode and the loop continues.
func (m *Monitor) Run(ctx context.Context) error {
	logger.Info("Monitor loop started")
	defer m.source.Close()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Stop requested, shutting down monitor loop")
			if err := m.controller.Finalize(m.lastFrameTime); err != nil {
				logger.Errorf("Failed to finalize recording on shutdown: %v", err)
			}
			return nil
		default:
		}

		frame, err := m.source.Next()
		if err != nil {
			if ferr := m.controller.Finalize(m.lastFrameTime); ferr != nil {
				logger.Errorf("Failed to finalize recording: %v", ferr)
			}
			return fmt.Errorf("frame source: %w", err)
		}
		m.lastFrameTime = frame.Timestamp

		if !m.ref.Initialized() {
			m.ref.Initialize(frame)
			m.lastRefresh = frame.Timestamp
		} else if frame.Timestamp.Sub(m.lastRefresh) >= m.refreshEvery && m.controller.State() == StateIdle {
			// The timer is not reset while recording, so a refresh that
			// came due mid-session fires on the first idle iteration
			// instead of being silently lost.
			m.ref.Refresh(frame)
			m.lastRefresh = frame.Timestamp
			logger.Debug("Reference baseline refreshed")
		}

		sig, err := m.classifier.Classify(frame)
		if err != nil {
			if ferr := m.controller.Finalize(m.lastFrameTime); ferr != nil {
				logger.Errorf("Failed to finalize recording: %v", ferr)
			}
			return fmt.Errorf("classifier: %w", err)
		}

		if err := m.controller.Process(frame, sig); err != nil {
			// Storage failure: the episode is lost, monitoring is not.
			logger.Errorf("Recording episode aborted: %v", err)
		}
	}
}
