// Package notify delivers motion alerts over email or telegram. The
// monitor core only decides that and when an alert goes out; delivery
// mechanics live here, behind the monitor.Dispatcher boundary.
package notify

import (
	"security-camera-monitor/internal/logger"
	"security-camera-monitor/internal/models"
)

// Dispatcher delivers one alert referencing a screenshot artifact.
type Dispatcher interface {
	Send(screenshotPath string, meta models.NotificationMeta) error
}

// Async wraps a dispatcher so delivery runs off the frame-processing
// path. A slow SMTP server or bot API must not cause frame drops; errors
// are logged, never surfaced to the loop.
type Async struct {
	inner Dispatcher
}

func NewAsync(inner Dispatcher) *Async {
	return &Async{inner: inner}
}

func (a *Async) Send(screenshotPath string, meta models.NotificationMeta) error {
	go func() {
		if err := a.inner.Send(screenshotPath, meta); err != nil {
			logger.Errorf("Notification delivery failed: %v", err)
		}
	}()
	return nil
}

// Nop is used when the configured transport has no credentials. Alerts
// are dropped with a warning so detection and recording keep working.
type Nop struct{}

func (Nop) Send(screenshotPath string, meta models.NotificationMeta) error {
	logger.Warnf("Notification transport not configured, dropping alert for %s", screenshotPath)
	return nil
}
