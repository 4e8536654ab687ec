package notify

import (
	"fmt"

	"security-camera-monitor/internal/models"

	"gopkg.in/gomail.v2"
)

// EmailDispatcher sends the alert to the monitoring account itself with
// the screenshot attached.
type EmailDispatcher struct {
	host     string
	port     int
	user     string
	password string
}

func NewEmailDispatcher(cfg models.SMTPConfig, user, password string) *EmailDispatcher {
	return &EmailDispatcher{
		host:     cfg.Host,
		port:     cfg.Port,
		user:     user,
		password: password,
	}
}

func (e *EmailDispatcher) Send(screenshotPath string, meta models.NotificationMeta) error {
	m := gomail.NewMessage()
	m.SetHeader("From", e.user)
	m.SetHeader("To", e.user)
	m.SetHeader("Subject", "ALERT! Motion detected")
	m.SetBody("text/plain", fmt.Sprintf(
		"The security system detected motion on camera %d at %s.",
		meta.CameraID, meta.DetectedAt.Format("15:04:05 02.01.2006")))
	m.Attach(screenshotPath)

	d := gomail.NewDialer(e.host, e.port, e.user, e.password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("%w: email to %s: %v", models.ErrDelivery, e.user, err)
	}
	return nil
}
