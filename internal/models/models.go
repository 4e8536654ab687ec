package models

import "time"

// NotifyMethod selects the notification transport.
type NotifyMethod string

const (
	NotifyEmail    NotifyMethod = "email"
	NotifyTelegram NotifyMethod = "telegram"
)

// Config defines the user settings
type Config struct {
	CameraID                int          `yaml:"camera_id"`
	Sensitivity             int          `yaml:"sensitivity"`               // 1-100, lower = more sensitive
	RecordSeconds           int          `yaml:"record_seconds"`            // post-motion recording duration
	NotifyMethod            NotifyMethod `yaml:"notify_method"`             // "email" or "telegram"
	ReferenceRefreshSeconds int          `yaml:"reference_refresh_seconds"` // baseline refresh cadence
	SaveDir                 string       `yaml:"save_dir"`
	LogLevel                string       `yaml:"log_level"`
	SMTP                    SMTPConfig   `yaml:"smtp"`
	MQTT                    MQTTConfig   `yaml:"mqtt"`
}

type SMTPConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type MQTTConfig struct {
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"client_id"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Topic    string `yaml:"topic"`
}

// Frame is one captured camera image: a grayscale luminance grid with a
// capture timestamp. Frames are immutable once captured; Pix must not be
// modified after the frame leaves the source.
type Frame struct {
	Pix       []uint8
	Width     int
	Height    int
	Timestamp time.Time
}

// MotionSignal is the classifier verdict for a single frame.
type MotionSignal struct {
	Detected        bool
	ChangedFraction float64 // proportion of pixels above the difference threshold, in [0,1]
	Timestamp       time.Time
}

// SessionEvent is the lifecycle payload published over MQTT when a
// recording session starts or ends.
type SessionEvent struct {
	Type           string     `json:"type"` // "start" or "end"
	SessionID      string     `json:"session_id"`
	StartTime      time.Time  `json:"start_time"`
	EndTime        *time.Time `json:"end_time,omitempty"`
	VideoPath      string     `json:"video_path"`
	ScreenshotPath string     `json:"screenshot_path"`
}

// NotificationMeta describes the detection an alert refers to.
type NotificationMeta struct {
	SessionID  string
	CameraID   int
	DetectedAt time.Time
}
