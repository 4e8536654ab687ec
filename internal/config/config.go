package config

import (
	"fmt"
	"os"

	"security-camera-monitor/internal/models"

	"gopkg.in/yaml.v3"
)

// Default returns a configuration matching the stock monitor behaviour:
// built-in webcam, moderate sensitivity, ten seconds of post-motion
// recording, email alerts.
func Default() *models.Config {
	return &models.Config{
		CameraID:                0,
		Sensitivity:             20,
		RecordSeconds:           10,
		NotifyMethod:            models.NotifyEmail,
		ReferenceRefreshSeconds: 30,
		SaveDir:                 "security_recordings",
		LogLevel:                "INFO",
		SMTP: models.SMTPConfig{
			Host: "smtp.gmail.com",
			Port: 587,
		},
	}
}

// Load reads the configuration from a file. A missing file is not an
// error: the defaults describe a complete working setup.
func Load(path string) (*models.Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.MQTT.Broker != "" && cfg.MQTT.ClientID == "" {
		cfg.MQTT.ClientID = "security-camera-monitor"
	}
	if cfg.MQTT.Broker != "" && cfg.MQTT.Topic == "" {
		cfg.MQTT.Topic = "security/monitor/sessions"
	}

	return cfg, nil
}

// Validate fails fast on out-of-range settings, before the monitor loop
// ever starts.
func Validate(cfg *models.Config) error {
	if cfg.Sensitivity < 1 || cfg.Sensitivity > 100 {
		return fmt.Errorf("%w: sensitivity must be in 1-100, got %d", models.ErrInvalidConfig, cfg.Sensitivity)
	}
	if cfg.RecordSeconds <= 0 {
		return fmt.Errorf("%w: record_seconds must be positive, got %d", models.ErrInvalidConfig, cfg.RecordSeconds)
	}
	if cfg.ReferenceRefreshSeconds <= 0 {
		return fmt.Errorf("%w: reference_refresh_seconds must be positive, got %d", models.ErrInvalidConfig, cfg.ReferenceRefreshSeconds)
	}
	switch cfg.NotifyMethod {
	case models.NotifyEmail, models.NotifyTelegram:
	default:
		return fmt.Errorf("%w: notify_method must be %q or %q, got %q",
			models.ErrInvalidConfig, models.NotifyEmail, models.NotifyTelegram, cfg.NotifyMethod)
	}
	if cfg.SaveDir == "" {
		return fmt.Errorf("%w: save_dir must not be empty", models.ErrInvalidConfig)
	}
	return nil
}
