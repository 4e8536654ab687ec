package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"security-camera-monitor/internal/capture"
	"security-camera-monitor/internal/config"
	"security-camera-monitor/internal/detect"
	"security-camera-monitor/internal/logger"
	"security-camera-monitor/internal/models"
	"security-camera-monitor/internal/monitor"
	"security-camera-monitor/internal/mqtt"
	"security-camera-monitor/internal/notify"
	"security-camera-monitor/internal/reference"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:          "security-camera-monitor",
		Short:        "Motion-triggered camera recorder with email/telegram alerts",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "config.yaml", "Path to configuration file")

	return cmd
}

func run(configPath string) error {
	// 1. Resolve channel credentials from the environment
	_ = godotenv.Load()

	// 2. Load and validate configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	logger.SetLevel(cfg.LogLevel)
	logger.Infof("Loaded config from %s", configPath)

	// 3. Recordings directory
	if err := os.MkdirAll(cfg.SaveDir, 0o755); err != nil {
		return fmt.Errorf("failed to create recordings directory: %w", err)
	}

	// 4. Notification transport
	dispatcher := buildDispatcher(cfg)

	// 5. Optional MQTT lifecycle publisher
	opts := []monitor.ControllerOption{monitor.WithCameraID(cfg.CameraID)}
	if cfg.MQTT.Broker != "" {
		mqttClient := mqtt.NewClient(cfg.MQTT)
		if err := mqttClient.Connect(); err != nil {
			logger.Warnf("MQTT unavailable, session events disabled: %v", err)
		} else {
			defer mqttClient.Disconnect()
			opts = append(opts, monitor.WithEventPublisher(mqttClient, cfg.MQTT.Topic))
		}
	}

	// 6. Camera and artifact storage
	device, err := capture.OpenDevice(cfg.CameraID)
	if err != nil {
		return err
	}
	store := capture.NewStore(device.FPS())

	// 7. Detection core
	ref := reference.New()
	classifier := detect.NewClassifier(ref, cfg.Sensitivity)
	controller := monitor.NewController(store, notify.NewAsync(dispatcher), cfg.SaveDir, cfg.RecordSeconds, opts...)
	mon := monitor.New(device, ref, classifier, controller, cfg.ReferenceRefreshSeconds)

	// 8. Run until interrupted; stop is observed at the next iteration
	// boundary so an active recording is finalized before exit.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return mon.Run(ctx)
}

func buildDispatcher(cfg *models.Config) notify.Dispatcher {
	switch cfg.NotifyMethod {
	case models.NotifyTelegram:
		token := os.Getenv("TELEGRAM_BOT_TOKEN")
		chat := os.Getenv("TELEGRAM_CHAT_ID")
		if token == "" || chat == "" {
			logger.Warn("TELEGRAM_BOT_TOKEN/TELEGRAM_CHAT_ID not set, alerts disabled")
			return notify.Nop{}
		}
		chatID, err := strconv.ParseInt(chat, 10, 64)
		if err != nil {
			logger.Warnf("Invalid TELEGRAM_CHAT_ID %q, alerts disabled", chat)
			return notify.Nop{}
		}
		dispatcher, err := notify.NewTelegramDispatcher(token, chatID)
		if err != nil {
			logger.Warnf("Telegram setup failed, alerts disabled: %v", err)
			return notify.Nop{}
		}
		return dispatcher

	default:
		user := os.Getenv("GMAIL_USER")
		password := os.Getenv("GMAIL_APP_PASSWORD")
		if user == "" || password == "" {
			logger.Warn("GMAIL_USER/GMAIL_APP_PASSWORD not set, alerts disabled")
			return notify.Nop{}
		}
		return notify.NewEmailDispatcher(cfg.SMTP, user, password)
	}
}
