package notify

import (
	"fmt"

	"security-camera-monitor/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramDispatcher sends the screenshot as a photo message to a fixed
// chat.
type TelegramDispatcher struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramDispatcher(token string, chatID int64) (*TelegramDispatcher, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &TelegramDispatcher{
		bot:    bot,
		chatID: chatID,
	}, nil
}

func (t *TelegramDispatcher) Send(screenshotPath string, meta models.NotificationMeta) error {
	photo := tgbotapi.NewPhoto(t.chatID, tgbotapi.FilePath(screenshotPath))
	photo.Caption = fmt.Sprintf("🚨 ALERT! Motion detected on camera %d at %s.",
		meta.CameraID, meta.DetectedAt.Format("15:04:05 02.01.2006"))

	if _, err := t.bot.Send(photo); err != nil {
		return fmt.Errorf("%w: telegram chat %d: %v", models.ErrDelivery, t.chatID, err)
	}
	return nil
}
