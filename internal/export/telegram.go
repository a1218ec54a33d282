package export

import (
	"context"
	"fmt"

	"github.com/Alias1177/matchforecast/internal/model"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender is the part of the Telegram bot API the sink needs
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramSink posts one message per ledger row to a chat
type TelegramSink struct {
	bot    Sender
	chatID int64
}

// NewTelegramSink creates a sink posting to chatID
func NewTelegramSink(bot Sender, chatID int64) *TelegramSink {
	return &TelegramSink{bot: bot, chatID: chatID}
}

// Name implements Sink
func (s *TelegramSink) Name() string {
	return "telegram"
}

// Send implements Sink. The bot API has no context support, so a cancelled
// context is only checked before sending.
func (s *TelegramSink) Send(ctx context.Context, entry model.LogEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.Post(FormatMessage(entry))
}

// Post sends a free-form Markdown message to the sink's chat
func (s *TelegramSink) Post(text string) error {
	msg := tgbotapi.NewMessage(s.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := s.bot.Send(msg); err != nil {
		return fmt.Errorf("sending to chat %d: %w", s.chatID, err)
	}
	return nil
}

// FormatMessage renders an entry the way it is shown to chat subscribers
func FormatMessage(entry model.LogEntry) string {
	return fmt.Sprintf("*%s* → Prediction: `%s` | Confidence: `%s`\n%s | %s | ROI: %.2f",
		entry.Match, entry.Prediction, entry.Confidence, entry.Date, entry.Result, entry.ROI)
}
