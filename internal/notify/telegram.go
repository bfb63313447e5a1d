package notify

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// TelegramSender is the part of the bot API the notifier needs.
type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier forwards toasts to a provider's Telegram chat.
type TelegramNotifier struct {
	sender  TelegramSender
	chatID  int64
	minType ToastType
	logger  *zerolog.Logger
}

// NewTelegramNotifier creates a notifier that sends to chatID. When errorsOnly is
// set only error toasts are forwarded.
func NewTelegramNotifier(sender TelegramSender, chatID int64, errorsOnly bool, logger *zerolog.Logger) *TelegramNotifier {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	n := &TelegramNotifier{sender: sender, chatID: chatID, logger: logger}
	if errorsOnly {
		n.minType = TypeError
	}
	return n
}

func (n *TelegramNotifier) Notify(t Toast) {
	if n.minType != "" && t.Type != n.minType {
		return
	}
	msg := tgbotapi.NewMessage(n.chatID, formatToast(t))
	msg.DisableWebPagePreview = true
	go func() {
		if _, err := n.sender.Send(msg); err != nil {
			n.logger.Error().Err(err).Int64("chat_id", n.chatID).Msg("telegram notify failed")
		}
	}()
}

func formatToast(t Toast) string {
	icon := "ℹ️"
	switch t.Type {
	case TypeError:
		icon = "⚠️"
	case TypeSuccess:
		icon = "✅"
	}
	if t.Description == "" {
		return fmt.Sprintf("%s %s", icon, t.Title)
	}
	return fmt.Sprintf("%s %s\n%s", icon, t.Title, t.Description)
}
