// Package notify delivers user-facing toast notifications.
package notify

import (
	"github.com/rs/zerolog"
)

// ToastType classifies a notification.
type ToastType string

const (
	TypeError   ToastType = "error"
	TypeSuccess ToastType = "success"
	TypeInfo    ToastType = "info"
)

// Toast is a short user-facing message.
type Toast struct {
	Type        ToastType `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
}

// Notifier delivers toasts. Implementations must not block the caller for long
// and never report delivery failures back.
type Notifier interface {
	Notify(t Toast)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Toast)

func (f NotifierFunc) Notify(t Toast) { f(t) }

// LogNotifier writes toasts to the log.
type LogNotifier struct {
	logger *zerolog.Logger
}

// NewLogNotifier creates a notifier backed by logger.
func NewLogNotifier(logger *zerolog.Logger) *LogNotifier {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(t Toast) {
	ev := n.logger.Info()
	if t.Type == TypeError {
		ev = n.logger.Warn()
	}
	ev.Str("toast_type", string(t.Type)).Str("title", t.Title).Msg(t.Description)
}

// Multi fans a toast out to several notifiers.
type Multi []Notifier

func (m Multi) Notify(t Toast) {
	for _, n := range m {
		if n != nil {
			n.Notify(t)
		}
	}
}
