package notify

import (
	"bytes"
	"errors"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, f.err
}

func (f *fakeSender) messages() []tgbotapi.MessageConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]tgbotapi.MessageConfig(nil), f.sent...)
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	n := NewLogNotifier(&logger)

	n.Notify(Toast{Type: TypeError, Title: "Erro", Description: "falhou"})

	out := buf.String()
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, `"title":"Erro"`)
	assert.Contains(t, out, `"message":"falhou"`)
}

func TestMulti(t *testing.T) {
	var got []Toast
	collect := NotifierFunc(func(t Toast) { got = append(got, t) })

	Multi{collect, nil, collect}.Notify(Toast{Type: TypeInfo, Title: "x"})
	assert.Len(t, got, 2)
}

func TestTelegramNotifier(t *testing.T) {
	sender := &fakeSender{}
	n := NewTelegramNotifier(sender, 99, true, nil)

	n.Notify(Toast{Type: TypeInfo, Title: "skipped"})
	n.Notify(Toast{Type: TypeError, Title: "Erro ao carregar", Description: "Tente novamente!"})

	require.Eventually(t, func() bool { return len(sender.messages()) == 1 }, time.Second, 5*time.Millisecond)
	msg := sender.messages()[0]
	assert.Equal(t, int64(99), msg.ChatID)
	assert.Contains(t, msg.Text, "Erro ao carregar")
	assert.Contains(t, msg.Text, "Tente novamente!")
}

func TestTelegramNotifier_SendErrorIsLogged(t *testing.T) {
	var buf safeBuffer
	logger := zerolog.New(&buf)
	sender := &fakeSender{err: errors.New("forbidden")}
	n := NewTelegramNotifier(sender, 1, false, &logger)

	n.Notify(Toast{Type: TypeSuccess, Title: "ok"})

	require.Eventually(t, func() bool { return bytes.Contains(buf.Bytes(), []byte("telegram notify failed")) }, time.Second, 5*time.Millisecond)
}

func TestFormatToast(t *testing.T) {
	assert.Equal(t, "✅ Salvo", formatToast(Toast{Type: TypeSuccess, Title: "Salvo"}))
	assert.Equal(t, "ℹ️ Info\ndetalhe", formatToast(Toast{Type: TypeInfo, Title: "Info", Description: "detalhe"}))
}

type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *safeBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.buf.Bytes()...)
}
