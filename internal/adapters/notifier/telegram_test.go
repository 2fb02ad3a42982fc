package notifier

import (
	"context"
	"errors"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"li-insights/internal/domain"
)

type stubBot struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (s *stubBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	msg, ok := c.(tgbotapi.MessageConfig)
	if !ok {
		return tgbotapi.Message{}, errors.New("неожиданный тип сообщения")
	}
	if s.err != nil {
		return tgbotapi.Message{}, s.err
	}
	s.sent = append(s.sent, msg)
	return tgbotapi.Message{}, nil
}

func TestNotifyAnalysisReady(t *testing.T) {
	bot := &stubBot{}
	n := NewTelegram(bot, func(a domain.FullAnalysis) string {
		return "<b>Отчёт</b> для " + a.ProfileURL
	}, zerolog.Nop())

	err := n.NotifyAnalysisReady(context.Background(), 42, domain.FullAnalysis{ProfileURL: "https://linkedin.com/in/test"})
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if len(bot.sent) != 1 {
		t.Fatalf("ожидали одно сообщение, получили %d", len(bot.sent))
	}
	msg := bot.sent[0]
	if msg.ChatID != 42 {
		t.Fatalf("ожидали chat_id 42, получили %d", msg.ChatID)
	}
	if msg.ParseMode != tgbotapi.ModeHTML {
		t.Fatalf("ожидали parse_mode HTML, получили %q", msg.ParseMode)
	}
	if !strings.Contains(msg.Text, "linkedin.com/in/test") {
		t.Fatalf("текст не содержит профиль: %q", msg.Text)
	}
}

func TestNotifyAnalysisReady_SplitsLongReport(t *testing.T) {
	bot := &stubBot{}
	long := strings.Repeat("строка отчёта\n", 600)
	n := NewTelegram(bot, func(domain.FullAnalysis) string { return long }, zerolog.Nop())

	if err := n.NotifyAnalysisReady(context.Background(), 1, domain.FullAnalysis{}); err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if len(bot.sent) < 2 {
		t.Fatalf("ожидали разбиение на части, получили %d сообщений", len(bot.sent))
	}
	for i, msg := range bot.sent {
		if len([]rune(msg.Text)) > 4096 {
			t.Fatalf("часть %d длиннее лимита: %d", i, len([]rune(msg.Text)))
		}
	}
}

func TestNotifyAnalysisReady_SendError(t *testing.T) {
	bot := &stubBot{err: errors.New("сеть недоступна")}
	n := NewTelegram(bot, func(domain.FullAnalysis) string { return "текст" }, zerolog.Nop())

	if err := n.NotifyAnalysisReady(context.Background(), 1, domain.FullAnalysis{}); err == nil {
		t.Fatal("ожидали ошибку отправки")
	}
}

func TestNotifyAnalysisReady_EmptyReport(t *testing.T) {
	bot := &stubBot{}
	n := NewTelegram(bot, func(domain.FullAnalysis) string { return "   " }, zerolog.Nop())

	if err := n.NotifyAnalysisReady(context.Background(), 1, domain.FullAnalysis{}); err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if len(bot.sent) != 0 {
		t.Fatalf("пустой отчёт не должен отправляться, отправлено %d", len(bot.sent))
	}
}
