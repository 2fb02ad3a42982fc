package notifier

import (
	"context"
	"fmt"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"li-insights/internal/adapters/telegram"
	"li-insights/internal/domain"
	"li-insights/internal/infra/metrics"
)

// sender отправляет сообщения через Bot API.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram доставляет готовые отчёты в чат Telegram.
type Telegram struct {
	bot    sender
	format func(domain.FullAnalysis) string
	log    zerolog.Logger
}

var _ domain.Notifier = (*Telegram)(nil)

// NewTelegram создаёт нотификатор. format превращает отчёт в HTML-текст сообщения.
func NewTelegram(bot sender, format func(domain.FullAnalysis) string, log zerolog.Logger) *Telegram {
	return &Telegram{bot: bot, format: format, log: log}
}

// NotifyAnalysisReady отправляет отчёт по частям, укладываясь в лимит Telegram.
func (t *Telegram) NotifyAnalysisReady(ctx context.Context, chatID int64, analysis domain.FullAnalysis) error {
	parts := telegram.SplitMessage(t.format(analysis))
	if len(parts) == 0 {
		return nil
	}
	for i, part := range parts {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("отправка отчёта прервана: %w", err)
		}
		msg := tgbotapi.NewMessage(chatID, part)
		msg.ParseMode = tgbotapi.ModeHTML
		msg.DisableWebPagePreview = true
		start := time.Now()
		_, err := t.bot.Send(msg)
		metrics.ObserveNetworkRequest("telegram_bot", "send_message", strconv.FormatInt(chatID, 10), start, err)
		if err != nil {
			metrics.NotifySendErrors.Inc()
			t.log.Error().Err(err).Int64("chat_id", chatID).Int("part", i+1).Msg("не удалось отправить отчёт")
			return fmt.Errorf("отправка части %d из %d: %w", i+1, len(parts), err)
		}
	}
	t.log.Info().Int64("chat_id", chatID).Int("parts", len(parts)).Msg("отчёт отправлен")
	return nil
}
