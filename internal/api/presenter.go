package telegram

import (
	"context"
	"log/slog"

	"barcode-scanner/internal/domain/port"
)

// chatPresenter отвечает в чат. Статусы в чат не отправляются, они идут
// в отладочный лог: текст статуса может содержать внутренние адреса.
type chatPresenter struct {
	bot    *Bot
	chatID int64
}

func (p *chatPresenter) SetStatus(text string) {
	p.bot.logger.Debug("scan status", slog.Int64("chat", p.chatID), slog.String("status", text))
}

// Alert отправляет уведомление до ссылки на форму.
func (p *chatPresenter) Alert(ctx context.Context, text string) error {
	p.bot.sendMessage(p.chatID, "⚠️ "+text)
	return nil
}

func (p *chatPresenter) Navigate(ctx context.Context, target string) error {
	p.bot.sendMessage(p.chatID, "📝 "+target)
	return nil
}

// Проверка реализации интерфейса
var _ port.Presenter = (*chatPresenter)(nil)
