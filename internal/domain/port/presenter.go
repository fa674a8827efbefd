package port

import (
	"context"

	"barcode-scanner/internal/domain/entity"
)

// StatusSink принимает текст статуса для пользователя
type StatusSink interface {
	SetStatus(text string)
}

// Notifier показывает блокирующее уведомление
type Notifier interface {
	// Alert возвращает управление только после того, как пользователь закрыл уведомление
	Alert(ctx context.Context, text string) error
}

// Navigator выполняет переход на страницу приложения
type Navigator interface {
	Navigate(ctx context.Context, target string) error
}

// Presenter объединяет все каналы обратной связи
type Presenter interface {
	StatusSink
	Notifier
	Navigator
}

// Messages возвращает текст сообщения на языке пользователя
type Messages interface {
	Text(key entity.MessageKey, args ...any) string
}
