package presenter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ncruces/zenity"
	"github.com/pkg/browser"

	"barcode-scanner/internal/domain/port"
	"barcode-scanner/internal/logging"
)

// Desktop показывает уведомления системным диалогом и открывает страницы в браузере.
// Статус по-прежнему пишется в консоль.
type Desktop struct {
	console *Console
	title   string
	logger  *slog.Logger

	// подменяются в тестах
	dialog      func(text string, options ...zenity.Option) error
	openURL     func(url string) error
	dialogReady func() bool
}

// NewDesktop создаёт презентер рабочего стола поверх консольного.
func NewDesktop(console *Console, title string, logger *slog.Logger) *Desktop {
	return &Desktop{
		console:     console,
		title:       title,
		logger:      logging.NewComponentLogger(logger, "desktop-presenter"),
		dialog:      zenity.Info,
		openURL:     browser.OpenURL,
		dialogReady: zenity.IsAvailable,
	}
}

func (d *Desktop) SetStatus(text string) {
	d.console.SetStatus(text)
}

// Alert показывает модальный диалог, а без графической среды пишет в консоль.
func (d *Desktop) Alert(ctx context.Context, text string) error {
	if !d.dialogReady() {
		return d.console.Alert(ctx, text)
	}
	err := d.dialog(text, zenity.Title(d.title), zenity.InfoIcon, zenity.Context(ctx))
	if err != nil && !errors.Is(err, zenity.ErrCanceled) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		d.logger.Warn("dialog failed, falling back to console", logging.Error(err))
		return d.console.Alert(ctx, text)
	}
	return nil
}

// Navigate открывает адрес в браузере. Относительный адрес только печатается.
func (d *Desktop) Navigate(ctx context.Context, target string) error {
	if err := d.console.Navigate(ctx, target); err != nil {
		return err
	}
	if !isAbsoluteURL(target) {
		return nil
	}
	if err := d.openURL(target); err != nil {
		return fmt.Errorf("open browser: %w", err)
	}
	return nil
}

// Проверка реализации интерфейса
var _ port.Presenter = (*Desktop)(nil)
