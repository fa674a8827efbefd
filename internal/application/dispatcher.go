package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"barcode-scanner/internal/domain/entity"
	"barcode-scanner/internal/domain/port"
	"barcode-scanner/internal/logging"
)

// DispatchOutcome итог поиска продукта и перехода.
type DispatchOutcome struct {
	Outcome entity.ScanOutcome
	Target  string
	Product *entity.Product
}

// LookupDispatcher отправляет штрихкод в сервис поиска и выбирает переход.
type LookupDispatcher struct {
	lookup   port.ProductLookup
	messages port.Messages
	appURL   string
	logger   *slog.Logger
}

// NewLookupDispatcher создаёт диспетчер. appURL задаёт базовый адрес страниц приложения.
func NewLookupDispatcher(lookup port.ProductLookup, messages port.Messages, appURL string, logger *slog.Logger) *LookupDispatcher {
	return &LookupDispatcher{
		lookup:   lookup,
		messages: messages,
		appURL:   appURL,
		logger:   logging.NewComponentLogger(logger, "lookup-dispatcher"),
	}
}

// Dispatch выполняет ровно один запрос поиска и переход.
// При ошибке сети статус обновляется, перехода нет, ошибка возвращается.
func (d *LookupDispatcher) Dispatch(ctx context.Context, p port.Presenter, barcode string) (*DispatchOutcome, error) {
	if d.lookup == nil {
		return nil, errors.New("product lookup is not configured")
	}

	resp, err := d.lookup.Lookup(ctx, barcode)
	if err != nil {
		d.logger.Error("barcode lookup failed", slog.String("barcode", barcode), logging.Error(err))
		p.SetStatus(d.messages.Text(entity.MsgLookupFailed, err.Error()))
		return &DispatchOutcome{Outcome: entity.OutcomeLookupFailed}, fmt.Errorf("lookup %s: %w", barcode, err)
	}

	var (
		nav     entity.Navigation
		outcome = &DispatchOutcome{}
	)
	switch {
	case resp.Found && resp.Product != nil:
		nav = entity.FoundNavigation(*resp.Product)
		outcome.Outcome = entity.OutcomeFound
		outcome.Product = resp.Product
	case resp.Found:
		// ответ без карточки: форма получает хотя бы штрихкод
		nav = entity.NotFoundNavigation(barcode)
		outcome.Outcome = entity.OutcomeFound
	default:
		outcome.Outcome = entity.OutcomeNotFound
		if err := p.Alert(ctx, d.messages.Text(entity.MsgNotFoundAlert)); err != nil {
			return outcome, fmt.Errorf("show not found alert: %w", err)
		}
		nav = entity.NotFoundNavigation(barcode)
	}

	target, err := nav.Resolve(d.appURL)
	if err != nil {
		return outcome, err
	}
	outcome.Target = target

	d.logger.Info("barcode lookup finished",
		slog.String("barcode", barcode),
		slog.String("outcome", string(outcome.Outcome)),
		slog.String("target", target),
	)

	p.SetStatus(d.messages.Text(entity.MsgRedirecting, target))
	if err := p.Navigate(ctx, target); err != nil {
		return outcome, fmt.Errorf("navigate to %s: %w", target, err)
	}
	return outcome, nil
}
