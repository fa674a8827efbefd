package main

import (
	"context"
	"os/signal"
	"syscall"

	telegram "barcode-scanner/internal/api"
)

func runBot(ctx context.Context, rt *runtime) error {
	signalCtx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	bot, err := telegram.NewBot(rt.cfg.TelegramToken, rt.container, rt.logger)
	if err != nil {
		return err
	}

	rt.logger.Info("bot is running")
	if err := bot.Run(signalCtx); err != nil {
		return err
	}
	rt.logger.Info("bot stopped")
	return nil
}
