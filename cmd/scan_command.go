package main

import (
	"context"
	"errors"
	"log/slog"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"barcode-scanner/internal/domain/entity"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var deviceID string
	var selection string

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan a barcode with the camera and open the add-product form",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if deviceID != "" {
				cfg.DeviceID = deviceID
			}
			if selection != "" {
				cfg.Selection = strings.ToLower(selection)
			}

			return ctx.withRuntime(cmd.OutOrStdout(), cmd.InOrStdin(), func(rt *runtime) error {
				signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
				defer cancel()

				scans := rt.container.ScanService
				stop := context.AfterFunc(signalCtx, scans.Stop)
				defer stop()

				out, err := scans.ScanCamera(signalCtx, rt.presenter)
				if errors.Is(err, entity.ErrSessionStopped) || (errors.Is(err, context.Canceled) && signalCtx.Err() != nil) {
					return nil
				}
				if err != nil {
					return err
				}

				rt.logger.Info("scan finished",
					slog.String("session", out.SessionID),
					slog.String("barcode", out.Result.Text),
					slog.String("outcome", string(out.Dispatch.Outcome)),
				)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&deviceID, "device", "", "Camera id or path to use (e.g. video0)")
	cmd.Flags().StringVar(&selection, "selection", "", "Fallback selection strategy: last or facing")
	return cmd
}

func newDecodeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "decode <image>",
		Short: "Decode a barcode from an image file and look it up",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRuntime(cmd.OutOrStdout(), cmd.InOrStdin(), func(rt *runtime) error {
				img, format, err := loadImageFile(args[0])
				if err != nil {
					return err
				}
				rt.logger.Debug("image loaded", slog.String("path", args[0]), slog.String("format", format))

				_, err = rt.container.ScanService.ScanImage(cmd.Context(), rt.presenter, img)
				return err
			})
		},
	}
}

func newLookupCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <barcode>",
		Short: "Look up a barcode typed by hand",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRuntime(cmd.OutOrStdout(), cmd.InOrStdin(), func(rt *runtime) error {
				barcode, err := normalizeBarcode(args[0])
				if err != nil {
					return err
				}
				_, err = rt.container.ScanService.ScanBarcode(cmd.Context(), rt.presenter, barcode)
				return err
			})
		},
	}
}

func newBotCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram bot that scans barcodes from photos",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRuntime(cmd.OutOrStdout(), cmd.InOrStdin(), func(rt *runtime) error {
				if rt.cfg.TelegramToken == "" {
					return errors.New("TELEGRAM_TOKEN is required")
				}
				return runBot(cmd.Context(), rt)
			})
		},
	}
}
