//go:build !gocv
// +build !gocv

package camera

import (
	"context"
	"errors"
	"log/slog"

	"barcode-scanner/internal/domain/entity"
	"barcode-scanner/internal/domain/port"
)

// GoCVOpener заглушка для сборки без OpenCV.
type GoCVOpener struct {
	opts CaptureOptions
}

// NewGoCVOpener создаёт открыватель-заглушку (без OpenCV).
func NewGoCVOpener(opts CaptureOptions, logger *slog.Logger) *GoCVOpener {
	_ = logger
	return &GoCVOpener{opts: opts}
}

// Open возвращает ошибку, если сборка без тега gocv.
func (o *GoCVOpener) Open(ctx context.Context, device entity.Device) (port.Camera, error) {
	_ = ctx
	if _, err := captureSource(device); err != nil {
		return nil, err
	}
	return nil, errors.New("gocv build tag is not enabled")
}
