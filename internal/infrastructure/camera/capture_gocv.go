//go:build gocv
// +build gocv

package camera

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"

	"gocv.io/x/gocv"

	"barcode-scanner/internal/domain/entity"
	"barcode-scanner/internal/domain/port"
	"barcode-scanner/internal/logging"
)

// GoCVOpener открывает камеры через OpenCV.
type GoCVOpener struct {
	opts   CaptureOptions
	logger *slog.Logger
}

// NewGoCVOpener создаёт открыватель камер.
func NewGoCVOpener(opts CaptureOptions, logger *slog.Logger) *GoCVOpener {
	return &GoCVOpener{opts: opts, logger: logging.NewComponentLogger(logger, "gocv-camera")}
}

// Open захватывает блокировку устройства и открывает поток кадров.
func (o *GoCVOpener) Open(ctx context.Context, device entity.Device) (port.Camera, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	src, err := captureSource(device)
	if err != nil {
		return nil, err
	}

	lock, err := AcquireDeviceLock(o.opts.LockDir, device)
	if err != nil {
		return nil, err
	}

	capture, err := gocv.OpenVideoCapture(src)
	if err != nil {
		_ = lock.Release()
		return nil, fmt.Errorf("open video capture %v: %w", src, err)
	}
	if !capture.IsOpened() {
		_ = capture.Close()
		_ = lock.Release()
		return nil, fmt.Errorf("video capture %v is not opened", src)
	}
	if o.opts.Width > 0 && o.opts.Height > 0 {
		capture.Set(gocv.VideoCaptureFrameWidth, float64(o.opts.Width))
		capture.Set(gocv.VideoCaptureFrameHeight, float64(o.opts.Height))
	}

	o.logger.Info("camera opened", slog.String("device", device.ID), slog.String("lock", lock.Path()))
	return &gocvCamera{
		capture: capture,
		frame:   gocv.NewMat(),
		lock:    lock,
	}, nil
}

type gocvCamera struct {
	mu      sync.Mutex
	capture *gocv.VideoCapture
	frame   gocv.Mat
	lock    *DeviceLock
	closed  bool
}

// ReadFrame и Close держат один мьютекс, поэтому Close ждёт завершения чтения.
func (c *gocvCamera) ReadFrame(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, entity.ErrSessionStopped
	}
	if ok := c.capture.Read(&c.frame); !ok {
		return nil, errors.New("camera read failed")
	}
	if c.frame.Empty() {
		return nil, errors.New("empty frame")
	}
	return c.frame.ToImage()
}

func (c *gocvCamera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	err := c.capture.Close()
	if ferr := c.frame.Close(); ferr != nil && err == nil {
		err = ferr
	}
	if lerr := c.lock.Release(); lerr != nil && err == nil {
		err = lerr
	}
	return err
}
