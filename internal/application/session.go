package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"barcode-scanner/internal/domain/entity"
	"barcode-scanner/internal/domain/port"
	"barcode-scanner/internal/logging"
)

const (
	defaultFrameInterval   = 100 * time.Millisecond
	defaultMaxReadFailures = 30
)

// SessionOptions параметры цикла распознавания.
type SessionOptions struct {
	// FrameInterval пауза между попытками распознавания.
	FrameInterval time.Duration
	// MaxReadFailures число подряд неудачных чтений кадра, после которого камера считается потерянной.
	MaxReadFailures int
}

func (o SessionOptions) withDefaults() SessionOptions {
	if o.FrameInterval < 0 {
		o.FrameInterval = 0
	}
	if o.MaxReadFailures <= 0 {
		o.MaxReadFailures = defaultMaxReadFailures
	}
	return o
}

// DefaultSessionOptions возвращает параметры по умолчанию.
func DefaultSessionOptions() SessionOptions {
	return SessionOptions{FrameInterval: defaultFrameInterval, MaxReadFailures: defaultMaxReadFailures}
}

// DecodeSession владеет открытой камерой и крутит цикл распознавания
// до первого успешного результата или остановки.
type DecodeSession struct {
	ID string

	device  entity.Device
	camera  port.Camera
	decoder port.BarcodeDecoder
	opts    SessionOptions
	logger  *slog.Logger

	stopOnce  sync.Once
	done      chan struct{}
	closeErr  error
	delivered atomic.Bool
}

// NewDecodeSession создаёт сессию над уже открытой камерой.
func NewDecodeSession(id string, device entity.Device, camera port.Camera, decoder port.BarcodeDecoder, opts SessionOptions, logger *slog.Logger) *DecodeSession {
	return &DecodeSession{
		ID:      id,
		device:  device,
		camera:  camera,
		decoder: decoder,
		opts:    opts.withDefaults(),
		logger:  logging.NewComponentLogger(logger, "decode-session").With(slog.String("session", id)),
		done:    make(chan struct{}),
	}
}

// Stop останавливает цикл и освобождает камеру. Повторные вызовы ничего не делают.
func (s *DecodeSession) Stop() error {
	s.stopOnce.Do(func() {
		close(s.done)
		s.closeErr = s.camera.Close()
		if s.closeErr != nil {
			s.logger.Warn("camera release failed", logging.Error(s.closeErr))
			return
		}
		s.logger.Debug("camera released", slog.String("device", s.device.ID))
	})
	return s.closeErr
}

// Stopped сообщает, остановлена ли сессия.
func (s *DecodeSession) Stopped() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// Run читает кадры и распознаёт их. Ошибки распознавания отдельных кадров
// отбрасываются. Результат возвращается не более одного раза, после чего
// сессия остановлена. Камера освобождается при любом выходе из Run.
func (s *DecodeSession) Run(ctx context.Context) (*entity.DecodeResult, error) {
	defer s.Stop()

	s.logger.Info("decode loop started", slog.String("device", s.device.ID))

	readFailures := 0
	for {
		if err := s.checkAlive(ctx); err != nil {
			return nil, err
		}

		frame, err := s.camera.ReadFrame(ctx)
		if err != nil {
			if aliveErr := s.checkAlive(ctx); aliveErr != nil {
				return nil, aliveErr
			}
			readFailures++
			s.logger.Debug("frame read failed", slog.Int("consecutive", readFailures), logging.Error(err))
			if readFailures >= s.opts.MaxReadFailures {
				return nil, fmt.Errorf("read frame from %s: %w: %w", s.device.ID, entity.ErrPermissionOrDevice, err)
			}
			if err := s.wait(ctx); err != nil {
				return nil, err
			}
			continue
		}
		readFailures = 0

		result, err := s.decoder.Decode(ctx, frame)
		if err != nil {
			if !errors.Is(err, entity.ErrDecodeTransient) {
				s.logger.Debug("decoder error ignored", logging.Error(err))
			}
			if err := s.wait(ctx); err != nil {
				return nil, err
			}
			continue
		}

		// остановка или отмена, пришедшая во время распознавания, важнее результата
		if err := s.checkAlive(ctx); err != nil {
			s.logger.Debug("decoded frame dropped", slog.String("barcode", result.Text), logging.Error(err))
			return nil, err
		}
		if !s.delivered.CompareAndSwap(false, true) {
			return nil, entity.ErrSessionStopped
		}
		s.Stop()

		result.DeviceID = s.device.ID
		if result.DecodedAt.IsZero() {
			result.DecodedAt = timeNow()
		}
		s.logger.Info("barcode decoded",
			slog.String("barcode", result.Text),
			slog.String("format", result.Format),
		)
		return result, nil
	}
}

func (s *DecodeSession) checkAlive(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.Stopped() {
		return entity.ErrSessionStopped
	}
	return nil
}

func (s *DecodeSession) wait(ctx context.Context) error {
	if s.opts.FrameInterval == 0 {
		return s.checkAlive(ctx)
	}
	timer := time.NewTimer(s.opts.FrameInterval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.done:
		return entity.ErrSessionStopped
	case <-timer.C:
		return nil
	}
}
