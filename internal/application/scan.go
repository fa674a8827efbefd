package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"barcode-scanner/internal/domain/entity"
	"barcode-scanner/internal/domain/port"
	"barcode-scanner/internal/logging"
)

// ScanService проводит сценарий «камера → штрихкод → поиск → переход».
type ScanService struct {
	selector   *DeviceSelector
	opener     port.CameraOpener
	decoder    port.BarcodeDecoder
	dispatcher *LookupDispatcher
	scanLog    port.ScanLog
	messages   port.Messages
	opts       SessionOptions
	logger     *slog.Logger

	mu     sync.Mutex
	active *DecodeSession
}

// ScanOutput содержит распознанный штрихкод и итог поиска.
type ScanOutput struct {
	SessionID string
	Device    entity.Device
	Result    *entity.DecodeResult
	Dispatch  *DispatchOutcome
}

// NewScanService собирает сервис сканирования. scanLog может быть nil.
func NewScanService(
	selector *DeviceSelector,
	opener port.CameraOpener,
	decoder port.BarcodeDecoder,
	dispatcher *LookupDispatcher,
	scanLog port.ScanLog,
	messages port.Messages,
	opts SessionOptions,
	logger *slog.Logger,
) *ScanService {
	return &ScanService{
		selector:   selector,
		opener:     opener,
		decoder:    decoder,
		dispatcher: dispatcher,
		scanLog:    scanLog,
		messages:   messages,
		opts:       opts,
		logger:     logging.NewComponentLogger(logger, "scan-service"),
	}
}

// ScanCamera выбирает камеру, ждёт первый штрихкод и выполняет поиск.
func (s *ScanService) ScanCamera(ctx context.Context, p port.Presenter) (*ScanOutput, error) {
	sessionID := uuid.NewString()
	out := &ScanOutput{SessionID: sessionID}

	p.SetStatus(s.messages.Text(entity.MsgStarting))

	device, err := s.selector.SelectCamera(ctx)
	if err != nil {
		if errors.Is(err, entity.ErrNoCameraFound) {
			s.logger.Warn("no video devices found", slog.String("session", sessionID))
			p.SetStatus(s.messages.Text(entity.MsgNoCamera))
			return out, err
		}
		s.logger.Error("camera selection failed", slog.String("session", sessionID), logging.Error(err))
		p.SetStatus(s.messages.Text(entity.MsgCameraError, err.Error()))
		return out, err
	}
	out.Device = device

	camera, err := s.opener.Open(ctx, device)
	if err != nil {
		err = fmt.Errorf("open camera %s: %w: %w", device.ID, entity.ErrPermissionOrDevice, err)
		s.logger.Error("camera open failed", slog.String("session", sessionID), logging.Error(err))
		p.SetStatus(s.messages.Text(entity.MsgCameraError, err.Error()))
		return out, err
	}

	session := NewDecodeSession(sessionID, device, camera, s.decoder, s.opts, s.logger)
	s.setActive(session)
	defer s.setActive(nil)

	label := device.Label
	if label == "" {
		label = device.ID
	}
	p.SetStatus(s.messages.Text(entity.MsgScanning, label))

	result, err := session.Run(ctx)
	if err != nil {
		if errors.Is(err, entity.ErrSessionStopped) || errors.Is(err, context.Canceled) {
			p.SetStatus(s.messages.Text(entity.MsgStopped))
			return out, err
		}
		s.logger.Error("decode loop failed", slog.String("session", sessionID), logging.Error(err))
		p.SetStatus(s.messages.Text(entity.MsgCameraError, err.Error()))
		return out, err
	}
	out.Result = result

	dispatch, err := s.handleBarcode(ctx, p, sessionID, result)
	out.Dispatch = dispatch
	return out, err
}

// Stop прерывает текущую сессию сканирования, если она есть.
func (s *ScanService) Stop() {
	s.mu.Lock()
	session := s.active
	s.mu.Unlock()
	if session != nil {
		_ = session.Stop()
	}
}

// ScanImage распознаёт штрихкод на готовом изображении и выполняет поиск.
func (s *ScanService) ScanImage(ctx context.Context, p port.Presenter, img image.Image) (*ScanOutput, error) {
	sessionID := uuid.NewString()
	out := &ScanOutput{SessionID: sessionID}

	result, err := s.decoder.Decode(ctx, img)
	if err != nil {
		p.SetStatus(s.messages.Text(entity.MsgNoBarcodeInImage))
		return out, fmt.Errorf("decode image: %w", err)
	}
	if result.DecodedAt.IsZero() {
		result.DecodedAt = timeNow()
	}
	out.Result = result

	dispatch, err := s.handleBarcode(ctx, p, sessionID, result)
	out.Dispatch = dispatch
	return out, err
}

// ScanBarcode выполняет поиск для введённого вручную штрихкода.
func (s *ScanService) ScanBarcode(ctx context.Context, p port.Presenter, barcode string) (*ScanOutput, error) {
	sessionID := uuid.NewString()
	result := &entity.DecodeResult{Text: barcode, Format: "MANUAL", DecodedAt: timeNow()}
	out := &ScanOutput{SessionID: sessionID, Result: result}

	dispatch, err := s.handleBarcode(ctx, p, sessionID, result)
	out.Dispatch = dispatch
	return out, err
}

// History возвращает последние записи журнала.
func (s *ScanService) History(ctx context.Context, limit int) ([]entity.ScanRecord, error) {
	if s.scanLog == nil {
		return nil, errors.New("scan log is not configured")
	}
	return s.scanLog.Recent(ctx, limit)
}

func (s *ScanService) handleBarcode(ctx context.Context, p port.Presenter, sessionID string, result *entity.DecodeResult) (*DispatchOutcome, error) {
	p.SetStatus(s.messages.Text(entity.MsgRead, result.Text))

	dispatch, err := s.dispatcher.Dispatch(ctx, p, result.Text)
	s.record(ctx, sessionID, result, dispatch)
	return dispatch, err
}

func (s *ScanService) record(ctx context.Context, sessionID string, result *entity.DecodeResult, dispatch *DispatchOutcome) {
	if s.scanLog == nil || dispatch == nil {
		return
	}
	rec := &entity.ScanRecord{
		SessionID: sessionID,
		DeviceID:  result.DeviceID,
		Barcode:   result.Text,
		Format:    result.Format,
		Outcome:   dispatch.Outcome,
		Target:    dispatch.Target,
		ScannedAt: result.DecodedAt,
	}
	if err := s.scanLog.Record(context.WithoutCancel(ctx), rec); err != nil {
		s.logger.Warn("scan log write failed", slog.String("session", sessionID), logging.Error(err))
	}
}

func (s *ScanService) setActive(session *DecodeSession) {
	s.mu.Lock()
	s.active = session
	s.mu.Unlock()
}
