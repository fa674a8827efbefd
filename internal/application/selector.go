package app

import (
	"context"
	"fmt"
	"log/slog"

	"barcode-scanner/internal/domain/entity"
	"barcode-scanner/internal/domain/port"
	"barcode-scanner/internal/logging"
)

// SelectionStrategy выбирает камеру из непустого списка видеоустройств.
type SelectionStrategy interface {
	Select(cams []entity.Device) entity.Device
}

// LastDevice выбирает последнюю камеру в порядке перечисления.
// Обычно это задняя камера телефона, но гарантий нет.
type LastDevice struct{}

func (LastDevice) Select(cams []entity.Device) entity.Device {
	return cams[len(cams)-1]
}

// PreferRearFacing выбирает первую камеру с признаками задней.
// Если направление известно только у фронтальных камер, берётся последняя
// из остальных. Если ни у одной камеры нет метаданных о направлении, решает Fallback.
type PreferRearFacing struct {
	Fallback SelectionStrategy
}

func (s PreferRearFacing) Select(cams []entity.Device) entity.Device {
	known := false
	for _, cam := range cams {
		if !cam.HasFacingMetadata() {
			continue
		}
		known = true
		if cam.LooksRearFacing() {
			return cam
		}
	}
	if known {
		for i := len(cams) - 1; i >= 0; i-- {
			if cams[i].Facing != entity.FacingFront {
				return cams[i]
			}
		}
	}
	return fallback(s.Fallback).Select(cams)
}

// PreferDeviceID выбирает камеру с заданным ID, иначе решает Fallback.
type PreferDeviceID struct {
	ID       string
	Fallback SelectionStrategy
}

func (s PreferDeviceID) Select(cams []entity.Device) entity.Device {
	if s.ID != "" {
		for _, cam := range cams {
			if cam.ID == s.ID || cam.Path == s.ID {
				return cam
			}
		}
	}
	return fallback(s.Fallback).Select(cams)
}

func fallback(s SelectionStrategy) SelectionStrategy {
	if s == nil {
		return LastDevice{}
	}
	return s
}

// StrategyByName строит стратегию выбора по имени из конфигурации.
func StrategyByName(name, deviceID string) (SelectionStrategy, error) {
	var base SelectionStrategy
	switch name {
	case "", "last":
		base = LastDevice{}
	case "facing":
		base = PreferRearFacing{Fallback: LastDevice{}}
	default:
		return nil, fmt.Errorf("unknown selection strategy %q", name)
	}
	if deviceID != "" {
		return PreferDeviceID{ID: deviceID, Fallback: base}, nil
	}
	return base, nil
}

// DeviceSelector перечисляет устройства и выбирает камеру для сканирования.
type DeviceSelector struct {
	enumerator port.DeviceEnumerator
	strategy   SelectionStrategy
	logger     *slog.Logger
}

// NewDeviceSelector создаёт селектор. Без стратегии используется LastDevice.
func NewDeviceSelector(enumerator port.DeviceEnumerator, strategy SelectionStrategy, logger *slog.Logger) *DeviceSelector {
	return &DeviceSelector{
		enumerator: enumerator,
		strategy:   fallback(strategy),
		logger:     logging.NewComponentLogger(logger, "device-selector"),
	}
}

// Cameras возвращает только видеоустройства.
func (s *DeviceSelector) Cameras(ctx context.Context) ([]entity.Device, error) {
	devices, err := s.enumerator.Enumerate(ctx)
	if err != nil {
		return nil, fmt.Errorf("enumerate devices: %w: %w", entity.ErrPermissionOrDevice, err)
	}
	return entity.VideoDevices(devices), nil
}

// SelectCamera возвращает камеру согласно стратегии или entity.ErrNoCameraFound.
func (s *DeviceSelector) SelectCamera(ctx context.Context) (entity.Device, error) {
	cams, err := s.Cameras(ctx)
	if err != nil {
		return entity.Device{}, err
	}
	if len(cams) == 0 {
		return entity.Device{}, entity.ErrNoCameraFound
	}

	cam := s.strategy.Select(cams)
	s.logger.Info("camera selected",
		slog.String("device", cam.ID),
		slog.String("label", cam.Label),
		slog.Int("candidates", len(cams)),
	)
	return cam, nil
}
