package camera

import (
	"fmt"
	"strconv"
	"strings"

	"barcode-scanner/internal/domain/entity"
)

// CaptureOptions параметры открытия камеры
type CaptureOptions struct {
	Width   int    // желаемая ширина кадра, 0 оставляет значение драйвера
	Height  int    // желаемая высота кадра
	LockDir string // каталог файлов блокировки камер
}

// captureSource возвращает индекс устройства для /dev/videoN или путь для остальных.
func captureSource(device entity.Device) (interface{}, error) {
	if m := videoNodePattern.FindStringSubmatch(device.ID); m != nil {
		idx, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, fmt.Errorf("parse device index %q: %w", device.ID, err)
		}
		return idx, nil
	}
	if p := strings.TrimSpace(device.Path); p != "" {
		return p, nil
	}
	if device.ID != "" {
		return device.ID, nil
	}
	return nil, fmt.Errorf("device has neither id nor path: %w", entity.ErrPermissionOrDevice)
}
