package camera

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"barcode-scanner/internal/domain/entity"
)

// DeviceLock эксклюзивная блокировка камеры между процессами сканера.
type DeviceLock struct {
	lock *flock.Flock
}

// AcquireDeviceLock берёт блокировку без ожидания. Если камеру уже держит
// другой процесс, возвращает ошибку, оборачивающую entity.ErrPermissionOrDevice.
func AcquireDeviceLock(dir string, device entity.Device) (*DeviceLock, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure lock directory: %w", err)
	}

	path := filepath.Join(dir, "barcode-scanner-"+lockName(device)+".lock")
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("camera %s is used by another scanner: %w", device.ID, entity.ErrPermissionOrDevice)
	}
	return &DeviceLock{lock: lock}, nil
}

// Path возвращает путь к файлу блокировки.
func (l *DeviceLock) Path() string {
	return l.lock.Path()
}

// Release снимает блокировку.
func (l *DeviceLock) Release() error {
	if l == nil {
		return nil
	}
	return l.lock.Unlock()
}

func lockName(device entity.Device) string {
	name := device.ID
	if name == "" {
		name = device.Path
	}
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	if name == "" {
		name = "default"
	}
	return name
}
