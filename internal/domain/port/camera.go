package port

import (
	"context"
	"image"

	"barcode-scanner/internal/domain/entity"
)

// DeviceEnumerator интерфейс перечисления устройств ввода
type DeviceEnumerator interface {
	// Enumerate возвращает устройства в порядке, в котором их сообщила система
	Enumerate(ctx context.Context) ([]entity.Device, error)
}

// Camera открытый поток кадров с камеры
type Camera interface {
	// ReadFrame возвращает следующий кадр потока
	ReadFrame(ctx context.Context) (image.Image, error)

	// Close освобождает камеру
	Close() error
}

// CameraOpener интерфейс открытия камеры
type CameraOpener interface {
	// Open захватывает камеру для эксклюзивного чтения кадров
	Open(ctx context.Context, device entity.Device) (Camera, error)
}
