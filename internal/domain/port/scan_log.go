package port

import (
	"context"

	"barcode-scanner/internal/domain/entity"
)

// ScanLog интерфейс журнала сканирований
type ScanLog interface {
	// Record сохраняет итог обработки штрихкода
	Record(ctx context.Context, record *entity.ScanRecord) error

	// Recent возвращает последние записи, новые первыми
	Recent(ctx context.Context, limit int) ([]entity.ScanRecord, error)
}
