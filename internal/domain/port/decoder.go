package port

import (
	"context"
	"image"

	"barcode-scanner/internal/domain/entity"
)

// BarcodeDecoder интерфейс распознавания штрихкода
type BarcodeDecoder interface {
	// Decode ищет штрихкод на кадре. Если штрихкода нет, возвращает ошибку,
	// оборачивающую entity.ErrDecodeTransient.
	Decode(ctx context.Context, frame image.Image) (*entity.DecodeResult, error)
}
