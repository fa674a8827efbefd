package decoder

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/makiuchi-d/gozxing/qrcode"

	"barcode-scanner/internal/domain/entity"
	"barcode-scanner/internal/domain/port"
)

// ZXingDecoder перебирает набор читателей gozxing до первого успешного.
type ZXingDecoder struct {
	readers []gozxing.Reader
	hints   map[gozxing.DecodeHintType]interface{}
}

// NewZXingDecoder создаёт декодер для товарных штрихкодов (EAN/UPC),
// Code 128/39 и QR. tryHarder замедляет поиск, но находит штрихкод на
// неровных кадрах.
func NewZXingDecoder(tryHarder bool) *ZXingDecoder {
	hints := make(map[gozxing.DecodeHintType]interface{})
	if tryHarder {
		hints[gozxing.DecodeHintType_TRY_HARDER] = true
	}
	return &ZXingDecoder{
		readers: []gozxing.Reader{
			// EAN-13 с ведущим нулём отдаётся как UPC-A из 12 цифр
			oned.NewMultiFormatUPCEANReader(hints),
			oned.NewCode128Reader(),
			oned.NewCode39Reader(),
			qrcode.NewQRCodeReader(),
		},
		hints: hints,
	}
}

// Decode ищет штрихкод на кадре. Если штрихкода нет, возвращает entity.ErrDecodeTransient.
func (d *ZXingDecoder) Decode(ctx context.Context, frame image.Image) (*entity.DecodeResult, error) {
	if frame == nil {
		return nil, fmt.Errorf("nil frame: %w", entity.ErrDecodeTransient)
	}

	bmp, err := gozxing.NewBinaryBitmapFromImage(frame)
	if err != nil {
		return nil, fmt.Errorf("binarize frame: %w: %w", entity.ErrDecodeTransient, err)
	}

	var lastErr error
	for _, reader := range d.readers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result, err := reader.Decode(bmp, d.hints)
		reader.Reset()
		if err != nil {
			lastErr = err
			continue
		}
		return &entity.DecodeResult{
			Text:      result.GetText(),
			Format:    result.GetBarcodeFormat().String(),
			DecodedAt: time.Now(),
		}, nil
	}

	if lastErr == nil {
		lastErr = errors.New("no readers configured")
	}
	return nil, fmt.Errorf("%w: %w", entity.ErrDecodeTransient, lastErr)
}

// Проверка реализации интерфейса
var _ port.BarcodeDecoder = (*ZXingDecoder)(nil)
