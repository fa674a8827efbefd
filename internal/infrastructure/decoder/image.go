package decoder

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// DefaultMaxSide предел стороны изображения перед распознаванием
const DefaultMaxSide = 1600

// LoadImage читает фото штрихкода (JPEG, PNG, GIF, BMP, WebP) и уменьшает
// его так, чтобы большая сторона не превышала maxSide. maxSide <= 0 отключает уменьшение.
func LoadImage(r io.Reader, maxSide int) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	return Downscale(img, maxSide), format, nil
}

// Downscale уменьшает изображение с сохранением пропорций. Меньшие изображения не меняются.
func Downscale(img image.Image, maxSide int) image.Image {
	if maxSide <= 0 {
		return img
	}
	b := img.Bounds()
	if b.Dx() <= maxSide && b.Dy() <= maxSide {
		return img
	}
	return resize.Thumbnail(uint(maxSide), uint(maxSide), img, resize.Lanczos3)
}
