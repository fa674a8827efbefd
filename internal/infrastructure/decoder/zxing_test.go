package decoder

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/makiuchi-d/gozxing/qrcode"
	"github.com/stretchr/testify/require"

	"barcode-scanner/internal/domain/entity"
)

func TestZXingDecoder_QRCode(t *testing.T) {
	img, err := qrcode.NewQRCodeWriter().Encode("012345", gozxing.BarcodeFormat_QR_CODE, 240, 240, nil)
	require.NoError(t, err)

	result, err := NewZXingDecoder(false).Decode(context.Background(), img)
	require.NoError(t, err)
	require.Equal(t, "012345", result.Text)
	require.Equal(t, gozxing.BarcodeFormat_QR_CODE.String(), result.Format)
}

func TestZXingDecoder_EAN13(t *testing.T) {
	img, err := oned.NewEAN13Writer().Encode("4006381333931", gozxing.BarcodeFormat_EAN_13, 300, 80, nil)
	require.NoError(t, err)

	result, err := NewZXingDecoder(true).Decode(context.Background(), img)
	require.NoError(t, err)
	require.Equal(t, "4006381333931", result.Text)
}

func TestZXingDecoder_UPCAKeepsTwelveDigits(t *testing.T) {
	img, err := oned.NewUPCAWriter().Encode("012345678905", gozxing.BarcodeFormat_UPC_A, 300, 80, nil)
	require.NoError(t, err)

	result, err := NewZXingDecoder(true).Decode(context.Background(), img)
	require.NoError(t, err)
	require.Equal(t, "012345678905", result.Text)
	require.Equal(t, gozxing.BarcodeFormat_UPC_A.String(), result.Format)
}

func TestZXingDecoder_EAN8(t *testing.T) {
	img, err := oned.NewEAN8Writer().Encode("96385074", gozxing.BarcodeFormat_EAN_8, 240, 80, nil)
	require.NoError(t, err)

	result, err := NewZXingDecoder(false).Decode(context.Background(), img)
	require.NoError(t, err)
	require.Equal(t, "96385074", result.Text)
	require.Equal(t, gozxing.BarcodeFormat_EAN_8.String(), result.Format)
}

func TestZXingDecoder_BlankFrameIsTransient(t *testing.T) {
	blank := image.NewGray(image.Rect(0, 0, 120, 120))
	for i := range blank.Pix {
		blank.Pix[i] = 0xff
	}

	_, err := NewZXingDecoder(false).Decode(context.Background(), blank)
	require.ErrorIs(t, err, entity.ErrDecodeTransient)
}

func TestZXingDecoder_NilFrame(t *testing.T) {
	_, err := NewZXingDecoder(false).Decode(context.Background(), nil)
	require.ErrorIs(t, err, entity.ErrDecodeTransient)
}

func TestLoadImage_PNGRoundTrip(t *testing.T) {
	img, err := qrcode.NewQRCodeWriter().Encode("8001505005707", gozxing.BarcodeFormat_QR_CODE, 400, 400, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	loaded, format, err := LoadImage(&buf, 300)
	require.NoError(t, err)
	require.Equal(t, "png", format)
	require.LessOrEqual(t, loaded.Bounds().Dx(), 300)

	result, err := NewZXingDecoder(true).Decode(context.Background(), loaded)
	require.NoError(t, err)
	require.Equal(t, "8001505005707", result.Text)
}

func TestLoadImage_Garbage(t *testing.T) {
	_, _, err := LoadImage(bytes.NewReader([]byte("not an image")), 0)
	require.Error(t, err)
}

func TestDownscale_KeepsSmallImages(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 10, 20))
	require.Same(t, img, Downscale(img, 100))
	require.Equal(t, 50, Downscale(image.NewGray(image.Rect(0, 0, 100, 200)), 100).Bounds().Dx())
}
