package entity

import "errors"

// Виды ошибок сценария сканирования. Оборачиваются через %w.
var (
	ErrNoCameraFound      = errors.New("no camera found")
	ErrPermissionOrDevice = errors.New("camera permission or device error")
	ErrDecodeTransient    = errors.New("barcode not decoded in frame")
	ErrLookupNetwork      = errors.New("barcode lookup request failed")
	ErrSessionStopped     = errors.New("decode session stopped")
)
