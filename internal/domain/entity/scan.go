package entity

import "time"

// DecodeResult хранит результат успешного распознавания штрихкода.
type DecodeResult struct {
	Text      string    // распознанное значение
	Format    string    // формат штрихкода (EAN_13, QR_CODE, ...)
	DeviceID  string    // камера, с которой получен кадр
	DecodedAt time.Time // момент распознавания
}

// ScanOutcome итог обработки одного штрихкода
type ScanOutcome string

const (
	OutcomeFound        ScanOutcome = "found"
	OutcomeNotFound     ScanOutcome = "not_found"
	OutcomeLookupFailed ScanOutcome = "lookup_failed"
)

// ScanRecord запись журнала сканирований.
type ScanRecord struct {
	ID        int64
	SessionID string
	DeviceID  string
	Barcode   string
	Format    string
	Outcome   ScanOutcome
	Target    string
	ScannedAt time.Time
}
