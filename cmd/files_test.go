package main

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"barcode-scanner/internal/domain/entity"
)

func TestNormalizeBarcode(t *testing.T) {
	got, err := normalizeBarcode(" 8001 5050 0530 \n")
	require.NoError(t, err)
	require.Equal(t, "800150500530", got)

	_, err = normalizeBarcode("   ")
	require.Error(t, err)
}

func TestRenderHistory(t *testing.T) {
	require.Equal(t, "No scans recorded", renderHistory(nil))

	out := renderHistory([]entity.ScanRecord{{
		ID:        7,
		Barcode:   "4006381333931",
		Format:    "EAN_13",
		Outcome:   entity.OutcomeNotFound,
		Target:    "/add?barcode=4006381333931",
		ScannedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}})
	require.Contains(t, out, "4006381333931")
	require.Contains(t, out, "not_found")
	require.Contains(t, out, "OUTCOME")
	require.Contains(t, out, "1 scan(s)")
}

func TestRenderDevices(t *testing.T) {
	require.Equal(t, "No video devices found", renderDevices(nil))

	out := renderDevices([]entity.Device{
		{ID: "video0", Label: "Integrated Webcam", Path: "/dev/video0", Kind: entity.DeviceKindVideo},
		{ID: "video2", Label: "Rear Camera", Path: "/dev/video2", Kind: entity.DeviceKindVideo},
	})
	lines := strings.Split(out, "\n")
	require.Greater(t, len(lines), 4)
	require.Contains(t, out, "back?")
	require.Contains(t, out, "/dev/video0")
}
