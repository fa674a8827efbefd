package camera

import (
	"testing"

	"github.com/stretchr/testify/require"

	"barcode-scanner/internal/domain/entity"
)

func TestAcquireDeviceLock_Exclusive(t *testing.T) {
	dir := t.TempDir()
	dev := entity.Device{ID: "video0"}

	first, err := AcquireDeviceLock(dir, dev)
	require.NoError(t, err)

	_, err = AcquireDeviceLock(dir, dev)
	require.ErrorIs(t, err, entity.ErrPermissionOrDevice)

	other, err := AcquireDeviceLock(dir, entity.Device{ID: "video2"})
	require.NoError(t, err)
	require.NoError(t, other.Release())

	require.NoError(t, first.Release())

	again, err := AcquireDeviceLock(dir, dev)
	require.NoError(t, err)
	require.NoError(t, again.Release())
}

func TestLockName(t *testing.T) {
	require.Equal(t, "video0", lockName(entity.Device{ID: "video0"}))
	require.Equal(t, "_dev_video2", lockName(entity.Device{Path: "/dev/video2"}))
	require.Equal(t, "default", lockName(entity.Device{}))
}
