package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"barcode-scanner/internal/domain/entity"
)

func fastOptions() SessionOptions {
	return SessionOptions{FrameInterval: 0, MaxReadFailures: 3}
}

func TestDecodeSession_SkipsTransientErrors(t *testing.T) {
	cam := &fakeCamera{}
	dec := &fakeDecoder{missBefore: 5, text: "012345"}
	s := NewDecodeSession("s1", entity.Device{ID: "video0"}, cam, dec, fastOptions(), nil)

	result, err := s.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, "012345", result.Text)
	require.Equal(t, "video0", result.DeviceID)
	require.False(t, result.DecodedAt.IsZero())
	require.Equal(t, 6, dec.callCount())
	require.Equal(t, 1, cam.closeCount())
	require.True(t, s.Stopped())
}

func TestDecodeSession_DeliversAtMostOnce(t *testing.T) {
	cam := &fakeCamera{}
	dec := &fakeDecoder{text: "012345"}
	s := NewDecodeSession("s1", entity.Device{ID: "video0"}, cam, dec, fastOptions(), nil)

	_, err := s.Run(context.Background())
	require.NoError(t, err)

	_, err = s.Run(context.Background())
	require.ErrorIs(t, err, entity.ErrSessionStopped)
	require.Equal(t, 1, dec.callCount())
	require.Equal(t, 1, cam.closeCount())
}

func TestDecodeSession_StopIsIdempotent(t *testing.T) {
	cam := &fakeCamera{}
	s := NewDecodeSession("s1", entity.Device{ID: "video0"}, cam, &fakeDecoder{}, fastOptions(), nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Stop()
		}()
	}
	wg.Wait()

	require.Equal(t, 1, cam.closeCount())
	_, err := s.Run(context.Background())
	require.ErrorIs(t, err, entity.ErrSessionStopped)
	require.Equal(t, 1, cam.closeCount())
}

func TestDecodeSession_ExternalStop(t *testing.T) {
	cam := &fakeCamera{}
	dec := &fakeDecoder{missBefore: 1 << 30}
	s := NewDecodeSession("s1", entity.Device{ID: "video0"}, cam, dec,
		SessionOptions{FrameInterval: time.Millisecond, MaxReadFailures: 3}, nil)

	go func() {
		time.Sleep(20 * time.Millisecond)
		_ = s.Stop()
	}()

	_, err := s.Run(context.Background())
	require.ErrorIs(t, err, entity.ErrSessionStopped)
	require.Equal(t, 1, cam.closeCount())
}

func TestDecodeSession_StopDuringDecodeDropsResult(t *testing.T) {
	cam := &fakeCamera{}
	dec := &fakeDecoder{text: "012345"}
	s := NewDecodeSession("s1", entity.Device{ID: "video0"}, cam, dec, fastOptions(), nil)
	dec.onHit = func() { _ = s.Stop() }

	result, err := s.Run(context.Background())
	require.ErrorIs(t, err, entity.ErrSessionStopped)
	require.Nil(t, result)
	require.Equal(t, 1, cam.closeCount())
}

func TestDecodeSession_CancelDuringDecodeDropsResult(t *testing.T) {
	cam := &fakeCamera{}
	dec := &fakeDecoder{text: "012345"}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	dec.onHit = cancel
	s := NewDecodeSession("s1", entity.Device{ID: "video0"}, cam, dec, fastOptions(), nil)

	result, err := s.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Nil(t, result)
	require.Equal(t, 1, cam.closeCount())
}

func TestDecodeSession_ContextCancel(t *testing.T) {
	cam := &fakeCamera{}
	dec := &fakeDecoder{missBefore: 1 << 30}
	s := NewDecodeSession("s1", entity.Device{ID: "video0"}, cam, dec,
		SessionOptions{FrameInterval: time.Millisecond, MaxReadFailures: 3}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := s.Run(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Equal(t, 1, cam.closeCount())
}

func TestDecodeSession_PersistentReadFailure(t *testing.T) {
	cam := &fakeCamera{readErr: errors.New("device disconnected"), readErrs: -1}
	dec := &fakeDecoder{text: "never"}
	s := NewDecodeSession("s1", entity.Device{ID: "video0"}, cam, dec, fastOptions(), nil)

	_, err := s.Run(context.Background())
	require.ErrorIs(t, err, entity.ErrPermissionOrDevice)
	require.ErrorContains(t, err, "device disconnected")
	require.Equal(t, 0, dec.callCount())
	require.Equal(t, 1, cam.closeCount())
}

func TestDecodeSession_RecoversFromShortReadFailures(t *testing.T) {
	cam := &fakeCamera{readErr: errors.New("timeout"), readErrs: 2}
	dec := &fakeDecoder{text: "4006381333931"}
	s := NewDecodeSession("s1", entity.Device{ID: "video0"}, cam, dec, fastOptions(), nil)

	result, err := s.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, "4006381333931", result.Text)
}
