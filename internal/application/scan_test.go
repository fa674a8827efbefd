package app

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/require"

	"barcode-scanner/internal/domain/entity"
)

type scanFixture struct {
	enum      *fakeEnumerator
	camera    *fakeCamera
	opener    *fakeOpener
	decoder   *fakeDecoder
	lookup    *fakeLookup
	scanLog   *fakeScanLog
	presenter *recordingPresenter
	svc       *ScanService
}

func newScanFixture(devices []entity.Device) *scanFixture {
	f := &scanFixture{
		enum:      &fakeEnumerator{devices: devices},
		camera:    &fakeCamera{},
		decoder:   &fakeDecoder{missBefore: 2, text: "012345"},
		lookup:    &fakeLookup{resp: &entity.LookupResponse{Found: true, Product: milk()}},
		scanLog:   &fakeScanLog{},
		presenter: &recordingPresenter{},
	}
	f.opener = &fakeOpener{camera: f.camera}
	selector := NewDeviceSelector(f.enum, LastDevice{}, nil)
	dispatcher := NewLookupDispatcher(f.lookup, keyMessages{}, "", nil)
	f.svc = NewScanService(selector, f.opener, f.decoder, dispatcher, f.scanLog, keyMessages{}, fastOptions(), nil)
	return f
}

func TestScanCamera_NoCameraDoesNotDecode(t *testing.T) {
	f := newScanFixture(nil)

	_, err := f.svc.ScanCamera(context.Background(), f.presenter)
	require.ErrorIs(t, err, entity.ErrNoCameraFound)
	require.Equal(t, string(entity.MsgNoCamera), f.presenter.lastStatus())
	require.Empty(t, f.opener.opened)
	require.Equal(t, 0, f.decoder.callCount())
	require.Empty(t, f.lookup.barcodes)
}

func TestScanCamera_OpensLastVideoDevice(t *testing.T) {
	f := newScanFixture(append(cams("video0", "video2"), entity.Device{ID: "mic", Kind: entity.DeviceKindAudio}))

	out, err := f.svc.ScanCamera(context.Background(), f.presenter)
	require.NoError(t, err)
	require.Len(t, f.opener.opened, 1)
	require.Equal(t, "video2", f.opener.opened[0].ID)
	require.Equal(t, "video2", out.Device.ID)
}

func TestScanCamera_SingleDispatchAfterDecode(t *testing.T) {
	f := newScanFixture(cams("video0"))

	out, err := f.svc.ScanCamera(context.Background(), f.presenter)
	require.NoError(t, err)
	require.Equal(t, "012345", out.Result.Text)
	require.Equal(t, []string{"012345"}, f.lookup.barcodes)
	require.Equal(t, 1, f.camera.closeCount())
	require.Equal(t, "/add?name=Milk&brand=Acme", out.Dispatch.Target)
	require.Contains(t, f.presenter.statuses, string(entity.MsgRead)+": 012345")

	require.Len(t, f.scanLog.records, 1)
	rec := f.scanLog.records[0]
	require.Equal(t, out.SessionID, rec.SessionID)
	require.Equal(t, "video0", rec.DeviceID)
	require.Equal(t, entity.OutcomeFound, rec.Outcome)
}

func TestScanCamera_CameraReleasedBeforeLookup(t *testing.T) {
	f := newScanFixture(cams("video0"))
	closedAtLookup := -1
	f.lookup = &fakeLookup{resp: &entity.LookupResponse{Found: false}}
	dispatcher := NewLookupDispatcher(lookupSpy{f.lookup, func() { closedAtLookup = f.camera.closeCount() }}, keyMessages{}, "", nil)
	f.svc = NewScanService(NewDeviceSelector(f.enum, nil, nil), f.opener, f.decoder, dispatcher, nil, keyMessages{}, fastOptions(), nil)

	_, err := f.svc.ScanCamera(context.Background(), f.presenter)
	require.NoError(t, err)
	require.Equal(t, 1, closedAtLookup)
	require.Equal(t, []string{"/add?barcode=012345"}, f.presenter.navigations)
}

func TestScanCamera_OpenFailure(t *testing.T) {
	f := newScanFixture(cams("video0"))
	f.opener.err = errors.New("device busy")

	_, err := f.svc.ScanCamera(context.Background(), f.presenter)
	require.ErrorIs(t, err, entity.ErrPermissionOrDevice)
	require.Contains(t, f.presenter.lastStatus(), string(entity.MsgCameraError))
	require.Equal(t, 0, f.decoder.callCount())
}

func TestScanCamera_LookupFailureRecorded(t *testing.T) {
	f := newScanFixture(cams("video0"))
	f.lookup.err = entity.ErrLookupNetwork
	f.lookup.resp = nil

	_, err := f.svc.ScanCamera(context.Background(), f.presenter)
	require.ErrorIs(t, err, entity.ErrLookupNetwork)
	require.Empty(t, f.presenter.navigations)
	require.Len(t, f.scanLog.records, 1)
	require.Equal(t, entity.OutcomeLookupFailed, f.scanLog.records[0].Outcome)
}

func TestScanService_StopWhileScanning(t *testing.T) {
	f := newScanFixture(cams("video0"))
	f.decoder.missBefore = 1 << 30
	f.decoder.onHit = nil

	// первая неудачная попытка распознавания останавливает сессию извне
	stopper := &stoppingDecoder{inner: f.decoder, stop: f.svc.Stop}
	f.svc.decoder = stopper

	_, err := f.svc.ScanCamera(context.Background(), f.presenter)
	require.ErrorIs(t, err, entity.ErrSessionStopped)
	require.Equal(t, string(entity.MsgStopped), f.presenter.lastStatus())
	require.Equal(t, 1, f.camera.closeCount())
	require.Empty(t, f.lookup.barcodes)
}

func TestScanService_StopBeforeHitSkipsLookup(t *testing.T) {
	f := newScanFixture(cams("video0"))
	f.decoder.missBefore = 0
	f.decoder.onHit = f.svc.Stop

	out, err := f.svc.ScanCamera(context.Background(), f.presenter)
	require.ErrorIs(t, err, entity.ErrSessionStopped)
	require.Nil(t, out.Result)
	require.Empty(t, f.lookup.barcodes)
	require.Empty(t, f.presenter.navigations)
	require.Empty(t, f.scanLog.records)
	require.Equal(t, 1, f.camera.closeCount())
}

func TestScanImage_NoBarcode(t *testing.T) {
	f := newScanFixture(nil)
	f.decoder.missBefore = 1

	_, err := f.svc.ScanImage(context.Background(), f.presenter, image.NewGray(image.Rect(0, 0, 2, 2)))
	require.ErrorIs(t, err, entity.ErrDecodeTransient)
	require.Equal(t, string(entity.MsgNoBarcodeInImage), f.presenter.lastStatus())
	require.Empty(t, f.lookup.barcodes)
}

func TestScanImage_Found(t *testing.T) {
	f := newScanFixture(nil)
	f.decoder.missBefore = 0

	out, err := f.svc.ScanImage(context.Background(), f.presenter, image.NewGray(image.Rect(0, 0, 2, 2)))
	require.NoError(t, err)
	require.Equal(t, entity.OutcomeFound, out.Dispatch.Outcome)
}

func TestScanBarcode_Manual(t *testing.T) {
	f := newScanFixture(nil)
	f.lookup.resp = &entity.LookupResponse{Found: false}

	out, err := f.svc.ScanBarcode(context.Background(), f.presenter, "8001505005707")
	require.NoError(t, err)
	require.Equal(t, "MANUAL", out.Result.Format)
	require.Equal(t, []string{"/add?barcode=8001505005707"}, f.presenter.navigations)

	history, err := f.svc.History(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, entity.OutcomeNotFound, history[0].Outcome)
}

type lookupSpy struct {
	inner  *fakeLookup
	before func()
}

func (l lookupSpy) Lookup(ctx context.Context, barcode string) (*entity.LookupResponse, error) {
	l.before()
	return l.inner.Lookup(ctx, barcode)
}

type stoppingDecoder struct {
	inner *fakeDecoder
	stop  func()
}

func (d *stoppingDecoder) Decode(ctx context.Context, frame image.Image) (*entity.DecodeResult, error) {
	d.stop()
	return d.inner.Decode(ctx, frame)
}
