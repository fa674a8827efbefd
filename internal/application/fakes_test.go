package app

import (
	"context"
	"fmt"
	"image"
	"strings"
	"sync"

	"barcode-scanner/internal/domain/entity"
	"barcode-scanner/internal/domain/port"
)

type fakeEnumerator struct {
	devices []entity.Device
	err     error
}

func (f *fakeEnumerator) Enumerate(ctx context.Context) ([]entity.Device, error) {
	return f.devices, f.err
}

type fakeCamera struct {
	mu       sync.Mutex
	readErrs int
	readErr  error
	reads    int
	closes   int
}

func (c *fakeCamera) ReadFrame(ctx context.Context) (image.Image, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reads++
	if c.readErr != nil && (c.readErrs < 0 || c.reads <= c.readErrs) {
		return nil, c.readErr
	}
	return image.NewGray(image.Rect(0, 0, 4, 4)), nil
}

func (c *fakeCamera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closes++
	return nil
}

func (c *fakeCamera) closeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closes
}

type fakeOpener struct {
	camera *fakeCamera
	err    error
	opened []entity.Device
}

func (o *fakeOpener) Open(ctx context.Context, device entity.Device) (port.Camera, error) {
	o.opened = append(o.opened, device)
	if o.err != nil {
		return nil, o.err
	}
	return o.camera, nil
}

// fakeDecoder возвращает промах missBefore раз, затем text.
type fakeDecoder struct {
	mu         sync.Mutex
	missBefore int
	text       string
	calls      int
	onHit      func()
}

func (d *fakeDecoder) Decode(ctx context.Context, frame image.Image) (*entity.DecodeResult, error) {
	d.mu.Lock()
	d.calls++
	calls := d.calls
	d.mu.Unlock()
	if calls <= d.missBefore {
		return nil, fmt.Errorf("frame %d: %w", calls, entity.ErrDecodeTransient)
	}
	if d.onHit != nil {
		d.onHit()
	}
	return &entity.DecodeResult{Text: d.text, Format: "EAN_13"}, nil
}

func (d *fakeDecoder) callCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

type fakeLookup struct {
	mu       sync.Mutex
	resp     *entity.LookupResponse
	err      error
	barcodes []string
}

func (l *fakeLookup) Lookup(ctx context.Context, barcode string) (*entity.LookupResponse, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.barcodes = append(l.barcodes, barcode)
	return l.resp, l.err
}

type fakeScanLog struct {
	records []entity.ScanRecord
}

func (l *fakeScanLog) Record(ctx context.Context, record *entity.ScanRecord) error {
	l.records = append(l.records, *record)
	return nil
}

func (l *fakeScanLog) Recent(ctx context.Context, limit int) ([]entity.ScanRecord, error) {
	return l.records, nil
}

type keyMessages struct{}

func (keyMessages) Text(key entity.MessageKey, args ...any) string {
	if len(args) == 0 {
		return string(key)
	}
	parts := make([]string, 0, len(args))
	for _, a := range args {
		parts = append(parts, fmt.Sprint(a))
	}
	return string(key) + ": " + strings.Join(parts, " ")
}

// recordingPresenter записывает все события в порядке поступления.
type recordingPresenter struct {
	events      []string
	statuses    []string
	alerts      []string
	navigations []string
	alertErr    error
}

func (p *recordingPresenter) SetStatus(text string) {
	p.statuses = append(p.statuses, text)
	p.events = append(p.events, "status:"+text)
}

func (p *recordingPresenter) Alert(ctx context.Context, text string) error {
	p.alerts = append(p.alerts, text)
	p.events = append(p.events, "alert:"+text)
	return p.alertErr
}

func (p *recordingPresenter) Navigate(ctx context.Context, target string) error {
	p.navigations = append(p.navigations, target)
	p.events = append(p.events, "navigate:"+target)
	return nil
}

func (p *recordingPresenter) lastStatus() string {
	if len(p.statuses) == 0 {
		return ""
	}
	return p.statuses[len(p.statuses)-1]
}
