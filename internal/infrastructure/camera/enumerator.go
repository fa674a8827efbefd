package camera

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pilebones/go-udev/crawler"
	"github.com/pilebones/go-udev/netlink"

	"barcode-scanner/internal/domain/entity"
	"barcode-scanner/internal/domain/port"
	"barcode-scanner/internal/logging"
)

var videoNodePattern = regexp.MustCompile(`^video([0-9]+)$`)

// UdevEnumerator находит камеры video4linux по uevent-файлам sysfs.
type UdevEnumerator struct {
	logger *slog.Logger
	// readAttr читает атрибут устройства из sysfs; подменяется в тестах.
	readAttr func(kobj, name string) (string, bool)
}

// NewUdevEnumerator создаёт перечислитель камер.
func NewUdevEnumerator(logger *slog.Logger) *UdevEnumerator {
	return &UdevEnumerator{
		logger:   logging.NewComponentLogger(logger, "udev-enumerator"),
		readAttr: readSysfsAttr,
	}
}

// Enumerate возвращает камеры, отсортированные по номеру узла /dev/videoN.
// Вспомогательные узлы (метаданные UVC, index > 0) пропускаются.
func (e *UdevEnumerator) Enumerate(ctx context.Context) ([]entity.Device, error) {
	queue := make(chan crawler.Device)
	errs := make(chan error, 1)
	quit := crawler.ExistingDevices(queue, errs, videoMatcher())

	var found []crawler.Device
	for {
		select {
		case <-ctx.Done():
			abortCrawler(quit, queue)
			return nil, ctx.Err()
		case err := <-errs:
			abortCrawler(quit, queue)
			return nil, fmt.Errorf("crawl sysfs: %w", err)
		case dev, ok := <-queue:
			if !ok {
				return e.toDevices(found), nil
			}
			found = append(found, dev)
		}
	}
}

func (e *UdevEnumerator) toDevices(found []crawler.Device) []entity.Device {
	devices := make([]entity.Device, 0, len(found))
	for _, raw := range found {
		dev, ok := e.deviceFromUEvent(raw.KObj, raw.Env)
		if !ok {
			continue
		}
		devices = append(devices, dev)
	}
	sort.SliceStable(devices, func(i, j int) bool {
		return nodeNumber(devices[i].ID) < nodeNumber(devices[j].ID)
	})
	e.logger.Debug("video devices enumerated", slog.Int("count", len(devices)))
	return devices
}

func (e *UdevEnumerator) deviceFromUEvent(kobj string, env map[string]string) (entity.Device, bool) {
	devname := filepath.Base(env["DEVNAME"])
	if !videoNodePattern.MatchString(devname) {
		return entity.Device{}, false
	}
	if idx, ok := e.readAttr(kobj, "index"); ok && idx != "0" {
		e.logger.Debug("skipping auxiliary video node", slog.String("device", devname), slog.String("index", idx))
		return entity.Device{}, false
	}

	label, _ := e.readAttr(kobj, "name")
	if label == "" {
		label = devname
	}
	return entity.Device{
		ID:     devname,
		Kind:   entity.DeviceKindVideo,
		Label:  label,
		Path:   "/dev/" + devname,
		Facing: entity.FacingUnknown,
	}, true
}

func videoMatcher() netlink.Matcher {
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{
		Env: map[string]string{
			"DEVNAME": `^(/dev/)?video[0-9]+$`,
		},
	})
	return rules
}

// abortCrawler просит обход остановиться и дочитывает очередь, чтобы горутина обхода завершилась.
func abortCrawler(quit chan struct{}, queue chan crawler.Device) {
	select {
	case quit <- struct{}{}:
	default:
	}
	go func() {
		for range queue {
		}
	}()
}

func nodeNumber(devname string) int {
	m := videoNodePattern.FindStringSubmatch(devname)
	if m == nil {
		return int(^uint(0) >> 1)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return int(^uint(0) >> 1)
	}
	return n
}

func readSysfsAttr(kobj, name string) (string, bool) {
	data, err := os.ReadFile(filepath.Join(kobj, name))
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(string(data)), true
}

// Проверка реализации интерфейса
var _ port.DeviceEnumerator = (*UdevEnumerator)(nil)
