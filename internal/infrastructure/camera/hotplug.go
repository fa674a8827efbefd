package camera

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/pilebones/go-udev/netlink"

	"barcode-scanner/internal/domain/entity"
	"barcode-scanner/internal/logging"
)

// HotplugEvent подключение или отключение камеры
type HotplugEvent struct {
	Action string // add | remove
	Device entity.Device
}

// HotplugMonitor следит за камерами через udev netlink.
type HotplugMonitor struct {
	logger *slog.Logger
}

// NewHotplugMonitor создаёт монитор подключения камер.
func NewHotplugMonitor(logger *slog.Logger) *HotplugMonitor {
	return &HotplugMonitor{logger: logging.NewComponentLogger(logger, "hotplug-monitor")}
}

// Watch вызывает handler для каждого события камеры, пока не отменён ctx.
func (m *HotplugMonitor) Watch(ctx context.Context, handler func(HotplugEvent)) error {
	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		return fmt.Errorf("connect netlink socket: %w: %w", entity.ErrPermissionOrDevice, err)
	}
	defer conn.Close()

	queue := make(chan netlink.UEvent)
	errs := make(chan error)
	quit := conn.Monitor(queue, errs, hotplugMatcher())

	m.logger.Info("camera hotplug monitor started")
	for {
		select {
		case <-ctx.Done():
			close(quit)
			return nil
		case uevent := <-queue:
			ev, ok := eventFromUEvent(uevent)
			if !ok {
				continue
			}
			m.logger.Info("camera hotplug event",
				slog.String("action", ev.Action),
				slog.String("device", ev.Device.ID),
			)
			handler(ev)
		case err := <-errs:
			m.logger.Warn("netlink monitor error", logging.Error(err))
		}
	}
}

func hotplugMatcher() netlink.Matcher {
	action := "add|remove"
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{
		Action: &action,
		Env: map[string]string{
			"SUBSYSTEM": "video4linux",
		},
	})
	return rules
}

func eventFromUEvent(uevent netlink.UEvent) (HotplugEvent, bool) {
	devname := filepath.Base(uevent.Env["DEVNAME"])
	if !videoNodePattern.MatchString(devname) {
		return HotplugEvent{}, false
	}
	return HotplugEvent{
		Action: string(uevent.Action),
		Device: entity.Device{
			ID:    devname,
			Kind:  entity.DeviceKindVideo,
			Label: devname,
			Path:  "/dev/" + devname,
		},
	}, true
}
