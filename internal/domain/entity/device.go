package entity

import "strings"

// DeviceKind тип устройства ввода
type DeviceKind string

const (
	DeviceKindVideo DeviceKind = "videoinput" // камера
	DeviceKindAudio DeviceKind = "audioinput" // микрофон
	DeviceKindOther DeviceKind = "other"      // всё остальное
)

// Facing направление камеры, если система его сообщает
type Facing string

const (
	FacingUnknown Facing = ""
	FacingFront   Facing = "front"
	FacingBack    Facing = "back"
)

// Device описывает устройство ввода, найденное при перечислении
type Device struct {
	ID     string     // стабильный идентификатор (например, video0)
	Kind   DeviceKind // тип устройства
	Label  string     // человекочитаемое имя
	Path   string     // путь к узлу устройства (/dev/video0)
	Facing Facing     // направление камеры, если известно
}

// IsVideo сообщает, является ли устройство камерой
func (d Device) IsVideo() bool {
	return d.Kind == DeviceKindVideo
}

var rearLabelHints = []string{"back", "rear", "environment"}

// LooksRearFacing проверяет метаданные и имя устройства на признаки задней камеры.
func (d Device) LooksRearFacing() bool {
	if d.Facing == FacingBack {
		return true
	}
	if d.Facing == FacingFront {
		return false
	}
	label := strings.ToLower(d.Label)
	for _, hint := range rearLabelHints {
		if strings.Contains(label, hint) {
			return true
		}
	}
	return false
}

// HasFacingMetadata сообщает, можно ли по устройству судить о направлении камеры.
func (d Device) HasFacingMetadata() bool {
	return d.Facing != FacingUnknown || d.LooksRearFacing()
}

// VideoDevices оставляет только камеры, сохраняя порядок перечисления.
func VideoDevices(devices []Device) []Device {
	cams := make([]Device, 0, len(devices))
	for _, d := range devices {
		if d.IsVideo() {
			cams = append(cams, d)
		}
	}
	return cams
}
