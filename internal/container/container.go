package container

import (
	"log/slog"

	app "barcode-scanner/internal/application"
	"barcode-scanner/internal/domain/port"
)

type Container struct {
	UserService *app.UserService
	ScanService *app.ScanService
	Messages    port.Messages
}

// Deps внешние адаптеры, из которых собираются сервисы приложения.
type Deps struct {
	Users      port.UserRepository
	Enumerator port.DeviceEnumerator
	Opener     port.CameraOpener
	Decoder    port.BarcodeDecoder
	Lookup     port.ProductLookup
	ScanLog    port.ScanLog
	Messages   port.Messages
	Strategy   app.SelectionStrategy
	Session    app.SessionOptions
	AppURL     string
	Logger     *slog.Logger
}

func New(d Deps) *Container {
	userService := app.NewUserService(d.Users)
	selector := app.NewDeviceSelector(d.Enumerator, d.Strategy, d.Logger)
	dispatcher := app.NewLookupDispatcher(d.Lookup, d.Messages, d.AppURL, d.Logger)
	scanService := app.NewScanService(selector, d.Opener, d.Decoder, dispatcher, d.ScanLog, d.Messages, d.Session, d.Logger)

	return &Container{
		UserService: userService,
		ScanService: scanService,
		Messages:    d.Messages,
	}
}
