package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"barcode-scanner/config"
	app "barcode-scanner/internal/application"
	"barcode-scanner/internal/container"
	"barcode-scanner/internal/domain/port"
	"barcode-scanner/internal/infrastructure/camera"
	"barcode-scanner/internal/infrastructure/decoder"
	"barcode-scanner/internal/infrastructure/lookup"
	"barcode-scanner/internal/infrastructure/presenter"
	"barcode-scanner/internal/infrastructure/storage"
	"barcode-scanner/internal/logging"
)

type commandContext struct {
	configFlag    *string
	presenterFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, presenterFlag *string) *commandContext {
	return &commandContext{
		configFlag:    configFlag,
		presenterFlag: presenterFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.presenterFlag != nil && strings.TrimSpace(*c.presenterFlag) != "" {
			cfg.Presenter = strings.ToLower(strings.TrimSpace(*c.presenterFlag))
			if err := cfg.Validate(); err != nil {
				c.configErr = err
				return
			}
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// runtime собранное приложение для одной команды
type runtime struct {
	cfg       *config.Config
	logger    *slog.Logger
	container *container.Container
	presenter port.Presenter
	scanLog   *storage.SQLiteScanLog
}

func (r *runtime) Close() error {
	if r.scanLog == nil {
		return nil
	}
	return r.scanLog.Close()
}

// build собирает зависимости приложения. Журнал сканирований открывается,
// только если задан db_path.
func (c *commandContext) build(out io.Writer, in io.Reader) (*runtime, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: os.Stderr,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	catalog, err := presenter.NewCatalog(cfg.Language)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}

	client, err := lookup.NewClient(cfg.AppURL, cfg.LookupTimeout.Std(), nil, lookup.WithSessionCookie(cfg.SessionCookie))
	if err != nil {
		return nil, fmt.Errorf("lookup client: %w", err)
	}

	strategy, err := app.StrategyByName(cfg.Selection, cfg.DeviceID)
	if err != nil {
		return nil, err
	}

	rt := &runtime{cfg: cfg, logger: logger}

	deps := container.Deps{
		Users:      storage.NewMemoryUserRepository(),
		Enumerator: camera.NewUdevEnumerator(logger),
		Opener: camera.NewGoCVOpener(camera.CaptureOptions{
			Width:   cfg.Width,
			Height:  cfg.Height,
			LockDir: cfg.LockDir,
		}, logger),
		Decoder:  decoder.NewZXingDecoder(cfg.TryHarder),
		Lookup:   client,
		Messages: catalog,
		Strategy: strategy,
		Session: app.SessionOptions{
			FrameInterval:   cfg.FrameInterval.Std(),
			MaxReadFailures: cfg.MaxReadFailures,
		},
		AppURL: cfg.AppURL,
		Logger: logger,
	}

	if cfg.DBPath != "" {
		scanLog, err := storage.OpenSQLiteScanLog(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open scan log: %w", err)
		}
		rt.scanLog = scanLog
		deps.ScanLog = scanLog
	}

	rt.container = container.New(deps)

	console := presenter.NewConsole(out, in)
	switch cfg.Presenter {
	case "desktop":
		rt.presenter = presenter.NewDesktop(console, "Pantry scanner", logger)
	default:
		rt.presenter = console
	}

	return rt, nil
}

// withRuntime собирает приложение, вызывает fn и закрывает ресурсы.
func (c *commandContext) withRuntime(out io.Writer, in io.Reader, fn func(*runtime) error) error {
	rt, err := c.build(out, in)
	if err != nil {
		return err
	}
	return errors.Join(fn(rt), rt.Close())
}
