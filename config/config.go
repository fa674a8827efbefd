package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Config настройки сканера. Источники по возрастанию приоритета:
// значения по умолчанию, TOML-файл, переменные окружения (включая .env).
type Config struct {
	AppURL        string   `toml:"app_url"`
	LookupTimeout Duration `toml:"lookup_timeout"`

	// SessionCookie значение cookie session приложения: поиск доступен только после входа
	SessionCookie string `toml:"session_cookie"`

	DeviceID  string `toml:"device_id"`
	Selection string `toml:"selection"`
	Width     int    `toml:"frame_width"`
	Height    int    `toml:"frame_height"`
	LockDir   string `toml:"lock_dir"`

	FrameInterval   Duration `toml:"frame_interval"`
	MaxReadFailures int      `toml:"max_read_failures"`
	TryHarder       bool     `toml:"try_harder"`

	Language  string `toml:"language"`
	Presenter string `toml:"presenter"`

	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`

	DBPath string `toml:"db_path"`

	TelegramToken string `toml:"telegram_token"`
}

// Default возвращает настройки по умолчанию.
func Default() Config {
	return Config{
		AppURL:          "http://localhost:5000",
		LookupTimeout:   Duration(15 * time.Second),
		Selection:       "last",
		FrameInterval:   Duration(100 * time.Millisecond),
		MaxReadFailures: 30,
		TryHarder:       true,
		Language:        "en",
		Presenter:       "console",
		LogLevel:        "info",
	}
}

// Load загружает .env (если есть), затем TOML-файл path (если задан) и переменные окружения.
func Load(path string) (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := Default()

	if path == "" {
		path = os.Getenv("SCANNER_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() error {
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	str("SCANNER_APP_URL", &c.AppURL)
	str("SCANNER_DEVICE_ID", &c.DeviceID)
	str("SCANNER_SELECTION", &c.Selection)
	str("SCANNER_LOCK_DIR", &c.LockDir)
	str("SCANNER_LANG", &c.Language)
	str("SCANNER_PRESENTER", &c.Presenter)
	str("SCANNER_LOG_LEVEL", &c.LogLevel)
	str("SCANNER_LOG_FORMAT", &c.LogFormat)
	str("SCANNER_DB_PATH", &c.DBPath)
	str("SCANNER_SESSION_COOKIE", &c.SessionCookie)
	str("TELEGRAM_TOKEN", &c.TelegramToken)

	if v, ok := os.LookupEnv("SCANNER_LOOKUP_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SCANNER_LOOKUP_TIMEOUT: %w", err)
		}
		c.LookupTimeout = Duration(d)
	}
	if v, ok := os.LookupEnv("SCANNER_FRAME_INTERVAL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SCANNER_FRAME_INTERVAL: %w", err)
		}
		c.FrameInterval = Duration(d)
	}
	return nil
}

func (c *Config) normalize() {
	c.AppURL = strings.TrimRight(strings.TrimSpace(c.AppURL), "/")
	c.Selection = strings.ToLower(strings.TrimSpace(c.Selection))
	c.Presenter = strings.ToLower(strings.TrimSpace(c.Presenter))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	c.Language = strings.TrimSpace(c.Language)
	c.DeviceID = strings.TrimSpace(c.DeviceID)
	c.TelegramToken = strings.TrimSpace(c.TelegramToken)
	c.SessionCookie = strings.TrimSpace(c.SessionCookie)
}

// Validate проверяет значения настроек.
func (c *Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.AppURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("app_url %q must be an absolute URL", c.AppURL))
	}
	if c.LookupTimeout <= 0 {
		errs = append(errs, errors.New("lookup_timeout must be positive"))
	}
	switch c.Selection {
	case "", "last", "facing":
	default:
		errs = append(errs, fmt.Errorf("selection %q must be last or facing", c.Selection))
	}
	switch c.Presenter {
	case "", "console", "desktop":
	default:
		errs = append(errs, fmt.Errorf("presenter %q must be console or desktop", c.Presenter))
	}
	switch c.LogFormat {
	case "", "console", "json":
	default:
		errs = append(errs, fmt.Errorf("log_format %q must be console or json", c.LogFormat))
	}
	if c.FrameInterval < 0 {
		errs = append(errs, errors.New("frame_interval must not be negative"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Duration длительность в формате time.ParseDuration ("15s", "100ms").
type Duration time.Duration

// UnmarshalText разбирает значение из TOML.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText пишет значение в TOML.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std возвращает значение как time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}
