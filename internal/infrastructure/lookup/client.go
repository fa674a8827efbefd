package lookup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"barcode-scanner/internal/domain/entity"
	"barcode-scanner/internal/domain/port"
)

// Path адрес метода поиска продукта относительно базового URL приложения
const Path = "/api/barcode_lookup"

const (
	defaultTimeout = 15 * time.Second
	maxBodyBytes   = 1 << 20

	sessionCookieName = "session"
	loginPath         = "/login"
)

// ErrUnauthorized приложение требует входа, а cookie сессии не задана или устарела.
var ErrUnauthorized = errors.New("lookup requires an authenticated session")

// Client HTTP-клиент сервиса поиска продукта по штрихкоду
type Client struct {
	endpoint      string
	http          *http.Client
	sessionCookie string
}

// Option настраивает Client.
type Option func(*Client)

// WithSessionCookie передаёт cookie session с каждым запросом. Пустое значение ничего не меняет.
func WithSessionCookie(value string) Option {
	return func(c *Client) {
		c.sessionCookie = strings.TrimSpace(value)
	}
}

// NewClient создаёт клиента. timeout ограничивает весь запрос вместе с чтением ответа.
func NewClient(baseURL string, timeout time.Duration, httpClient *http.Client, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parse lookup base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("lookup base url %q must be absolute", baseURL)
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	cp := *httpClient
	cp.Timeout = timeout

	c := &Client{
		endpoint: base.ResolveReference(&url.URL{Path: Path}).String(),
		http:     &cp,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Endpoint возвращает полный адрес метода поиска.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Lookup отправляет {"barcode": ...} и разбирает ответ {"found": ..., "product": {...}}.
// Повторов нет: каждая ошибка возвращается вызывающему как entity.ErrLookupNetwork.
func (c *Client) Lookup(ctx context.Context, barcode string) (*entity.LookupResponse, error) {
	body, err := json.Marshal(entity.LookupRequest{Barcode: barcode})
	if err != nil {
		return nil, fmt.Errorf("encode lookup request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build lookup request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.sessionCookie != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: c.sessionCookie})
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrLookupNetwork, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", entity.ErrLookupNetwork, err)
	}

	// без входа приложение перенаправляет на страницу логина
	if resp.StatusCode == http.StatusUnauthorized || redirectedToLogin(resp) {
		return nil, fmt.Errorf("%w: %w", entity.ErrLookupNetwork, ErrUnauthorized)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: unexpected status %d", entity.ErrLookupNetwork, resp.StatusCode)
	}

	var out entity.LookupResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", entity.ErrLookupNetwork, err)
	}
	if !out.Found {
		out.Product = nil
	}
	return &out, nil
}

func redirectedToLogin(resp *http.Response) bool {
	if resp.Request == nil || resp.Request.URL == nil {
		return false
	}
	return resp.Request.URL.Path == loginPath
}

// Проверка реализации интерфейса
var _ port.ProductLookup = (*Client)(nil)
