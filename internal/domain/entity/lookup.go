package entity

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ProductField одна пара ключ-значение из карточки продукта
type ProductField struct {
	Key   string
	Value string
}

// Product карточка продукта с сохранённым порядком полей ответа.
type Product struct {
	Fields []ProductField
}

// Get возвращает значение поля по ключу.
func (p Product) Get(key string) (string, bool) {
	for _, f := range p.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// UnmarshalJSON читает объект, сохраняя порядок ключей.
// Нестроковые значения сохраняются в виде их JSON-текста.
func (p *Product) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		p.Fields = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("product: expected object")
	}

	fields := make([]ProductField, 0)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("product: unexpected key %v", keyTok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("product field %q: %w", key, err)
		}
		fields = append(fields, ProductField{Key: key, Value: rawToString(raw)})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	p.Fields = fields
	return nil
}

func rawToString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

// LookupResponse ответ сервиса поиска продукта.
type LookupResponse struct {
	Found   bool     `json:"found"`
	Product *Product `json:"product,omitempty"`
}

// LookupRequest тело запроса к сервису поиска.
type LookupRequest struct {
	Barcode string `json:"barcode"`
}

// AddProductPath страница добавления продукта
const AddProductPath = "/add"

// Navigation адрес перехода после обработки штрихкода.
type Navigation struct {
	Path  string
	Query []ProductField
}

// FoundNavigation строит переход на форму, заполненную полями продукта.
func FoundNavigation(product Product) Navigation {
	query := make([]ProductField, len(product.Fields))
	copy(query, product.Fields)
	return Navigation{Path: AddProductPath, Query: query}
}

// NotFoundNavigation строит переход на форму только со штрихкодом.
func NotFoundNavigation(barcode string) Navigation {
	return Navigation{
		Path:  AddProductPath,
		Query: []ProductField{{Key: "barcode", Value: barcode}},
	}
}

// String возвращает относительный адрес вида /add?name=Milk&brand=Acme.
func (n Navigation) String() string {
	if len(n.Query) == 0 {
		return n.Path
	}
	parts := make([]string, 0, len(n.Query))
	for _, f := range n.Query {
		parts = append(parts, url.QueryEscape(f.Key)+"="+url.QueryEscape(f.Value))
	}
	return n.Path + "?" + strings.Join(parts, "&")
}

// Resolve возвращает абсолютный адрес относительно базового URL приложения.
func (n Navigation) Resolve(base string) (string, error) {
	if strings.TrimSpace(base) == "" {
		return n.String(), nil
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse app url: %w", err)
	}
	ref, err := url.Parse(n.String())
	if err != nil {
		return "", fmt.Errorf("parse navigation: %w", err)
	}
	return baseURL.ResolveReference(ref).String(), nil
}
