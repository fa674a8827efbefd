package presenter

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"barcode-scanner/internal/domain/entity"
	"barcode-scanner/internal/domain/port"
)

var supported = []language.Tag{language.English, language.Italian, language.Russian}

var translations = map[language.Tag]map[entity.MessageKey]string{
	language.English: {
		entity.MsgStarting:         "Looking for a camera...",
		entity.MsgNoCamera:         "No camera found!",
		entity.MsgCameraError:      "Error: %s",
		entity.MsgScanning:         "Scanning with %s...",
		entity.MsgRead:             "Read: %s",
		entity.MsgLookupFailed:     "Lookup failed: %s",
		entity.MsgRedirecting:      "Opening %s",
		entity.MsgStopped:          "Scanning stopped.",
		entity.MsgNoBarcodeInImage: "No barcode found in the image.",
		entity.MsgNotFoundAlert:    "Product not found in the OpenFoodFacts database",
	},
	language.Italian: {
		entity.MsgStarting:         "Ricerca fotocamera...",
		entity.MsgNoCamera:         "Nessuna fotocamera trovata!",
		entity.MsgCameraError:      "Errore: %s",
		entity.MsgScanning:         "Scansione con %s...",
		entity.MsgRead:             "Letto: %s",
		entity.MsgLookupFailed:     "Ricerca non riuscita: %s",
		entity.MsgRedirecting:      "Apertura di %s",
		entity.MsgStopped:          "Scansione interrotta.",
		entity.MsgNoBarcodeInImage: "Nessun codice a barre nell'immagine.",
		entity.MsgNotFoundAlert:    "Prodotto non trovato nel database OpenFoodFacts",
	},
	language.Russian: {
		entity.MsgStarting:         "Ищу камеру...",
		entity.MsgNoCamera:         "Камера не найдена!",
		entity.MsgCameraError:      "Ошибка: %s",
		entity.MsgScanning:         "Сканирую камерой %s...",
		entity.MsgRead:             "Прочитано: %s",
		entity.MsgLookupFailed:     "Не удалось найти продукт: %s",
		entity.MsgRedirecting:      "Открываю %s",
		entity.MsgStopped:          "Сканирование остановлено.",
		entity.MsgNoBarcodeInImage: "На изображении нет штрихкода.",
		entity.MsgNotFoundAlert:    "Продукт не найден в базе OpenFoodFacts",
	},
}

// Catalog локализованные сообщения для пользователя
type Catalog struct {
	tag     language.Tag
	printer *message.Printer
}

// NewCatalog создаёт каталог для языка lang (en, it, ru). Для неизвестного языка используется английский.
func NewCatalog(lang string) (*Catalog, error) {
	builder := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, msgs := range translations {
		for key, text := range msgs {
			if err := builder.SetString(tag, string(key), text); err != nil {
				return nil, fmt.Errorf("register message %s/%s: %w", tag, key, err)
			}
		}
	}

	tag := matchLanguage(lang)
	return &Catalog{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(builder)),
	}, nil
}

// Language возвращает выбранный язык.
func (c *Catalog) Language() language.Tag {
	return c.tag
}

// Text возвращает сообщение с подставленными аргументами.
func (c *Catalog) Text(key entity.MessageKey, args ...any) string {
	return c.printer.Sprintf(string(key), args...)
}

func matchLanguage(lang string) language.Tag {
	if lang == "" {
		return language.English
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return language.English
	}
	_, idx, conf := language.NewMatcher(supported).Match(tag)
	if conf == language.No {
		return language.English
	}
	return supported[idx]
}

// Проверка реализации интерфейса
var _ port.Messages = (*Catalog)(nil)
