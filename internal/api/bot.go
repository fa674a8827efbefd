package telegram

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	app "barcode-scanner/internal/application"
	"barcode-scanner/internal/container"
	"barcode-scanner/internal/domain/entity"
	"barcode-scanner/internal/infrastructure/decoder"
	"barcode-scanner/internal/logging"
)

const (
	msgStart = `👋 Привет! Я помогу добавить продукт в кладовую по штрихкоду.

📸 Отправьте фото штрихкода, и я найду продукт и пришлю ссылку на форму добавления.

📋 Команды:
/scan — сканировать штрихкод
/last — последний распознанный штрихкод
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте фото штрихкода
2️⃣ Бот распознает его и найдёт продукт
3️⃣ Вы получите ссылку на заполненную форму добавления

💡 Рекомендации:
• Снимайте при хорошем освещении
• Штрихкод должен занимать заметную часть кадра
• Фото должно быть чётким

📋 Команды:
/scan — начать сканирование
/cancel — отменить операцию`

	msgAwaitingPhoto   = "📸 Отправьте фото штрихкода."
	msgCancelled       = "❌ Операция отменена. Отправьте /scan для нового сканирования."
	msgSendPhoto       = "📸 Пожалуйста, отправьте фото штрихкода."
	msgUnknownCommand  = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing      = "⏳ Распознаю штрихкод..."
	msgNoLastBarcode   = "Пока ни одного штрихкода не распознано."
	msgProcessingError = "⚠️ Не удалось обработать изображение. Попробуйте сделать другое фото."
	msgNoBarcode       = "🔍 Штрихкод на фото не найден. Попробуйте снять ближе и при хорошем освещении."
	msgLookupFailed    = "⚠️ Сервис поиска продуктов сейчас недоступен. Попробуйте позже."
)

const (
	downloadTimeout = 30 * time.Second
	// Bot API не отдаёт ботам файлы больше 20 МБ
	maxPhotoBytes = 20 << 20
)

// botAPI подмножество tgbotapi.BotAPI, которое использует бот
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetFileDirectURL(fileID string) (string, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot представляет Telegram-бота
type Bot struct {
	api    botAPI
	users  *app.UserService
	scans  *app.ScanService
	http   *http.Client
	logger *slog.Logger
}

// NewBot создаёт нового бота
func NewBot(token string, c *container.Container, logger *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	logger = logging.NewComponentLogger(logger, "telegram-bot")
	logger.Info("authorized on account", slog.String("account", api.Self.UserName))

	return newBot(api, c, logger), nil
}

func newBot(api botAPI, c *container.Container, logger *slog.Logger) *Bot {
	return &Bot{
		api:    api,
		users:  c.UserService,
		scans:  c.ScanService,
		http:   &http.Client{Timeout: downloadTimeout},
		logger: logger,
	}
}

// Run запускает основной цикл обработки сообщений до отмены ctx
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.Chat == nil {
		return
	}

	user, err := b.users.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		b.logger.Error("get user failed", logging.Error(err))
		return
	}

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg, user)
		return
	}

	// Обработка фото
	if len(msg.Photo) > 0 {
		b.handlePhoto(ctx, msg)
		return
	}

	// Текстовое сообщение (не команда)
	b.sendMessage(msg.Chat.ID, msgSendPhoto)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	switch msg.Command() {
	case "start":
		b.setState(ctx, msg, entity.StateMainMenu)
		b.sendMessage(msg.Chat.ID, msgStart)

	case "help":
		b.sendMessage(msg.Chat.ID, msgHelp)

	case "scan":
		if _, err := b.users.BeginScan(ctx, msg.From.ID, msg.Chat.ID); err != nil {
			b.logger.Error("begin scan failed", logging.Error(err))
		}
		b.sendMessage(msg.Chat.ID, msgAwaitingPhoto)

	case "last":
		if user.LastBarcode == "" {
			b.sendMessage(msg.Chat.ID, msgNoLastBarcode)
			return
		}
		b.sendMessage(msg.Chat.ID, "🔖 "+user.LastBarcode)

	case "cancel":
		if _, err := b.users.Cancel(ctx, msg.From.ID, msg.Chat.ID); err != nil {
			b.logger.Error("cancel failed", logging.Error(err))
		}
		b.sendMessage(msg.Chat.ID, msgCancelled)

	default:
		b.sendMessage(msg.Chat.ID, msgUnknownCommand)
	}
}

// handlePhoto распознаёт штрихкод на фото и отвечает ссылкой на форму добавления
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message) {
	if _, err := b.users.MarkProcessing(ctx, msg.From.ID, msg.Chat.ID); err != nil {
		b.logger.Error("mark processing failed", logging.Error(err))
	}
	b.sendMessage(msg.Chat.ID, msgProcessing)

	barcode := ""
	defer func() {
		if _, err := b.users.FinishScan(ctx, msg.From.ID, msg.Chat.ID, barcode); err != nil {
			b.logger.Error("finish scan failed", logging.Error(err))
		}
	}()

	// Получаем файл с максимальным разрешением
	photo := msg.Photo[len(msg.Photo)-1]

	imageData, err := b.downloadFile(ctx, photo.FileID)
	if err != nil {
		b.logger.Error("photo download failed", logging.Error(err))
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		return
	}

	img, _, err := decoder.LoadImage(bytes.NewReader(imageData), decoder.DefaultMaxSide)
	if err != nil {
		b.logger.Warn("photo decode failed", slog.Int("bytes", len(imageData)), logging.Error(err))
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		return
	}

	p := &chatPresenter{bot: b, chatID: msg.Chat.ID}
	out, err := b.scans.ScanImage(ctx, p, img)
	if out != nil && out.Result != nil {
		barcode = out.Result.Text
	}
	if err != nil {
		b.logger.Info("photo scan finished with error", slog.Int64("chat", msg.Chat.ID), logging.Error(err))
		b.sendMessage(msg.Chat.ID, scanErrorMessage(err))
	}
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	fileURL, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build download request: %w", err)
	}

	resp, err := b.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPhotoBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if len(data) > maxPhotoBytes {
		return nil, fmt.Errorf("file exceeds %d bytes", maxPhotoBytes)
	}

	return data, nil
}

// scanErrorMessage текст для чата. Подробности ошибки остаются в логе.
func scanErrorMessage(err error) string {
	switch {
	case errors.Is(err, entity.ErrDecodeTransient):
		return msgNoBarcode
	case errors.Is(err, entity.ErrLookupNetwork):
		return msgLookupFailed
	default:
		return msgProcessingError
	}
}

func (b *Bot) setState(ctx context.Context, msg *tgbotapi.Message, state entity.UserState) {
	if _, err := b.users.SetState(ctx, msg.From.ID, msg.Chat.ID, state); err != nil {
		b.logger.Error("set state failed", logging.Error(err))
	}
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Warn("send message failed", slog.Int64("chat", chatID), logging.Error(err))
	}
}
