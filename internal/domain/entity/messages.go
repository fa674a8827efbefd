package entity

// MessageKey ключ локализованного сообщения для пользователя
type MessageKey string

const (
	MsgStarting         MessageKey = "status.starting"         // поиск камеры
	MsgNoCamera         MessageKey = "status.no_camera"        // камер нет
	MsgCameraError      MessageKey = "status.camera_error"     // %s: ошибка
	MsgScanning         MessageKey = "status.scanning"         // %s: имя камеры
	MsgRead             MessageKey = "status.read"             // %s: штрихкод
	MsgLookupFailed     MessageKey = "status.lookup_failed"    // %s: ошибка
	MsgRedirecting      MessageKey = "status.redirecting"      // %s: адрес
	MsgStopped          MessageKey = "status.stopped"          // сканирование прервано
	MsgNoBarcodeInImage MessageKey = "status.no_barcode_image" // на фото нет штрихкода
	MsgNotFoundAlert    MessageKey = "alert.product_not_found" // продукт не найден
)
