package port

import (
	"context"

	"barcode-scanner/internal/domain/entity"
)

// ProductLookup интерфейс сервиса поиска продукта по штрихкоду
type ProductLookup interface {
	// Lookup выполняет ровно один запрос. Сетевые ошибки оборачивают entity.ErrLookupNetwork.
	Lookup(ctx context.Context, barcode string) (*entity.LookupResponse, error)
}
