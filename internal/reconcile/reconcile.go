// Package reconcile реализует слияние позиций заказа с частичным
// обновлением и разрешение ценовых снимков по каталогу продуктов.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/FiorellaChilcon/LIM012-fe-burger-queen-api/internal/model"
)

// ErrUnknownProduct возвращается, если ссылка на продукт не разрешается каталогом.
var ErrUnknownProduct = errors.New("unknown product")

// ErrNegativeQuantity возвращается для входной позиции с отрицательным
// количеством. Количество позиции всегда неотрицательно; ноль означает
// удаление.
var ErrNegativeQuantity = errors.New("negative quantity")

// ItemRequest описывает входную пару «ссылка на продукт — количество».
type ItemRequest struct {
	ProductID string `json:"productId"`
	Qty       int    `json:"qty"`
}

// Catalog определяет контракт каталога продуктов, используемый при
// разрешении ценовых снимков.
type Catalog interface {
	ProductByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
}

// Resolver разрешает ссылки на продукты в ценовые снимки по текущему
// состоянию каталога.
type Resolver struct {
	catalog Catalog
}

// NewResolver создаёт Resolver поверх указанного каталога.
func NewResolver(catalog Catalog) *Resolver {
	return &Resolver{catalog: catalog}
}

// NormalizeRef приводит ссылку на продукт к каноничной строковой форме.
// Обе стороны сравнения идентичности позиций проходят через эту функцию.
func NormalizeRef(ref string) string {
	return strings.ToLower(strings.TrimSpace(ref))
}

// Resolve разрешает каждую входную пару в позицию заказа с актуальной
// ценой каталога. Любая неразрешимая ссылка отменяет весь пакет:
// частичного результата не бывает.
func (r *Resolver) Resolve(ctx context.Context, items []ItemRequest) ([]model.LineItem, error) {
	if len(items) == 0 {
		return nil, nil
	}

	res := make([]model.LineItem, 0, len(items))
	for _, in := range items {
		if in.Qty < 0 {
			return nil, fmt.Errorf("%w: %d for product %q", ErrNegativeQuantity, in.Qty, in.ProductID)
		}

		id, err := uuid.Parse(NormalizeRef(in.ProductID))
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownProduct, in.ProductID)
		}

		p, err := r.catalog.ProductByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("resolve product %s: %w", in.ProductID, err)
		}

		res = append(res, model.LineItem{
			Product: model.ProductSnapshot{
				ID:    p.ID,
				Name:  p.Name,
				Price: p.Price,
			},
			Qty: in.Qty,
		})
	}

	return res, nil
}

// Reconcile сливает сохранённые позиции заказа с частичным обновлением.
// Позиции, чей продукт упомянут во входе, получают новое количество и
// сохраняют прежний ценовой снимок; позиции с нулевым количеством
// удаляются. Снимки запрашиваются у каталога только для продуктов,
// отсутствующих в заказе, — цена позиции фиксируется при первом
// появлении продукта в заказе.
func (r *Resolver) Reconcile(ctx context.Context, existing []model.LineItem, incoming []ItemRequest) ([]model.LineItem, decimal.Decimal, error) {
	touched := make(map[string]int, len(incoming))
	for _, in := range incoming {
		if in.Qty < 0 {
			return nil, decimal.Zero, fmt.Errorf("%w: %d for product %q", ErrNegativeQuantity, in.Qty, in.ProductID)
		}

		k := NormalizeRef(in.ProductID)
		if _, ok := touched[k]; ok {
			continue
		}
		touched[k] = in.Qty
	}

	next := make([]model.LineItem, 0, len(existing)+len(incoming))
	existingKeys := make(map[string]bool, len(existing))
	for _, it := range existing {
		k := NormalizeRef(it.Product.ID.String())
		existingKeys[k] = true
		if qty, ok := touched[k]; ok {
			it.Qty = qty
		}
		if it.Qty == 0 {
			continue
		}
		next = append(next, it)
	}

	var fresh []ItemRequest
	seen := make(map[string]bool, len(incoming))
	for _, in := range incoming {
		k := NormalizeRef(in.ProductID)
		if existingKeys[k] || seen[k] {
			continue
		}
		seen[k] = true
		fresh = append(fresh, in)
	}

	resolved, err := r.Resolve(ctx, fresh)
	if err != nil {
		return nil, decimal.Zero, err
	}
	for _, it := range resolved {
		if it.Qty == 0 {
			continue
		}
		next = append(next, it)
	}

	return next, Total(next), nil
}

// Total возвращает сумму Price*Qty по всем позициям.
// Для пустого набора позиций возвращается ноль.
func Total(items []model.LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Product.Price.Mul(decimal.NewFromInt(int64(it.Qty))))
	}
	return total
}
