// Package model содержит доменные сущности сервиса бургер-квин.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Денежные значения сериализуются числами JSON, а не строками.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Roles описывает набор ролей учётной записи.
type Roles struct {
	Admin bool `json:"admin"`
}

// User представляет учётную запись пользователя. Ключом записи служит email.
// PasswordHash никогда не попадает во внешние представления сущности.
type User struct {
	Email        string
	PasswordHash []byte
	Roles        Roles
	CreatedAt    time.Time
}

// Product описывает позицию каталога продуктов.
type Product struct {
	ID        uuid.UUID
	Name      string
	Price     decimal.Decimal
	Image     string
	Type      string
	DateEntry time.Time
}

// ProductSnapshot фиксирует состояние продукта на момент попадания в заказ.
// После фиксации снимок не изменяется и не перечитывается из каталога.
type ProductSnapshot struct {
	ID    uuid.UUID       `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// LineItem описывает позицию заказа. Идентичность позиции определяется
// идентификатором продукта; позиция с нулевым количеством не сохраняется.
type LineItem struct {
	Product ProductSnapshot `json:"product"`
	Qty     int             `json:"qty"`
}

// OrderStatus описывает статус обработки заказа.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusPreparing  OrderStatus = "preparing"
	OrderStatusDelivering OrderStatus = "delivering"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCanceled   OrderStatus = "canceled"
)

// IsValid сообщает, является ли значение одним из известных статусов заказа.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPreparing, OrderStatusDelivering,
		OrderStatusDelivered, OrderStatusCanceled:
		return true
	}
	return false
}

// Order описывает заказ пользователя. Инвариант: Total равен сумме
// Price*Qty по всем позициям, если вызывающая сторона явно не передала
// собственное значение; позиции не содержат дублирующихся продуктов.
type Order struct {
	ID            uuid.UUID
	UserID        string
	Items         []LineItem
	Total         decimal.Decimal
	Status        OrderStatus
	DateEntry     time.Time
	DateProcessed *time.Time
}
