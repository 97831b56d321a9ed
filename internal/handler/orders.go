package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/FiorellaChilcon/LIM012-fe-burger-queen-api/internal/model"
	"github.com/FiorellaChilcon/LIM012-fe-burger-queen-api/internal/pagination"
	"github.com/FiorellaChilcon/LIM012-fe-burger-queen-api/internal/reconcile"
	"github.com/FiorellaChilcon/LIM012-fe-burger-queen-api/internal/service"
)

type orderResponse struct {
	ID            string           `json:"id"`
	UserID        string           `json:"userId"`
	Products      []model.LineItem `json:"products"`
	Total         decimal.Decimal  `json:"total"`
	Status        string           `json:"status"`
	DateEntry     string           `json:"dateEntry"`
	DateProcessed string           `json:"dateProcessed,omitempty"`
}

func newOrderResponse(o *model.Order) orderResponse {
	resp := orderResponse{
		ID:        o.ID.String(),
		UserID:    o.UserID,
		Products:  o.Items,
		Total:     o.Total,
		Status:    string(o.Status),
		DateEntry: formatTime(o.DateEntry),
	}
	if resp.Products == nil {
		resp.Products = []model.LineItem{}
	}
	if o.DateProcessed != nil {
		resp.DateProcessed = formatTime(*o.DateProcessed)
	}
	return resp
}

type createOrderRequest struct {
	UserID   string                  `json:"userId"`
	Products []reconcile.ItemRequest `json:"products"`
	Total    *decimal.Decimal        `json:"total"`
}

// CreateOrder создаёт заказ из переданных позиций.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	o, err := h.service.CreateOrder(r.Context(), req.UserID, req.Products, req.Total)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, newOrderResponse(o))
}

// GetOrders возвращает страницу заказов в порядке их создания.
func (h *Handler) GetOrders(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination.Bounds(r.URL.Query())

	orders, total, err := h.service.Orders(r.Context(), page, limit)
	if err != nil {
		h.respondError(w, err)
		return
	}

	resp := make([]orderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, newOrderResponse(&orders[i]))
	}

	setPageHeaders(w, r, page, limit, total)
	h.respondJSON(w, resp)
}

// GetOrder возвращает один заказ по идентификатору.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.Order(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, newOrderResponse(o))
}

type updateOrderRequest struct {
	UserID   *string                 `json:"userId"`
	Status   *string                 `json:"status"`
	Products []reconcile.ItemRequest `json:"products"`
	Total    *decimal.Decimal        `json:"total"`
}

// UpdateOrder применяет частичное обновление заказа, включая
// согласование позиций с сохранённым состоянием.
func (h *Handler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	var req updateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	patch := service.OrderPatch{
		UserID:   req.UserID,
		Products: req.Products,
		Total:    req.Total,
	}
	if req.Status != nil {
		status := model.OrderStatus(*req.Status)
		patch.Status = &status
	}

	o, err := h.service.UpdateOrder(r.Context(), chi.URLParam(r, "orderId"), patch)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, newOrderResponse(o))
}

// DeleteOrder удаляет заказ и возвращает его последнее состояние.
func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.DeleteOrder(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, newOrderResponse(o))
}
