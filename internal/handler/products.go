package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/FiorellaChilcon/LIM012-fe-burger-queen-api/internal/model"
	"github.com/FiorellaChilcon/LIM012-fe-burger-queen-api/internal/pagination"
	"github.com/FiorellaChilcon/LIM012-fe-burger-queen-api/internal/service"
)

type productResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image,omitempty"`
	Type      string          `json:"type,omitempty"`
	DateEntry string          `json:"dateEntry"`
}

func newProductResponse(p *model.Product) productResponse {
	return productResponse{
		ID:        p.ID.String(),
		Name:      p.Name,
		Price:     p.Price,
		Image:     p.Image,
		Type:      p.Type,
		DateEntry: formatTime(p.DateEntry),
	}
}

type createProductRequest struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image"`
	Type  string          `json:"type"`
}

// CreateProduct добавляет продукт в каталог.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	p, err := h.service.CreateProduct(r.Context(), req.Name, req.Price, req.Image, req.Type)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, newProductResponse(p))
}

// GetProducts возвращает страницу каталога продуктов.
func (h *Handler) GetProducts(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination.Bounds(r.URL.Query())

	products, total, err := h.service.Products(r.Context(), page, limit)
	if err != nil {
		h.respondError(w, err)
		return
	}

	resp := make([]productResponse, 0, len(products))
	for i := range products {
		resp = append(resp, newProductResponse(&products[i]))
	}

	setPageHeaders(w, r, page, limit, total)
	h.respondJSON(w, resp)
}

// GetProduct возвращает один продукт каталога.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Product(r.Context(), chi.URLParam(r, "productId"))
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, newProductResponse(p))
}

type updateProductRequest struct {
	Name  *string          `json:"name"`
	Price *decimal.Decimal `json:"price"`
	Image *string          `json:"image"`
	Type  *string          `json:"type"`
}

// UpdateProduct изменяет продукт каталога.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req updateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	p, err := h.service.UpdateProduct(r.Context(), chi.URLParam(r, "productId"), service.ProductPatch{
		Name:  req.Name,
		Price: req.Price,
		Image: req.Image,
		Type:  req.Type,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, newProductResponse(p))
}

// DeleteProduct удаляет продукт каталога.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.DeleteProduct(r.Context(), chi.URLParam(r, "productId"))
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, newProductResponse(p))
}
