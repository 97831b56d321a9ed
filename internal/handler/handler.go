// Package handler содержит HTTP-обработчики API сервиса бургер-квин.
package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/FiorellaChilcon/LIM012-fe-burger-queen-api/internal/apperr"
	"github.com/FiorellaChilcon/LIM012-fe-burger-queen-api/internal/middleware"
	"github.com/FiorellaChilcon/LIM012-fe-burger-queen-api/internal/model"
	"github.com/FiorellaChilcon/LIM012-fe-burger-queen-api/internal/pagination"
	"github.com/FiorellaChilcon/LIM012-fe-burger-queen-api/internal/policy"
	"github.com/FiorellaChilcon/LIM012-fe-burger-queen-api/internal/reconcile"
	"github.com/FiorellaChilcon/LIM012-fe-burger-queen-api/internal/service"
	"github.com/FiorellaChilcon/LIM012-fe-burger-queen-api/internal/token"
)

// Service определяет контракт бизнес-логики, используемой HTTP-обработчиками.
type Service interface {
	Authenticate(ctx context.Context, email, password string) (string, *model.User, error)

	Register(ctx context.Context, email, password string, roles model.Roles) (*model.User, error)
	Account(ctx context.Context, caller *token.Claims, email string) (*model.User, error)
	Accounts(ctx context.Context, page, limit int) ([]model.User, int, error)
	UpdateAccount(ctx context.Context, caller *token.Claims, email string, patch policy.Patch) (*model.User, error)
	DeleteAccount(ctx context.Context, caller *token.Claims, email string) (*model.User, error)

	CreateProduct(ctx context.Context, name string, price decimal.Decimal, image, productType string) (*model.Product, error)
	Product(ctx context.Context, id string) (*model.Product, error)
	Products(ctx context.Context, page, limit int) ([]model.Product, int, error)
	UpdateProduct(ctx context.Context, id string, patch service.ProductPatch) (*model.Product, error)
	DeleteProduct(ctx context.Context, id string) (*model.Product, error)

	CreateOrder(ctx context.Context, userID string, items []reconcile.ItemRequest, totalOverride *decimal.Decimal) (*model.Order, error)
	Order(ctx context.Context, id string) (*model.Order, error)
	Orders(ctx context.Context, page, limit int) ([]model.Order, int, error)
	UpdateOrder(ctx context.Context, id string, patch service.OrderPatch) (*model.Order, error)
	DeleteOrder(ctx context.Context, id string) (*model.Order, error)
}

// Handler реализует HTTP-обработчики API сервиса бургер-квин.
type Handler struct {
	service        Service
	logger         *zap.Logger
	authMiddleware *middleware.AuthMiddleware
	metrics        *middleware.Metrics
	registry       *prometheus.Registry
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(s Service, logger *zap.Logger, auth *middleware.AuthMiddleware, metrics *middleware.Metrics, registry *prometheus.Registry) *Handler {
	return &Handler{
		service:        s,
		logger:         logger,
		authMiddleware: auth,
		metrics:        metrics,
		registry:       registry,
	}
}

// respondError переводит ошибку таксономии в числовой код границы.
// Внутренние ошибки логируются, наружу уходит только статус.
func (h *Handler) respondError(w http.ResponseWriter, err error) {
	code := apperr.StatusCode(err)
	if code == http.StatusInternalServerError {
		h.logger.Error("internal error", zap.Error(err))
	}
	http.Error(w, http.StatusText(code), code)
}

func (h *Handler) respondJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// setPageHeaders выставляет заголовки постраничного вывода.
func setPageHeaders(w http.ResponseWriter, r *http.Request, page, limit, total int) {
	w.Header().Set("X-Total-Count", strconv.Itoa(total))

	baseURL := "http://" + r.Host + r.URL.Path
	if r.TLS != nil {
		baseURL = "https://" + r.Host + r.URL.Path
	}

	link := pagination.LinkHeader(baseURL, page, limit, pagination.TotalPages(total, limit))
	if link != "" {
		w.Header().Set("Link", link)
	}
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

type authRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

// Auth выполняет аутентификацию и возвращает токен авторизации.
func (h *Handler) Auth(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	signed, u, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(w, err)
		return
	}

	w.Header().Set("Authorization", signed)
	h.respondJSON(w, authResponse{
		Token: signed,
		User:  newUserResponse(u),
	})
}
