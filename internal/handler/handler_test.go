package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/FiorellaChilcon/LIM012-fe-burger-queen-api/internal/apperr"
	"github.com/FiorellaChilcon/LIM012-fe-burger-queen-api/internal/middleware"
	"github.com/FiorellaChilcon/LIM012-fe-burger-queen-api/internal/model"
	"github.com/FiorellaChilcon/LIM012-fe-burger-queen-api/internal/policy"
	"github.com/FiorellaChilcon/LIM012-fe-burger-queen-api/internal/reconcile"
	"github.com/FiorellaChilcon/LIM012-fe-burger-queen-api/internal/service"
	"github.com/FiorellaChilcon/LIM012-fe-burger-queen-api/internal/token"
)

type stubService struct {
	authToken string
	authUser  *model.User
	authErr   error

	userResp  *model.User
	usersResp []model.User
	userTotal int
	userErr   error

	productResp  *model.Product
	productsResp []model.Product
	productTotal int
	productErr   error

	orderResp  *model.Order
	ordersResp []model.Order
	orderTotal int
	orderErr   error
}

func (s *stubService) Authenticate(ctx context.Context, email, password string) (string, *model.User, error) {
	return s.authToken, s.authUser, s.authErr
}

func (s *stubService) Register(ctx context.Context, email, password string, roles model.Roles) (*model.User, error) {
	return s.userResp, s.userErr
}

func (s *stubService) Account(ctx context.Context, caller *token.Claims, email string) (*model.User, error) {
	return s.userResp, s.userErr
}

func (s *stubService) Accounts(ctx context.Context, page, limit int) ([]model.User, int, error) {
	return s.usersResp, s.userTotal, s.userErr
}

func (s *stubService) UpdateAccount(ctx context.Context, caller *token.Claims, email string, patch policy.Patch) (*model.User, error) {
	return s.userResp, s.userErr
}

func (s *stubService) DeleteAccount(ctx context.Context, caller *token.Claims, email string) (*model.User, error) {
	return s.userResp, s.userErr
}

func (s *stubService) CreateProduct(ctx context.Context, name string, price decimal.Decimal, image, productType string) (*model.Product, error) {
	return s.productResp, s.productErr
}

func (s *stubService) Product(ctx context.Context, id string) (*model.Product, error) {
	return s.productResp, s.productErr
}

func (s *stubService) Products(ctx context.Context, page, limit int) ([]model.Product, int, error) {
	return s.productsResp, s.productTotal, s.productErr
}

func (s *stubService) UpdateProduct(ctx context.Context, id string, patch service.ProductPatch) (*model.Product, error) {
	return s.productResp, s.productErr
}

func (s *stubService) DeleteProduct(ctx context.Context, id string) (*model.Product, error) {
	return s.productResp, s.productErr
}

func (s *stubService) CreateOrder(ctx context.Context, userID string, items []reconcile.ItemRequest, totalOverride *decimal.Decimal) (*model.Order, error) {
	return s.orderResp, s.orderErr
}

func (s *stubService) Order(ctx context.Context, id string) (*model.Order, error) {
	return s.orderResp, s.orderErr
}

func (s *stubService) Orders(ctx context.Context, page, limit int) ([]model.Order, int, error) {
	return s.ordersResp, s.orderTotal, s.orderErr
}

func (s *stubService) UpdateOrder(ctx context.Context, id string, patch service.OrderPatch) (*model.Order, error) {
	return s.orderResp, s.orderErr
}

func (s *stubService) DeleteOrder(ctx context.Context, id string) (*model.Order, error) {
	return s.orderResp, s.orderErr
}

func newTestHandler(t *testing.T, svc Service) *Handler {
	t.Helper()

	logger, err := zap.NewDevelopment()
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	issuer := token.NewIssuer("test-secret", time.Hour)
	auth := middleware.NewAuthMiddleware(issuer)

	registry := prometheus.NewRegistry()
	metrics := middleware.NewMetrics(registry)

	return NewHandler(svc, logger, auth, metrics, registry)
}

func signedToken(t *testing.T, admin bool) string {
	t.Helper()

	issuer := token.NewIssuer("test-secret", time.Hour)
	signed, err := issuer.Sign("admin@localhost", admin)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestAuth_Success(t *testing.T) {
	svc := &stubService{
		authToken: "signed-token",
		authUser: &model.User{
			Email: "user@test.dev",
		},
	}
	h := newTestHandler(t, svc)

	body, _ := json.Marshal(authRequest{
		Email:    "user@test.dev",
		Password: "secret1",
	})

	req := httptest.NewRequest(http.MethodPost, "/auth", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Auth(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusOK)
	}
	if got := res.Header.Get("Authorization"); got != "signed-token" {
		t.Fatalf("Authorization = %q, want %q", got, "signed-token")
	}

	var resp authResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp.Token != "signed-token" {
		t.Fatalf("token = %q, want %q", resp.Token, "signed-token")
	}
	if resp.User.Email != "user@test.dev" {
		t.Fatalf("email = %q, want %q", resp.User.Email, "user@test.dev")
	}
}

func TestAuth_BadRequestOnMalformedBody(t *testing.T) {
	h := newTestHandler(t, &stubService{})

	req := httptest.NewRequest(http.MethodPost, "/auth", strings.NewReader("{"))
	rec := httptest.NewRecorder()

	h.Auth(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestCreateUser_DuplicateForbidden(t *testing.T) {
	svc := &stubService{
		userErr: apperr.ErrForbidden,
	}
	h := newTestHandler(t, svc)

	body, _ := json.Marshal(createUserRequest{
		Email:    "taken@test.dev",
		Password: "secret1",
	})

	req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.CreateUser(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestCreateUser_ResponseHidesPassword(t *testing.T) {
	svc := &stubService{
		userResp: &model.User{
			Email:        "user@test.dev",
			PasswordHash: []byte("bcrypt-hash"),
			Roles:        model.Roles{Admin: true},
		},
	}
	h := newTestHandler(t, svc)

	body, _ := json.Marshal(createUserRequest{
		Email:    "user@test.dev",
		Password: "secret1",
	})

	req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.CreateUser(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusOK)
	}

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	lower := strings.ToLower(string(raw))
	if strings.Contains(lower, "password") || strings.Contains(lower, "hash") {
		t.Fatalf("response leaks credentials: %s", raw)
	}
}

func TestGetUser_UnauthorizedWithoutClaims(t *testing.T) {
	h := newTestHandler(t, &stubService{})

	req := httptest.NewRequest(http.MethodGet, "/users/user@test.dev", nil)
	rec := httptest.NewRecorder()

	h.GetUser(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestGetUsers_PageHeaders(t *testing.T) {
	svc := &stubService{
		usersResp: []model.User{{Email: "a@test.dev"}},
		userTotal: 25,
	}
	h := newTestHandler(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/users?page=2&limit=10", nil)
	req.Header.Set("Authorization", signedToken(t, true))

	rec := httptest.NewRecorder()

	withAuth := h.authMiddleware.Middleware(h.authMiddleware.RequireAdmin(http.HandlerFunc(h.GetUsers)))
	withAuth.ServeHTTP(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusOK)
	}
	if got := res.Header.Get("X-Total-Count"); got != "25" {
		t.Fatalf("X-Total-Count = %q, want %q", got, "25")
	}

	link := res.Header.Get("Link")
	for _, rel := range []string{`rel="first"`, `rel="prev"`, `rel="next"`, `rel="last"`} {
		if !strings.Contains(link, rel) {
			t.Fatalf("Link header %q misses %s", link, rel)
		}
	}
}

func TestGetUsers_ForbiddenForNonAdmin(t *testing.T) {
	h := newTestHandler(t, &stubService{})

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("Authorization", signedToken(t, false))

	rec := httptest.NewRecorder()

	withAuth := h.authMiddleware.Middleware(h.authMiddleware.RequireAdmin(http.HandlerFunc(h.GetUsers)))
	withAuth.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestGetOrder_NotFound(t *testing.T) {
	svc := &stubService{
		orderErr: apperr.ErrNotFound,
	}
	h := newTestHandler(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/orders/missing", nil)
	rec := httptest.NewRecorder()

	h.GetOrder(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestCreateOrder_JSONResponse(t *testing.T) {
	now := time.Now().UTC()
	svc := &stubService{
		orderResp: &model.Order{
			ID:        uuid.New(),
			UserID:    "user@test.dev",
			Items:     nil,
			Total:     decimal.Zero,
			Status:    model.OrderStatusPending,
			DateEntry: now,
		},
	}
	h := newTestHandler(t, svc)

	body, _ := json.Marshal(createOrderRequest{
		UserID:   "user@test.dev",
		Products: []reconcile.ItemRequest{},
	})

	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.CreateOrder(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusOK)
	}
	if ct := res.Header.Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content-type = %q, want application/json", ct)
	}

	var resp orderResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp.Products == nil {
		t.Fatal("products = nil, want empty array")
	}
	if resp.Status != string(model.OrderStatusPending) {
		t.Fatalf("status = %q, want %q", resp.Status, model.OrderStatusPending)
	}
	if resp.DateProcessed != "" {
		t.Fatalf("dateProcessed = %q, want empty", resp.DateProcessed)
	}
}

func TestGetProduct_PriceAsBareNumber(t *testing.T) {
	svc := &stubService{
		productResp: &model.Product{
			ID:        uuid.New(),
			Name:      "burger",
			Price:     decimal.RequireFromString("10.50"),
			DateEntry: time.Now().UTC(),
		},
	}
	h := newTestHandler(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/products/abc", nil)
	rec := httptest.NewRecorder()

	h.GetProduct(rec, req)

	raw := rec.Body.String()
	if !strings.Contains(raw, `"price":10.5`) {
		t.Fatalf("price must serialize as a JSON number, got %s", raw)
	}
	if strings.Contains(raw, `"price":"`) {
		t.Fatalf("price serialized as a string: %s", raw)
	}
}

func TestGetOrder_TotalAsBareNumber(t *testing.T) {
	svc := &stubService{
		orderResp: &model.Order{
			ID:        uuid.New(),
			UserID:    "user@test.dev",
			Total:     decimal.NewFromInt(41),
			Status:    model.OrderStatusPending,
			DateEntry: time.Now().UTC(),
		},
	}
	h := newTestHandler(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/orders/abc", nil)
	rec := httptest.NewRecorder()

	h.GetOrder(rec, req)

	raw := rec.Body.String()
	if !strings.Contains(raw, `"total":41`) {
		t.Fatalf("total must serialize as a JSON number, got %s", raw)
	}
}

func TestUpdateOrder_BadRequestOnMalformedBody(t *testing.T) {
	h := newTestHandler(t, &stubService{})

	req := httptest.NewRequest(http.MethodPut, "/orders/abc", strings.NewReader("not json"))
	rec := httptest.NewRecorder()

	h.UpdateOrder(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestUpdateProduct_InternalHidesDetails(t *testing.T) {
	svc := &stubService{
		productErr: apperr.ErrInternal,
	}
	h := newTestHandler(t, svc)

	req := httptest.NewRequest(http.MethodPut, "/products/abc", strings.NewReader("{}"))
	rec := httptest.NewRecorder()

	h.UpdateProduct(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusInternalServerError)
	}

	raw, _ := io.ReadAll(res.Body)
	if got := strings.TrimSpace(string(raw)); got != http.StatusText(http.StatusInternalServerError) {
		t.Fatalf("body = %q, want bare status text", got)
	}
}
