// Package service реализует бизнес-логику сервиса бургер-квин: жизненный
// цикл заказов с согласованием позиций, операции над учётными записями
// через пополевую политику авторизации и работу с каталогом продуктов.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/FiorellaChilcon/LIM012-fe-burger-queen-api/internal/apperr"
	"github.com/FiorellaChilcon/LIM012-fe-burger-queen-api/internal/events"
	"github.com/FiorellaChilcon/LIM012-fe-burger-queen-api/internal/model"
	"github.com/FiorellaChilcon/LIM012-fe-burger-queen-api/internal/policy"
	"github.com/FiorellaChilcon/LIM012-fe-burger-queen-api/internal/reconcile"
	"github.com/FiorellaChilcon/LIM012-fe-burger-queen-api/internal/repository"
	"github.com/FiorellaChilcon/LIM012-fe-burger-queen-api/internal/token"
	"github.com/FiorellaChilcon/LIM012-fe-burger-queen-api/internal/validation"
)

// Repository описывает контракт доступа к данным, используемый сервисом.
type Repository interface {
	Close() error

	CreateAccount(ctx context.Context, u *model.User) error
	AccountByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateAccount(ctx context.Context, email string, u *model.User) error
	DeleteAccount(ctx context.Context, email string) error
	ListAccounts(ctx context.Context, page, limit int) ([]model.User, int, error)

	CreateProduct(ctx context.Context, p *model.Product) error
	ProductByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	UpdateProduct(ctx context.Context, p *model.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	ListProducts(ctx context.Context, page, limit int) ([]model.Product, int, error)

	InsertOrder(ctx context.Context, o *model.Order) error
	OrderByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	UpdateOrder(ctx context.Context, o *model.Order) error
	DeleteOrder(ctx context.Context, id uuid.UUID) error
	ListOrders(ctx context.Context, page, limit int) ([]model.Order, int, error)
}

// Service содержит бизнес-логику сервиса бургер-квин.
type Service struct {
	repo     Repository
	resolver *reconcile.Resolver
	issuer   *token.Issuer
	producer *events.Producer
	hasher   bcryptHasher
}

// NewService создаёт сервис с указанным репозиторием, эмитентом токенов и
// опциональным продюсером событий (nil — события не публикуются).
func NewService(repo Repository, issuer *token.Issuer, producer *events.Producer) *Service {
	return &Service{
		repo:     repo,
		resolver: reconcile.NewResolver(repo),
		issuer:   issuer,
		producer: producer,
	}
}

// Close закрывает ресурсы сервиса.
func (s *Service) Close() error {
	if s.repo != nil {
		return s.repo.Close()
	}
	return nil
}

type bcryptHasher struct{}

func (bcryptHasher) Hash(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

func (bcryptHasher) Verify(password string, digest []byte) bool {
	return bcrypt.CompareHashAndPassword(digest, []byte(password)) == nil
}

// classify переводит ошибки хранилища и каталога в таксономию сервиса.
// Сырые низкоуровневые ошибки за границу операции не выходят.
func classify(err error) error {
	switch {
	case errors.Is(err, apperr.ErrBadRequest),
		errors.Is(err, apperr.ErrForbidden),
		errors.Is(err, apperr.ErrNotFound),
		errors.Is(err, apperr.ErrConflict),
		errors.Is(err, apperr.ErrInternal):
		return err
	case errors.Is(err, repository.ErrAccountNotFound),
		errors.Is(err, repository.ErrOrderNotFound),
		errors.Is(err, repository.ErrProductNotFound),
		errors.Is(err, reconcile.ErrUnknownProduct):
		return fmt.Errorf("%w: %v", apperr.ErrNotFound, err)
	case errors.Is(err, reconcile.ErrNegativeQuantity):
		return fmt.Errorf("%w: %v", apperr.ErrBadRequest, err)
	case errors.Is(err, repository.ErrAccountExists):
		// Исторический контракт границы: занятый email отклоняется кодом 403.
		return fmt.Errorf("%w: %v", apperr.ErrForbidden, err)
	default:
		return fmt.Errorf("%w: %v", apperr.ErrInternal, err)
	}
}

// Authenticate проверяет учётные данные и выпускает токен авторизации.
func (s *Service) Authenticate(ctx context.Context, email, password string) (string, *model.User, error) {
	if email == "" || password == "" {
		return "", nil, fmt.Errorf("%w: email and password are required", apperr.ErrBadRequest)
	}

	u, err := s.repo.AccountByEmail(ctx, email)
	if err != nil {
		return "", nil, classify(err)
	}

	if !s.hasher.Verify(password, u.PasswordHash) {
		return "", nil, fmt.Errorf("%w: invalid credentials", apperr.ErrForbidden)
	}

	signed, err := s.issuer.Sign(u.Email, u.Roles.Admin)
	if err != nil {
		return "", nil, classify(err)
	}

	return signed, u, nil
}

// Register создаёт новую учётную запись.
func (s *Service) Register(ctx context.Context, email, password string, roles model.Roles) (*model.User, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", apperr.ErrBadRequest)
	}
	if !validation.IsValidEmail(email) {
		return nil, fmt.Errorf("%w: invalid email", apperr.ErrBadRequest)
	}
	if !validation.IsStrongPassword(password) {
		return nil, fmt.Errorf("%w: password is too weak", apperr.ErrBadRequest)
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return nil, classify(err)
	}

	u := &model.User{
		Email:        email,
		PasswordHash: digest,
		Roles:        roles,
		CreatedAt:    time.Now(),
	}

	if err := s.repo.CreateAccount(ctx, u); err != nil {
		return nil, classify(err)
	}

	return u, nil
}

// canAccessAccount разрешает операцию над учётной записью самому
// пользователю и администратору.
func canAccessAccount(caller *token.Claims, email string) bool {
	return caller != nil && (caller.Admin || caller.UID == email)
}

// Account возвращает учётную запись по email.
func (s *Service) Account(ctx context.Context, caller *token.Claims, email string) (*model.User, error) {
	if !canAccessAccount(caller, email) {
		return nil, fmt.Errorf("%w: not an admin and not the account owner", apperr.ErrForbidden)
	}

	u, err := s.repo.AccountByEmail(ctx, email)
	if err != nil {
		return nil, classify(err)
	}
	return u, nil
}

// Accounts возвращает страницу учётных записей и общее их число.
func (s *Service) Accounts(ctx context.Context, page, limit int) ([]model.User, int, error) {
	users, total, err := s.repo.ListAccounts(ctx, page, limit)
	if err != nil {
		return nil, 0, classify(err)
	}
	return users, total, nil
}

// UpdateAccount изменяет учётную запись в пределах набора полей,
// разрешённого политикой авторизации для данного вызывающего.
func (s *Service) UpdateAccount(ctx context.Context, caller *token.Claims, email string, patch policy.Patch) (*model.User, error) {
	if !canAccessAccount(caller, email) {
		return nil, fmt.Errorf("%w: not an admin and not the account owner", apperr.ErrForbidden)
	}

	target, err := s.repo.AccountByEmail(ctx, email)
	if err != nil {
		return nil, classify(err)
	}

	callerRoles := model.Roles{Admin: caller.Admin}
	if _, err := policy.Authorize(patch, callerRoles, target); err != nil {
		return nil, err
	}

	if err := policy.Apply(target, patch, s.hasher); err != nil {
		return nil, classify(err)
	}

	if err := s.repo.UpdateAccount(ctx, email, target); err != nil {
		return nil, classify(err)
	}

	return target, nil
}

// DeleteAccount удаляет учётную запись и возвращает её последнее состояние.
func (s *Service) DeleteAccount(ctx context.Context, caller *token.Claims, email string) (*model.User, error) {
	if !canAccessAccount(caller, email) {
		return nil, fmt.Errorf("%w: not an admin and not the account owner", apperr.ErrForbidden)
	}

	u, err := s.repo.AccountByEmail(ctx, email)
	if err != nil {
		return nil, classify(err)
	}

	if err := s.repo.DeleteAccount(ctx, email); err != nil {
		return nil, classify(err)
	}

	return u, nil
}

// ProductPatch описывает частичное изменение продукта каталога.
type ProductPatch struct {
	Name  *string
	Price *decimal.Decimal
	Image *string
	Type  *string
}

// CreateProduct добавляет продукт в каталог.
func (s *Service) CreateProduct(ctx context.Context, name string, price decimal.Decimal, image, productType string) (*model.Product, error) {
	if name == "" || !price.IsPositive() {
		return nil, fmt.Errorf("%w: name and positive price are required", apperr.ErrBadRequest)
	}

	p := &model.Product{
		ID:        uuid.New(),
		Name:      name,
		Price:     price,
		Image:     image,
		Type:      productType,
		DateEntry: time.Now(),
	}

	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return nil, classify(err)
	}

	return p, nil
}

// Product возвращает продукт каталога. Некорректный идентификатор
// неотличим от отсутствующего продукта: оба случая дают NotFound.
func (s *Service) Product(ctx context.Context, id string) (*model.Product, error) {
	pid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: product %q", apperr.ErrNotFound, id)
	}

	p, err := s.repo.ProductByID(ctx, pid)
	if err != nil {
		return nil, classify(err)
	}
	return p, nil
}

// Products возвращает страницу каталога и общее число продуктов.
func (s *Service) Products(ctx context.Context, page, limit int) ([]model.Product, int, error) {
	products, total, err := s.repo.ListProducts(ctx, page, limit)
	if err != nil {
		return nil, 0, classify(err)
	}
	return products, total, nil
}

// UpdateProduct изменяет продукт каталога.
func (s *Service) UpdateProduct(ctx context.Context, id string, patch ProductPatch) (*model.Product, error) {
	if patch.Name == nil && patch.Price == nil && patch.Image == nil && patch.Type == nil {
		return nil, fmt.Errorf("%w: nothing to update", apperr.ErrBadRequest)
	}

	pid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: product %q", apperr.ErrNotFound, id)
	}

	p, err := s.repo.ProductByID(ctx, pid)
	if err != nil {
		return nil, classify(err)
	}

	if patch.Name != nil {
		if *patch.Name == "" {
			return nil, fmt.Errorf("%w: empty product name", apperr.ErrBadRequest)
		}
		p.Name = *patch.Name
	}
	if patch.Price != nil {
		if !patch.Price.IsPositive() {
			return nil, fmt.Errorf("%w: price must be positive", apperr.ErrBadRequest)
		}
		p.Price = *patch.Price
	}
	if patch.Image != nil {
		p.Image = *patch.Image
	}
	if patch.Type != nil {
		p.Type = *patch.Type
	}

	if err := s.repo.UpdateProduct(ctx, p); err != nil {
		return nil, classify(err)
	}

	return p, nil
}

// DeleteProduct удаляет продукт из каталога и возвращает его последнее состояние.
func (s *Service) DeleteProduct(ctx context.Context, id string) (*model.Product, error) {
	pid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: product %q", apperr.ErrNotFound, id)
	}

	p, err := s.repo.ProductByID(ctx, pid)
	if err != nil {
		return nil, classify(err)
	}

	if err := s.repo.DeleteProduct(ctx, pid); err != nil {
		return nil, classify(err)
	}

	return p, nil
}

// CreateOrder создаёт заказ: разрешает ценовые снимки всех позиций по
// текущему каталогу и вычисляет сумму, если вызывающая сторона не передала
// собственную. Вход проходит то же согласование, что и обновление заказа
// (с пустым сохранённым состоянием): повторные упоминания продукта
// схлопываются в одну позицию, нулевые количества отбрасываются.
func (s *Service) CreateOrder(ctx context.Context, userID string, items []reconcile.ItemRequest, totalOverride *decimal.Decimal) (*model.Order, error) {
	if userID == "" || items == nil {
		return nil, fmt.Errorf("%w: userId and products are required", apperr.ErrBadRequest)
	}

	kept, total, err := s.resolver.Reconcile(ctx, nil, items)
	if err != nil {
		return nil, classify(err)
	}

	if totalOverride != nil {
		total = *totalOverride
	}

	o := &model.Order{
		ID:        uuid.New(),
		UserID:    userID,
		Items:     kept,
		Total:     total,
		Status:    model.OrderStatusPending,
		DateEntry: time.Now(),
	}

	if err := s.repo.InsertOrder(ctx, o); err != nil {
		// Отказ фиксации заказа трактуется как ошибка валидации данных.
		return nil, fmt.Errorf("%w: %v", apperr.ErrBadRequest, err)
	}

	s.producer.OrderCreated(ctx, o)

	return o, nil
}

// Order возвращает заказ по идентификатору. Некорректный идентификатор
// неотличим от отсутствующего заказа: оба случая дают NotFound.
func (s *Service) Order(ctx context.Context, id string) (*model.Order, error) {
	oid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: order %q", apperr.ErrNotFound, id)
	}

	o, err := s.repo.OrderByID(ctx, oid)
	if err != nil {
		return nil, classify(err)
	}
	return o, nil
}

// Orders возвращает страницу заказов и общее их число.
func (s *Service) Orders(ctx context.Context, page, limit int) ([]model.Order, int, error) {
	orders, total, err := s.repo.ListOrders(ctx, page, limit)
	if err != nil {
		return nil, 0, classify(err)
	}
	return orders, total, nil
}

// OrderPatch описывает частичное обновление заказа. Отсутствующее поле
// (nil) не изменяется; Products nil означает, что позиции не затронуты.
type OrderPatch struct {
	UserID   *string
	Status   *model.OrderStatus
	Products []reconcile.ItemRequest
	Total    *decimal.Decimal
}

// IsEmpty сообщает, что обновление не затрагивает ни одного поля заказа.
func (p OrderPatch) IsEmpty() bool {
	return p.UserID == nil && p.Status == nil && p.Products == nil && p.Total == nil
}

// UpdateOrder применяет частичное обновление заказа. Если затронуты
// позиции, выполняется согласование с сохранённым заказом; переход в
// статус delivered ставит отметку времени обработки в том же обновлении.
func (s *Service) UpdateOrder(ctx context.Context, id string, patch OrderPatch) (*model.Order, error) {
	if patch.IsEmpty() {
		return nil, fmt.Errorf("%w: empty order patch", apperr.ErrBadRequest)
	}

	oid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: order %q", apperr.ErrNotFound, id)
	}

	o, err := s.repo.OrderByID(ctx, oid)
	if err != nil {
		return nil, classify(err)
	}

	if patch.Products != nil {
		items, total, err := s.resolver.Reconcile(ctx, o.Items, patch.Products)
		if err != nil {
			return nil, classify(err)
		}
		o.Items = items
		o.Total = total
	}

	if patch.Total != nil {
		o.Total = *patch.Total
	}

	if patch.Status != nil {
		if !patch.Status.IsValid() {
			return nil, fmt.Errorf("%w: unknown status %q", apperr.ErrBadRequest, *patch.Status)
		}
		o.Status = *patch.Status
		if *patch.Status == model.OrderStatusDelivered {
			now := time.Now()
			o.DateProcessed = &now
		}
	}

	if patch.UserID != nil {
		o.UserID = *patch.UserID
	}

	if err := s.repo.UpdateOrder(ctx, o); err != nil {
		return nil, classify(err)
	}

	s.producer.OrderUpdated(ctx, o)

	return o, nil
}

// DeleteOrder удаляет заказ и возвращает его последнее состояние.
func (s *Service) DeleteOrder(ctx context.Context, id string) (*model.Order, error) {
	oid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: order %q", apperr.ErrNotFound, id)
	}

	o, err := s.repo.OrderByID(ctx, oid)
	if err != nil {
		return nil, classify(err)
	}

	if err := s.repo.DeleteOrder(ctx, oid); err != nil {
		return nil, classify(err)
	}

	s.producer.OrderDeleted(ctx, o)

	return o, nil
}

// EnsureAdmin создаёт стартовую административную учётную запись, если её
// ещё нет. Существующая запись без роли администратора повышается до неё.
// Вызывается при запуске процесса.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	u, err := s.repo.AccountByEmail(ctx, email)
	if err == nil {
		if u.Roles.Admin {
			return nil
		}
		u.Roles.Admin = true
		if err := s.repo.UpdateAccount(ctx, email, u); err != nil {
			return classify(err)
		}
		return nil
	}
	if !errors.Is(err, repository.ErrAccountNotFound) {
		return classify(err)
	}

	_, err = s.Register(ctx, email, password, model.Roles{Admin: true})
	return err
}
