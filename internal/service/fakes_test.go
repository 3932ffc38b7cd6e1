package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/storefront-next/internal/models"
)

type cartAPIStub struct {
	mu sync.Mutex

	cart       *models.Cart
	getErr     error
	getGate    chan struct{}
	addErr     error
	updateErr  error
	removeErr  error
	removeGate chan struct{}
	entered    chan struct{}

	getCalls    int32
	updateCalls int32
	removeCalls int32
	updates     []models.CartMutation
}

func (s *cartAPIStub) GetCart(ctx context.Context, userID uint) (*models.Cart, error) {
	atomic.AddInt32(&s.getCalls, 1)
	if s.getGate != nil {
		<-s.getGate
	}
	if s.getErr != nil {
		return nil, s.getErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cart := *s.cart
	cart.CartItems = append([]models.CartItem(nil), s.cart.CartItems...)
	return &cart, nil
}

func (s *cartAPIStub) AddToCart(ctx context.Context, input models.CartMutation) (*models.CartItem, error) {
	if s.addErr != nil {
		return nil, s.addErr
	}
	return &models.CartItem{CartID: 1, CartItemID: 99, ProductID: input.ProductID, Quantity: input.Quantity}, nil
}

func (s *cartAPIStub) UpdateCartItem(ctx context.Context, input models.CartMutation) (*models.CartItem, error) {
	atomic.AddInt32(&s.updateCalls, 1)
	s.mu.Lock()
	s.updates = append(s.updates, input)
	s.mu.Unlock()
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	return &models.CartItem{CartID: 1, ProductID: input.ProductID, Quantity: input.Quantity}, nil
}

func (s *cartAPIStub) RemoveCartItem(ctx context.Context, productID uint) error {
	atomic.AddInt32(&s.removeCalls, 1)
	if s.entered != nil {
		s.entered <- struct{}{}
	}
	if s.removeGate != nil {
		<-s.removeGate
	}
	return s.removeErr
}

type orderAPIStub struct {
	mu sync.Mutex

	createGate  chan struct{}
	createErr   error
	createCalls int32
	drafts      []models.OrderDraft
	order       models.Order

	getOrder  *models.Order
	getErr    error
	deleteErr error

	settleErr   error
	settleCalls int32
	callbacks   []models.PaymentCallback
}

func (s *orderAPIStub) CreateOrder(ctx context.Context, draft models.OrderDraft) (*models.CheckoutResponse, error) {
	atomic.AddInt32(&s.createCalls, 1)
	s.mu.Lock()
	s.drafts = append(s.drafts, draft)
	s.mu.Unlock()
	if s.createGate != nil {
		<-s.createGate
	}
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &models.CheckoutResponse{Order: s.order, PaymentURL: s.order.PaymentURL}, nil
}

func (s *orderAPIStub) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	if s.getOrder != nil {
		order := *s.getOrder
		return &order, nil
	}
	order := s.order
	return &order, nil
}

func (s *orderAPIStub) DeleteOrder(ctx context.Context, orderID string) error {
	return s.deleteErr
}

func (s *orderAPIStub) UpdatePaymentStatus(ctx context.Context, callback models.PaymentCallback) error {
	atomic.AddInt32(&s.settleCalls, 1)
	s.mu.Lock()
	s.callbacks = append(s.callbacks, callback)
	s.mu.Unlock()
	return s.settleErr
}

func (s *orderAPIStub) ListOrders(ctx context.Context) ([]models.Transaction, error) {
	return []models.Transaction{{Order: s.order, User: models.TransactionUser{Name: "budi"}}}, nil
}

type schedulerStub struct {
	mu    sync.Mutex
	calls map[string]time.Time
}

func (s *schedulerStub) EnqueueOrderPaymentExpire(orderID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls == nil {
		s.calls = make(map[string]time.Time)
	}
	s.calls[orderID] = at
	return nil
}

type profileAPIStub struct {
	profile *models.UserProfile
	err     error
	gate    chan struct{}
}

func (s *profileAPIStub) GetProfile(ctx context.Context) (*models.UserProfile, error) {
	if s.gate != nil {
		<-s.gate
	}
	if s.err != nil {
		return nil, s.err
	}
	p := *s.profile
	return &p, nil
}

func (s *profileAPIStub) UpdateProfile(ctx context.Context, input models.ProfileUpdate) (*models.UserProfile, error) {
	p := *s.profile
	p.Name = input.Name
	return &p, nil
}

func (s *profileAPIStub) ListUsers(ctx context.Context) ([]models.UserProfile, error) {
	return []models.UserProfile{*s.profile}, nil
}

type authAPIStub struct {
	resp *models.LoginResponse
	err  error
}

func (s *authAPIStub) Login(ctx context.Context, input models.LoginInput) (*models.LoginResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

func (s *authAPIStub) Register(ctx context.Context, input models.RegisterInput) (string, error) {
	return "User registered successfully", s.err
}

type credentialRepoStub struct {
	mu         sync.Mutex
	credential *models.Credential
	deletes    int
}

func (r *credentialRepoStub) Get() (*models.Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.credential == nil {
		return nil, nil
	}
	c := *r.credential
	return &c, nil
}

func (r *credentialRepoStub) Save(credential *models.Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *credential
	r.credential = &c
	return nil
}

func (r *credentialRepoStub) Delete() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.credential = nil
	r.deletes++
	return nil
}

type snapshotRepoStub struct {
	mu        sync.Mutex
	snapshots map[string]models.OrderSnapshot
}

func newSnapshotRepoStub() *snapshotRepoStub {
	return &snapshotRepoStub{snapshots: make(map[string]models.OrderSnapshot)}
}

func (r *snapshotRepoStub) Upsert(snapshot *models.OrderSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots[snapshot.OrderID] = *snapshot
	return nil
}

func (r *snapshotRepoStub) GetByOrderID(orderID string) (*models.OrderSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.snapshots[orderID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *snapshotRepoStub) UpdateStatus(orderID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.snapshots[orderID]; ok {
		s.Status = status
		r.snapshots[orderID] = s
	}
	return nil
}

func (r *snapshotRepoStub) Delete(orderID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.snapshots, orderID)
	return nil
}

func (r *snapshotRepoStub) ListRecent(userID uint, limit int) ([]models.OrderSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.OrderSnapshot, 0, len(r.snapshots))
	for _, s := range r.snapshots {
		out = append(out, s)
	}
	return out, nil
}

func (r *snapshotRepoStub) status(orderID string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshots[orderID].Status
}
