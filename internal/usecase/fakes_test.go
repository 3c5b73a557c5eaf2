package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
	"storefront/pkg/errors"
)

// recordingEvents captures published events for assertions.
type recordingEvents struct {
	mu     sync.Mutex
	events []recordedEvent
}

type recordedEvent struct {
	Channel string // "user:<id>", "admins" or "broadcast"
	Event   string
	Payload interface{}
}

func (r *recordingEvents) PublishToUser(userID, event string, payload interface{}) {
	r.record("user:"+userID, event, payload)
}

func (r *recordingEvents) PublishToAdmins(event string, payload interface{}) {
	r.record("admins", event, payload)
}

func (r *recordingEvents) Broadcast(event string, payload interface{}) {
	r.record("broadcast", event, payload)
}

func (r *recordingEvents) record(channel, event string, payload interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{Channel: channel, Event: event, Payload: payload})
}

func (r *recordingEvents) byEvent(event string) []recordedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []recordedEvent
	for _, e := range r.events {
		if e.Event == event {
			out = append(out, e)
		}
	}
	return out
}

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[string]*entity.Product
}

func newFakeProductRepo(products ...*entity.Product) *fakeProductRepo {
	repo := &fakeProductRepo{products: make(map[string]*entity.Product)}
	for _, p := range products {
		repo.products[p.ID] = p
	}
	return repo
}

func (f *fakeProductRepo) Create(ctx context.Context, product *entity.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if product.ID == "" {
		product.ID = fmt.Sprintf("prod-%d", len(f.products)+1)
	}
	f.products[product.ID] = product
	return nil
}

func (f *fakeProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	product, ok := f.products[id]
	if !ok {
		return nil, errors.NotFound("Product", nil)
	}
	copied := *product
	return &copied, nil
}

func (f *fakeProductRepo) List(ctx context.Context, filter map[string]interface{}, sort string, limit, offset int) ([]*entity.Product, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Product
	for _, p := range f.products {
		copied := *p
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

func (f *fakeProductRepo) Update(ctx context.Context, product *entity.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[product.ID]; !ok {
		return errors.NotFound("Product", nil)
	}
	copied := *product
	f.products[product.ID] = &copied
	return nil
}

func (f *fakeProductRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.products, id)
	return nil
}

func (f *fakeProductRepo) DecrementStock(ctx context.Context, id string, qty int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	product, ok := f.products[id]
	if !ok {
		return 0, errors.NotFound("Product", nil)
	}
	product.Stock -= qty
	if product.Stock < 0 {
		product.Stock = 0
	}
	return product.Stock, nil
}

func (f *fakeProductRepo) IncrementStock(ctx context.Context, id string, qty int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	product, ok := f.products[id]
	if !ok {
		return 0, errors.NotFound("Product", nil)
	}
	product.Stock += qty
	return product.Stock, nil
}

func (f *fakeProductRepo) stock(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.products[id].Stock
}

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[string]*entity.Order
}

func newFakeOrderRepo(orders ...*entity.Order) *fakeOrderRepo {
	repo := &fakeOrderRepo{orders: make(map[string]*entity.Order)}
	for _, o := range orders {
		repo.orders[o.ID] = o
	}
	return repo
}

func (f *fakeOrderRepo) Create(ctx context.Context, order *entity.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if order.ID == "" {
		order.ID = fmt.Sprintf("ord-%d", len(f.orders)+1)
	}
	order.CreatedAt = time.Now()
	copied := *order
	f.orders[order.ID] = &copied
	return nil
}

func (f *fakeOrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[id]
	if !ok {
		return nil, errors.NotFound("Order", nil)
	}
	copied := *order
	return &copied, nil
}

func (f *fakeOrderRepo) GetByCheckoutSessionID(ctx context.Context, sessionID string) (*entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, order := range f.orders {
		if order.CheckoutSessionID == sessionID {
			copied := *order
			return &copied, nil
		}
	}
	return nil, errors.NotFound("Order", nil)
}

func (f *fakeOrderRepo) Update(ctx context.Context, order *entity.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.orders[order.ID]; !ok {
		return errors.NotFound("Order", nil)
	}
	copied := *order
	f.orders[order.ID] = &copied
	return nil
}

func (f *fakeOrderRepo) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Order, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Order
	for _, order := range f.orders {
		if order.UserID == userID {
			copied := *order
			out = append(out, &copied)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeOrderRepo) List(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]*entity.Order, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Order
	for _, order := range f.orders {
		if status, ok := filter["status"]; ok && order.Status != status {
			continue
		}
		copied := *order
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

func (f *fakeOrderRepo) ListPendingBefore(ctx context.Context, cutoff time.Time) ([]*entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Order
	for _, order := range f.orders {
		if order.Status == entity.OrderStatusPending && order.CreatedAt.Before(cutoff) {
			copied := *order
			out = append(out, &copied)
		}
	}
	return out, nil
}

type fakeChatRepo struct {
	mu      sync.Mutex
	threads map[string]*entity.ChatThread
}

func newFakeChatRepo(threads ...*entity.ChatThread) *fakeChatRepo {
	repo := &fakeChatRepo{threads: make(map[string]*entity.ChatThread)}
	for _, t := range threads {
		repo.threads[t.ID] = t
	}
	return repo
}

func copyThread(t *entity.ChatThread) *entity.ChatThread {
	copied := *t
	copied.Messages = append([]entity.Message(nil), t.Messages...)
	return &copied
}

func (f *fakeChatRepo) Create(ctx context.Context, thread *entity.ChatThread) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if thread.ID == "" {
		thread.ID = fmt.Sprintf("thread-%d", len(f.threads)+1)
	}
	thread.CreatedAt = time.Now()
	f.threads[thread.ID] = copyThread(thread)
	return nil
}

func (f *fakeChatRepo) GetByID(ctx context.Context, id string) (*entity.ChatThread, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	thread, ok := f.threads[id]
	if !ok {
		return nil, errors.NotFound("Chat thread", nil)
	}
	return copyThread(thread), nil
}

func (f *fakeChatRepo) GetByUserID(ctx context.Context, userID string) (*entity.ChatThread, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, thread := range f.threads {
		if thread.UserID == userID {
			return copyThread(thread), nil
		}
	}
	return nil, errors.NotFound("Chat thread", nil)
}

func (f *fakeChatRepo) Update(ctx context.Context, thread *entity.ChatThread) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.threads[thread.ID]; !ok {
		return errors.NotFound("Chat thread", nil)
	}
	f.threads[thread.ID] = copyThread(thread)
	return nil
}

func (f *fakeChatRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.threads[id]; !ok {
		return errors.NotFound("Chat thread", nil)
	}
	delete(f.threads, id)
	return nil
}

func (f *fakeChatRepo) List(ctx context.Context, status string, limit, offset int) ([]*entity.ChatThread, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.ChatThread
	for _, thread := range f.threads {
		if status != "" && thread.Status != status {
			continue
		}
		out = append(out, copyThread(thread))
	}
	return out, int64(len(out)), nil
}

func (f *fakeChatRepo) Aggregates(ctx context.Context) (*repository.ThreadAggregates, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	agg := &repository.ThreadAggregates{ByStatus: make(map[string]int64)}
	for _, thread := range f.threads {
		agg.ByStatus[thread.Status]++
		agg.AdminUnread += int64(thread.UnreadCount.Admin)
	}
	return agg, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[string]*entity.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (f *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, errors.NotFound("User", nil)
}

func (f *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[user.ID] = user
	return nil
}
