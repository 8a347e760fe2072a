package usecase

import (
	"context"
	"sort"
	"sync"

	"github.com/maheshd/pricely/internal/domain"
)

type memUsers struct {
	mu     sync.Mutex
	users  map[uint]domain.User
	nextID uint
}

func newMemUsers() *memUsers {
	return &memUsers{users: make(map[uint]domain.User), nextID: 1}
}

func (m *memUsers) GetByTelegramID(_ context.Context, telegramUserID int64) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.TelegramUserID == telegramUserID {
			u := user
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memUsers) GetByID(_ context.Context, userID uint) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u := user
	return &u, nil
}

func (m *memUsers) Create(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user.ID = m.nextID
	m.nextID++
	m.users[user.ID] = *user
	return nil
}

func (m *memUsers) ListAll(_ context.Context) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	users := make([]domain.User, 0, len(m.users))
	for _, user := range m.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

type memProducts struct {
	mu       sync.Mutex
	products map[uint]domain.Product
	nextID   uint

	failUpdateFor map[uint]error
}

func newMemProducts() *memProducts {
	return &memProducts{products: make(map[uint]domain.Product), nextID: 1, failUpdateFor: make(map[uint]error)}
}

func (m *memProducts) ListAll(_ context.Context) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	products := make([]domain.Product, 0, len(m.products))
	for _, product := range m.products {
		products = append(products, product)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

func (m *memProducts) GetByID(_ context.Context, productID uint) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	product, ok := m.products[productID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	p := product
	return &p, nil
}

func (m *memProducts) UpsertByName(_ context.Context, initial *domain.Product) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, product := range m.products {
		if product.Name == initial.Name {
			p := product
			return &p, nil
		}
	}
	created := *initial
	created.ID = m.nextID
	m.nextID++
	m.products[created.ID] = created
	return &created, nil
}

func (m *memProducts) UpdatePrice(_ context.Context, productID uint, update domain.PriceUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.failUpdateFor[productID]; ok {
		return err
	}
	product, ok := m.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	if !product.Price.Equal(update.ExpectedPrice) {
		return domain.ErrConflict
	}
	product.Price = update.Price
	product.PreviousPrice = update.PreviousPrice
	product.Lower = update.Lower
	product.Upper = update.Upper
	m.products[productID] = product
	return nil
}

type memSubscriptions struct {
	mu            sync.Mutex
	subscriptions map[uint]domain.Subscription
	nextID        uint
}

func newMemSubscriptions() *memSubscriptions {
	return &memSubscriptions{subscriptions: make(map[uint]domain.Subscription), nextID: 1}
}

func (m *memSubscriptions) ListByUser(_ context.Context, userID uint) ([]domain.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []domain.Subscription
	for _, subscription := range m.subscriptions {
		if subscription.UserID == userID {
			result = append(result, subscription)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *memSubscriptions) ListByProduct(_ context.Context, productID uint) ([]domain.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []domain.Subscription
	for _, subscription := range m.subscriptions {
		if subscription.ProductID == productID {
			result = append(result, subscription)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *memSubscriptions) Create(_ context.Context, userID, productID uint) (*domain.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, subscription := range m.subscriptions {
		if subscription.UserID == userID && subscription.ProductID == productID {
			s := subscription
			return &s, nil
		}
	}
	created := domain.Subscription{ID: m.nextID, UserID: userID, ProductID: productID}
	m.nextID++
	m.subscriptions[created.ID] = created
	return &created, nil
}

func (m *memSubscriptions) GetByID(_ context.Context, subscriptionID uint) (*domain.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	subscription, ok := m.subscriptions[subscriptionID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	s := subscription
	return &s, nil
}

func (m *memSubscriptions) DeleteIfOwner(_ context.Context, subscriptionID, userID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	subscription, ok := m.subscriptions[subscriptionID]
	if !ok || subscription.UserID != userID {
		return domain.ErrNotFound
	}
	delete(m.subscriptions, subscriptionID)
	return nil
}

type fetchFunc func(ctx context.Context, url string) (*domain.Quote, error)

func (f fetchFunc) Fetch(ctx context.Context, url string) (*domain.Quote, error) {
	return f(ctx, url)
}

// fakeSelector serves one fetcher for every platform it knows about.
type fakeSelector struct {
	fetcher   domain.PriceFetcher
	platforms map[domain.Platform]bool
}

func newFakeSelector(fetcher domain.PriceFetcher, platforms ...domain.Platform) *fakeSelector {
	known := make(map[domain.Platform]bool, len(platforms))
	for _, platform := range platforms {
		known[platform] = true
	}
	return &fakeSelector{fetcher: fetcher, platforms: known}
}

func (s *fakeSelector) ForPlatform(platform domain.Platform) (domain.PriceFetcher, bool) {
	if !s.platforms[platform] {
		return nil, false
	}
	return s.fetcher, true
}

type sentEvent struct {
	TelegramUserID int64
	Event          domain.PriceChangeEvent
}

type recordingNotifier struct {
	mu     sync.Mutex
	sent   []sentEvent
	failed map[int64]error
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{failed: make(map[int64]error)}
}

func (n *recordingNotifier) NotifyPriceChange(telegramUserID int64, event domain.PriceChangeEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err, ok := n.failed[telegramUserID]; ok {
		return err
	}
	n.sent = append(n.sent, sentEvent{TelegramUserID: telegramUserID, Event: event})
	return nil
}

func (n *recordingNotifier) events() []sentEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sentEvent(nil), n.sent...)
}

type noopLimiter struct{}

func (noopLimiter) Wait(context.Context, string) error { return nil }

type staticExpander struct{ url string }

func (e staticExpander) Expand(_ context.Context, rawURL string) (string, error) {
	if e.url == "" {
		return rawURL, nil
	}
	return e.url, nil
}

type identityConverter struct{}

func (identityConverter) Convert(_ context.Context, rawURL string) (string, error) {
	return rawURL, nil
}
