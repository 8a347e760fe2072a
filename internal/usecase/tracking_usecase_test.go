package usecase

import (
	"context"
	"testing"

	"github.com/maheshd/pricely/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func buildTrackingUsecase(products *memProducts, subscriptions *memSubscriptions, users *memUsers, quote domain.Quote) *TrackingUsecase {
	fetcher := fetchFunc(func(context.Context, string) (*domain.Quote, error) {
		q := quote
		return &q, nil
	})
	selector := newFakeSelector(fetcher, domain.PlatformAmazon, domain.PlatformFlipkart)
	return NewTrackingUsecase(users, products, subscriptions, selector, staticExpander{}, identityConverter{}, zap.NewNop())
}

func TestTrackURLDeduplicatesProducts(t *testing.T) {
	ctx := context.Background()
	products := newMemProducts()
	subscriptions := newMemSubscriptions()
	users := newMemUsers()

	seedUser(t, users, 111)
	seedUser(t, users, 222)

	uc := buildTrackingUsecase(products, subscriptions, users, domain.Quote{Name: "Echo Dot", Price: "₹4,499.00"})

	first, err := uc.TrackURL(ctx, 111, "https://www.amazon.in/dp/B0TEST")
	require.NoError(t, err)
	second, err := uc.TrackURL(ctx, 222, "https://www.amazon.in/dp/B0TEST")
	require.NoError(t, err)

	assert.Equal(t, first.Product.ID, second.Product.ID, "same name must map to one product")
	assert.NotEqual(t, first.Subscription.ID, second.Subscription.ID)

	all, err := products.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].Price.Equal(dec("4499")))
	assert.True(t, all[0].Lower.Equal(all[0].Upper), "fresh product starts with collapsed bounds")
	assert.Equal(t, domain.PlatformAmazon, all[0].Platform)
}

func TestTrackURLSameUserTwiceKeepsOneSubscription(t *testing.T) {
	ctx := context.Background()
	products := newMemProducts()
	subscriptions := newMemSubscriptions()
	users := newMemUsers()

	user := seedUser(t, users, 111)
	uc := buildTrackingUsecase(products, subscriptions, users, domain.Quote{Name: "Echo Dot", Price: "4499"})

	first, err := uc.TrackURL(ctx, 111, "https://www.amazon.in/dp/B0TEST")
	require.NoError(t, err)
	second, err := uc.TrackURL(ctx, 111, "https://www.amazon.in/dp/B0TEST")
	require.NoError(t, err)

	assert.Equal(t, first.Subscription.ID, second.Subscription.ID)
	subs, err := subscriptions.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, subs, 1)
}

func TestTrackURLRequiresRegistration(t *testing.T) {
	uc := buildTrackingUsecase(newMemProducts(), newMemSubscriptions(), newMemUsers(), domain.Quote{Name: "X", Price: "1"})
	_, err := uc.TrackURL(context.Background(), 999, "https://www.amazon.in/dp/B0TEST")
	assert.ErrorIs(t, err, ErrUserNotRegistered)
}

func TestTrackURLRejectsUnknownStore(t *testing.T) {
	users := newMemUsers()
	seedUser(t, users, 111)
	uc := buildTrackingUsecase(newMemProducts(), newMemSubscriptions(), users, domain.Quote{Name: "X", Price: "1"})

	_, err := uc.TrackURL(context.Background(), 111, "https://www.ebay.com/itm/123")
	assert.ErrorIs(t, err, ErrUnsupportedPlatform)
}

func TestStopTrackingOwnershipGuard(t *testing.T) {
	ctx := context.Background()
	products := newMemProducts()
	subscriptions := newMemSubscriptions()
	users := newMemUsers()

	owner := seedUser(t, users, 111)
	seedUser(t, users, 222)
	product := seedProduct(t, products, "P", "https://amazon.in/p", "100")
	subscription, err := subscriptions.Create(ctx, owner.ID, product.ID)
	require.NoError(t, err)

	uc := buildTrackingUsecase(products, subscriptions, users, domain.Quote{Name: "P", Price: "100"})

	err = uc.StopTracking(ctx, 222, subscription.ID)
	assert.ErrorIs(t, err, ErrTrackingNotFound)
	_, err = subscriptions.GetByID(ctx, subscription.ID)
	assert.NoError(t, err, "subscription must survive a foreign delete attempt")

	require.NoError(t, uc.StopTracking(ctx, 111, subscription.ID))
	_, err = subscriptions.GetByID(ctx, subscription.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetTrackingHidesForeignSubscriptions(t *testing.T) {
	ctx := context.Background()
	products := newMemProducts()
	subscriptions := newMemSubscriptions()
	users := newMemUsers()

	owner := seedUser(t, users, 111)
	seedUser(t, users, 222)
	product := seedProduct(t, products, "P", "https://amazon.in/p", "100")
	subscription, err := subscriptions.Create(ctx, owner.ID, product.ID)
	require.NoError(t, err)

	uc := buildTrackingUsecase(products, subscriptions, users, domain.Quote{Name: "P", Price: "100"})

	tracking, err := uc.GetTracking(ctx, 111, subscription.ID)
	require.NoError(t, err)
	assert.Equal(t, product.ID, tracking.Product.ID)

	_, err = uc.GetTracking(ctx, 222, subscription.ID)
	assert.ErrorIs(t, err, ErrTrackingNotFound)
}

func TestListTrackings(t *testing.T) {
	ctx := context.Background()
	products := newMemProducts()
	subscriptions := newMemSubscriptions()
	users := newMemUsers()

	user := seedUser(t, users, 111)
	productA := seedProduct(t, products, "A", "https://amazon.in/a", "100")
	productB := seedProduct(t, products, "B", "https://amazon.in/b", "200")
	_, err := subscriptions.Create(ctx, user.ID, productA.ID)
	require.NoError(t, err)
	_, err = subscriptions.Create(ctx, user.ID, productB.ID)
	require.NoError(t, err)

	uc := buildTrackingUsecase(products, subscriptions, users, domain.Quote{Name: "A", Price: "100"})
	trackings, err := uc.ListTrackings(ctx, 111)
	require.NoError(t, err)
	require.Len(t, trackings, 2)
	assert.Equal(t, "A", trackings[0].Product.Name)
	assert.Equal(t, "B", trackings[1].Product.Name)
}
