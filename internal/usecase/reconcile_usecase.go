package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/maheshd/pricely/internal/domain"
	"github.com/maheshd/pricely/internal/price"
	"go.uber.org/zap"
)

// Notifier delivers one price-change event to one subscriber. Delivery
// failures stay with the notifier; the reconciler only logs them.
type Notifier interface {
	NotifyPriceChange(telegramUserID int64, event domain.PriceChangeEvent) error
}

// RateLimiter gates outbound fetches by target URL.
type RateLimiter interface {
	Wait(ctx context.Context, rawURL string) error
}

// PassSummary reports what one reconciliation pass did.
type PassSummary struct {
	Products int
	Updated  int
	Skipped  int
	Changed  int
	Notified int
}

// Reconciler runs the fetch-update-notify cycle over the whole catalog.
// A pass never fails because of a single product or subscriber: every
// per-item error is logged and the pass moves on.
type Reconciler struct {
	products      domain.ProductRepository
	subscriptions domain.SubscriptionRepository
	users         domain.UserRepository
	fetchers      domain.FetcherSelector
	notifier      Notifier
	limiter       RateLimiter
	concurrency   int
	logger        *zap.Logger
}

func NewReconciler(
	products domain.ProductRepository,
	subscriptions domain.SubscriptionRepository,
	users domain.UserRepository,
	fetchers domain.FetcherSelector,
	notifier Notifier,
	limiter RateLimiter,
	concurrency int,
	logger *zap.Logger,
) *Reconciler {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Reconciler{
		products:      products,
		subscriptions: subscriptions,
		users:         users,
		fetchers:      fetchers,
		notifier:      notifier,
		limiter:       limiter,
		concurrency:   concurrency,
		logger:        logger,
	}
}

// RunPass executes one full reconciliation pass: refresh every product,
// recompute the changed set from the stored catalog, then fan notifications
// out to every subscriber of a changed product.
func (r *Reconciler) RunPass(ctx context.Context) (PassSummary, error) {
	products, err := r.products.ListAll(ctx)
	if err != nil {
		return PassSummary{}, err
	}

	summary := PassSummary{Products: len(products)}

	var updated, skipped atomic.Int64
	jobs := make(chan domain.Product)
	var wg sync.WaitGroup
	for i := 0; i < r.concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for product := range jobs {
				if r.refreshProduct(ctx, product) {
					updated.Add(1)
				} else {
					skipped.Add(1)
				}
			}
		}()
	}

feed:
	for _, product := range products {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- product:
		}
	}
	close(jobs)
	wg.Wait()

	summary.Updated = int(updated.Load())
	summary.Skipped = int(skipped.Load())

	// The changed set is recomputed from the stored catalog rather than
	// collected from the update loop, so a record that failed to persist is
	// never reported as changed.
	refreshed, err := r.products.ListAll(ctx)
	if err != nil {
		return summary, err
	}

	for _, product := range refreshed {
		if !product.Changed() {
			continue
		}
		summary.Changed++
		summary.Notified += r.notifySubscribers(ctx, product)
		r.settleProduct(ctx, product)
	}

	return summary, nil
}

// settleProduct folds previous_price into price once the change has been
// fanned out, so the next pass does not report the same delta again. A lost
// race here just means the next pass re-reports; that is the safe direction.
func (r *Reconciler) settleProduct(ctx context.Context, product domain.Product) {
	update := domain.PriceUpdate{
		ExpectedPrice: product.Price,
		Price:         product.Price,
		PreviousPrice: product.Price,
		Lower:         product.Lower,
		Upper:         product.Upper,
	}
	if err := r.products.UpdatePrice(ctx, product.ID, update); err != nil && !errors.Is(err, domain.ErrConflict) {
		r.logger.Warn("settling change failed", zap.Uint("product_id", product.ID), zap.Error(err))
	}
}

// refreshProduct fetches one product's current price and persists the delta.
// Returns true only when the record was mutated.
func (r *Reconciler) refreshProduct(ctx context.Context, product domain.Product) bool {
	if err := r.limiter.Wait(ctx, product.URL); err != nil {
		return false
	}

	fetcher, ok := r.fetchers.ForPlatform(product.Platform)
	if !ok {
		r.logger.Warn("no fetcher for platform", zap.Uint("product_id", product.ID), zap.String("platform", string(product.Platform)))
		return false
	}

	quote, err := fetcher.Fetch(ctx, product.URL)
	if err != nil {
		r.logger.Warn("price fetch failed", zap.Uint("product_id", product.ID), zap.String("url", product.URL), zap.Error(err))
		return false
	}

	observed, err := price.Normalize(quote.Price)
	if err != nil {
		r.logger.Warn("fetched price unparseable", zap.Uint("product_id", product.ID), zap.String("raw_price", quote.Price), zap.Error(err))
		return false
	}

	if observed.Equal(product.Price) {
		return false
	}

	update := domain.NewPriceUpdate(product, observed)
	if err := r.products.UpdatePrice(ctx, product.ID, update); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			r.logger.Warn("price update lost race, leaving record as is", zap.Uint("product_id", product.ID))
		} else {
			r.logger.Warn("price update failed", zap.Uint("product_id", product.ID), zap.Error(err))
		}
		return false
	}

	r.logger.Info(
		"price updated",
		zap.Uint("product_id", product.ID),
		zap.String("name", product.Name),
		zap.String("previous", product.Price.String()),
		zap.String("current", observed.String()),
	)
	return true
}

// notifySubscribers emits one event per subscriber of a changed product and
// returns how many deliveries succeeded.
func (r *Reconciler) notifySubscribers(ctx context.Context, product domain.Product) int {
	subscriptions, err := r.subscriptions.ListByProduct(ctx, product.ID)
	if err != nil {
		r.logger.Warn("listing subscribers failed", zap.Uint("product_id", product.ID), zap.Error(err))
		return 0
	}

	delivered := 0
	for _, subscription := range subscriptions {
		user, err := r.users.GetByID(ctx, subscription.UserID)
		if err != nil {
			r.logger.Warn("subscriber lookup failed", zap.Uint("user_id", subscription.UserID), zap.Error(err))
			continue
		}

		event := domain.PriceChangeEvent{
			EventID:       uuid.NewString(),
			ProductID:     product.ID,
			ProductName:   product.Name,
			ProductURL:    product.URL,
			PreviousPrice: product.PreviousPrice,
			CurrentPrice:  product.Price,
			PercentChange: domain.PercentChangeBetween(product.PreviousPrice, product.Price),
		}

		if err := r.notifier.NotifyPriceChange(user.TelegramUserID, event); err != nil {
			r.logger.Warn(
				"price change delivery failed",
				zap.Int64("telegram_user_id", user.TelegramUserID),
				zap.Uint("product_id", product.ID),
				zap.Error(err),
			)
			continue
		}
		delivered++
	}
	return delivered
}
