package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/maheshd/pricely/internal/domain"
	"github.com/maheshd/pricely/internal/price"
	"go.uber.org/zap"
)

var (
	ErrUserNotRegistered   = errors.New("user not registered")
	ErrUnsupportedPlatform = errors.New("unsupported platform")
	ErrFetchFailed         = errors.New("could not read product page")
	ErrInvalidPrice        = errors.New("could not parse product price")
	ErrTrackingNotFound    = errors.New("tracking not found")
)

// Tracking pairs a user's subscription with the global product it points at.
type Tracking struct {
	Subscription domain.Subscription
	Product      domain.Product
}

type TrackingUsecase struct {
	users         domain.UserRepository
	products      domain.ProductRepository
	subscriptions domain.SubscriptionRepository
	fetchers      domain.FetcherSelector
	expander      domain.LinkExpander
	converter     domain.LinkConverter
	logger        *zap.Logger
}

func NewTrackingUsecase(
	users domain.UserRepository,
	products domain.ProductRepository,
	subscriptions domain.SubscriptionRepository,
	fetchers domain.FetcherSelector,
	expander domain.LinkExpander,
	converter domain.LinkConverter,
	logger *zap.Logger,
) *TrackingUsecase {
	return &TrackingUsecase{
		users:         users,
		products:      products,
		subscriptions: subscriptions,
		fetchers:      fetchers,
		expander:      expander,
		converter:     converter,
		logger:        logger,
	}
}

// TrackURL resolves a product URL to a catalog entry and subscribes the user
// to it. The product is created on first sight and shared by every tracker of
// the same name afterwards.
func (u *TrackingUsecase) TrackURL(ctx context.Context, telegramUserID int64, rawURL string) (*Tracking, error) {
	user, err := u.users.GetByTelegramID(ctx, telegramUserID)
	if err != nil {
		if err == domain.ErrNotFound {
			return nil, ErrUserNotRegistered
		}
		return nil, err
	}

	trackURL := rawURL
	if expanded, err := u.expander.Expand(ctx, rawURL); err == nil {
		trackURL = expanded
	} else {
		u.logger.Warn("url expansion failed, using original", zap.String("url", rawURL), zap.Error(err))
	}

	platform, ok := domain.DetectPlatform(trackURL)
	if !ok {
		return nil, ErrUnsupportedPlatform
	}

	// Conversion failures are not fatal: tracking an unconverted link beats
	// losing the tracking request.
	if converted, err := u.converter.Convert(ctx, trackURL); err == nil {
		trackURL = converted
	} else {
		u.logger.Warn("affiliate conversion failed, using original", zap.String("url", trackURL), zap.Error(err))
	}

	fetcher, ok := u.fetchers.ForPlatform(platform)
	if !ok {
		return nil, ErrUnsupportedPlatform
	}

	quote, err := fetcher.Fetch(ctx, trackURL)
	if err != nil {
		u.logger.Warn("initial fetch failed", zap.String("url", trackURL), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	initial, err := price.Normalize(quote.Price)
	if err != nil {
		u.logger.Warn("initial price unparseable", zap.String("url", trackURL), zap.String("raw_price", quote.Price), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrice, err)
	}

	product, err := u.products.UpsertByName(ctx, &domain.Product{
		Name:          quote.Name,
		URL:           trackURL,
		Platform:      platform,
		Price:         initial,
		PreviousPrice: initial,
		Lower:         initial,
		Upper:         initial,
	})
	if err != nil {
		return nil, err
	}

	subscription, err := u.subscriptions.Create(ctx, user.ID, product.ID)
	if err != nil {
		return nil, err
	}

	u.logger.Info(
		"tracking created",
		zap.Int64("telegram_user_id", telegramUserID),
		zap.Uint("product_id", product.ID),
		zap.Uint("subscription_id", subscription.ID),
		zap.String("platform", string(platform)),
	)

	return &Tracking{Subscription: *subscription, Product: *product}, nil
}

func (u *TrackingUsecase) ListTrackings(ctx context.Context, telegramUserID int64) ([]Tracking, error) {
	user, err := u.users.GetByTelegramID(ctx, telegramUserID)
	if err != nil {
		if err == domain.ErrNotFound {
			return nil, ErrUserNotRegistered
		}
		return nil, err
	}

	subscriptions, err := u.subscriptions.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	trackings := make([]Tracking, 0, len(subscriptions))
	for _, subscription := range subscriptions {
		product, err := u.products.GetByID(ctx, subscription.ProductID)
		if err != nil {
			u.logger.Warn("subscription references missing product", zap.Uint("subscription_id", subscription.ID), zap.Uint("product_id", subscription.ProductID), zap.Error(err))
			continue
		}
		trackings = append(trackings, Tracking{Subscription: subscription, Product: *product})
	}
	return trackings, nil
}

func (u *TrackingUsecase) GetTracking(ctx context.Context, telegramUserID int64, subscriptionID uint) (*Tracking, error) {
	user, err := u.users.GetByTelegramID(ctx, telegramUserID)
	if err != nil {
		if err == domain.ErrNotFound {
			return nil, ErrUserNotRegistered
		}
		return nil, err
	}

	subscription, err := u.subscriptions.GetByID(ctx, subscriptionID)
	if err != nil {
		if err == domain.ErrNotFound {
			return nil, ErrTrackingNotFound
		}
		return nil, err
	}
	if subscription.UserID != user.ID {
		return nil, ErrTrackingNotFound
	}

	product, err := u.products.GetByID(ctx, subscription.ProductID)
	if err != nil {
		if err == domain.ErrNotFound {
			return nil, ErrTrackingNotFound
		}
		return nil, err
	}

	return &Tracking{Subscription: *subscription, Product: *product}, nil
}

func (u *TrackingUsecase) StopTracking(ctx context.Context, telegramUserID int64, subscriptionID uint) error {
	user, err := u.users.GetByTelegramID(ctx, telegramUserID)
	if err != nil {
		if err == domain.ErrNotFound {
			return ErrUserNotRegistered
		}
		return err
	}

	if err := u.subscriptions.DeleteIfOwner(ctx, subscriptionID, user.ID); err != nil {
		if err == domain.ErrNotFound {
			return ErrTrackingNotFound
		}
		return err
	}

	u.logger.Info("tracking stopped", zap.Int64("telegram_user_id", telegramUserID), zap.Uint("subscription_id", subscriptionID))
	return nil
}
