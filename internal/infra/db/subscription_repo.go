package db

import (
	"context"
	"errors"

	"github.com/maheshd/pricely/internal/domain"
	"gorm.io/gorm"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) ListByUser(ctx context.Context, userID uint) ([]domain.Subscription, error) {
	var models []subscriptionModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&models).Error; err != nil {
		return nil, err
	}
	return mapSubscriptionsToDomain(models), nil
}

func (r *SubscriptionRepository) ListByProduct(ctx context.Context, productID uint) ([]domain.Subscription, error) {
	var models []subscriptionModel
	if err := r.db.WithContext(ctx).Where("product_id = ?", productID).Order("id").Find(&models).Error; err != nil {
		return nil, err
	}
	return mapSubscriptionsToDomain(models), nil
}

func (r *SubscriptionRepository) Create(ctx context.Context, userID, productID uint) (*domain.Subscription, error) {
	model := subscriptionModel{UserID: userID, ProductID: productID}
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		FirstOrCreate(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if lookupErr := r.db.WithContext(ctx).Where("user_id = ? AND product_id = ?", userID, productID).First(&model).Error; lookupErr != nil {
				return nil, lookupErr
			}
		} else {
			return nil, err
		}
	}
	subscription := mapSubscriptionToDomain(model)
	return &subscription, nil
}

func (r *SubscriptionRepository) GetByID(ctx context.Context, subscriptionID uint) (*domain.Subscription, error) {
	var model subscriptionModel
	if err := r.db.WithContext(ctx).First(&model, subscriptionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	subscription := mapSubscriptionToDomain(model)
	return &subscription, nil
}

func (r *SubscriptionRepository) DeleteIfOwner(ctx context.Context, subscriptionID, userID uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", subscriptionID, userID).
		Delete(&subscriptionModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func mapSubscriptionsToDomain(models []subscriptionModel) []domain.Subscription {
	subscriptions := make([]domain.Subscription, 0, len(models))
	for _, model := range models {
		subscriptions = append(subscriptions, mapSubscriptionToDomain(model))
	}
	return subscriptions
}

func mapSubscriptionToDomain(model subscriptionModel) domain.Subscription {
	return domain.Subscription{
		ID:        model.ID,
		UserID:    model.UserID,
		ProductID: model.ProductID,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
