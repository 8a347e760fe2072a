package domain

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned by ProductRepository.UpdatePrice when the
	// compare-and-set guard fails because another writer updated the record.
	ErrConflict = errors.New("conflicting update")
)

type UserRepository interface {
	GetByTelegramID(ctx context.Context, telegramUserID int64) (*User, error)
	GetByID(ctx context.Context, userID uint) (*User, error)
	Create(ctx context.Context, user *User) error
	ListAll(ctx context.Context) ([]User, error)
}

type ProductRepository interface {
	ListAll(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, productID uint) (*Product, error)
	// UpsertByName returns the existing product with the given name, or
	// creates one from initial. It never creates a duplicate.
	UpsertByName(ctx context.Context, initial *Product) (*Product, error)
	// UpdatePrice applies update to a single record atomically, guarded by
	// update.ExpectedPrice. Returns ErrConflict if the guard does not match.
	UpdatePrice(ctx context.Context, productID uint, update PriceUpdate) error
}

type SubscriptionRepository interface {
	ListByUser(ctx context.Context, userID uint) ([]Subscription, error)
	ListByProduct(ctx context.Context, productID uint) ([]Subscription, error)
	// Create is idempotent on the (userID, productID) pair and returns the
	// existing subscription when the pair is already tracked.
	Create(ctx context.Context, userID, productID uint) (*Subscription, error)
	GetByID(ctx context.Context, subscriptionID uint) (*Subscription, error)
	// DeleteIfOwner deletes the subscription only when it belongs to userID.
	// Fails closed with ErrNotFound on an owner mismatch.
	DeleteIfOwner(ctx context.Context, subscriptionID, userID uint) error
}
