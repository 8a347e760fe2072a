package db

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type userModel struct {
	ID             uint   `gorm:"primaryKey"`
	TelegramUserID int64  `gorm:"uniqueIndex;not null"`
	Username       string `gorm:""`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

type productModel struct {
	ID            uint            `gorm:"primaryKey"`
	Name          string          `gorm:"uniqueIndex;not null"`
	URL           string          `gorm:"not null"`
	Platform      string          `gorm:"not null"`
	Price         decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	PreviousPrice decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Lower         decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Upper         decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

// Subscriptions are hard-deleted: a stopped tracking must free the
// (user_id, product_id) slot for a later re-track.
type subscriptionModel struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"uniqueIndex:idx_subscriptions_user_product,priority:1;not null"`
	ProductID uint `gorm:"uniqueIndex:idx_subscriptions_user_product,priority:2;index;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
