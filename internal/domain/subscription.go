package domain

import "time"

// Subscription links one user to one tracked product. At most one
// subscription exists per (user, product) pair.
type Subscription struct {
	ID        uint
	UserID    uint
	ProductID uint
	CreatedAt time.Time
	UpdatedAt time.Time
}
