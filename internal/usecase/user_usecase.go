package usecase

import (
	"context"

	"github.com/maheshd/pricely/internal/domain"
)

type UserUsecase struct {
	users domain.UserRepository
}

func NewUserUsecase(users domain.UserRepository) *UserUsecase {
	return &UserUsecase{users: users}
}

// StartOrGetUser registers a user on first /start and reports whether the
// user is new, so the caller can announce them to the log channel.
func (u *UserUsecase) StartOrGetUser(ctx context.Context, telegramUserID int64, username string) (*domain.User, bool, error) {
	user, err := u.users.GetByTelegramID(ctx, telegramUserID)
	if err == nil {
		return user, false, nil
	}
	if err != domain.ErrNotFound {
		return nil, false, err
	}

	newUser := &domain.User{
		TelegramUserID: telegramUserID,
		Username:       username,
	}
	if err := u.users.Create(ctx, newUser); err != nil {
		return nil, false, err
	}

	return newUser, true, nil
}

func (u *UserUsecase) ListUsers(ctx context.Context) ([]domain.User, error) {
	return u.users.ListAll(ctx)
}
