package telegram

import (
	"context"
	"errors"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/maheshd/pricely/internal/usecase"
	"go.uber.org/zap"
)

type Handlers struct {
	userUC       *usecase.UserUsecase
	trackingUC   *usecase.TrackingUsecase
	logger       *zap.Logger
	adminIDs     map[int64]bool
	logChannelID int64
}

func NewHandlers(userUC *usecase.UserUsecase, trackingUC *usecase.TrackingUsecase, adminIDs []int64, logChannelID int64, logger *zap.Logger) *Handlers {
	admins := make(map[int64]bool, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = true
	}
	return &Handlers{
		userUC:       userUC,
		trackingUC:   trackingUC,
		logger:       logger,
		adminIDs:     admins,
		logChannelID: logChannelID,
	}
}

func (h *Handlers) HandleUpdate(ctx context.Context, api *tgbotapi.BotAPI, update tgbotapi.Update) {
	if update.Message == nil {
		return
	}
	if update.Message.From == nil {
		return
	}
	if update.Message.IsCommand() {
		h.handleCommand(ctx, api, update)
		return
	}
	h.handleMessage(ctx, api, update)
}

func (h *Handlers) handleCommand(ctx context.Context, api *tgbotapi.BotAPI, update tgbotapi.Update) {
	command := update.Message.Command()
	args := update.Message.CommandArguments()
	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID
	username := update.Message.From.UserName

	h.logger.Info(
		"telegram command received",
		zap.Int64("chat_id", chatID),
		zap.Int64("telegram_user_id", userID),
		zap.String("username", username),
		zap.String("command", command),
		zap.String("args", args),
	)

	switch command {
	case "start":
		_, isNew, err := h.userUC.StartOrGetUser(ctx, userID, username)
		if err != nil {
			h.logger.Warn("start command failed", zap.Int64("telegram_user_id", userID), zap.Error(err))
			h.reply(api, chatID, "Failed to register. Please try again.")
			return
		}
		if isNew && h.logChannelID != 0 {
			logMsg := tgbotapi.NewMessage(h.logChannelID, fmt.Sprintf("New user started the bot: @%s (ID: %d)", username, userID))
			if _, err := api.Send(logMsg); err != nil {
				h.logger.Warn("failed to announce new user", zap.Error(err))
			}
		}
		h.logger.Info("start command complete", zap.Int64("telegram_user_id", userID))
		h.reply(api, chatID, fmt.Sprintf("Hello %s! 🌟 I track product prices for you.\n\n%s", username, HelpText))
	case "help":
		h.reply(api, chatID, HelpText)
	case "my_trackings":
		trackings, err := h.trackingUC.ListTrackings(ctx, userID)
		if err != nil {
			h.logger.Warn("my_trackings failed", zap.Int64("telegram_user_id", userID), zap.Error(err))
			h.reply(api, chatID, h.trackingErrorMessage(err))
			return
		}
		h.logger.Info("my_trackings complete", zap.Int64("telegram_user_id", userID), zap.Int("count", len(trackings)))
		h.replyMarkdown(api, chatID, FormatTrackingList(trackings))
	case "product":
		trackingID, err := ParseTrackingID(args)
		if err != nil {
			h.reply(api, chatID, "Usage: /product <id>")
			return
		}
		tracking, err := h.trackingUC.GetTracking(ctx, userID, trackingID)
		if err != nil {
			h.logger.Warn("product command failed", zap.Int64("telegram_user_id", userID), zap.Uint("tracking_id", trackingID), zap.Error(err))
			h.reply(api, chatID, h.trackingErrorMessage(err))
			return
		}
		h.replyMarkdown(api, chatID, FormatTrackingDetails(*tracking))
	case "stop":
		trackingID, err := ParseTrackingID(args)
		if err != nil {
			h.reply(api, chatID, "Usage: /stop <id>")
			return
		}
		if err := h.trackingUC.StopTracking(ctx, userID, trackingID); err != nil {
			h.logger.Warn("stop command failed", zap.Int64("telegram_user_id", userID), zap.Uint("tracking_id", trackingID), zap.Error(err))
			h.reply(api, chatID, h.trackingErrorMessage(err))
			return
		}
		h.logger.Info("stop command complete", zap.Int64("telegram_user_id", userID), zap.Uint("tracking_id", trackingID))
		h.reply(api, chatID, "Product successfully removed.")
	case "broadcast":
		if !h.adminIDs[userID] {
			h.reply(api, chatID, "Unknown command.\n\n"+HelpText)
			return
		}
		text, err := ParseBroadcastText(args)
		if err != nil {
			h.reply(api, chatID, "Usage: /broadcast <message>")
			return
		}
		success, failed := h.broadcast(ctx, api, text)
		h.reply(api, chatID, fmt.Sprintf("Broadcast completed:\nSuccess: %d\nFailed: %d", success, failed))
	default:
		h.logger.Warn("unknown command", zap.Int64("telegram_user_id", userID), zap.String("command", command))
		h.reply(api, chatID, "Unknown command.\n\n"+HelpText)
	}
}

// handleMessage treats any non-command text as a tracking request when it
// carries a product link.
func (h *Handlers) handleMessage(ctx context.Context, api *tgbotapi.BotAPI, update tgbotapi.Update) {
	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID

	if update.Message.Photo != nil || update.Message.Document != nil {
		h.reply(api, chatID, "Please send only links, not images or documents.")
		return
	}

	urls := ExtractURLs(update.Message.Text)
	if len(urls) == 0 {
		return
	}

	h.reply(api, chatID, "Analysing your product... please wait!")

	for _, url := range urls {
		tracking, err := h.trackingUC.TrackURL(ctx, userID, url)
		if err != nil {
			h.logger.Warn("track url failed", zap.Int64("telegram_user_id", userID), zap.String("url", url), zap.Error(err))
			h.reply(api, chatID, h.trackingErrorMessage(err))
			continue
		}
		h.reply(api, chatID, fmt.Sprintf(
			"Tracking %q!\n\nUse /product %d for details and /stop %d to stop tracking.",
			tracking.Product.Name, tracking.Subscription.ID, tracking.Subscription.ID,
		))
	}
}

func (h *Handlers) broadcast(ctx context.Context, api *tgbotapi.BotAPI, text string) (success, failed int) {
	users, err := h.userUC.ListUsers(ctx)
	if err != nil {
		h.logger.Warn("broadcast user listing failed", zap.Error(err))
		return 0, 0
	}

	for _, user := range users {
		if ctx.Err() != nil {
			return success, failed
		}
		msg := tgbotapi.NewMessage(user.TelegramUserID, text)
		if _, err := api.Send(msg); err != nil {
			h.logger.Warn("broadcast delivery failed", zap.Int64("telegram_user_id", user.TelegramUserID), zap.Error(err))
			failed++
		} else {
			success++
		}
		// Stay under the bot API flood limits.
		time.Sleep(100 * time.Millisecond)
	}
	return success, failed
}

func (h *Handlers) trackingErrorMessage(err error) string {
	switch {
	case errors.Is(err, usecase.ErrUserNotRegistered):
		return "Please /start to register first."
	case errors.Is(err, usecase.ErrUnsupportedPlatform):
		return "I can only track Amazon and Flipkart links for now."
	case errors.Is(err, usecase.ErrFetchFailed):
		return "Could not read that product page. Please try again later."
	case errors.Is(err, usecase.ErrInvalidPrice):
		return "Could not find a price on that page. Please check the link."
	case errors.Is(err, usecase.ErrTrackingNotFound):
		return "Tracking not found. Use /my_trackings to list yours."
	}

	h.logger.Warn("unhandled error", zap.Error(err))
	return "Something went wrong. Please try again."
}

func (h *Handlers) reply(api *tgbotapi.BotAPI, chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := api.Send(msg); err != nil {
		h.logger.Warn("failed to send message", zap.Error(err))
	}
}

func (h *Handlers) replyMarkdown(api *tgbotapi.BotAPI, chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = true
	if _, err := api.Send(msg); err != nil {
		h.logger.Warn("failed to send message", zap.Error(err))
	}
}
