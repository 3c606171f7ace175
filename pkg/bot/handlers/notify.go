package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/pkrauchanka/tg-history-tutor/pkg/logger"
	"github.com/pkrauchanka/tg-history-tutor/pkg/notify"
	"github.com/pkrauchanka/tg-history-tutor/pkg/ui"
)

const notifyUsage = "Please use: /notify <every> <HH:MM> [tz], e.g. /notify 24h 09:00 +3 - or /notify off. With no arguments I show the current schedule."

func HandleNotify(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil || update.Message.From == nil || update.Message.Chat.ID == 0 {
		logger.Error("invalid update in HandleNotify")
		return
	}

	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID
	args := strings.Fields(update.Message.Text)[1:]

	switch {
	case len(args) == 0:
		job, err := notify.Job(userID)
		if err != nil {
			if errors.Is(err, notify.ErrJobNotFound) {
				b.SendMessage(ctx, &bot.SendMessageParams{
					ChatID: chatID,
					Text:   "You have no study notifications yet. " + notifyUsage,
				})
				return
			}
			logger.Error("failed to load notification job", "user_id", userID, "error", err)
			b.SendMessage(ctx, &bot.SendMessageParams{
				ChatID: chatID,
				Text:   "Failed to load your schedule. Please try again later.",
			})
			return
		}
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: ui.RenderNotifyStatus(job)})

	case len(args) == 1 && strings.EqualFold(args[0], "off"):
		if err := notify.Cancel(userID); err != nil {
			if errors.Is(err, notify.ErrJobNotFound) {
				b.SendMessage(ctx, &bot.SendMessageParams{
					ChatID: chatID,
					Text:   "You have no study notifications to turn off.",
				})
				return
			}
			logger.Error("failed to cancel notifications", "user_id", userID, "error", err)
			b.SendMessage(ctx, &bot.SendMessageParams{
				ChatID: chatID,
				Text:   "Failed to turn notifications off. Please try again later.",
			})
			return
		}
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: "Study notifications are off."})

	case len(args) == 2 || len(args) == 3:
		frequency, err := time.ParseDuration(args[0])
		if err != nil {
			b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: notifyUsage})
			return
		}
		tzOffset := 0
		if len(args) == 3 {
			tzOffset, err = strconv.Atoi(args[2])
			if err != nil || tzOffset < -12 || tzOffset > 14 {
				b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: notifyUsage})
				return
			}
		}

		job, err := notify.Schedule(userID, frequency, args[1], tzOffset, time.Now().UTC())
		if err != nil {
			b.SendMessage(ctx, &bot.SendMessageParams{
				ChatID: chatID,
				Text:   "Failed to schedule: " + err.Error() + "\n\n" + notifyUsage,
			})
			return
		}
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: ui.RenderNotifyStatus(job)})

	default:
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: notifyUsage})
	}
}
