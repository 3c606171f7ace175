package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/pkrauchanka/tg-history-tutor/pkg/corpus"
	"github.com/pkrauchanka/tg-history-tutor/pkg/logger"
	"github.com/pkrauchanka/tg-history-tutor/pkg/stats"
	"github.com/pkrauchanka/tg-history-tutor/pkg/ui"
)

func HandleStats(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil || update.Message.From == nil || update.Message.Chat.ID == 0 {
		logger.Error("invalid update in HandleStats")
		return
	}

	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID

	summary, err := stats.GetSummary(userID)
	if err != nil {
		logger.Error("failed to load summary", "user_id", userID, "error", err)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "Failed to load your statistics. Please try again later.",
		})
		return
	}

	weak, err := stats.WeakTopics(userID, "", 5)
	if err != nil {
		logger.Error("failed to load weak topics", "user_id", userID, "error", err)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "Failed to load your statistics. Please try again later.",
		})
		return
	}
	var weakPrompts []string
	for _, topic := range weak {
		item, err := corpus.Lookup(topic.ItemID)
		if err != nil {
			continue
		}
		weakPrompts = append(weakPrompts, item.Prompt)
	}

	hints, err := stats.Recommendations(userID)
	if err != nil {
		logger.Error("failed to build recommendations", "user_id", userID, "error", err)
		hints = nil
	}

	_, err = b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   ui.RenderStats(summary, weakPrompts, hints),
	})
	if err != nil {
		logger.Error("failed to send stats message", "user_id", userID, "error", err)
	}
}
