package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/pkrauchanka/tg-history-tutor/pkg/logger"
)

const helpText = `I help you prepare for the history exam.

/quiz - answer a question from a category of your choice
/marathon - a mixed run of questions across all categories
/skip - give up on the current question
/stats - your accuracy, streaks and weak spots
/addfact - add your own fact: /addfact category | prompt | answer | keyword;keyword | tip
/notify <every> <HH:MM> [tz] - schedule study material, e.g. /notify 24h 09:00 +3
/notify off - stop study notifications

You can also attach a CSV file (category,prompt,answer,keywords,tip) to add facts in bulk. Answer questions by simply typing the answer.`

func HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil || update.Message.From == nil || update.Message.Chat.ID == 0 {
		logger.Error("invalid update in HandleStart")
		return
	}

	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   "Welcome! " + helpText,
	})
	if err != nil {
		logger.Error("failed to send welcome message", "user_id", update.Message.From.ID, "error", err)
	}
}

func HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil || update.Message.Chat.ID == 0 {
		logger.Error("invalid update in HandleHelp")
		return
	}

	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   helpText,
	})
	if err != nil {
		logger.Error("failed to send help message", "error", err)
	}
}
