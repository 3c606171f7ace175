package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/pkrauchanka/tg-history-tutor/pkg/corpus"
	"github.com/pkrauchanka/tg-history-tutor/pkg/logger"
)

const addFactUsage = "Please use the format: /addfact category | prompt | answer | keyword;keyword | tip\nCategories: date, event, figure, achievement. Keywords and tip are optional."

// HandleAddFact adds a single user-authored fact from a pipe-separated
// command line.
func HandleAddFact(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil || update.Message.From == nil || update.Message.Chat.ID == 0 {
		logger.Error("invalid update in HandleAddFact")
		return
	}

	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID

	payload := strings.TrimSpace(strings.TrimPrefix(update.Message.Text, "/addfact"))
	if payload == "" {
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: addFactUsage})
		return
	}

	fields := strings.Split(payload, "|")
	record := make([]string, 0, len(fields))
	for _, field := range fields {
		record = append(record, strings.TrimSpace(field))
	}
	if len(record) < 3 {
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: addFactUsage})
		return
	}

	if err := addUserFact(userID, record); err != nil {
		if errors.Is(err, corpus.ErrDuplicateID) {
			b.SendMessage(ctx, &bot.SendMessageParams{
				ChatID: chatID,
				Text:   "A fact with this prompt already exists.",
			})
			return
		}
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "Failed to add the fact: " + err.Error() + "\n\n" + addFactUsage,
		})
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   "Fact added. It will show up in your quizzes.",
	})
}
