package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/pkrauchanka/tg-history-tutor/pkg/bot/quiz"
	"github.com/pkrauchanka/tg-history-tutor/pkg/config"
	"github.com/pkrauchanka/tg-history-tutor/pkg/corpus"
	"github.com/pkrauchanka/tg-history-tutor/pkg/db"
	"github.com/pkrauchanka/tg-history-tutor/pkg/logger"
	"github.com/pkrauchanka/tg-history-tutor/pkg/match"
	"github.com/pkrauchanka/tg-history-tutor/pkg/stats"
	"github.com/pkrauchanka/tg-history-tutor/pkg/ui"
)

func DefaultHandler(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil || update.Message.From == nil || update.Message.Chat.ID == 0 {
		logger.Error("received invalid update in DefaultHandler")
		return
	}

	if update.Message.Document != nil {
		handleCorpusUpload(ctx, b, update)
		return
	}

	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID
	if _, active := quiz.DefaultManager.Get(chatID, userID); active {
		gradeAnswer(ctx, b, chatID, userID, update.Message.Text)
		return
	}

	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   "Start a quiz with /quiz or /marathon, or see /help for everything I can do.",
	})
	if err != nil {
		logger.Error("failed to send message in DefaultHandler", "error", err)
	}
}

func gradeAnswer(ctx context.Context, b *bot.Bot, chatID, userID int64, text string) {
	snapshot, _ := quiz.DefaultManager.Get(chatID, userID)

	item, err := corpus.Lookup(snapshot.ItemID)
	if err != nil {
		logger.Error("active question refers to unknown item", "user_id", userID, "item_id", snapshot.ItemID, "error", err)
		quiz.DefaultManager.End(chatID, userID)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "That question is gone from the corpus. Start a new one with /quiz.",
		})
		return
	}

	checker := match.NewChecker(config.AppConfig.Quiz.OverlapFraction)
	result := checker.Check(item, text)

	attempt := db.Attempt{
		UserID:        userID,
		ItemID:        item.ID,
		Category:      item.Category,
		SubmittedText: strings.TrimSpace(text),
		IsCorrect:     result.IsCorrect,
		CreatedAt:     time.Now().UTC(),
	}
	if err := stats.Record(&attempt); err != nil {
		logger.Error("failed to record attempt", "user_id", userID, "item_id", item.ID, "error", err)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "Failed to record your answer. Please try again.",
		})
		return
	}

	after, done := quiz.DefaultManager.RecordResult(chatID, userID, result.IsCorrect)
	_, err = b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   ui.RenderAnswerResult(result.IsCorrect, item, result.MatchedKeyword),
	})
	if err != nil {
		logger.Error("failed to send answer result", "user_id", userID, "error", err)
	}

	if !after.Marathon {
		return
	}
	if done {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   ui.RenderMarathonResult(after.Correct, after.Answered),
		})
		return
	}
	if !askMarathonQuestion(ctx, b, chatID, userID, after.Answered, after.Answered+after.Remaining) {
		quiz.DefaultManager.End(chatID, userID)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   ui.RenderMarathonResult(after.Correct, after.Answered),
		})
	}
}
