package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/pkrauchanka/tg-history-tutor/pkg/bot/quiz"
	"github.com/pkrauchanka/tg-history-tutor/pkg/config"
	"github.com/pkrauchanka/tg-history-tutor/pkg/corpus"
	"github.com/pkrauchanka/tg-history-tutor/pkg/logger"
	"github.com/pkrauchanka/tg-history-tutor/pkg/rotation"
	"github.com/pkrauchanka/tg-history-tutor/pkg/ui"
)

func HandleQuiz(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil || update.Message.From == nil || update.Message.Chat.ID == 0 {
		logger.Error("invalid update in HandleQuiz")
		return
	}

	keyboard, err := ui.CategoryKeyboard()
	if err != nil {
		logger.Error("failed to build category keyboard", "error", err)
		return
	}
	_, err = b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      update.Message.Chat.ID,
		Text:        "Pick a category:",
		ReplyMarkup: keyboard,
	})
	if err != nil {
		logger.Error("failed to send category keyboard", "user_id", update.Message.From.ID, "error", err)
	}
}

func HandleQuizCallback(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.CallbackQuery == nil {
		logger.Error("invalid update in HandleQuizCallback")
		return
	}
	callback := update.CallbackQuery
	message := callback.Message.Message
	if message == nil || message.Chat.ID == 0 {
		logger.Error("missing message in quiz callback")
		return
	}

	category, err := ui.ParseQuizCallback(callback.Data)
	if err != nil {
		logger.Error("failed to parse quiz callback", "data", callback.Data, "error", err)
		return
	}

	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: callback.ID})

	chatID := message.Chat.ID
	userID := callback.From.ID
	item, err := rotation.NextItem(userID, category)
	if err != nil {
		if errors.Is(err, corpus.ErrEmptyCorpus) {
			b.SendMessage(ctx, &bot.SendMessageParams{
				ChatID: chatID,
				Text:   fmt.Sprintf("There are no %s facts yet. Add some with /addfact.", category.Title()),
			})
			return
		}
		logger.Error("failed to pick next item", "user_id", userID, "category", category, "error", err)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "Failed to pick a question. Please try again later.",
		})
		return
	}

	quiz.DefaultManager.StartQuestion(chatID, userID, item.ID, category)
	_, err = b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   ui.RenderQuestion(item, ""),
	})
	if err != nil {
		logger.Error("failed to send question", "user_id", userID, "error", err)
	}
}

func HandleMarathon(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil || update.Message.From == nil || update.Message.Chat.ID == 0 {
		logger.Error("invalid update in HandleMarathon")
		return
	}

	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID
	length := config.AppConfig.Quiz.MarathonLength
	if length <= 0 {
		length = 5
	}

	quiz.DefaultManager.StartMarathon(chatID, userID, length)
	if !askMarathonQuestion(ctx, b, chatID, userID, 0, length) {
		quiz.DefaultManager.End(chatID, userID)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "The corpus is empty, the marathon cannot start. Add facts with /addfact.",
		})
	}
}

func HandleSkip(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil || update.Message.From == nil || update.Message.Chat.ID == 0 {
		logger.Error("invalid update in HandleSkip")
		return
	}

	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID
	snapshot, active := quiz.DefaultManager.Get(chatID, userID)
	if !active {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "There is no open question. Start one with /quiz.",
		})
		return
	}

	item, err := corpus.Lookup(snapshot.ItemID)
	text := "Question skipped."
	if err == nil {
		text = fmt.Sprintf("Question skipped. The answer was: %s", item.CanonicalAnswer)
	}
	quiz.DefaultManager.End(chatID, userID)
	b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text})
}

// askMarathonQuestion serves the next marathon question, cycling categories
// in the fixed order and skipping empty ones. Returns false when no
// category has any items.
func askMarathonQuestion(ctx context.Context, b *bot.Bot, chatID, userID int64, answered, total int) bool {
	for offset := 0; offset < len(corpus.Categories); offset++ {
		category := corpus.Categories[(answered+offset)%len(corpus.Categories)]
		item, err := rotation.NextItem(userID, category)
		if err != nil {
			if errors.Is(err, corpus.ErrEmptyCorpus) {
				continue
			}
			logger.Error("failed to pick marathon item", "user_id", userID, "category", category, "error", err)
			continue
		}
		if !quiz.DefaultManager.SetQuestion(chatID, userID, item.ID, category) {
			return false
		}
		position := fmt.Sprintf("(%d/%d)", answered+1, total)
		_, err = b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   ui.RenderQuestion(item, position),
		})
		if err != nil {
			logger.Error("failed to send marathon question", "user_id", userID, "error", err)
		}
		return true
	}
	return false
}
