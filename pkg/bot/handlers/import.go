package handlers

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/pkrauchanka/tg-history-tutor/pkg/config"
	"github.com/pkrauchanka/tg-history-tutor/pkg/corpus"
	"github.com/pkrauchanka/tg-history-tutor/pkg/db"
	"github.com/pkrauchanka/tg-history-tutor/pkg/logger"
	"github.com/pkrauchanka/tg-history-tutor/pkg/match"
)

// handleCorpusUpload imports user-authored facts from an attached CSV with
// rows of the form: category,prompt,answer,keyword;keyword,tip. The tip
// column is optional.
func handleCorpusUpload(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID
	document := update.Message.Document

	logger.Info("uploading corpus file", "file_name", document.FileName, "user_id", userID)

	if !strings.HasSuffix(document.FileName, ".csv") {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "The uploaded file is not a CSV. Please upload a valid CSV file.",
		})
		return
	}

	file, err := b.GetFile(ctx, &bot.GetFileParams{FileID: document.FileID})
	if err != nil {
		logger.Error("failed to get file", "error", err)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "Failed to download the file. Please try again.",
		})
		return
	}

	fileURL := fmt.Sprintf("https://api.telegram.org/file/bot%s/%s", config.AppConfig.Telegram.Token, file.FilePath)
	resp, err := http.Get(fileURL)
	if err != nil {
		logger.Error("failed to open file", "error", err)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "Failed to open the file. Please try again.",
		})
		return
	}
	defer resp.Body.Close()

	reader := csv.NewReader(resp.Body)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		logger.Error("failed to read CSV file", "error", err)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "Failed to read the CSV file. Please ensure it is in the correct format.",
		})
		return
	}

	added, skipped := 0, 0
	for _, record := range records {
		if err := addUserFact(userID, record); err != nil {
			skipped++
			if !errors.Is(err, corpus.ErrDuplicateID) {
				logger.Info("skipped CSV record", "user_id", userID, "record", record, "reason", err)
			}
			continue
		}
		added++
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   fmt.Sprintf("Import finished: %d facts added, %d skipped.", added, skipped),
	})
}

func addUserFact(userID int64, record []string) error {
	if len(record) < 3 {
		return fmt.Errorf("need at least category, prompt and answer, got %d columns", len(record))
	}
	category, err := corpus.ParseCategory(record[0])
	if err != nil {
		return err
	}
	prompt := strings.TrimSpace(record[1])
	answer := strings.TrimSpace(record[2])
	if prompt == "" || answer == "" {
		return fmt.Errorf("prompt and answer must not be empty")
	}

	var keywords []string
	if len(record) > 3 {
		for _, keyword := range strings.Split(record[3], ";") {
			if keyword = strings.TrimSpace(keyword); keyword != "" {
				keywords = append(keywords, keyword)
			}
		}
	}
	tip := ""
	if len(record) > 4 {
		tip = strings.TrimSpace(record[4])
	}

	item := db.CorpusItem{
		ID:              userFactID(userID, category, prompt),
		Category:        string(category),
		Prompt:          prompt,
		CanonicalAnswer: answer,
		Tip:             tip,
		UserAuthored:    true,
		CreatedBy:       userID,
		CreatedAt:       time.Now().UTC(),
	}
	if err := item.SetKeywords(keywords); err != nil {
		return err
	}
	return corpus.Add(item, false)
}

// userFactID derives a stable id from the prompt, so re-importing the same
// row collides instead of duplicating the fact.
func userFactID(userID int64, category corpus.Category, prompt string) string {
	slug := strings.Join(strings.Fields(match.Normalize(prompt)), "-")
	if len(slug) > 48 {
		slug = slug[:48]
	}
	return fmt.Sprintf("user-%d-%s-%s", userID, category, slug)
}
