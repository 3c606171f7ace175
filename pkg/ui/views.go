package ui

import (
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/pkrauchanka/tg-history-tutor/pkg/corpus"
	"github.com/pkrauchanka/tg-history-tutor/pkg/db"
	"github.com/pkrauchanka/tg-history-tutor/pkg/stats"
)

func CategoryKeyboard() (*models.InlineKeyboardMarkup, error) {
	var rows [][]models.InlineKeyboardButton
	var row []models.InlineKeyboardButton
	for _, category := range corpus.Categories {
		data, err := BuildQuizCallback(category)
		if err != nil {
			return nil, err
		}
		row = append(row, models.InlineKeyboardButton{Text: category.Title(), CallbackData: data})
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}, nil
}

func RenderQuestion(item db.CorpusItem, position string) string {
	category, _ := corpus.ParseCategory(item.Category)
	header := category.Title()
	if position != "" {
		header += " " + position
	}
	return fmt.Sprintf("%s\n\n%s", header, item.Prompt)
}

func RenderAnswerResult(correct bool, item db.CorpusItem, matchedKeyword string) string {
	var b strings.Builder
	if correct {
		b.WriteString("Correct!")
		if matchedKeyword != "" {
			b.WriteString(fmt.Sprintf(" (matched: %s)", matchedKeyword))
		}
	} else {
		b.WriteString(fmt.Sprintf("Not quite. The answer is: %s", item.CanonicalAnswer))
	}
	if item.Tip != "" {
		b.WriteString("\n\nTip: " + item.Tip)
	}
	return b.String()
}

func RenderMarathonResult(correct, total int) string {
	accuracy := 0.0
	if total > 0 {
		accuracy = float64(correct) / float64(total) * 100
	}
	return fmt.Sprintf("Marathon finished: %d/%d correct (%.0f%%).", correct, total, accuracy)
}

func RenderStats(summary stats.Summary, weakPrompts []string, hints []string) string {
	var b strings.Builder
	b.WriteString("Your statistics\n")
	b.WriteString(fmt.Sprintf("- Answered: %d (%.0f%% correct)\n", summary.TotalAttempts, summary.Accuracy))
	b.WriteString(fmt.Sprintf("- Streak: %d now, %d best\n", summary.CurrentStreak, summary.BestStreak))
	for _, category := range corpus.Categories {
		byCat, ok := summary.ByCategory[string(category)]
		if !ok {
			continue
		}
		b.WriteString(fmt.Sprintf("- %s: %d/%d (%.0f%%)\n", category.Title(), byCat.Correct, byCat.Attempts, byCat.Accuracy))
	}
	if len(weakPrompts) > 0 {
		b.WriteString("\nWeak spots:\n")
		for _, prompt := range weakPrompts {
			b.WriteString("- " + prompt + "\n")
		}
	}
	if len(hints) > 0 {
		b.WriteString("\nRecommendations:\n")
		for _, hint := range hints {
			b.WriteString(hint + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func RenderNotifyStatus(job db.NotificationJob) string {
	if !job.Enabled {
		return "Study notifications are off. Turn them on with /notify <every> <HH:MM>, e.g. /notify 24h 09:00."
	}
	return fmt.Sprintf(
		"Study notifications: every %dm at %s (UTC%+d), next at %s.",
		job.FrequencyMinutes,
		job.PreferredTime,
		job.TimezoneOffsetHours,
		job.NextFireAt.UTC().Format("2006-01-02 15:04 MST"),
	)
}

// RenderStudyPush formats a pushed fact with the answer behind a spoiler.
func RenderStudyPush(item db.CorpusItem) string {
	text := fmt.Sprintf("%s\n||%s||", bot.EscapeMarkdown(item.Prompt), bot.EscapeMarkdown(item.CanonicalAnswer))
	if item.Tip != "" {
		text += fmt.Sprintf("\n_%s_", bot.EscapeMarkdown(item.Tip))
	}
	return text
}
