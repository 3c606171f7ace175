package handlers

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pkrauchanka/tg-history-tutor/pkg/db"
	"github.com/pkrauchanka/tg-history-tutor/pkg/internal/testutil"
	"github.com/pkrauchanka/tg-history-tutor/pkg/stats"
)

func TestHandleStatsFreshUser(t *testing.T) {
	testutil.SetupTestDB(t)

	client := newMockClient()
	b := newTestTelegramBot(t, client)

	HandleStats(context.Background(), b, newTestUpdate("/stats", 1))

	text := client.lastMessageText(t)
	if !strings.Contains(text, "Answered: 0") {
		t.Fatalf("unexpected text: %q", text)
	}
	if !strings.Contains(text, "Recommendations:") {
		t.Fatalf("expected the cold-start recommendation, got %q", text)
	}
}

func TestHandleStatsShowsWeakSpots(t *testing.T) {
	testutil.SetupTestDB(t)
	seedFact(t, "date-lublin", "date", "In what year was the Union of Lublin signed?", "1569")

	now := time.Now().UTC()
	attempts := []db.Attempt{
		{UserID: 1, ItemID: "date-lublin", Category: "date", IsCorrect: false, CreatedAt: now.Add(-2 * time.Hour)},
		{UserID: 1, ItemID: "date-lublin", Category: "date", IsCorrect: true, CreatedAt: now.Add(-time.Hour)},
	}
	for i := range attempts {
		if err := stats.Record(&attempts[i]); err != nil {
			t.Fatalf("failed to record attempt: %v", err)
		}
	}

	client := newMockClient()
	b := newTestTelegramBot(t, client)

	HandleStats(context.Background(), b, newTestUpdate("/stats", 1))

	text := client.lastMessageText(t)
	if !strings.Contains(text, "Answered: 2 (50% correct)") {
		t.Fatalf("unexpected totals: %q", text)
	}
	if !strings.Contains(text, "Weak spots:") || !strings.Contains(text, "Union of Lublin") {
		t.Fatalf("expected the weak prompt, got %q", text)
	}
}
