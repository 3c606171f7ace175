package rotation

import (
	"errors"
	"testing"
	"time"

	"github.com/pkrauchanka/tg-history-tutor/pkg/corpus"
	"github.com/pkrauchanka/tg-history-tutor/pkg/db"
	"github.com/pkrauchanka/tg-history-tutor/pkg/internal/testutil"
	"github.com/pkrauchanka/tg-history-tutor/pkg/logger"
)

func seedFigures(t *testing.T, ids ...string) {
	t.Helper()
	for _, id := range ids {
		item := db.CorpusItem{ID: id, Category: "figure", Prompt: "who is " + id + "?", CanonicalAnswer: id}
		if err := db.DB.Create(&item).Error; err != nil {
			t.Fatalf("failed to seed %s: %v", id, err)
		}
	}
}

func usePick(t *testing.T, f func(int) int) {
	t.Helper()
	old := pick
	pick = f
	t.Cleanup(func() { pick = old })
}

func TestNextItemServesFullPassWithoutRepeats(t *testing.T) {
	testutil.SetupTestDB(t)
	logger.SetLogLevel(logger.ERROR)
	seedFigures(t, "figure-a", "figure-b", "figure-c")

	const userID = int64(42)
	seen := make(map[string]bool)
	for i := 0; i < 3; i++ {
		item, err := NextItem(userID, corpus.CategoryFigure)
		if err != nil {
			t.Fatalf("NextItem call %d failed: %v", i+1, err)
		}
		if seen[item.ID] {
			t.Fatalf("item %s repeated before the pass was exhausted", item.ID)
		}
		seen[item.ID] = true
	}
	for _, id := range []string{"figure-a", "figure-b", "figure-c"} {
		if !seen[id] {
			t.Fatalf("item %s was never served in the first pass", id)
		}
	}

	var progress db.UserProgress
	if err := db.DB.Where("user_id = ? AND category = ?", userID, "figure").First(&progress).Error; err != nil {
		t.Fatalf("failed to load progress: %v", err)
	}
	if progress.PassCount != 1 {
		t.Fatalf("expected pass count 1 during the first pass, got %d", progress.PassCount)
	}
	if len(progress.SeenIDs()) != 3 {
		t.Fatalf("expected 3 seen ids, got %v", progress.SeenIDs())
	}
}

func TestNextItemStartsNewPassAfterExhaustion(t *testing.T) {
	testutil.SetupTestDB(t)
	logger.SetLogLevel(logger.ERROR)
	seedFigures(t, "figure-a", "figure-b", "figure-c")

	const userID = int64(43)
	for i := 0; i < 3; i++ {
		if _, err := NextItem(userID, corpus.CategoryFigure); err != nil {
			t.Fatalf("NextItem failed: %v", err)
		}
	}

	item, err := NextItem(userID, corpus.CategoryFigure)
	if err != nil {
		t.Fatalf("fourth NextItem failed: %v", err)
	}
	if item.ID != "figure-a" && item.ID != "figure-b" && item.ID != "figure-c" {
		t.Fatalf("unexpected item %s", item.ID)
	}

	var progress db.UserProgress
	if err := db.DB.Where("user_id = ? AND category = ?", userID, "figure").First(&progress).Error; err != nil {
		t.Fatalf("failed to load progress: %v", err)
	}
	if progress.PassCount != 2 {
		t.Fatalf("expected pass count 2 after rollover, got %d", progress.PassCount)
	}
	if got := progress.SeenIDs(); len(got) != 1 || got[0] != item.ID {
		t.Fatalf("expected new pass to contain only %s, got %v", item.ID, got)
	}
}

func TestNextItemEmptyCategory(t *testing.T) {
	testutil.SetupTestDB(t)
	logger.SetLogLevel(logger.ERROR)

	if _, err := NextItem(1, corpus.CategoryDate); !errors.Is(err, corpus.ErrEmptyCorpus) {
		t.Fatalf("expected ErrEmptyCorpus, got %v", err)
	}
}

func TestNextItemPrefersWeakTopics(t *testing.T) {
	testutil.SetupTestDB(t)
	logger.SetLogLevel(logger.ERROR)
	seedFigures(t, "figure-a", "figure-b", "figure-c")
	usePick(t, func(int) int { return 0 })

	const userID = int64(44)
	now := time.Now().UTC()
	attempts := []db.Attempt{
		{UserID: userID, ItemID: "figure-a", Category: "figure", IsCorrect: true, CreatedAt: now.Add(-2 * time.Hour)},
		{UserID: userID, ItemID: "figure-b", Category: "figure", IsCorrect: false, CreatedAt: now.Add(-time.Hour)},
	}
	for i := range attempts {
		if err := db.DB.Create(&attempts[i]).Error; err != nil {
			t.Fatalf("failed to seed attempt: %v", err)
		}
	}

	item, err := NextItem(userID, corpus.CategoryFigure)
	if err != nil {
		t.Fatalf("NextItem failed: %v", err)
	}
	if item.ID != "figure-b" {
		t.Fatalf("expected the missed item to be preferred, got %s", item.ID)
	}
}

func TestNextItemUniformWhenNoWeakness(t *testing.T) {
	testutil.SetupTestDB(t)
	logger.SetLogLevel(logger.ERROR)
	seedFigures(t, "figure-a", "figure-b", "figure-c")
	usePick(t, func(n int) int { return n - 1 })

	item, err := NextItem(45, corpus.CategoryFigure)
	if err != nil {
		t.Fatalf("NextItem failed: %v", err)
	}
	// With no attempt history the pool is all candidates in id order.
	if item.ID != "figure-c" {
		t.Fatalf("expected pick over the full candidate pool, got %s", item.ID)
	}
}
