package handlers

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pkrauchanka/tg-history-tutor/pkg/corpus"
	"github.com/pkrauchanka/tg-history-tutor/pkg/db"
	"github.com/pkrauchanka/tg-history-tutor/pkg/internal/testutil"
)

func TestHandleAddFact(t *testing.T) {
	testutil.SetupTestDB(t)

	client := newMockClient()
	b := newTestTelegramBot(t, client)

	command := "/addfact date | In what year was the Battle of Orsha? | 1514 | battle of orsha | Early 16th century."
	HandleAddFact(context.Background(), b, newTestUpdate(command, 1))

	if text := client.lastMessageText(t); !strings.Contains(text, "Fact added") {
		t.Fatalf("unexpected text: %q", text)
	}

	var item db.CorpusItem
	if err := db.DB.First(&item, "category = ?", "date").Error; err != nil {
		t.Fatalf("expected a stored fact: %v", err)
	}
	if !item.UserAuthored || item.CreatedBy != 1 {
		t.Fatalf("expected a user-authored fact, got %+v", item)
	}
	if item.CanonicalAnswer != "1514" || item.Tip != "Early 16th century." {
		t.Fatalf("unexpected fact: %+v", item)
	}
	if keywords := item.Keywords(); len(keywords) != 1 || keywords[0] != "battle of orsha" {
		t.Fatalf("unexpected keywords: %v", keywords)
	}
	if !strings.HasPrefix(item.ID, "user-1-date-") {
		t.Fatalf("unexpected id: %q", item.ID)
	}
}

func TestHandleAddFactDuplicate(t *testing.T) {
	testutil.SetupTestDB(t)

	client := newMockClient()
	b := newTestTelegramBot(t, client)

	command := "/addfact figure | Who printed the first Belarusian book? | Francysk Skaryna"
	HandleAddFact(context.Background(), b, newTestUpdate(command, 1))
	HandleAddFact(context.Background(), b, newTestUpdate(command, 1))

	if text := client.lastMessageText(t); !strings.Contains(text, "already exists") {
		t.Fatalf("unexpected text: %q", text)
	}
	var count int64
	if err := db.DB.Model(&db.CorpusItem{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("duplicate add must not create a second row, got %d", count)
	}
}

func TestHandleAddFactUsage(t *testing.T) {
	testutil.SetupTestDB(t)

	client := newMockClient()
	b := newTestTelegramBot(t, client)

	for _, command := range []string{"/addfact", "/addfact date | only a prompt"} {
		HandleAddFact(context.Background(), b, newTestUpdate(command, 1))
		if text := client.lastMessageText(t); !strings.Contains(text, "/addfact category | prompt | answer") {
			t.Fatalf("expected usage for %q, got %q", command, text)
		}
	}
}

func TestAddUserFactValidation(t *testing.T) {
	testutil.SetupTestDB(t)

	cases := []struct {
		name   string
		record []string
	}{
		{"unknown category", []string{"geography", "where?", "here"}},
		{"empty prompt", []string{"date", "  ", "1569"}},
		{"empty answer", []string{"date", "when?", ""}},
		{"too few columns", []string{"date", "when?"}},
	}
	for _, tc := range cases {
		if err := addUserFact(1, tc.record); err == nil {
			t.Fatalf("%s: expected an error", tc.name)
		}
	}
}

func TestAddUserFactStableID(t *testing.T) {
	testutil.SetupTestDB(t)

	record := []string{"event", "What happened at Grunwald in 1410?", "A decisive victory over the Teutonic Order"}
	if err := addUserFact(1, record); err != nil {
		t.Fatalf("addUserFact failed: %v", err)
	}
	// Same prompt from the same user maps onto the same id.
	if err := addUserFact(1, record); !errors.Is(err, corpus.ErrDuplicateID) {
		t.Fatalf("expected a duplicate collision, got %v", err)
	}
	// A different user owns a different id space.
	if err := addUserFact(2, record); err != nil {
		t.Fatalf("addUserFact for another user failed: %v", err)
	}
}
