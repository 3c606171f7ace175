package quiz

import (
	"testing"
	"time"

	"github.com/pkrauchanka/tg-history-tutor/pkg/corpus"
)

func TestSingleQuestionLifecycle(t *testing.T) {
	m := NewManager(nil)
	m.StartQuestion(100, 1, "date-lublin", corpus.CategoryDate)

	snapshot, ok := m.Get(100, 1)
	if !ok {
		t.Fatalf("expected an open session")
	}
	if snapshot.ItemID != "date-lublin" || snapshot.Category != corpus.CategoryDate || snapshot.Marathon {
		t.Fatalf("unexpected snapshot: %+v", snapshot)
	}

	snapshot, done := m.RecordResult(100, 1, true)
	if !done {
		t.Fatalf("a single question session must finish after one answer")
	}
	if snapshot.Answered != 1 || snapshot.Correct != 1 {
		t.Fatalf("unexpected result snapshot: %+v", snapshot)
	}
	if _, ok := m.Get(100, 1); ok {
		t.Fatalf("finished session must be removed")
	}
}

func TestSessionsAreKeyedByChatAndUser(t *testing.T) {
	m := NewManager(nil)
	m.StartQuestion(100, 1, "date-a", corpus.CategoryDate)
	m.StartQuestion(200, 1, "figure-a", corpus.CategoryFigure)

	first, ok := m.Get(100, 1)
	if !ok || first.ItemID != "date-a" {
		t.Fatalf("unexpected session in chat 100: %+v", first)
	}
	second, ok := m.Get(200, 1)
	if !ok || second.ItemID != "figure-a" {
		t.Fatalf("unexpected session in chat 200: %+v", second)
	}
	if _, ok := m.Get(100, 2); ok {
		t.Fatalf("expected no session for another user")
	}
}

func TestMarathonCountdown(t *testing.T) {
	m := NewManager(nil)
	m.StartMarathon(100, 1, 3)

	// No question attached yet, so there is nothing to answer.
	if _, ok := m.Get(100, 1); ok {
		t.Fatalf("marathon without a question must not report an open question")
	}

	results := []bool{true, false, true}
	for i, correct := range results {
		if !m.SetQuestion(100, 1, "date-a", corpus.CategoryDate) {
			t.Fatalf("failed to attach question %d", i+1)
		}
		snapshot, done := m.RecordResult(100, 1, correct)
		wantDone := i == len(results)-1
		if done != wantDone {
			t.Fatalf("question %d: done = %v, want %v", i+1, done, wantDone)
		}
		if wantDone && (snapshot.Answered != 3 || snapshot.Correct != 2) {
			t.Fatalf("unexpected final snapshot: %+v", snapshot)
		}
	}
	if _, ok := m.Get(100, 1); ok {
		t.Fatalf("finished marathon must be removed")
	}
}

func TestStartQuestionReplacesExistingSession(t *testing.T) {
	m := NewManager(nil)
	m.StartMarathon(100, 1, 5)
	m.StartQuestion(100, 1, "event-a", corpus.CategoryEvent)

	snapshot, ok := m.Get(100, 1)
	if !ok || snapshot.Marathon || snapshot.ItemID != "event-a" {
		t.Fatalf("expected the new single question session, got %+v", snapshot)
	}
}

func TestEnd(t *testing.T) {
	m := NewManager(nil)
	m.StartQuestion(100, 1, "date-a", corpus.CategoryDate)
	m.End(100, 1)
	if _, ok := m.Get(100, 1); ok {
		t.Fatalf("ended session must be removed")
	}
	if _, done := m.RecordResult(100, 1, true); done {
		t.Fatalf("recording against an ended session must be a no-op")
	}
}

func TestSweepInactive(t *testing.T) {
	current := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	m := NewManager(func() time.Time { return current })

	m.StartQuestion(100, 1, "date-a", corpus.CategoryDate)
	current = current.Add(2 * time.Hour)
	m.StartQuestion(100, 2, "date-b", corpus.CategoryDate)

	m.SweepInactive(current.Add(23 * time.Hour))
	if _, ok := m.Get(100, 1); ok {
		t.Fatalf("stale session must be swept")
	}
	if _, ok := m.Get(100, 2); !ok {
		t.Fatalf("fresh session must survive the sweep")
	}
}
