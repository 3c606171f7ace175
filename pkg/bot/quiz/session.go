package quiz

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pkrauchanka/tg-history-tutor/pkg/corpus"
)

// Session is the one open question a user has in a chat. Marathon sessions
// additionally carry a countdown and a running score. Sessions live in
// memory only; the attempt log is the durable record, so a question lost to
// a restart is simply re-asked.
type Session struct {
	chatID         int64
	userID         int64
	itemID         string
	category       corpus.Category
	marathon       bool
	remaining      int
	answered       int
	correct        int
	lastActivityAt time.Time
}

type Snapshot struct {
	ItemID    string
	Category  corpus.Category
	Marathon  bool
	Remaining int
	Answered  int
	Correct   int
}

type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	now      func() time.Time
}

func NewManager(now func() time.Time) *Manager {
	if now == nil {
		now = time.Now
	}
	return &Manager{
		sessions: make(map[string]*Session),
		now:      now,
	}
}

var DefaultManager = NewManager(nil)

func ResetDefaultManager(now func() time.Time) {
	DefaultManager = NewManager(now)
}

const (
	SessionInactivityTimeout = 24 * time.Hour
	SessionSweeperInterval   = 10 * time.Minute
)

func sessionKey(chatID, userID int64) string {
	return fmt.Sprintf("%d:%d", chatID, userID)
}

// StartQuestion opens a single-question session, replacing any session the
// user already has in this chat.
func (m *Manager) StartQuestion(chatID, userID int64, itemID string, category corpus.Category) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sessionKey(chatID, userID)] = &Session{
		chatID:         chatID,
		userID:         userID,
		itemID:         itemID,
		category:       category,
		lastActivityAt: m.now(),
	}
}

// StartMarathon opens a marathon of the given length. The first question is
// attached afterwards with SetQuestion.
func (m *Manager) StartMarathon(chatID, userID int64, length int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sessionKey(chatID, userID)] = &Session{
		chatID:         chatID,
		userID:         userID,
		marathon:       true,
		remaining:      length,
		lastActivityAt: m.now(),
	}
}

// SetQuestion attaches the current question to an existing session.
func (m *Manager) SetQuestion(chatID, userID int64, itemID string, category corpus.Category) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	session := m.sessions[sessionKey(chatID, userID)]
	if session == nil {
		return false
	}
	session.itemID = itemID
	session.category = category
	session.lastActivityAt = m.now()
	return true
}

func (m *Manager) Get(chatID, userID int64) (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session := m.sessions[sessionKey(chatID, userID)]
	if session == nil || session.itemID == "" {
		return Snapshot{}, false
	}
	return snapshotOf(session), true
}

// RecordResult counts one answered question. For a marathon the countdown
// moves; the session ends (and is removed) when the countdown reaches zero
// or the session was a single question.
func (m *Manager) RecordResult(chatID, userID int64, correct bool) (Snapshot, bool) {
	key := sessionKey(chatID, userID)
	m.mu.Lock()
	defer m.mu.Unlock()
	session := m.sessions[key]
	if session == nil || session.itemID == "" {
		return Snapshot{}, false
	}
	session.lastActivityAt = m.now()
	session.answered++
	if correct {
		session.correct++
	}
	session.itemID = ""
	done := true
	if session.marathon {
		session.remaining--
		done = session.remaining <= 0
	}
	snapshot := snapshotOf(session)
	if done {
		delete(m.sessions, key)
	}
	return snapshot, done
}

func (m *Manager) End(chatID, userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionKey(chatID, userID))
}

func (m *Manager) StartSweeper(ctx context.Context) {
	ticker := time.NewTicker(SessionSweeperInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.SweepInactive(m.now())
		}
	}
}

func (m *Manager) SweepInactive(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, session := range m.sessions {
		if session == nil || now.Sub(session.lastActivityAt) > SessionInactivityTimeout {
			delete(m.sessions, key)
		}
	}
}

func snapshotOf(session *Session) Snapshot {
	return Snapshot{
		ItemID:    session.itemID,
		Category:  session.category,
		Marathon:  session.marathon,
		Remaining: session.remaining,
		Answered:  session.answered,
		Correct:   session.correct,
	}
}
