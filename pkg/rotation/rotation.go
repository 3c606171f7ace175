package rotation

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/pkrauchanka/tg-history-tutor/pkg/corpus"
	"github.com/pkrauchanka/tg-history-tutor/pkg/db"
	"github.com/pkrauchanka/tg-history-tutor/pkg/stats"
	"gorm.io/gorm"
)

// pick selects an index in [0,n). Uniform random by default; tests swap it
// for a deterministic function.
var pick = func(n int) int { return rand.Intn(n) }

// Per-user serialization: one user's progress row is only ever touched
// under that user's mutex. Different users proceed independently.
var (
	locksMu   sync.Mutex
	userLocks = make(map[int64]*sync.Mutex)
)

func lockFor(userID int64) *sync.Mutex {
	locksMu.Lock()
	defer locksMu.Unlock()
	lock := userLocks[userID]
	if lock == nil {
		lock = &sync.Mutex{}
		userLocks[userID] = lock
	}
	return lock
}

// NextItem picks the next question for a user within a category. Every item
// of the category is served exactly once before any repeats; once the pass
// is exhausted the seen list is cleared, the pass counter moves and a new
// pass begins. Among the unseen candidates, the ones the user keeps missing
// are preferred.
func NextItem(userID int64, category corpus.Category) (db.CorpusItem, error) {
	lock := lockFor(userID)
	lock.Lock()
	defer lock.Unlock()

	items, err := corpus.ItemsOf(category)
	if err != nil {
		return db.CorpusItem{}, err
	}
	if len(items) == 0 {
		return db.CorpusItem{}, fmt.Errorf("category %q: %w", category, corpus.ErrEmptyCorpus)
	}

	progress, err := loadProgress(userID, category)
	if err != nil {
		return db.CorpusItem{}, err
	}

	seen := progress.SeenIDs()
	seenSet := make(map[string]bool, len(seen))
	for _, id := range seen {
		seenSet[id] = true
	}

	candidates := make([]db.CorpusItem, 0, len(items))
	for _, item := range items {
		if !seenSet[item.ID] {
			candidates = append(candidates, item)
		}
	}
	if len(candidates) == 0 {
		// Pass complete: the whole category has been served once.
		progress.PassCount++
		seen = nil
		candidates = items
	}

	candidateIDs := make([]string, len(candidates))
	for i, item := range candidates {
		candidateIDs[i] = item.ID
	}
	weakest, err := stats.WeakestAmong(userID, category, candidateIDs)
	if err != nil {
		return db.CorpusItem{}, err
	}

	pool := candidates
	if len(weakest) > 0 {
		weakSet := make(map[string]bool, len(weakest))
		for _, id := range weakest {
			weakSet[id] = true
		}
		pool = make([]db.CorpusItem, 0, len(weakest))
		for _, item := range candidates {
			if weakSet[item.ID] {
				pool = append(pool, item)
			}
		}
	}

	chosen := pool[pick(len(pool))]

	if err := progress.SetSeenIDs(append(seen, chosen.ID)); err != nil {
		return db.CorpusItem{}, err
	}
	if err := db.DB.Save(progress).Error; err != nil {
		return db.CorpusItem{}, err
	}
	return chosen, nil
}

func loadProgress(userID int64, category corpus.Category) (*db.UserProgress, error) {
	var progress db.UserProgress
	err := db.DB.Where("user_id = ? AND category = ?", userID, string(category)).First(&progress).Error
	if err == nil {
		return &progress, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	// PassCount starts at 1: the first pass is underway as soon as the
	// first question is served.
	progress = db.UserProgress{UserID: userID, Category: string(category), PassCount: 1}
	if err := progress.SetSeenIDs(nil); err != nil {
		return nil, err
	}
	return &progress, nil
}
