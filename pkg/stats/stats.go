package stats

import (
	"sort"
	"time"

	"github.com/pkrauchanka/tg-history-tutor/pkg/corpus"
	"github.com/pkrauchanka/tg-history-tutor/pkg/db"
)

// TopicStat is the derived per-item record. It is recomputed from the
// attempt log on every read, so a read always reflects every attempt
// recorded before it.
type TopicStat struct {
	ItemID      string
	Category    string
	Attempts    int
	Correct     int
	LastCorrect bool
	LastAt      time.Time
	LastMissAt  time.Time
}

// Score is the miss ratio. Zero for an item answered correctly every time.
func (s TopicStat) Score() float64 {
	if s.Attempts == 0 {
		return 0
	}
	return float64(s.Attempts-s.Correct) / float64(s.Attempts)
}

type CategoryStat struct {
	Attempts int
	Correct  int
	Accuracy float64
}

type Summary struct {
	TotalAttempts int
	TotalCorrect  int
	Accuracy      float64
	ByCategory    map[string]CategoryStat
	CurrentStreak int
	BestStreak    int
}

// Record appends one attempt to the log. The log is append-only; nothing
// in this package ever updates or deletes attempts.
func Record(attempt *db.Attempt) error {
	return db.DB.Create(attempt).Error
}

func aggregate(userID int64, category corpus.Category) (map[string]*TopicStat, error) {
	query := db.DB.Where("user_id = ?", userID)
	if category != "" {
		query = query.Where("category = ?", string(category))
	}
	var attempts []db.Attempt
	if err := query.Order("created_at ASC, id ASC").Find(&attempts).Error; err != nil {
		return nil, err
	}

	topics := make(map[string]*TopicStat)
	for _, attempt := range attempts {
		topic := topics[attempt.ItemID]
		if topic == nil {
			topic = &TopicStat{ItemID: attempt.ItemID, Category: attempt.Category}
			topics[attempt.ItemID] = topic
		}
		topic.Attempts++
		if attempt.IsCorrect {
			topic.Correct++
		} else {
			topic.LastMissAt = attempt.CreatedAt
		}
		topic.LastCorrect = attempt.IsCorrect
		topic.LastAt = attempt.CreatedAt
	}
	return topics, nil
}

// WeakTopics ranks a user's attempted items by miss ratio, most recently
// missed first among equal ratios. Items never missed are not weak and are
// excluded; items never attempted cannot appear at all.
func WeakTopics(userID int64, category corpus.Category, topN int) ([]TopicStat, error) {
	topics, err := aggregate(userID, category)
	if err != nil {
		return nil, err
	}

	weak := make([]TopicStat, 0, len(topics))
	for _, topic := range topics {
		if topic.Score() > 0 {
			weak = append(weak, *topic)
		}
	}
	sort.Slice(weak, func(i, j int) bool {
		si, sj := weak[i].Score(), weak[j].Score()
		if si != sj {
			return si > sj
		}
		if !weak[i].LastMissAt.Equal(weak[j].LastMissAt) {
			return weak[i].LastMissAt.After(weak[j].LastMissAt)
		}
		return weak[i].ItemID < weak[j].ItemID
	})

	if topN > 0 && len(weak) > topN {
		weak = weak[:topN]
	}
	return weak, nil
}

// WeakestAmong returns the subset of candidates sharing the highest
// weakness score, for the rotation scheduler's weighting. Empty when no
// candidate has ever been missed.
func WeakestAmong(userID int64, category corpus.Category, candidateIDs []string) ([]string, error) {
	topics, err := aggregate(userID, category)
	if err != nil {
		return nil, err
	}

	const epsilon = 1e-9
	best := 0.0
	for _, id := range candidateIDs {
		if topic, ok := topics[id]; ok && topic.Score() > best {
			best = topic.Score()
		}
	}
	if best <= 0 {
		return nil, nil
	}

	var weakest []string
	for _, id := range candidateIDs {
		if topic, ok := topics[id]; ok && topic.Score() >= best-epsilon {
			weakest = append(weakest, id)
		}
	}
	return weakest, nil
}

// GetSummary reports overall and per-category accuracy plus answer streaks.
func GetSummary(userID int64) (Summary, error) {
	var attempts []db.Attempt
	if err := db.DB.Where("user_id = ?", userID).Order("created_at ASC, id ASC").Find(&attempts).Error; err != nil {
		return Summary{}, err
	}

	summary := Summary{ByCategory: make(map[string]CategoryStat)}
	run := 0
	for _, attempt := range attempts {
		summary.TotalAttempts++
		byCat := summary.ByCategory[attempt.Category]
		byCat.Attempts++
		if attempt.IsCorrect {
			summary.TotalCorrect++
			byCat.Correct++
			run++
			if run > summary.BestStreak {
				summary.BestStreak = run
			}
		} else {
			run = 0
		}
		summary.ByCategory[attempt.Category] = byCat
	}
	summary.CurrentStreak = run

	summary.Accuracy = percentage(summary.TotalCorrect, summary.TotalAttempts)
	for category, byCat := range summary.ByCategory {
		byCat.Accuracy = percentage(byCat.Correct, byCat.Attempts)
		summary.ByCategory[category] = byCat
	}
	return summary, nil
}

func percentage(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total) * 100
}
