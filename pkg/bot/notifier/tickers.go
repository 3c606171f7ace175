package notifier

import (
	"context"
	"errors"
	"time"

	"github.com/pkrauchanka/tg-history-tutor/pkg/config"
	"github.com/pkrauchanka/tg-history-tutor/pkg/corpus"
	"github.com/pkrauchanka/tg-history-tutor/pkg/db"
	"github.com/pkrauchanka/tg-history-tutor/pkg/logger"
	"github.com/pkrauchanka/tg-history-tutor/pkg/notify"
	"github.com/pkrauchanka/tg-history-tutor/pkg/rotation"
	"github.com/pkrauchanka/tg-history-tutor/pkg/ui"
)

// Sender delivers one rendered study push. Implemented by the Telegram bot
// in cmd; faked in tests.
type Sender interface {
	SendStudyItem(ctx context.Context, chatID int64, text string) error
}

// StartPeriodicPushes polls for due notification jobs. The schedule itself
// is a pure query on wall-clock time; this loop only supplies the clock and
// the delivery.
func StartPeriodicPushes(ctx context.Context, sender Sender) {
	interval := time.Duration(config.AppConfig.Notify.PollIntervalSeconds) * time.Second
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			ProcessDue(ctx, sender, now.UTC())
		}
	}
}

// ProcessDue delivers study material for every due job and re-arms the jobs
// that were delivered. A failed delivery is left un-acknowledged, so the
// job stays due and is retried on the next poll.
func ProcessDue(ctx context.Context, sender Sender, now time.Time) {
	jobs, err := notify.DueJobs(now)
	if err != nil {
		logger.Error("failed to fetch due notification jobs", "error", err)
		return
	}

	for _, job := range jobs {
		item, err := pickStudyItem(job)
		if err != nil {
			if errors.Is(err, corpus.ErrEmptyCorpus) {
				logger.Debug("no study material to push", "user_id", job.UserID)
				continue
			}
			logger.Error("failed to pick study item", "user_id", job.UserID, "error", err)
			continue
		}

		if err := sender.SendStudyItem(ctx, job.UserID, ui.RenderStudyPush(item)); err != nil {
			logger.Error("failed to deliver study push", "user_id", job.UserID, "error", err)
			continue
		}
		if _, err := notify.Acknowledge(job, now); err != nil {
			logger.Error("failed to acknowledge notification job", "user_id", job.UserID, "error", err)
		}
	}
}

// pickStudyItem asks the rotation scheduler for the next unseen fact,
// cycling categories between pushes (the job version moves on every
// acknowledge) and skipping empty ones.
func pickStudyItem(job db.NotificationJob) (db.CorpusItem, error) {
	for offset := 0; offset < len(corpus.Categories); offset++ {
		category := corpus.Categories[(job.Version+offset)%len(corpus.Categories)]
		item, err := rotation.NextItem(job.UserID, category)
		if err != nil {
			if errors.Is(err, corpus.ErrEmptyCorpus) {
				continue
			}
			return db.CorpusItem{}, err
		}
		return item, nil
	}
	return db.CorpusItem{}, corpus.ErrEmptyCorpus
}
