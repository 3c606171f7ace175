package notify

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkrauchanka/tg-history-tutor/pkg/db"
	"gorm.io/gorm"
)

var ErrJobNotFound = errors.New("notification job not found")

const MinFrequency = time.Minute

// ParsePreferredTime validates and normalizes an "HH:MM" time of day, so
// "9:5" becomes "09:05".
func ParsePreferredTime(value string) (string, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid time %q, expected HH:MM", value)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid hour in %q", value)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid minute in %q", value)
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}

// Schedule creates or replaces the user's notification job. A user has at
// most one pending fire time; re-scheduling replaces it, never duplicates.
func Schedule(userID int64, frequency time.Duration, preferredTime string, tzOffsetHours int, now time.Time) (db.NotificationJob, error) {
	if frequency < MinFrequency {
		return db.NotificationJob{}, fmt.Errorf("frequency %s is below the minimum of %s", frequency, MinFrequency)
	}
	normalized, err := ParsePreferredTime(preferredTime)
	if err != nil {
		return db.NotificationJob{}, err
	}

	var job db.NotificationJob
	err = db.DB.Where("user_id = ?", userID).First(&job).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return db.NotificationJob{}, err
	}

	job.UserID = userID
	job.FrequencyMinutes = int(frequency / time.Minute)
	job.PreferredTime = normalized
	job.TimezoneOffsetHours = tzOffsetHours
	job.NextFireAt = firstFireAt(normalized, tzOffsetHours, now)
	job.Enabled = true

	if err := db.DB.Save(&job).Error; err != nil {
		return db.NotificationJob{}, err
	}
	return job, nil
}

// DueJobs lists every enabled job whose fire time has passed. Pure query:
// calling it twice without an Acknowledge in between returns the same jobs.
func DueJobs(now time.Time) ([]db.NotificationJob, error) {
	var jobs []db.NotificationJob
	err := db.DB.
		Where("enabled = ? AND next_fire_at <= ?", true, now).
		Order("next_fire_at ASC, user_id ASC").
		Find(&jobs).Error
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

// Acknowledge re-arms a job after a successful delivery, advancing the fire
// time past now in whole frequency steps from the preferred-time anchor.
// The version check makes the advance apply at most once per due cycle: a
// poller racing on an already-acknowledged job gets the refreshed row back
// unchanged.
func Acknowledge(job db.NotificationJob, now time.Time) (db.NotificationJob, error) {
	next := nextFireAfter(job, now)

	result := db.DB.Model(&db.NotificationJob{}).
		Where("id = ? AND version = ?", job.ID, job.Version).
		Updates(map[string]interface{}{
			"next_fire_at": next,
			"version":      job.Version + 1,
		})
	if result.Error != nil {
		return db.NotificationJob{}, result.Error
	}
	var updated db.NotificationJob
	if err := db.DB.First(&updated, "id = ?", job.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return db.NotificationJob{}, ErrJobNotFound
		}
		return db.NotificationJob{}, err
	}
	return updated, nil
}

// Cancel disables the user's job. The row is kept so re-enabling preserves
// the user's frequency and preferred time.
func Cancel(userID int64) error {
	result := db.DB.Model(&db.NotificationJob{}).
		Where("user_id = ?", userID).
		Update("enabled", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("cancel for user %d: %w", userID, ErrJobNotFound)
	}
	return nil
}

// Job fetches the user's schedule, enabled or not.
func Job(userID int64) (db.NotificationJob, error) {
	var job db.NotificationJob
	if err := db.DB.Where("user_id = ?", userID).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return db.NotificationJob{}, fmt.Errorf("job for user %d: %w", userID, ErrJobNotFound)
		}
		return db.NotificationJob{}, err
	}
	return job, nil
}

// firstFireAt is the next occurrence of the preferred local time at or
// after now.
func firstFireAt(preferredTime string, tzOffsetHours int, now time.Time) time.Time {
	hour, minute := mustClock(preferredTime)
	offset := time.Duration(tzOffsetHours) * time.Hour

	localNow := now.UTC().Add(offset)
	year, month, day := localNow.Date()
	localFire := time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
	fire := localFire.Add(-offset)
	if fire.Before(now) {
		fire = fire.Add(24 * time.Hour)
	}
	return fire
}

func nextFireAfter(job db.NotificationJob, now time.Time) time.Time {
	frequency := time.Duration(job.FrequencyMinutes) * time.Minute
	next := job.NextFireAt
	for !next.After(now) {
		next = next.Add(frequency)
	}
	return next
}

func mustClock(preferredTime string) (int, int) {
	parts := strings.Split(preferredTime, ":")
	hour, _ := strconv.Atoi(parts[0])
	minute, _ := strconv.Atoi(parts[1])
	return hour, minute
}
