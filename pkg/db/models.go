package db

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// CorpusItem is one fact under test. Rows are immutable after creation;
// user-submitted facts get UserAuthored set and obey the same rules.
type CorpusItem struct {
	ID               string         `gorm:"primaryKey"`
	Category         string         `gorm:"not null;index"`
	Prompt           string         `gorm:"not null"`
	CanonicalAnswer  string         `gorm:"not null"`
	AcceptedKeywords datatypes.JSON // normalized keyword phrases, JSON array of strings
	Tip              string
	UserAuthored     bool  `gorm:"not null;default:false"`
	CreatedBy        int64 `gorm:"index"`
	CreatedAt        time.Time
}

func (i *CorpusItem) Keywords() []string {
	if len(i.AcceptedKeywords) == 0 {
		return nil
	}
	var keywords []string
	if err := json.Unmarshal(i.AcceptedKeywords, &keywords); err != nil {
		return nil
	}
	return keywords
}

func (i *CorpusItem) SetKeywords(keywords []string) error {
	raw, err := json.Marshal(keywords)
	if err != nil {
		return err
	}
	i.AcceptedKeywords = datatypes.JSON(raw)
	return nil
}

// UserProgress tracks one rotation pass per (user, category). SeenItemIDs
// holds the ids already presented this pass, in presentation order.
type UserProgress struct {
	ID          uint           `gorm:"primaryKey"`
	UserID      int64          `gorm:"index;uniqueIndex:idx_progress_user_category"`
	Category    string         `gorm:"not null;uniqueIndex:idx_progress_user_category"`
	SeenItemIDs datatypes.JSON `gorm:"not null"`
	PassCount   int            `gorm:"not null;default:0"`
	UpdatedAt   time.Time
}

func (p *UserProgress) SeenIDs() []string {
	if len(p.SeenItemIDs) == 0 {
		return nil
	}
	var ids []string
	if err := json.Unmarshal(p.SeenItemIDs, &ids); err != nil {
		return nil
	}
	return ids
}

func (p *UserProgress) SetSeenIDs(ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	p.SeenItemIDs = datatypes.JSON(raw)
	return nil
}

// Attempt is one answered question. Append-only; analytics read the full log.
type Attempt struct {
	ID            uint   `gorm:"primaryKey"`
	UserID        int64  `gorm:"index;index:idx_attempt_user_item"`
	ItemID        string `gorm:"not null;index:idx_attempt_user_item"`
	Category      string `gorm:"not null;index"`
	SubmittedText string
	IsCorrect     bool      `gorm:"not null"`
	CreatedAt     time.Time `gorm:"index"`
}

// NotificationJob is the single pending study-push schedule for a user.
// Version guards Acknowledge against concurrent pollers advancing the
// same due cycle twice.
type NotificationJob struct {
	ID                  uint      `gorm:"primaryKey"`
	UserID              int64     `gorm:"uniqueIndex"`
	FrequencyMinutes    int       `gorm:"not null"`
	PreferredTime       string    `gorm:"not null"` // "HH:MM" in the user's local time
	TimezoneOffsetHours int       `gorm:"not null;default:0"`
	NextFireAt          time.Time `gorm:"index"`
	Enabled             bool      `gorm:"not null;default:true"`
	Version             int       `gorm:"not null;default:0"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
