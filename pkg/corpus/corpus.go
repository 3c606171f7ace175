package corpus

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/pkrauchanka/tg-history-tutor/pkg/db"
	"gorm.io/gorm"
)

var (
	ErrNotFound    = errors.New("corpus item not found")
	ErrDuplicateID = errors.New("corpus item id already exists")
	ErrEmptyCorpus = errors.New("corpus category has no items")
)

// Category is the closed set of test types. Each corpus item belongs to
// exactly one.
type Category string

const (
	CategoryDate        Category = "date"
	CategoryEvent       Category = "event"
	CategoryFigure      Category = "figure"
	CategoryAchievement Category = "achievement"
)

var Categories = []Category{CategoryDate, CategoryEvent, CategoryFigure, CategoryAchievement}

func ParseCategory(value string) (Category, error) {
	switch Category(strings.ToLower(strings.TrimSpace(value))) {
	case CategoryDate:
		return CategoryDate, nil
	case CategoryEvent:
		return CategoryEvent, nil
	case CategoryFigure:
		return CategoryFigure, nil
	case CategoryAchievement:
		return CategoryAchievement, nil
	default:
		return "", fmt.Errorf("unknown category %q", value)
	}
}

func (c Category) Title() string {
	switch c {
	case CategoryDate:
		return "Dates"
	case CategoryEvent:
		return "Events"
	case CategoryFigure:
		return "Figures"
	case CategoryAchievement:
		return "Achievements"
	default:
		if c == "" {
			return ""
		}
		return strings.ToUpper(string(c)[:1]) + string(c)[1:]
	}
}

// Adds are serialized through a single writer; reads go straight to the
// database and may interleave freely.
var addMu sync.Mutex

func Lookup(id string) (db.CorpusItem, error) {
	var item db.CorpusItem
	if err := db.DB.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return db.CorpusItem{}, fmt.Errorf("lookup %q: %w", id, ErrNotFound)
		}
		return db.CorpusItem{}, err
	}
	return item, nil
}

// ItemsOf returns all items of a category in a stable order (by id).
func ItemsOf(category Category) ([]db.CorpusItem, error) {
	var items []db.CorpusItem
	if err := db.DB.Where("category = ?", string(category)).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Add inserts a new item. An existing id is rejected with ErrDuplicateID
// unless replace is set, in which case the row is overwritten.
func Add(item db.CorpusItem, replace bool) error {
	addMu.Lock()
	defer addMu.Unlock()

	var existing db.CorpusItem
	err := db.DB.First(&existing, "id = ?", item.ID).Error
	switch {
	case err == nil:
		if !replace {
			return fmt.Errorf("add %q: %w", item.ID, ErrDuplicateID)
		}
		return db.DB.Save(&item).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		return db.DB.Create(&item).Error
	default:
		return err
	}
}
