package stats

import (
	"fmt"

	"github.com/pkrauchanka/tg-history-tutor/pkg/corpus"
)

const (
	minAttemptsForAdvice  = 10
	minCategoryAttempts   = 5
	lowAccuracyThreshold  = 50
	fairAccuracyThreshold = 70
)

// Recommendations builds the study hints for a user. The output is a
// deterministic function of the attempt log: fixed texts selected by
// accuracy bands and per-category weakness, never free-form.
func Recommendations(userID int64) ([]string, error) {
	summary, err := GetSummary(userID)
	if err != nil {
		return nil, err
	}

	if summary.TotalAttempts == 0 {
		return []string{"Take quizzes regularly to start tracking your progress."}, nil
	}

	var hints []string
	if summary.TotalAttempts < minAttemptsForAdvice {
		hints = append(hints, "Answer more questions to make your statistics meaningful.")
	}

	switch {
	case summary.Accuracy < lowAccuracyThreshold:
		hints = append(hints, "Your overall accuracy is below 50%. Start with the basic facts and work up to the harder ones.")
	case summary.Accuracy < fairAccuracyThreshold:
		hints = append(hints, "Turn on study notifications with /notify to review material regularly.")
	}

	// Category hints in the fixed category order, so equal inputs always
	// produce the same text.
	for _, category := range corpus.Categories {
		byCat, ok := summary.ByCategory[string(category)]
		if !ok || byCat.Attempts < minCategoryAttempts {
			continue
		}
		if byCat.Accuracy < lowAccuracyThreshold {
			hints = append(hints, fmt.Sprintf("Pay extra attention to %s (accuracy %.0f%%).", category.Title(), byCat.Accuracy))
		}
	}

	weak, err := WeakTopics(userID, "", 3)
	if err != nil {
		return nil, err
	}
	if len(weak) > 0 {
		hints = append(hints, "Review the questions you keep missing:")
		for _, topic := range weak {
			item, err := corpus.Lookup(topic.ItemID)
			if err != nil {
				continue
			}
			hints = append(hints, fmt.Sprintf("- %s (accuracy %.0f%%)", item.Prompt, 100-topic.Score()*100))
		}
	}
	return hints, nil
}
