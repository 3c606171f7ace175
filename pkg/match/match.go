package match

import (
	"strings"
	"unicode"

	"github.com/pkrauchanka/tg-history-tutor/pkg/db"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultOverlapFraction is the share of canonical-answer tokens a free-text
// answer must cover to pass the overlap rule. Only applied to canonical
// answers of three or more tokens, so a single lucky word cannot match a
// short answer.
const DefaultOverlapFraction = 0.6

type Result struct {
	IsCorrect      bool
	MatchedKeyword string
}

type Checker struct {
	OverlapFraction float64
}

func NewChecker(overlapFraction float64) Checker {
	if overlapFraction <= 0 || overlapFraction > 1 {
		overlapFraction = DefaultOverlapFraction
	}
	return Checker{OverlapFraction: overlapFraction}
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases, drops diacritics, turns punctuation into spaces and
// collapses whitespace. Comparisons everywhere in this package run on
// normalized text.
func Normalize(text string) string {
	text = strings.ToLower(text)
	if stripped, _, err := transform.String(stripMarks, text); err == nil {
		text = stripped
	}
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Check decides correctness of a free-text answer. Deterministic and
// stateless: first rule that hits wins.
func (c Checker) Check(item db.CorpusItem, submitted string) Result {
	normalized := Normalize(submitted)
	if normalized == "" {
		return Result{}
	}
	canonical := Normalize(item.CanonicalAnswer)

	if canonical != "" && normalized == canonical {
		return Result{IsCorrect: true}
	}

	keywords := item.Keywords()
	for _, keyword := range keywords {
		if normKeyword := Normalize(keyword); normKeyword != "" && normalized == normKeyword {
			return Result{IsCorrect: true, MatchedKeyword: keyword}
		}
	}

	submittedTokens := tokenSet(normalized)
	for _, keyword := range keywords {
		phraseTokens := strings.Fields(Normalize(keyword))
		if len(phraseTokens) == 0 {
			continue
		}
		if containsAll(submittedTokens, phraseTokens) {
			return Result{IsCorrect: true, MatchedKeyword: keyword}
		}
	}

	canonicalTokens := strings.Fields(canonical)
	if len(canonicalTokens) >= 3 {
		shared := 0
		for _, token := range canonicalTokens {
			if submittedTokens[token] {
				shared++
			}
		}
		if float64(shared)/float64(len(canonicalTokens)) >= c.OverlapFraction {
			return Result{IsCorrect: true}
		}
	}

	return Result{}
}

func tokenSet(normalized string) map[string]bool {
	tokens := make(map[string]bool)
	for _, token := range strings.Fields(normalized) {
		tokens[token] = true
	}
	return tokens
}

func containsAll(have map[string]bool, want []string) bool {
	for _, token := range want {
		if !have[token] {
			return false
		}
	}
	return true
}
