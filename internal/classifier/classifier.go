// Package classifier maps free-text issue descriptions to an issue code and
// confidence tier using a static, ordered rule dictionary. Classification is
// a pure function: no I/O, deterministic for identical input and dictionary.
package classifier

import (
	"strings"

	"github.com/facilityops/resolution-service/internal/domain"
)

const (
	// strongMatchThreshold is the minimum score for a high-confidence match.
	strongMatchThreshold = 1.5
	// ambiguityMargin downgrades to low when a runner-up scores this close.
	ambiguityMargin = 0.5
)

// Classifier scores descriptions against its dictionary.
type Classifier struct {
	entries []Entry
}

// New builds a classifier over the given dictionary. The dictionary is not
// copied; callers must not mutate it after construction.
func New(entries []Entry) *Classifier {
	return &Classifier{entries: entries}
}

// NewDefault builds a classifier over the built-in facility rule set.
func NewDefault() *Classifier {
	return New(DefaultDictionary)
}

// Classify returns the best-matching issue code with a confidence tier.
// Empty or unmatched text yields a nil issue code and low confidence;
// Classify never fails.
func (c *Classifier) Classify(description string) domain.ClassificationResult {
	normalized := normalize(description)
	if normalized == "" {
		return domain.ClassificationResult{Confidence: domain.ConfidenceLow}
	}

	tokens := tokenSet(normalized)

	type candidate struct {
		entry Entry
		score float64
	}
	scores := map[string]*candidate{}
	order := []string{}

	for _, entry := range c.entries {
		hits := 0
		for _, kw := range entry.Keywords {
			if matches(normalized, tokens, kw) {
				hits++
			}
		}
		if hits == 0 {
			continue
		}
		cand, ok := scores[entry.IssueCode]
		if !ok {
			cand = &candidate{entry: entry}
			scores[entry.IssueCode] = cand
			order = append(order, entry.IssueCode)
		}
		cand.score += float64(hits) * entry.Weight
	}

	if len(order) == 0 {
		return domain.ClassificationResult{Confidence: domain.ConfidenceLow}
	}

	// Declaration order breaks exact ties: the strict > keeps the first
	// issue code that reached the top score.
	var best *candidate
	for _, code := range order {
		if best == nil || scores[code].score > best.score {
			best = scores[code]
		}
	}

	ambiguous := false
	for _, code := range order {
		cand := scores[code]
		if cand == best {
			continue
		}
		if best.score-cand.score < ambiguityMargin {
			ambiguous = true
			break
		}
	}

	confidence := domain.ConfidenceMedium
	switch {
	case ambiguous:
		confidence = domain.ConfidenceLow
	case best.score > strongMatchThreshold:
		confidence = domain.ConfidenceHigh
	}

	issueCode := best.entry.IssueCode
	skillGroup := best.entry.SkillGroupCode
	return domain.ClassificationResult{
		IssueCode:      &issueCode,
		SkillGroupCode: &skillGroup,
		Confidence:     confidence,
	}
}

func normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

func tokenSet(normalized string) map[string]struct{} {
	fields := strings.FieldsFunc(normalized, func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	})
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

// matches checks a keyword against the description. Multi-word keywords use
// substring search on the normalized text; single words must match a whole
// token so short keywords like "ac" do not fire inside other words.
func matches(normalized string, tokens map[string]struct{}, keyword string) bool {
	if strings.ContainsRune(keyword, ' ') {
		return strings.Contains(normalized, keyword)
	}
	_, ok := tokens[keyword]
	return ok
}
