package domain

// Confidence grades how certain the classifier is about an issue code.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// ClassificationResult is the classifier's verdict for a description.
// IssueCode and SkillGroupCode are nil when no rule matched.
type ClassificationResult struct {
	IssueCode      *string
	SkillGroupCode *string
	Confidence     Confidence
}
