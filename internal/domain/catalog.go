package domain

// SkillGroup is a catalog entry for a resolver trade.
type SkillGroup struct {
	ID   string
	Code string
	Name string
}

// IssueCategory is a catalog entry for a classifiable issue type.
// SLAMinutes overrides the service-wide default when set.
type IssueCategory struct {
	ID           string
	Code         string
	Name         string
	SkillGroupID string
	SLAMinutes   *int
}
