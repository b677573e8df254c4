package domain

import "time"

// PropertyRole is a member's role within one property.
type PropertyRole string

const (
	RoleMST      PropertyRole = "mst"
	RoleStaff    PropertyRole = "staff"
	RoleManager  PropertyRole = "manager"
	RoleResident PropertyRole = "resident"
)

// SkillTag labels a trade or service capability on a membership.
type SkillTag string

const (
	SkillPlumbing     SkillTag = "plumbing"
	SkillElectrical   SkillTag = "electrical"
	SkillHVAC         SkillTag = "hvac"
	SkillCarpentry    SkillTag = "carpentry"
	SkillPainting     SkillTag = "painting"
	SkillGenerator    SkillTag = "generator"
	SkillElevator     SkillTag = "elevator"
	SkillFireSafety   SkillTag = "fire_safety"
	SkillHousekeeping SkillTag = "housekeeping"
	SkillPestControl  SkillTag = "pest_control"
	SkillSecurity     SkillTag = "security"
	SkillGeneral      SkillTag = "general"
)

// Membership ties a user to a property with a role and skill tags. It is
// sourced from the identity provider's sync, not managed here.
type Membership struct {
	UserID     string
	PropertyID string
	Role       PropertyRole
	IsActive   bool
	SkillTags  []SkillTag
}

// ResolverStat is one availability row per (user, property, skill group).
// TotalResolved and AvgResolutionMinutes feed the assignment scorer.
type ResolverStat struct {
	ID                   string
	UserID               string
	PropertyID           string
	SkillGroupID         string
	IsAvailable          bool
	IsCheckedIn          bool
	CurrentFloor         int
	TotalResolved        int
	AvgResolutionMinutes float64
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
