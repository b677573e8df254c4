// Package pool decides which property members may receive tickets. The
// role/skill eligibility rules are fixed tables keyed by the declared enums
// rather than runtime configuration.
package pool

import "github.com/facilityops/resolution-service/internal/domain"

// resolverRoles are the membership roles allowed to check in as resolvers.
var resolverRoles = map[domain.PropertyRole]bool{
	domain.RoleMST:   true,
	domain.RoleStaff: true,
}

// roleSkills lists the skill tags that qualify under each resolver role.
var roleSkills = map[domain.PropertyRole]map[domain.SkillTag]bool{
	domain.RoleMST: {
		domain.SkillPlumbing:   true,
		domain.SkillElectrical: true,
		domain.SkillHVAC:       true,
		domain.SkillCarpentry:  true,
		domain.SkillPainting:   true,
		domain.SkillGenerator:  true,
		domain.SkillElevator:   true,
		domain.SkillFireSafety: true,
		domain.SkillGeneral:    true,
	},
	domain.RoleStaff: {
		domain.SkillHousekeeping: true,
		domain.SkillPestControl:  true,
		domain.SkillSecurity:     true,
		domain.SkillGeneral:      true,
	},
}

// QualifyingSkills returns the subset of the membership's skill tags that
// qualify it to resolve tickets, in declaration order. An empty result means
// the member is not eligible; callers treat that as a silent no-op rather
// than an error.
func QualifyingSkills(m domain.Membership) []domain.SkillTag {
	if !m.IsActive || !resolverRoles[m.Role] {
		return nil
	}
	allowed := roleSkills[m.Role]
	var skills []domain.SkillTag
	for _, tag := range m.SkillTags {
		if allowed[tag] {
			skills = append(skills, tag)
		}
	}
	return skills
}

// Eligible reports whether the membership qualifies as a resolver at all.
func Eligible(m domain.Membership) bool {
	return len(QualifyingSkills(m)) > 0
}
