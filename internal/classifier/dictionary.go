package classifier

// Entry maps a keyword set to an issue code and its routing skill group.
// Entries are matched in declaration order; order is the documented
// tie-breaker for exact score ties.
type Entry struct {
	Keywords       []string
	IssueCode      string
	SkillGroupCode string
	Weight         float64
}

// DefaultDictionary is the built-in facility issue rule set. It is loaded
// once at process start and shared read-only across requests.
var DefaultDictionary = []Entry{
	{
		Keywords:       []string{"ac", "cooling", "air conditioning", "hvac", "ventilation", "thermostat", "compressor"},
		IssueCode:      "hvac",
		SkillGroupCode: "hvac",
		Weight:         1,
	},
	{
		Keywords:       []string{"leak", "leakage", "tap", "faucet", "pipe", "drain", "drainage", "flush", "toilet", "seepage", "water overflow"},
		IssueCode:      "plumbing",
		SkillGroupCode: "plumbing",
		Weight:         1,
	},
	{
		Keywords:       []string{"power", "socket", "switch", "wiring", "short circuit", "light", "bulb", "tubelight", "fan", "mcb", "fuse"},
		IssueCode:      "electrical",
		SkillGroupCode: "electrical",
		Weight:         1,
	},
	{
		Keywords:       []string{"lift", "elevator", "lift stuck", "lift door"},
		IssueCode:      "elevator",
		SkillGroupCode: "elevator",
		Weight:         1.5,
	},
	{
		Keywords:       []string{"diesel", "generator", "dg set", "genset"},
		IssueCode:      "generator",
		SkillGroupCode: "generator",
		Weight:         1.5,
	},
	{
		Keywords:       []string{"fire", "smoke", "fire alarm", "extinguisher", "sprinkler"},
		IssueCode:      "fire_safety",
		SkillGroupCode: "fire_safety",
		Weight:         1.5,
	},
	{
		Keywords:       []string{"door", "window", "hinge", "lock", "furniture", "cupboard", "drawer"},
		IssueCode:      "carpentry",
		SkillGroupCode: "carpentry",
		Weight:         1,
	},
	{
		Keywords:       []string{"paint", "painting", "wall patch", "plaster", "dampness"},
		IssueCode:      "painting",
		SkillGroupCode: "painting",
		Weight:         1,
	},
	{
		Keywords:       []string{"cleaning", "garbage", "trash", "housekeeping", "dust", "stain", "washroom dirty"},
		IssueCode:      "housekeeping",
		SkillGroupCode: "housekeeping",
		Weight:         1,
	},
	{
		Keywords:       []string{"cockroach", "rodent", "rat", "termite", "pest", "mosquito", "bed bug"},
		IssueCode:      "pest_control",
		SkillGroupCode: "pest_control",
		Weight:         1,
	},
	{
		Keywords:       []string{"cctv", "guard", "intruder", "theft", "security"},
		IssueCode:      "security",
		SkillGroupCode: "security",
		Weight:         1,
	},
}
