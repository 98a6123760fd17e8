package cv

// Basics holds the candidate identity and contact fields extracted from the
// head of the document.
type Basics struct {
	Name      string   `json:"name"`
	Title     string   `json:"title,omitempty"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone"`
	Location  string   `json:"location"`
	Languages []string `json:"languages"`
}

// ExperienceEntry is one structured job entry. BlockID and AnchorIDs are the
// audit trail back to the source text the entry was extracted from.
type ExperienceEntry struct {
	Title     string   `json:"title"`
	Company   string   `json:"company"`
	Location  string   `json:"location,omitempty"`
	DatesRaw  string   `json:"dates_raw,omitempty"` // dates exactly as written in the source
	DateStart string   `json:"date_start"`          // YYYY-MM
	DateEnd   string   `json:"date_end,omitempty"`  // YYYY-MM, empty while current
	IsCurrent bool     `json:"is_current"`
	Duration  string   `json:"duration,omitempty"`
	Summary   string   `json:"summary,omitempty"`
	Tasks     []string `json:"tasks"`
	Skills    []string `json:"skills"`
	BlockID   string   `json:"block_id"`
	AnchorIDs []string `json:"anchor_ids"`
}

// EducationEntry is one structured education record.
type EducationEntry struct {
	Degree   string `json:"degree"`
	School   string `json:"school"`
	Year     string `json:"year,omitempty"`
	FullText string `json:"full_text,omitempty"`
}

// CVData is the aggregate record produced for one document. It is assembled
// incrementally by the pipeline stages and serialized once at the end.
type CVData struct {
	Basics             Basics            `json:"basics"`
	Summary            string            `json:"summary,omitempty"`
	SkillsTech         []string          `json:"skills_tech"`
	SkillsSoft         []string          `json:"skills_soft"`
	Experience         []ExperienceEntry `json:"experience"`
	Education          []EducationEntry  `json:"education"`
	AchievementsGlobal []string          `json:"achievements_global,omitempty"`
	ExtraInfo          []string          `json:"extra_info,omitempty"`
	Unmapped           []string          `json:"unmapped,omitempty"`
	RawText            string            `json:"raw_text,omitempty"`

	// TotalExperienceDeclared is what the candidate claims ("10 ans"),
	// TotalExperienceYears is computed from merged date ranges.
	TotalExperienceDeclared string  `json:"total_experience_declared,omitempty"`
	TotalExperienceYears    float64 `json:"total_experience_years"`
}
