package anchor

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// EntityConfig holds the structural thresholds for role-line detection. The
// defaults are empirically tuned, not derived; callers may override them.
type EntityConfig struct {
	MinWords     int     // minimum words on a candidate line
	MaxWords     int     // maximum words on a candidate line
	MaxDigits    int     // more digits than this means a date or KPI line
	MinCapRatio  float64 // fraction of capitalized words required
	HighCapRatio float64 // below this, confidence drops to medium
	HighMaxWords int     // above this, confidence drops to medium
}

// DefaultEntityConfig returns the tuned thresholds.
func DefaultEntityConfig() EntityConfig {
	return EntityConfig{
		MinWords:     1,
		MaxWords:     10,
		MaxDigits:    2,
		MinCapRatio:  0.4,
		HighCapRatio: 0.6,
		HighMaxWords: 6,
	}
}

// Role vocabulary roots, French and English. Word-boundary anchored prefixes
// so "Admin" also matches "Administrator" / "Administrateur".
var roleKeywordRoots = []string{
	// Tech / engineering
	`Dev`, `Dév`, `Prog`, `Soft`, `Engin`, `Ing`, `Archi`, `Tech`,
	`Data`, `Sys`, `Net`, `Web`, `Full`, `Front`, `Back`,
	`Secur`, `S[ée]cur`, `Cyber`, `Cloud`, `Ops`, `QA`, `Test`, `Scrum`,
	`Agile`, `Product`, `Project`, `Projet`, `Lead`,
	// Management / leadership
	`Manag`, `Direct`, `Chief`, `Chef`, `Head`,
	`Superv`, `Coord`, `Admin`, `Exec`, `Ex[ée]c`, `Pres`, `Pr[ée]s`, `VP`,
	`Found`, `Own`, `Gér`, `Resp`, `Dir`,
	// Business / finance / operations
	`Analy`, `Consult`, `Strat`, `Busin`, `Affair`,
	`Oper`, `Opér`, `Finan`, `Compt`, `Account`,
	`Market`, `Sale`, `Vend`, `Comm`, `Relat`,
	// HR / legal / support
	`RH`, `HR`, `Recrut`, `Recruit`, `Talent`,
	`Train`, `Form`, `Legal`, `Jurid`, `Avocat`,
	`Assist`, `Support`, `Help`, `Service`, `Client`,
	// Levels / status
	`Senior`, `S[ée]nior`, `Junior`, `Princ`, `Staff`, `Intern`, `Stag`,
	`Apprent`, `Freelance`, `Indep`, `Indép`, `Contract`,
	// Other common roles
	`Agent`, `Offic`, `Clerk`, `Commis`, `Spec`, `Sp[ée]c`, `Expert`,
	`Teach`, `Enseign`, `Formateur`, `Coach`, `Writer`, `Rédac`,
}

var (
	rolePattern = buildRolePattern()
	bulletRe    = regexp.MustCompile(`^[\x{2022}\-\*\+]`)
)

func buildRolePattern() *regexp.Regexp {
	parts := make([]string, len(roleKeywordRoots))
	for i, root := range roleKeywordRoots {
		parts[i] = `\b` + root
	}
	return regexp.MustCompile(`(?i)` + strings.Join(parts, `|`))
}

// ExtractEntities scans normalized text line by line and returns role anchors
// in document order. Lines pass structural exclusion filters first, then a
// capitalization check, and finally the keyword vocabulary. Confidence comes
// from line shape alone.
func ExtractEntities(text string, cfg EntityConfig) []EntityAnchor {
	var anchors []EntityAnchor
	count := 0
	currentIdx := 0

	for _, line := range strings.Split(text, "\n") {
		lineLen := len(line)
		clean := strings.TrimSpace(line)

		if ok, conf := roleLine(clean, cfg); ok {
			count++
			offset := currentIdx + strings.Index(line, clean)
			anchors = append(anchors, EntityAnchor{
				ID:         fmt.Sprintf("e%d", count),
				Raw:        clean,
				Type:       "role",
				Confidence: conf,
				StartIdx:   offset,
				EndIdx:     offset + len(clean),
			})
		}

		currentIdx += lineLen + 1 // account for the newline
	}

	return anchors
}

// roleLine applies the exclusion and positive filters to a single trimmed
// line. It returns whether the line is a role anchor and at what confidence.
func roleLine(clean string, cfg EntityConfig) (bool, string) {
	if clean == "" {
		return false, ""
	}

	// Exclusion filters, in order.
	if bulletRe.MatchString(clean) {
		return false, ""
	}
	if strings.HasSuffix(clean, ".") && !strings.HasSuffix(strings.ToLower(clean), "inc.") {
		return false, ""
	}
	digits := 0
	for _, r := range clean {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	if digits > cfg.MaxDigits {
		return false, ""
	}

	words := strings.Fields(clean)
	if len(words) < cfg.MinWords || len(words) > cfg.MaxWords {
		return false, ""
	}

	capCount := 0
	for _, w := range words {
		if unicode.IsUpper([]rune(w)[0]) {
			capCount++
		}
	}
	capRatio := float64(capCount) / float64(len(words))
	if capRatio < cfg.MinCapRatio {
		return false, ""
	}

	if !rolePattern.MatchString(clean) {
		return false, ""
	}

	confidence := "high"
	if len(words) > cfg.HighMaxWords || capRatio < cfg.HighCapRatio {
		confidence = "medium"
	}
	return true, confidence
}
