// Package textnorm cleans OCR and PDF extraction artifacts out of raw CV text
// before any anchor extraction runs. Normalize is idempotent: applying it to
// its own output changes nothing, so downstream offsets stay stable.
package textnorm

import (
	"regexp"
	"strings"
)

// Date-state keywords that OCR sometimes letter-spaces ("D E P U I S").
var spacedKeywords = []string{
	"DEPUIS", "PRESENT", "ACTUEL", "CURRENT", "TODAY", "AUJOURD'HUI", "MAINTENANT",
}

// Month names, French and English. Short ones are skipped when building the
// letter-spacing regexes to avoid false positives.
var monthNames = []string{
	"JANVIER", "FEVRIER", "MARS", "AVRIL", "MAI", "JUIN", "JUILLET", "AOUT",
	"SEPTEMBRE", "OCTOBRE", "NOVEMBRE", "DECEMBRE",
	"JANUARY", "FEBRUARY", "MARCH", "APRIL", "MAY", "JUNE", "JULY", "AUGUST",
	"SEPTEMBER", "OCTOBER", "NOVEMBER", "DECEMBER",
}

var (
	spacedDigitsRe = regexp.MustCompile(`\b(\d)\s+(\d)\s+(\d)\s+(\d)\b`)
	dashVariantsRe = regexp.MustCompile(`[–—−]`)
	toConnectorRe  = regexp.MustCompile(`(?i)\s+to\s+`)
	auConnectorRe  = regexp.MustCompile(`(?i)\s+au\s+`)
	aConnectorRe   = regexp.MustCompile(`(?i)\s+à\s+`)
	hspaceRe       = regexp.MustCompile(`[ \t]+`)
	spacedCapsRe   = regexp.MustCompile(`\b[A-Z](?:\s+[A-Z]){2,}\b`)
	sinceDigitRe   = regexp.MustCompile(`(?i)(depuis|since)\s*(\d)`)

	spacedWordRes = buildSpacedWordRes()
)

// Common Latin-1/UTF-8 mixup sequences seen in scanned French CVs.
var mojibake = [][2]string{
	{"Ã©", "é"}, {"Ã ", "à"}, {"Ã¨", "è"}, {"Ã´", "ô"}, {"Ãª", "ê"},
	{"Ã«", "ë"}, {"Ã¯", "ï"}, {"Ã§", "ç"}, {"â€™", "'"}, {"â€“", "-"}, {"â€”", "-"},
}

func buildSpacedWordRes() []*regexp.Regexp {
	words := make([]string, 0, len(spacedKeywords)+len(monthNames))
	words = append(words, spacedKeywords...)
	for _, m := range monthNames {
		if len(m) > 3 {
			words = append(words, m)
		}
	}
	res := make([]*regexp.Regexp, 0, len(words))
	for _, w := range words {
		letters := strings.Split(w, "")
		for i, l := range letters {
			letters[i] = regexp.QuoteMeta(l)
		}
		pat := `(?i)\b` + strings.Join(letters, `\s+`) + `\b`
		res = append(res, regexp.MustCompile(pat))
	}
	return res
}

// Normalize applies the artifact cleanup passes in order. Empty input returns
// empty output; the function never fails.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	for _, r := range mojibake {
		text = strings.ReplaceAll(text, r[0], r[1])
	}

	// "2 0 1 8" -> "2018"
	text = spacedDigitsRe.ReplaceAllString(text, "$1$2$3$4")

	// "D E P U I S" -> "DEPUIS", "J U I L L E T" -> "JUILLET"
	for _, re := range spacedWordRes {
		text = re.ReplaceAllStringFunc(text, func(m string) string {
			return strings.Join(strings.Fields(m), "")
		})
	}

	// "J O N A T H A N" -> "JONATHAN"
	text = spacedCapsRe.ReplaceAllStringFunc(text, func(m string) string {
		return strings.Join(strings.Fields(m), "")
	})

	text = dashVariantsRe.ReplaceAllString(text, "-")
	text = toConnectorRe.ReplaceAllString(text, " - ")
	text = auConnectorRe.ReplaceAllString(text, " - ")
	text = aConnectorRe.ReplaceAllString(text, " - ")

	text = sinceDigitRe.ReplaceAllString(text, "$1 $2")

	// Collapse runs of horizontal whitespace; newlines are preserved because
	// the entity extractor and segmenter are line-oriented.
	text = hspaceRe.ReplaceAllString(text, " ")

	return strings.TrimSpace(text)
}
