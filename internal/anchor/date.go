package anchor

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Pattern components. The 4-digit year allows an OCR "O" in place of a zero.
const (
	yearPat       = `(?:19|20)[0-9O]{2}`
	monthPat      = `(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec|janv|fév|fev|mars|avr|mai|juin|juil|août|aout|sept|déc)[a-zçéèêëîôû]*\.?`
	monthDigitPat = `(?:0?[1-9]|1[0-2])`
	presentPat    = `(?:pr[ée]sent|aujourd'hui|now|actuel|current|en cours)`
)

var (
	datePartPat = `(?:(?:` + monthPat + `|` + monthDigitPat + `)[\s/]+)?(?:` + yearPat + `)`
	separator   = `\s*(?:-|to|à)\s*`

	rangeRe  = regexp.MustCompile(`(?i)(?P<start>` + datePartPat + `)` + separator + `(?P<end>` + datePartPat + `|` + presentPat + `)`)
	sinceRe  = regexp.MustCompile(`(?i)\b(?:depuis|since)\s+(?P<start>` + datePartPat + `)`)
	singleRe = regexp.MustCompile(`(?i)\b` + datePartPat + `\b`)

	presentOnlyRe = regexp.MustCompile(`(?i)^` + presentPat)
	bareYearRe    = regexp.MustCompile(`^\d{4}$`)
)

// Month name stems, accent-folded, longest first so "juil" wins over "jui".
var monthStems = []struct {
	stem  string
	month int
}{
	{"janv", 1}, {"jan", 1},
	{"fevr", 2}, {"fev", 2}, {"feb", 2},
	{"mars", 3}, {"marc", 3}, {"mar", 3},
	{"avri", 4}, {"avr", 4}, {"apri", 4}, {"apr", 4},
	{"mai", 5}, {"may", 5},
	{"juin", 6}, {"juil", 7}, {"jun", 6}, {"jul", 7},
	{"aout", 8}, {"aug", 8},
	{"sept", 9}, {"sep", 9},
	{"octo", 10}, {"oct", 10},
	{"nove", 11}, {"nov", 11},
	{"dece", 12}, {"dec", 12},
}

var accentFolder = strings.NewReplacer(
	"é", "e", "è", "e", "ê", "e", "ë", "e",
	"à", "a", "â", "a", "û", "u", "ù", "u",
	"î", "i", "ï", "i", "ô", "o", "ç", "c",
)

func monthFromName(token string) (int, bool) {
	token = accentFolder.Replace(strings.ToLower(strings.TrimSuffix(token, ".")))
	for _, s := range monthStems {
		if strings.HasPrefix(token, s.stem) {
			return s.month, true
		}
	}
	return 0, false
}

// parseDatePart parses "Jan 2020", "01/2020" or "2020". The raw form keeps an
// OCR "O" as zero. yearOnly mirrors the raw-length heuristic: anything longer
// than 4 characters carried a month token.
func parseDatePart(raw string) (year, month int, yearOnly, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, 0, false, false
	}
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ' ' || r == '/' || r == '\t'
	})
	if len(fields) == 0 {
		return 0, 0, false, false
	}

	yearTok := strings.NewReplacer("O", "0", "o", "0").Replace(fields[len(fields)-1])
	y, err := strconv.Atoi(yearTok)
	if err != nil || y < 1900 || y > 2099 {
		return 0, 0, false, false
	}

	month = 1
	if len(fields) >= 2 {
		tok := fields[0]
		if m, err := strconv.Atoi(tok); err == nil {
			if m < 1 || m > 12 {
				return 0, 0, false, false
			}
			month = m
		} else if m, found := monthFromName(tok); found {
			month = m
		} else {
			return 0, 0, false, false
		}
	}

	return y, month, len(raw) <= 4, true
}

func formatDate(year, month int, yearOnly bool) string {
	if yearOnly {
		return fmt.Sprintf("%04d", year)
	}
	return fmt.Sprintf("%04d-%02d", year, month)
}

func precisionFor(yearOnly bool) string {
	if yearOnly {
		return "year"
	}
	return "month"
}

// Context classification keyword sets.
var (
	eduKeywords = []string{
		"université", "university", "école", "school", "college", "diplôme",
		"degree", "bac", "master", "phd", "certificat", "certification", "formation",
	}
	expKeywords = []string{
		"expérience", "experience", "emploi", "work", "job", "poste", "role",
		"senior", "junior", "manager", "développeur", "ingénieur", "consultant",
		"inc.", "ltd", "s.a.", "corp", "groupe",
	}
)

// classifyContext scores the surrounding snippet against education and
// experience vocabulary.
func classifyContext(snippet string) string {
	lower := strings.ToLower(snippet)
	eduScore, expScore := 0, 0
	for _, k := range eduKeywords {
		if strings.Contains(lower, k) {
			eduScore++
		}
	}
	for _, k := range expKeywords {
		if strings.Contains(lower, k) {
			expScore++
		}
	}
	switch {
	case eduScore > expScore:
		return "education"
	case expScore > eduScore:
		return "experience"
	default:
		return "unknown"
	}
}

func contextSnippet(text string, start, end int) string {
	from := max(0, start-50)
	to := min(len(text), end+50)
	return strings.TrimSpace(strings.ReplaceAll(text[from:to], "\n", " "))
}

func overlaps(anchors []DateAnchor, start, end int) bool {
	for _, a := range anchors {
		if start < a.EndIdx && end > a.StartIdx {
			return true
		}
	}
	return false
}

// ExtractDates scans normalized text in three passes (explicit ranges,
// "depuis/since" phrases, then isolated dates) and returns anchors sorted by
// position. Earlier passes claim their spans: later passes skip anything
// already covered. Unparseable matches are dropped, never reported as errors.
func ExtractDates(text string) []DateAnchor {
	var anchors []DateAnchor
	count := 0

	newID := func() string {
		count++
		return fmt.Sprintf("d%d", count)
	}

	// Pass 1: ranges.
	startGroup := rangeRe.SubexpIndex("start")
	endGroup := rangeRe.SubexpIndex("end")
	for _, m := range rangeRe.FindAllStringSubmatchIndex(text, -1) {
		raw := text[m[0]:m[1]]
		startRaw := text[m[2*startGroup] : m[2*startGroup+1]]
		endRaw := text[m[2*endGroup] : m[2*endGroup+1]]

		sy, sm, syo, ok := parseDatePart(startRaw)
		if !ok {
			continue
		}

		a := DateAnchor{
			Raw:       raw,
			Start:     formatDate(sy, sm, syo),
			Precision: precisionFor(syo),
			StartIdx:  m[0],
			EndIdx:    m[1],
		}

		if presentOnlyRe.MatchString(endRaw) {
			a.Kind = KindRangePresent
			a.IsCurrent = true
		} else {
			ey, em, eyo, ok := parseDatePart(endRaw)
			if !ok {
				continue
			}
			a.Kind = KindRange
			a.End = formatDate(ey, em, eyo)
		}

		a.ID = newID()
		a.Context = contextSnippet(text, m[0], m[1])
		a.LikelyKind = classifyContext(a.Context)
		anchors = append(anchors, a)
	}

	// Pass 2: "depuis/since <date>".
	sinceGroup := sinceRe.SubexpIndex("start")
	for _, m := range sinceRe.FindAllStringSubmatchIndex(text, -1) {
		if overlaps(anchors, m[0], m[1]) {
			continue
		}
		startRaw := text[m[2*sinceGroup] : m[2*sinceGroup+1]]
		sy, sm, syo, ok := parseDatePart(startRaw)
		if !ok {
			continue
		}
		a := DateAnchor{
			ID:        newID(),
			Raw:       text[m[0]:m[1]],
			Start:     formatDate(sy, sm, syo),
			Kind:      KindSince,
			IsCurrent: true,
			Precision: precisionFor(syo),
			StartIdx:  m[0],
			EndIdx:    m[1],
		}
		a.Context = contextSnippet(text, m[0], m[1])
		a.LikelyKind = classifyContext(a.Context)
		anchors = append(anchors, a)
	}

	// Pass 3: isolated dates.
	for _, m := range singleRe.FindAllStringIndex(text, -1) {
		if overlaps(anchors, m[0], m[1]) {
			continue
		}
		raw := text[m[0]:m[1]]

		if bareYearRe.MatchString(raw) {
			// Reject years glued to other digits (phone numbers, postal codes).
			if m[0] > 0 && isDigit(text[m[0]-1]) {
				continue
			}
			if m[1] < len(text) && isDigit(text[m[1]]) {
				continue
			}
			// Reject lines that look like standards or reference codes.
			line := strings.ToLower(lineAround(text, m[0], m[1]))
			if strings.Contains(line, "iso") || strings.Contains(line, "code") {
				continue
			}
		}

		y, mo, yearOnly, ok := parseDatePart(raw)
		if !ok {
			continue
		}

		kind := KindMonthYear
		if yearOnly {
			kind = KindSingleYear
		}

		a := DateAnchor{
			ID:        newID(),
			Raw:       raw,
			Start:     formatDate(y, mo, yearOnly),
			End:       formatDate(y, mo, yearOnly),
			Kind:      kind,
			Precision: precisionFor(yearOnly),
			StartIdx:  m[0],
			EndIdx:    m[1],
		}
		a.Context = contextSnippet(text, m[0], m[1])
		a.LikelyKind = classifyContext(a.Context)
		anchors = append(anchors, a)
	}

	sort.SliceStable(anchors, func(i, j int) bool {
		return anchors[i].StartIdx < anchors[j].StartIdx
	})
	return anchors
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func lineAround(text string, start, end int) string {
	lineStart := strings.LastIndexByte(text[:start], '\n') + 1
	lineEnd := strings.IndexByte(text[end:], '\n')
	if lineEnd == -1 {
		lineEnd = len(text)
	} else {
		lineEnd += end
	}
	return text[lineStart:lineEnd]
}
