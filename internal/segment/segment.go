// Package segment splits normalized CV text into a tree of typed blocks.
// Top-level blocks partition the document; an EXPERIENCE block is further
// partitioned into JOB_ENTRY sub-blocks using the anchor lists as split
// signals.
package segment

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/dgallion1/cvextract/internal/anchor"
)

// Block types. Type is an open enum: downstream code must tolerate values it
// does not know.
const (
	TypeHeader     = "HEADER"
	TypeSummary    = "SUMMARY"
	TypeExperience = "EXPERIENCE"
	TypeEducation  = "EDUCATION"
	TypeSkills     = "SKILLS"
	TypeProjects   = "PROJECTS"
	TypeLanguages  = "LANGUAGES"
	TypeUnknown    = "UNKNOWN"
	TypeJobEntry   = "JOB_ENTRY"
)

// Block is a contiguous span of the source text. StartIdx/EndIdx are byte
// offsets into the normalized document; the span includes the section header
// line while Text excludes it. Consecutive top-level blocks are contiguous:
// one block's EndIdx is the next block's StartIdx.
type Block struct {
	ID        string   `json:"id"`
	Type      string   `json:"type"`
	Text      string   `json:"text"`
	StartIdx  int      `json:"start_idx"`
	EndIdx    int      `json:"end_idx"`
	SubBlocks []Block  `json:"sub_blocks,omitempty"`
	Anchors   []string `json:"anchors,omitempty"`
}

// Section header patterns, checked in a fixed order against the trimmed line.
var sectionHeaders = []struct {
	typ string
	re  *regexp.Regexp
}{
	{TypeExperience, regexp.MustCompile(`(?i)^(?:exp[eé]rience|work history|parcours|emploi|professional experience|exp[eé]rience professionnelle)$`)},
	{TypeEducation, regexp.MustCompile(`(?i)^(?:education|formation|etudes|études|academic|dipl[ôo]me)$`)},
	{TypeSkills, regexp.MustCompile(`(?i)^(?:skills|comp[eé]tences|aptitudes|technologies|outils)$`)},
	{TypeProjects, regexp.MustCompile(`(?i)^(?:projects|projets|r[eé]alisations)$`)},
	{TypeLanguages, regexp.MustCompile(`(?i)^(?:languages|langues)$`)},
	{TypeSummary, regexp.MustCompile(`(?i)^(?:summary|profil|profile|objectif|intro)$`)},
}

func headerType(clean string) (string, bool) {
	for _, h := range sectionHeaders {
		if h.re.MatchString(clean) {
			return h.typ, true
		}
	}
	return "", false
}

// maxEntityLineLen is the cutoff above which a high-confidence entity line is
// treated as body text rather than a job-entry heading.
const maxEntityLineLen = 80

type section struct {
	typ       string
	start     int // span start, header line included
	bodyStart int // first byte after the header line
	end       int
	bodyLines []string
}

// Segment builds the block tree for a document. The text before the first
// recognized header becomes a HEADER block; every header line opens a new
// block starting at the header's own offset, so the returned blocks cover the
// whole text without gaps. Anchors attach to the block whose span contains
// their start offset.
func Segment(text string, dates []anchor.DateAnchor, entities []anchor.EntityAnchor) []Block {
	if text == "" {
		return nil
	}

	cur := &section{typ: TypeHeader}
	var sections []*section
	idx := 0
	for _, line := range strings.Split(text, "\n") {
		if typ, ok := headerType(strings.TrimSpace(line)); ok {
			if idx > cur.start {
				cur.end = idx
				sections = append(sections, cur)
				cur = &section{start: idx}
			}
			cur.typ = typ
			cur.bodyStart = min(len(text), idx+len(line)+1)
			cur.bodyLines = nil
		} else {
			cur.bodyLines = append(cur.bodyLines, line)
		}
		idx += len(line) + 1
	}
	cur.end = len(text)
	sections = append(sections, cur)

	blocks := make([]Block, 0, len(sections))
	subCount := 0
	for i, sec := range sections {
		b := Block{
			ID:       fmt.Sprintf("b%d", i+1),
			Type:     sec.typ,
			Text:     strings.Join(sec.bodyLines, "\n"),
			StartIdx: sec.start,
			EndIdx:   sec.end,
			Anchors:  AnchorsWithin(sec.start, sec.end, dates, entities),
		}
		if sec.typ == TypeExperience {
			b.SubBlocks = subSegment(sec, dates, entities, &subCount)
		}
		blocks = append(blocks, b)
	}
	return blocks
}

// AnchorsWithin collects the IDs of anchors starting inside [start, end),
// dates first, each list in document order.
func AnchorsWithin(start, end int, dates []anchor.DateAnchor, entities []anchor.EntityAnchor) []string {
	var ids []string
	for _, d := range dates {
		if start <= d.StartIdx && d.StartIdx < end {
			ids = append(ids, d.ID)
		}
	}
	for _, e := range entities {
		if start <= e.StartIdx && e.StartIdx < end {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

// SplitEntries partitions the [start, end) span of text into JOB_ENTRY
// blocks. Used when section boundaries come from a model rather than from the
// header scan; subCount keeps sub-block IDs unique across the document.
func SplitEntries(text string, start, end int, dates []anchor.DateAnchor, entities []anchor.EntityAnchor, subCount *int) []Block {
	if start >= end {
		return nil
	}
	sec := &section{
		typ:       TypeExperience,
		start:     start,
		bodyStart: start,
		end:       end,
		bodyLines: strings.Split(text[start:end], "\n"),
	}
	return subSegment(sec, dates, entities, subCount)
}

// positioned lets date and entity anchors share the split-point scan.
type positioned struct {
	id       string
	startIdx int
	strong   bool
	isDate   bool
}

// subSegment partitions an EXPERIENCE section into JOB_ENTRY sub-blocks. A
// line holding a strong anchor starts a new sub-block; everything up to the
// next such line belongs to it. A date range is the primary boundary marker;
// a high-confidence role line only counts when short enough to be a heading.
// With no strong anchor at all the whole section is one JOB_ENTRY.
func subSegment(sec *section, dates []anchor.DateAnchor, entities []anchor.EntityAnchor, subCount *int) []Block {
	var local []positioned
	for _, d := range dates {
		if sec.start <= d.StartIdx && d.StartIdx < sec.end {
			local = append(local, positioned{d.ID, d.StartIdx, d.IsStrong(), true})
		}
	}
	for _, e := range entities {
		if sec.start <= e.StartIdx && e.StartIdx < sec.end {
			local = append(local, positioned{e.ID, e.StartIdx, e.Confidence == "high", false})
		}
	}
	sort.SliceStable(local, func(i, j int) bool { return local[i].startIdx < local[j].startIdx })

	var subs []Block
	var curLines []string
	subStart := sec.start
	idx := sec.bodyStart

	flush := func(end int) {
		*subCount++
		subs = append(subs, Block{
			ID:       fmt.Sprintf("sb%d", *subCount),
			Type:     TypeJobEntry,
			Text:     strings.Join(curLines, "\n"),
			StartIdx: subStart,
			EndIdx:   end,
			Anchors:  idsWithin(local, subStart, end),
		})
	}

	for _, line := range sec.bodyLines {
		lineStart, lineEnd := idx, idx+len(line)
		if len(curLines) > 0 && splitsHere(local, lineStart, lineEnd, line) {
			flush(lineStart)
			curLines = nil
			subStart = lineStart
		}
		curLines = append(curLines, line)
		idx += len(line) + 1
	}
	if len(curLines) > 0 {
		flush(sec.end)
	}
	return subs
}

func splitsHere(local []positioned, lineStart, lineEnd int, line string) bool {
	for _, a := range local {
		if a.startIdx < lineStart || a.startIdx >= lineEnd || !a.strong {
			continue
		}
		if a.isDate {
			return true
		}
		if len(strings.TrimSpace(line)) < maxEntityLineLen {
			return true
		}
	}
	return false
}

func idsWithin(local []positioned, start, end int) []string {
	var ids []string
	for _, a := range local {
		if start <= a.startIdx && a.startIdx < end {
			ids = append(ids, a.id)
		}
	}
	return ids
}
