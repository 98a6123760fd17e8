// Package validate cross-checks AI-produced CV data against the anchor map
// built from the source text. Its findings are advisory: the pipeline records
// them next to the result and keeps going.
package validate

import (
	"fmt"
	"strings"

	"github.com/dgallion1/cvextract/internal/anchor"
	"github.com/dgallion1/cvextract/internal/cv"
	"github.com/dgallion1/cvextract/internal/segment"
)

// AnchorMap indexes the segmenter's output for validation lookups. Blocks
// holds every block in the tree, sub-blocks included, keyed by ID.
type AnchorMap struct {
	Blocks map[string]*segment.Block
	Dates  map[string]*anchor.DateAnchor
}

// BuildAnchorMap flattens the block tree and the date anchors into lookup
// tables.
func BuildAnchorMap(blocks []segment.Block, dates []anchor.DateAnchor) AnchorMap {
	m := AnchorMap{
		Blocks: make(map[string]*segment.Block),
		Dates:  make(map[string]*anchor.DateAnchor),
	}
	for i := range blocks {
		b := &blocks[i]
		m.Blocks[b.ID] = b
		for j := range b.SubBlocks {
			m.Blocks[b.SubBlocks[j].ID] = &b.SubBlocks[j]
		}
	}
	for i := range dates {
		m.Dates[dates[i].ID] = &dates[i]
	}
	return m
}

// minTaskWordRatio is the fraction of a task's significant words that must
// appear in the source block before the task stops looking hallucinated.
const minTaskWordRatio = 0.5

// CheckExtraction runs every check on every experience entry and returns all
// issues found, empty for a clean document. It never mutates data.
func CheckExtraction(data *cv.CVData, m AnchorMap) []string {
	var issues []string
	for i, exp := range data.Experience {
		n := i + 1

		if exp.BlockID == "" {
			issues = append(issues, fmt.Sprintf("experience #%d (%s) has no block_id", n, exp.Title))
			continue
		}
		block, ok := m.Blocks[exp.BlockID]
		if !ok {
			issues = append(issues, fmt.Sprintf("experience #%d references unknown block_id %q", n, exp.BlockID))
			continue
		}

		issues = append(issues, checkDates(n, exp, block, m)...)
		issues = append(issues, checkTasks(n, exp, block)...)
	}
	return issues
}

// checkDates verifies the entry's cited date anchors. A cited anchor whose
// start year differs from the entry's is a transcription or fabrication
// signal; citing none while the block holds date anchors means the model
// ignored available evidence.
func checkDates(n int, exp cv.ExperienceEntry, block *segment.Block, m AnchorMap) []string {
	var issues []string
	cited := false
	for _, aid := range exp.AnchorIDs {
		da, ok := m.Dates[aid]
		if !ok {
			continue
		}
		cited = true
		if exp.DateStart == "" || len(da.Start) < 4 {
			continue
		}
		// Loose year comparison: "2018" against anchor "2018-01" is fine,
		// "2019" against "2018" is not.
		if !strings.HasPrefix(exp.DateStart, da.Start[:4]) {
			issues = append(issues, fmt.Sprintf(
				"experience #%d date mismatch: entry %q vs anchor %s %q", n, exp.DateStart, da.ID, da.Start))
		}
	}
	if !cited {
		var available []string
		for _, aid := range block.Anchors {
			if _, ok := m.Dates[aid]; ok {
				available = append(available, aid)
			}
		}
		if len(available) > 0 {
			issues = append(issues, fmt.Sprintf(
				"experience #%d ignores date anchors %v available in block %s", n, available, block.ID))
		}
	}
	return issues
}

// checkTasks flags task strings whose significant words (longer than 3
// characters) mostly do not appear in the source block.
func checkTasks(n int, exp cv.ExperienceEntry, block *segment.Block) []string {
	var issues []string
	blockText := strings.ToLower(block.Text)
	for _, task := range exp.Tasks {
		var words []string
		for _, w := range strings.Fields(strings.ToLower(task)) {
			if len(w) > 3 {
				words = append(words, w)
			}
		}
		if len(words) == 0 {
			continue
		}
		found := 0
		for _, w := range words {
			if strings.Contains(blockText, w) {
				found++
			}
		}
		if ratio := float64(found) / float64(len(words)); ratio < minTaskWordRatio {
			issues = append(issues, fmt.Sprintf(
				"experience #%d possible hallucination: task %q only %.0f%% present in block %s",
				n, truncate(task, 30), ratio*100, block.ID))
		}
	}
	return issues
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
