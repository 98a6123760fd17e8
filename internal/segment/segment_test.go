package segment

import (
	"strings"
	"testing"

	"github.com/dgallion1/cvextract/internal/anchor"
)

const sampleCV = `Jean Dupont
Développeur Full Stack

Expérience
Jan 2020 - Present
- development of the platform
- maintenance work

2015 - 2019
- data analysis for clients

Formation
Master Informatique
2014`

func segmentSample(t *testing.T) ([]Block, []anchor.DateAnchor, []anchor.EntityAnchor) {
	t.Helper()
	dates := anchor.ExtractDates(sampleCV)
	entities := anchor.ExtractEntities(sampleCV, anchor.DefaultEntityConfig())
	return Segment(sampleCV, dates, entities), dates, entities
}

func TestSegment_SectionTypes(t *testing.T) {
	blocks, _, _ := segmentSample(t)
	if len(blocks) != 3 {
		t.Fatalf("expected 3 top-level blocks, got %d", len(blocks))
	}
	wantTypes := []string{TypeHeader, TypeExperience, TypeEducation}
	for i, want := range wantTypes {
		if blocks[i].Type != want {
			t.Errorf("block %d: expected type %s, got %s", i, want, blocks[i].Type)
		}
	}
	for i, b := range blocks {
		if want := "b" + string(rune('1'+i)); b.ID != want {
			t.Errorf("expected block ID %q, got %q", want, b.ID)
		}
	}
}

func TestSegment_BlocksAreContiguous(t *testing.T) {
	blocks, _, _ := segmentSample(t)
	if blocks[0].StartIdx != 0 {
		t.Errorf("first block must start at 0, got %d", blocks[0].StartIdx)
	}
	if last := blocks[len(blocks)-1]; last.EndIdx != len(sampleCV) {
		t.Errorf("last block must end at %d, got %d", len(sampleCV), last.EndIdx)
	}
	for i := 1; i < len(blocks); i++ {
		if blocks[i].StartIdx != blocks[i-1].EndIdx {
			t.Errorf("gap between block %d (end %d) and block %d (start %d)",
				i-1, blocks[i-1].EndIdx, i, blocks[i].StartIdx)
		}
	}
}

func TestSegment_HeaderLineExcludedFromText(t *testing.T) {
	blocks, _, _ := segmentSample(t)
	if strings.Contains(blocks[1].Text, "Expérience") {
		t.Errorf("section body must not contain its header line: %q", blocks[1].Text)
	}
	if strings.Contains(blocks[2].Text, "Formation") {
		t.Errorf("section body must not contain its header line: %q", blocks[2].Text)
	}
}

func TestSegment_AnchorAttachment(t *testing.T) {
	blocks, dates, entities := segmentSample(t)
	if len(dates) != 3 || len(entities) != 1 {
		t.Fatalf("unexpected anchor counts: %d dates, %d entities", len(dates), len(entities))
	}

	if !contains(blocks[0].Anchors, entities[0].ID) {
		t.Errorf("header block missing role anchor %s: %v", entities[0].ID, blocks[0].Anchors)
	}
	if !contains(blocks[1].Anchors, dates[0].ID) || !contains(blocks[1].Anchors, dates[1].ID) {
		t.Errorf("experience block missing date anchors: %v", blocks[1].Anchors)
	}
	if len(blocks[2].Anchors) != 1 || blocks[2].Anchors[0] != dates[2].ID {
		t.Errorf("education block should hold only %s, got %v", dates[2].ID, blocks[2].Anchors)
	}
}

func TestSegment_ExperienceSubBlocks(t *testing.T) {
	blocks, dates, _ := segmentSample(t)
	exp := blocks[1]
	subs := exp.SubBlocks
	if len(subs) != 2 {
		t.Fatalf("expected 2 job entries, got %d: %+v", len(subs), subs)
	}
	for i, sb := range subs {
		if sb.Type != TypeJobEntry {
			t.Errorf("sub-block %d: expected JOB_ENTRY, got %s", i, sb.Type)
		}
		if want := "sb" + string(rune('1'+i)); sb.ID != want {
			t.Errorf("expected sub-block ID %q, got %q", want, sb.ID)
		}
	}
	// Sub-blocks partition the experience block.
	if subs[0].StartIdx != exp.StartIdx {
		t.Errorf("first job entry must start at block start %d, got %d", exp.StartIdx, subs[0].StartIdx)
	}
	if subs[1].EndIdx != exp.EndIdx {
		t.Errorf("last job entry must end at block end %d, got %d", exp.EndIdx, subs[1].EndIdx)
	}
	if subs[0].EndIdx != subs[1].StartIdx {
		t.Errorf("job entries not contiguous: %d vs %d", subs[0].EndIdx, subs[1].StartIdx)
	}
	// The second range opens the second entry.
	if !contains(subs[0].Anchors, dates[0].ID) {
		t.Errorf("first entry missing %s: %v", dates[0].ID, subs[0].Anchors)
	}
	if !contains(subs[1].Anchors, dates[1].ID) {
		t.Errorf("second entry missing %s: %v", dates[1].ID, subs[1].Anchors)
	}
	if !strings.HasPrefix(subs[1].Text, "2015 - 2019") {
		t.Errorf("second entry should open with the range line, got %q", subs[1].Text)
	}
}

func TestSegment_NoStrongAnchorSingleJobEntry(t *testing.T) {
	text := "Expérience\nworked on various things\nin 2014 mostly"
	dates := anchor.ExtractDates(text)
	blocks := Segment(text, dates, nil)
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	subs := blocks[0].SubBlocks
	if len(subs) != 1 {
		t.Fatalf("expected the whole section as one job entry, got %d", len(subs))
	}
	if subs[0].StartIdx != blocks[0].StartIdx || subs[0].EndIdx != blocks[0].EndIdx {
		t.Errorf("single job entry must span the section: %+v vs %+v", subs[0], blocks[0])
	}
}

func TestSegment_HeaderAsFirstLine(t *testing.T) {
	text := "Skills\nGo, Python, SQL"
	blocks := Segment(text, nil, nil)
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	if blocks[0].Type != TypeSkills {
		t.Errorf("expected SKILLS, got %s", blocks[0].Type)
	}
	if blocks[0].StartIdx != 0 || blocks[0].EndIdx != len(text) {
		t.Errorf("block must cover the whole text, got [%d,%d)", blocks[0].StartIdx, blocks[0].EndIdx)
	}
	if blocks[0].Text != "Go, Python, SQL" {
		t.Errorf("unexpected body %q", blocks[0].Text)
	}
}

func TestSegment_EmptyText(t *testing.T) {
	if blocks := Segment("", nil, nil); len(blocks) != 0 {
		t.Errorf("expected no blocks for empty text, got %d", len(blocks))
	}
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
