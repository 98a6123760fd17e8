package extract

import (
	"context"
	"testing"
)

func testExtractor(responses ...string) (*Extractor, *fakeModel) {
	errs := make([]error, len(responses))
	m := &fakeModel{name: "fake", responses: responses, errs: errs}
	return NewExtractor(newTestRunner(m), 0), m
}

func TestExtractContact(t *testing.T) {
	e, _ := testExtractor(`{
		"name": "Jean Dupont",
		"title": "Développeur Full Stack",
		"email": "jean@example.com",
		"phone": "+1 514 555 0100",
		"location": "Montréal, Canada",
		"languages": ["Français", "Anglais"]
	}`)

	basics, err := e.ExtractContact(context.Background(), "Jean Dupont\nDéveloppeur Full Stack\njean@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if basics.Name != "Jean Dupont" || basics.Email != "jean@example.com" {
		t.Errorf("unexpected basics %+v", basics)
	}
	if len(basics.Languages) != 2 {
		t.Errorf("expected 2 languages, got %v", basics.Languages)
	}
}

func TestExtractExperience(t *testing.T) {
	e, _ := testExtractor("```json\n" + `{
		"job_title": "Développeur Senior",
		"company": "Acme",
		"location": "Montréal, CANADA",
		"dates_raw": "Jan 2020 - Présent",
		"date_start": "2020-01",
		"date_end": "",
		"is_current": true,
		"summary": "",
		"tasks": ["développement de la plateforme"],
		"skills": ["Go", "PostgreSQL"]
	}` + "\n```")

	entry, err := e.ExtractExperience(context.Background(), "Développeur Senior\nAcme\nJan 2020 - Présent")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Title != "Développeur Senior" || entry.Company != "Acme" {
		t.Errorf("unexpected entry %+v", entry)
	}
	if !entry.IsCurrent || entry.DateStart != "2020-01" || entry.DateEnd != "" {
		t.Errorf("unexpected dates %+v", entry)
	}
	if len(entry.Tasks) != 1 || len(entry.Skills) != 2 {
		t.Errorf("unexpected tasks/skills %+v", entry)
	}
}

func TestExtractExperience_BadDateFormatRejected(t *testing.T) {
	// Both completions carry a malformed date_start; the schema rejects them
	// and the single model runs out of attempts.
	bad := `{"job_title": "Dev", "tasks": [], "date_start": "january 2020"}`
	e, m := testExtractor(bad, bad)

	if _, err := e.ExtractExperience(context.Background(), "whatever"); err == nil {
		t.Fatal("expected schema rejection to exhaust the model")
	}
	if m.calls != 2 {
		t.Errorf("expected the full retry budget, got %d calls", m.calls)
	}
}

func TestExtractEducation(t *testing.T) {
	e, _ := testExtractor(`{
		"education": [
			{"degree": "Master Informatique", "school": "Université de Montréal", "year": "2016", "full_text": "Master Informatique - UdeM - 2016"},
			{"degree": "Baccalauréat", "school": "", "year": "", "full_text": "Baccalauréat"}
		]
	}`)

	entries, err := e.ExtractEducation(context.Background(), "Master Informatique - UdeM - 2016\nBaccalauréat")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Degree != "Master Informatique" || entries[0].Year != "2016" {
		t.Errorf("unexpected entry %+v", entries[0])
	}
}

func TestSegmentDocument(t *testing.T) {
	e, _ := testExtractor(`{
		"blocks": [
			{"type": "HEADER", "text": "Jean Dupont"},
			{"type": "EXPERIENCE", "text": "Développeur chez Acme"}
		]
	}`)

	blocks, err := e.SegmentDocument(context.Background(), "Jean Dupont\nDéveloppeur chez Acme")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(blocks) != 2 || blocks[0].Type != "HEADER" {
		t.Errorf("unexpected blocks %+v", blocks)
	}
}

func TestExtractorHead_RuneBoundary(t *testing.T) {
	e := &Extractor{headChars: 5}
	// "aaaé" is 5 bytes; cutting at 5 inside the next rune must back off.
	head := e.head("aaaéé")
	if head != "aaaé" {
		t.Errorf("head cut through a rune: %q", head)
	}
}
