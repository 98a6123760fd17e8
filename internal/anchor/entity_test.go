package anchor

import (
	"strings"
	"testing"
)

func TestExtractEntities_HighConfidenceRole(t *testing.T) {
	anchors := ExtractEntities("Développeur Full Stack", DefaultEntityConfig())
	if len(anchors) != 1 {
		t.Fatalf("expected 1 anchor, got %d", len(anchors))
	}
	a := anchors[0]
	if a.Raw != "Développeur Full Stack" {
		t.Errorf("unexpected raw %q", a.Raw)
	}
	if a.Type != "role" {
		t.Errorf("expected type role, got %q", a.Type)
	}
	if a.Confidence != "high" {
		t.Errorf("expected high confidence, got %q", a.Confidence)
	}
}

func TestExtractEntities_Exclusions(t *testing.T) {
	cases := []struct {
		name string
		line string
	}{
		{"bullet dash", "- Développeur Senior"},
		{"bullet dot", "• Managed a team of developers"},
		{"trailing period", "Responsible For Development."},
		{"too many digits", "Developer 2019 2020"},
		{"low cap ratio", "senior developer working on the platform"},
		{"too many words", "Senior Lead Developer Of The Very Large Distributed Platform Engineering Team Here"},
		{"no role keyword", "Université De Montréal"},
		{"empty", "   "},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if anchors := ExtractEntities(tc.line, DefaultEntityConfig()); len(anchors) != 0 {
				t.Errorf("line %q should be excluded, got %+v", tc.line, anchors)
			}
		})
	}
}

func TestExtractEntities_MediumConfidence(t *testing.T) {
	cases := []struct {
		name string
		line string
	}{
		{"over high word limit", "Senior Software Engineer And Team Lead Consultant"},
		{"cap ratio below high bar", "Chef de Projet informatique"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			anchors := ExtractEntities(tc.line, DefaultEntityConfig())
			if len(anchors) != 1 {
				t.Fatalf("expected 1 anchor, got %d", len(anchors))
			}
			if anchors[0].Confidence != "medium" {
				t.Errorf("expected medium confidence, got %q", anchors[0].Confidence)
			}
		})
	}
}

func TestExtractEntities_IncSuffixAllowed(t *testing.T) {
	anchors := ExtractEntities("Consultant Chez Acme Inc.", DefaultEntityConfig())
	if len(anchors) != 1 {
		t.Fatalf("expected the inc. suffix to be allowed, got %d anchors", len(anchors))
	}
}

func TestExtractEntities_OffsetsAndIDs(t *testing.T) {
	text := "John Doe\n  Architecte Cloud\nblah blah blah\nChef de Projet Informatique"
	anchors := ExtractEntities(text, DefaultEntityConfig())
	if len(anchors) != 2 {
		t.Fatalf("expected 2 anchors, got %d", len(anchors))
	}
	for i, a := range anchors {
		want := "e" + string(rune('1'+i))
		if a.ID != want {
			t.Errorf("expected ID %q, got %q", want, a.ID)
		}
		if got := text[a.StartIdx:a.EndIdx]; got != a.Raw {
			t.Errorf("anchor %s: span %q does not match raw %q", a.ID, got, a.Raw)
		}
	}
	if !strings.HasPrefix(text[anchors[0].StartIdx:], "Architecte") {
		t.Errorf("leading whitespace not excluded from offset: %q", text[anchors[0].StartIdx:])
	}
}

func TestExtractEntities_ConfigOverride(t *testing.T) {
	cfg := DefaultEntityConfig()
	cfg.MaxWords = 2
	if anchors := ExtractEntities("Développeur Full Stack", cfg); len(anchors) != 0 {
		t.Errorf("3-word line should fail MaxWords=2, got %+v", anchors)
	}
}
