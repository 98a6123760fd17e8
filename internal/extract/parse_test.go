package extract

import (
	"testing"
)

func TestStripCodeBlock(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  {\"a\":1}  ", `{"a":1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := stripCodeBlock(tc.in); got != tc.want {
				t.Errorf("stripCodeBlock(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestDecodeObject_RescuesWrappedJSON(t *testing.T) {
	completion := `Voici le résultat demandé :
{"name": "Jean Dupont", "email": "jd@example.com"}
J'espère que cela vous convient.`

	var p contactPayload
	if err := DecodeObject(completion, &p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name != "Jean Dupont" || p.Email != "jd@example.com" {
		t.Errorf("unexpected payload %+v", p)
	}
}

func TestDecodeObject_NestedBracesAndStrings(t *testing.T) {
	completion := `note: {"name": "Jean {dit} Dupont", "title": "Dev \"senior\"", "extra": {"x": 1}} trailing`
	var v map[string]any
	if err := DecodeObject(completion, &v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v["name"] != "Jean {dit} Dupont" {
		t.Errorf("brace inside string mishandled: %v", v["name"])
	}
}

func TestDecodeObject_NoJSONFails(t *testing.T) {
	var v map[string]any
	if err := DecodeObject("je ne peux pas répondre", &v); err == nil {
		t.Fatal("expected an error for a prose-only completion")
	}
}

func TestFirstJSONObject_Unbalanced(t *testing.T) {
	if _, ok := firstJSONObject(`{"a": {"b": 1}`); ok {
		t.Error("unbalanced object must not be returned")
	}
}
