package textnorm

import "testing"

func TestNormalize_SpacedDigits(t *testing.T) {
	got := Normalize("Experience in 2 0 0 8 and 2 0 1 4.")
	want := "Experience in 2008 and 2014."
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestNormalize_SpacedKeywords(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"depuis", "D E P U I S 2020", "DEPUIS 2020"},
		{"present", "2018 - P R E S E N T", "2018 - PRESENT"},
		{"french month", "J U I L L E T 2018", "JUILLET 2018"},
		{"english month", "J A N U A R Y 2021", "JANUARY 2021"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.in); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestNormalize_DashVariants(t *testing.T) {
	got := Normalize("Jan 2020 – Mar 2021")
	want := "Jan 2020 - Mar 2021"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestNormalize_RangeConnectors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"to", "2019 to 2021", "2019 - 2021"},
		{"au", "2019 au 2021", "2019 - 2021"},
		{"a accent", "2019 à 2021", "2019 - 2021"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.in); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestNormalize_SpacedCapsName(t *testing.T) {
	got := Normalize("J O N A T H A N\nDéveloppeur Web")
	want := "JONATHAN\nDéveloppeur Web"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestNormalize_Mojibake(t *testing.T) {
	got := Normalize("DÃ©veloppeur expÃ©rimentÃ©")
	want := "Développeur expérimenté"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestNormalize_KeepsNewlines(t *testing.T) {
	got := Normalize("Line one   with   gaps\nLine two")
	want := "Line one with gaps\nLine two"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestNormalize_EmptyInput(t *testing.T) {
	if got := Normalize(""); got != "" {
		t.Errorf("expected empty output, got %q", got)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"Experience in 2 0 0 8 and 2 0 1 4.",
		"Jan 2020 – Mar 2021, then 2021 to 2023",
		"D E P U I S 2019\nChef de projet",
		"Software Engineer | Google (Mar 2024 – Present)",
		"DÃ©veloppeur   senior\t2016 au 2019",
		"J O N A T H A N\n2 0 1 8 - P R E S E N T",
		"plain text without artifacts",
		"",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("not idempotent for %q:\n once=%q\ntwice=%q", in, once, twice)
		}
	}
}
