package analysis

import (
	"testing"
)

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare object", `{"foods":[]}`, `{"foods":[]}`},
		{"code fence", "```json\n{\"foods\":[]}\n```", `{"foods":[]}`},
		{"surrounding text", `Here you go: {"calories": 300} Enjoy!`, `{"calories": 300}`},
		{"no object", "sorry, I cannot help", ""},
		{"brace order wrong", "} nonsense {", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := extractJSON(tc.in); got != tc.want {
				t.Errorf("extractJSON(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestDecodeFood(t *testing.T) {
	raw := "```json\n{\"foods\":[{\"name\":\"Pasta\",\"calories\":450,\"weight_g\":300,\"protein_g\":15,\"carbs_g\":80,\"fat_g\":8}]}\n```"
	result, err := decodeFood(raw, "gemini")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Foods) != 1 {
		t.Fatalf("expected 1 food item, got %d", len(result.Foods))
	}
	f := result.Foods[0]
	if f.Name != "Pasta" || f.Calories != 450 || f.WeightG != 300 {
		t.Errorf("unexpected item: %+v", f)
	}
}

func TestDecodeFood_Malformed(t *testing.T) {
	for _, raw := range []string{"not json at all", `{"foods": [unclosed`} {
		if _, err := decodeFood(raw, "gemini"); err == nil {
			t.Errorf("expected error for %q", raw)
		}
	}
}

func TestDecodeSport(t *testing.T) {
	raw := `{"name":"Running","calories":320,"duration_min":30,"intensity":"moderate"}`
	result, err := decodeSport(raw, "openai")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Name != "Running" || result.Calories != 320 || result.DurationMin != 30 {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	a := NewOpenAIAnalyzer("test-key", "gpt-4o")
	r.Register("openai", a)

	got, err := r.Get("openai")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != Analyzer(a) {
		t.Error("registry returned a different analyzer")
	}

	if _, err := r.Get("claude"); err == nil {
		t.Error("expected error for unregistered provider")
	}
}
