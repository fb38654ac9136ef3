package textnorm

import "testing"

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{name: "empty", input: "", expect: ""},
		{name: "lowercases", input: "Senior React Developer", expect: "senior react developer"},
		{name: "trims", input: "  Go  ", expect: "go"},
		{name: "keeps inner whitespace", input: "Tailwind  CSS\n\nrequired", expect: "tailwind  css\n\nrequired"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Normalize(tt.input); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{"", "  MiXeD Case  ", "Résumé\tWriting", "\n\nC++ / C#\n"}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Fatalf("normalize is not idempotent for %q: %q vs %q", in, once, twice)
		}

		onceName := NormalizeName(in)
		if twiceName := NormalizeName(onceName); twiceName != onceName {
			t.Fatalf("normalize name is not idempotent for %q: %q vs %q", in, onceName, twiceName)
		}
	}
}

func TestNormalizeName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input  string
		expect string
	}{
		{input: "Tailwind CSS", expect: "tailwind css"},
		{input: "  React   Native ", expect: "react native"},
		{input: "C++", expect: "c++"},
		{input: "C#", expect: "c#"},
		{input: "Node.js", expect: "node.js"},
		{input: "Español", expect: "espanol"},
		{input: "CI/CD", expect: "ci cd"},
		{input: "R", expect: "r"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeName(tt.input); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

func TestSlug(t *testing.T) {
	t.Parallel()

	if got := Slug("State Management"); got != "state-management" {
		t.Fatalf("unexpected slug: %q", got)
	}
	if got := Slug("  Hooks "); got != "hooks" {
		t.Fatalf("unexpected slug: %q", got)
	}
}
