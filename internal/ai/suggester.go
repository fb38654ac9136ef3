// Package ai defines the optional AI-backed helpers used by skill detection.
package ai

import "context"

// Suggestion is a model's answer to which library skills a posting needs.
// Skills holds canonical library names only.
type Suggestion struct {
	Skills []string
	Reason string
	Raw    string
}

// SkillSuggester proposes library skills for a job posting when keyword
// detection finds none.
type SkillSuggester interface {
	Suggest(ctx context.Context, title, description string, library []string) (*Suggestion, error)
}
