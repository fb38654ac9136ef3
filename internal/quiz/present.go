package quiz

import (
	"github.com/google/uuid"

	"github.com/spigell/skillquiz/internal/skills"
)

// Item is a selected question as handed to a candidate.
type Item struct {
	Position         int                   `json:"position" yaml:"position"`
	SkillID          uuid.UUID             `json:"skill_id" yaml:"skill_id"`
	SkillName        string                `json:"skill_name" yaml:"skill_name"`
	QuestionID       uuid.UUID             `json:"question_id" yaml:"question_id"`
	Prompt           string                `json:"prompt" yaml:"prompt"`
	Type             skills.QuestionType   `json:"type" yaml:"type"`
	Config           skills.QuestionConfig `json:"config" yaml:"config"`
	ImageURL         string                `json:"image_url,omitempty" yaml:"image_url,omitempty"`
	TimeLimitSeconds *int                  `json:"time_limit_seconds,omitempty" yaml:"time_limit_seconds,omitempty"`
}

// Present turns selected questions into quiz items. Every item gets its own
// copy of the question config, shuffled when shuffle is set, and its time
// limit resolved against teamDefault.
func Present(selected []Selected, rng Rand, shuffle bool, teamDefault *int) []Item {
	items := make([]Item, 0, len(selected))
	for i, s := range selected {
		q := s.Question

		var cfg skills.QuestionConfig
		switch {
		case q.Config == nil:
		case shuffle:
			cfg = ShuffleOptions(q.Config, rng)
		default:
			cfg = q.Config.Clone()
		}

		items = append(items, Item{
			Position:         i + 1,
			SkillID:          s.SkillID,
			SkillName:        s.SkillName,
			QuestionID:       q.ID,
			Prompt:           q.Prompt,
			Type:             q.Type,
			Config:           cfg,
			ImageURL:         q.ImageURL,
			TimeLimitSeconds: skills.ResolveTimeLimit(q.TimeLimitSeconds, s.TimeLimitSeconds, teamDefault),
		})
	}
	return items
}

// ShuffleOptions returns a copy of cfg with its answer options in random
// order and the correct answer remapped. cfg itself is left untouched.
func ShuffleOptions(cfg skills.QuestionConfig, rng Rand) skills.QuestionConfig {
	switch c := cfg.(type) {
	case skills.MultipleChoice:
		out := c.Clone().(skills.MultipleChoice)
		perm := permutation(len(c.Options), rng)
		for i, from := range perm {
			out.Options[i] = c.Options[from]
			if from == c.CorrectAnswer {
				out.CorrectAnswer = i
			}
		}
		return out
	case skills.FillBlankBlocks:
		out := c.Clone().(skills.FillBlankBlocks)
		perm := permutation(len(c.Blocks), rng)
		moved := make([]int, len(perm))
		for i, from := range perm {
			out.Blocks[i] = c.Blocks[from]
			moved[from] = i
		}
		for k, idx := range c.CorrectAnswer {
			if idx >= 0 && idx < len(moved) {
				out.CorrectAnswer[k] = moved[idx]
			}
		}
		return out
	case nil:
		return nil
	default:
		return cfg.Clone()
	}
}

// permutation returns a Fisher-Yates shuffle of 0..n-1.
func permutation(n int, rng Rand) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := intn(i+1, rng)
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm
}
