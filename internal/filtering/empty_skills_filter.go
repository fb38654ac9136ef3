package filtering

import (
	"context"

	"go.uber.org/zap"

	"github.com/spigell/skillquiz/internal/quiz"
)

type emptySkillsFilter struct{}

// NewEmptySkills creates a filter that removes skills left without questions.
func NewEmptySkills() Filter {
	return &emptySkillsFilter{}
}

func (f *emptySkillsFilter) Name() string { return "empty_skills" }

func (f *emptySkillsFilter) Disable(string) {}

func (f *emptySkillsFilter) IsEnabled() bool { return true }

func (f *emptySkillsFilter) Validate(*Config) error { return nil }

func (f *emptySkillsFilter) Apply(_ context.Context, deps Deps, pools []quiz.Pool) ([]quiz.Pool, Step, error) {
	initial := countQuestions(pools)

	next := make([]quiz.Pool, 0, len(pools))
	var removed []string
	for _, p := range pools {
		if len(p.Questions) == 0 {
			removed = append(removed, p.SkillName)
			continue
		}
		next = append(next, p)
	}

	if deps.Logger != nil && len(removed) > 0 {
		deps.Logger.Info("excluding skills without eligible questions",
			zap.Strings("excluded_skills", removed),
			zap.Int("skills_left", len(next)),
		)
	}

	left := countQuestions(next)
	return next, Step{Initial: initial, Dropped: initial - left, Left: left}, nil
}

func (f *emptySkillsFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: true}
}
