package filtering

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/skillquiz/internal/quiz"
)

type excludeFileFilter struct {
	disabled bool
	reason   string
	path     string
}

// NewExcludeFile creates a filter that removes questions listed in the exclude file.
func NewExcludeFile() Filter {
	return &excludeFileFilter{}
}

func (f *excludeFileFilter) Name() string { return "exclude_file" }

func (f *excludeFileFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *excludeFileFilter) IsEnabled() bool { return !f.disabled }

func (f *excludeFileFilter) Validate(cfg *Config) error {
	f.path = ""
	if cfg != nil {
		f.path = strings.TrimSpace(cfg.ExcludeFile)
	}
	return nil
}

func (f *excludeFileFilter) Apply(_ context.Context, deps Deps, pools []quiz.Pool) ([]quiz.Pool, Step, error) {
	initial := countQuestions(pools)
	if f.path == "" {
		return pools, Step{Initial: initial, Dropped: 0, Left: initial}, nil
	}

	excluded, err := GetExcludedQuestionsFromFile(f.path)
	if err != nil {
		return pools, Step{}, fmt.Errorf("getting excluded questions from file: %w", err)
	}

	ids := excluded.QuestionIDs()
	next, removed := keepQuestions(pools, func(q quiz.WeightedQuestion) bool {
		return !ids[q.Question.ID]
	})
	if deps.Logger != nil && len(removed) > 0 {
		deps.Logger.Info("excluding questions based on exclude file",
			zap.String("path", f.path),
			zap.Strings("excluded_questions", removed),
			zap.Int("questions_left", countQuestions(next)),
		)
	}

	left := countQuestions(next)
	return next, Step{Initial: initial, Dropped: initial - left, Left: left}, nil
}

func (f *excludeFileFilter) Status() Status {
	details := map[string]string{}
	if f.path != "" {
		details["path"] = f.path
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
