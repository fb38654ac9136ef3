package filtering

import (
	"context"

	"go.uber.org/zap"

	"github.com/spigell/skillquiz/internal/quiz"
)

type zeroWeightFilter struct{}

// NewZeroWeight creates a filter that removes questions weighted 0 or less.
func NewZeroWeight() Filter {
	return &zeroWeightFilter{}
}

func (f *zeroWeightFilter) Name() string { return "zero_weight" }

func (f *zeroWeightFilter) Disable(string) {}

func (f *zeroWeightFilter) IsEnabled() bool { return true }

func (f *zeroWeightFilter) Validate(*Config) error { return nil }

func (f *zeroWeightFilter) Apply(_ context.Context, deps Deps, pools []quiz.Pool) ([]quiz.Pool, Step, error) {
	initial := countQuestions(pools)

	next, dropped := keepQuestions(pools, func(q quiz.WeightedQuestion) bool {
		return q.Weight > 0
	})
	if deps.Logger != nil && len(dropped) > 0 {
		deps.Logger.Debug("excluding questions without weight",
			zap.Strings("excluded_questions", dropped),
		)
	}

	left := countQuestions(next)
	return next, Step{Initial: initial, Dropped: initial - left, Left: left}, nil
}

func (f *zeroWeightFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: true}
}
