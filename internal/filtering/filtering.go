// Package filtering narrows question pools down to the questions a quiz may
// draw from. Each step drops questions or skills and reports how many
// questions it removed.
package filtering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/skillquiz/internal/quiz"
)

// Filter represents a single eligibility step applied to question pools.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate(cfg *Config) error
	Apply(ctx context.Context, deps Deps, pools []quiz.Pool) ([]quiz.Pool, Step, error)
}

// Deps aggregates dependencies shared across all filtering steps.
type Deps struct {
	Logger *zap.Logger
}

// Step describes the result of executing a filtering step, counted in
// questions.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Config contains configuration settings consumed by the filters.
type Config struct {
	ExcludeFile string
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

// statusProvider is implemented by filters that can supply detailed status information.
type statusProvider interface {
	Status() Status
}

// Default returns the standard eligibility pipeline.
func Default() []Filter {
	return []Filter{
		NewZeroWeight(),
		NewExcludeFile(),
		NewEmptySkills(),
	}
}

// DisableByName marks a filter with the provided name as disabled while keeping it in the list.
func DisableByName(steps []Filter, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Run executes the supplied filters sequentially and returns the remaining pools.
// The caller's pools are not modified.
func Run(ctx context.Context, cfg *Config, deps Deps, steps []Filter, pools []quiz.Pool) ([]quiz.Pool, error) {
	for _, step := range steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}
	}

	current := clonePools(pools)
	for _, step := range steps {
		if !step.IsEnabled() {
			if deps.Logger != nil {
				deps.Logger.Info("filter disabled", zap.String("name", step.Name()))
			}
			continue
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		next, info, err := step.Apply(ctx, deps, current)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		if deps.Logger != nil {
			deps.Logger.Info("filter step",
				zap.String("name", step.Name()),
				zap.Int("initial", info.Initial),
				zap.Int("dropped", info.Dropped),
				zap.Int("left", info.Left),
			)
		}

		current = next
	}

	return current, nil
}

// Describe returns status entries for the provided filters.
func Describe(steps []Filter) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}

func countQuestions(pools []quiz.Pool) int {
	total := 0
	for _, p := range pools {
		total += len(p.Questions)
	}
	return total
}

func clonePools(pools []quiz.Pool) []quiz.Pool {
	out := make([]quiz.Pool, len(pools))
	for i, p := range pools {
		p.Questions = append([]quiz.WeightedQuestion(nil), p.Questions...)
		out[i] = p
	}
	return out
}

// keepQuestions rebuilds every pool with only the questions keep accepts and
// returns the new pools and the dropped question ids.
func keepQuestions(pools []quiz.Pool, keep func(quiz.WeightedQuestion) bool) ([]quiz.Pool, []string) {
	out := make([]quiz.Pool, 0, len(pools))
	var dropped []string
	for _, p := range pools {
		questions := make([]quiz.WeightedQuestion, 0, len(p.Questions))
		for _, q := range p.Questions {
			if keep(q) {
				questions = append(questions, q)
				continue
			}
			dropped = append(dropped, q.Question.ID.String())
		}
		p.Questions = questions
		out = append(out, p)
	}
	return out, dropped
}
