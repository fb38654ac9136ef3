// Package quiz assembles quizzes from weighted question pools.
package quiz

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/skillquiz/internal/logger"
	"github.com/spigell/skillquiz/internal/skills"
)

// WeightedQuestion is a question with its weight in the current job.
// TimeLimitSeconds is the job-level override stored with the weight.
type WeightedQuestion struct {
	Question         skills.ChallengeQuestion
	Weight           float64
	TimeLimitSeconds *int
}

// Pool is a skill's relevance weight and its candidate questions.
type Pool struct {
	SkillID   uuid.UUID
	SkillName string
	Weight    float64
	Questions []WeightedQuestion
}

// Selected is a question picked for a quiz, tagged with its source skill.
type Selected struct {
	SkillID   uuid.UUID
	SkillName string
	WeightedQuestion
}

// EligibleCount returns the number of distinct questions with positive weight.
func EligibleCount(pools []Pool) int {
	seen := make(map[uuid.UUID]bool)
	for _, p := range pools {
		for _, q := range p.Questions {
			if q.Weight > 0 {
				seen[q.Question.ID] = true
			}
		}
	}
	return len(seen)
}

type entry struct {
	skillID         uuid.UUID
	skillName       string
	weight          float64
	questions       []WeightedQuestion
	selectedInCycle bool
}

// Generate picks up to maxQuestions questions from the pools.
//
// Selection runs in cycles: within a cycle every remaining skill is picked at
// most once, so each skill contributes a question before any skill
// contributes a second. Which skill goes next is a weighted draw over the
// skills not yet picked in the cycle; which question it contributes is a
// weighted draw over its remaining questions. Questions with weight <= 0 are
// never picked and no question is picked twice.
//
// The caller's pools are not modified.
func Generate(pools []Pool, maxQuestions int, rng Rand) []Selected {
	selected := make([]Selected, 0)
	if maxQuestions <= 0 {
		return selected
	}

	remaining := buildEntries(pools)

	for len(selected) < maxQuestions && len(remaining) > 0 {
		candidates := unselected(remaining)
		if len(candidates) == 0 {
			for _, e := range remaining {
				e.selectedInCycle = false
			}
			candidates = unselected(remaining)
			if len(candidates) == 0 {
				break
			}
		}

		si, ok := weightedIndex(skillWeights(candidates), rng)
		if !ok {
			break
		}
		chosen := candidates[si]
		chosen.selectedInCycle = true

		qi, ok := weightedIndex(questionWeights(chosen.questions), rng)
		if !ok {
			remaining = without(remaining, chosen)
			continue
		}

		selected = append(selected, Selected{
			SkillID:          chosen.skillID,
			SkillName:        chosen.skillName,
			WeightedQuestion: chosen.questions[qi],
		})

		chosen.questions = removeAt(chosen.questions, qi)
		if len(chosen.questions) == 0 {
			remaining = without(remaining, chosen)
		}
	}

	return selected
}

// buildEntries copies the eligible part of the pools. Skills left without
// eligible questions are dropped, as are questions already seen in an
// earlier pool.
func buildEntries(pools []Pool) []*entry {
	seen := make(map[uuid.UUID]bool)
	entries := make([]*entry, 0, len(pools))

	for _, p := range pools {
		questions := make([]WeightedQuestion, 0, len(p.Questions))
		for _, q := range p.Questions {
			if q.Weight <= 0 || seen[q.Question.ID] {
				continue
			}
			seen[q.Question.ID] = true
			questions = append(questions, q)
		}
		if len(questions) == 0 {
			continue
		}

		entries = append(entries, &entry{
			skillID:   p.SkillID,
			skillName: p.SkillName,
			weight:    p.Weight,
			questions: questions,
		})
	}

	return entries
}

func unselected(entries []*entry) []*entry {
	out := make([]*entry, 0, len(entries))
	for _, e := range entries {
		if !e.selectedInCycle {
			out = append(out, e)
		}
	}
	return out
}

func without(entries []*entry, drop *entry) []*entry {
	out := make([]*entry, 0, len(entries))
	for _, e := range entries {
		if e != drop {
			out = append(out, e)
		}
	}
	return out
}

func removeAt(questions []WeightedQuestion, idx int) []WeightedQuestion {
	out := make([]WeightedQuestion, 0, len(questions)-1)
	out = append(out, questions[:idx]...)
	return append(out, questions[idx+1:]...)
}

func skillWeights(entries []*entry) []float64 {
	weights := make([]float64, len(entries))
	for i, e := range entries {
		weights[i] = e.weight
	}
	return weights
}

func questionWeights(questions []WeightedQuestion) []float64 {
	weights := make([]float64, len(questions))
	for i, q := range questions {
		weights[i] = q.Weight
	}
	return weights
}

// Assembler wraps Generate with a random source and logging.
type Assembler struct {
	logger *zap.Logger
	rng    Rand
}

// NewAssembler creates an Assembler. A nil rng uses DefaultRand.
func NewAssembler(log *zap.Logger, rng Rand) *Assembler {
	if rng == nil {
		rng = DefaultRand()
	}
	return &Assembler{
		logger: logger.WithFields(log, zap.String("component", "quiz")),
		rng:    rng,
	}
}

// Assemble generates a quiz and logs what was picked.
func (a *Assembler) Assemble(pools []Pool, maxQuestions int) []Selected {
	selected := Generate(pools, maxQuestions, a.rng)

	for _, s := range selected {
		a.logger.Debug("question selected", logger.QuestionFields(s.SkillName, s.Question.ID.String(), s.Weight)...)
	}

	a.logger.Info("quiz assembled",
		zap.Int("skills", len(pools)),
		zap.Int("eligible_questions", EligibleCount(pools)),
		zap.Int("requested", maxQuestions),
		zap.Int("selected", len(selected)),
	)

	return selected
}

// Rand returns the assembler's random source.
func (a *Assembler) Rand() Rand {
	return a.rng
}
