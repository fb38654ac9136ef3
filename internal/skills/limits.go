package skills

import "fmt"

// ResolveTimeLimit picks the effective time limit in seconds for a question.
// The question's own limit wins over the job-level weight override, which
// wins over the team default. A nil tier inherits; 0 is a real value meaning
// "no limit" and stops the lookup.
func ResolveTimeLimit(questionLimit, weightLimit, teamDefault *int) *int {
	for _, tier := range []*int{questionLimit, weightLimit, teamDefault} {
		if tier != nil {
			v := *tier
			return &v
		}
	}
	return nil
}

type QuestionCountMode string

const (
	QuestionCountFixed    QuestionCountMode = "fixed"
	QuestionCountPerSkill QuestionCountMode = "per_skill"
)

// QuestionCountSetting describes how many questions a quiz should contain.
type QuestionCountSetting struct {
	Mode       QuestionCountMode `json:"mode" yaml:"mode" mapstructure:"mode"`
	Fixed      int               `json:"fixed,omitempty" yaml:"fixed,omitempty" mapstructure:"fixed"`
	Multiplier int               `json:"multiplier,omitempty" yaml:"multiplier,omitempty" mapstructure:"multiplier"`
	Max        int               `json:"max,omitempty" yaml:"max,omitempty" mapstructure:"max"`
}

// DefaultQuestionCount is used when neither the job nor the team configures a count.
var DefaultQuestionCount = QuestionCountSetting{
	Mode:       QuestionCountPerSkill,
	Multiplier: 3,
	Max:        15,
}

// Validate checks the setting for values that cannot produce a quiz.
func (s QuestionCountSetting) Validate() error {
	switch s.Mode {
	case QuestionCountFixed:
		if s.Fixed <= 0 {
			return fmt.Errorf("fixed question count must be positive, got %d", s.Fixed)
		}
	case QuestionCountPerSkill:
		if s.Multiplier <= 0 {
			return fmt.Errorf("question count multiplier must be positive, got %d", s.Multiplier)
		}
		if s.Max < 0 {
			return fmt.Errorf("question count max must not be negative, got %d", s.Max)
		}
	default:
		return fmt.Errorf("unknown question count mode %q", s.Mode)
	}
	return nil
}

// QuestionCount returns the target number of questions for a quiz over
// skillCount skills. Max caps the per-skill mode when positive.
func QuestionCount(s QuestionCountSetting, skillCount int) int {
	var n int
	switch s.Mode {
	case QuestionCountFixed:
		n = s.Fixed
	default:
		n = skillCount * s.Multiplier
		if s.Max > 0 && n > s.Max {
			n = s.Max
		}
	}

	if n < 0 {
		return 0
	}
	return n
}

// EffectiveQuestionCount returns the job setting when present, else the team
// setting, else DefaultQuestionCount.
func EffectiveQuestionCount(job, team *QuestionCountSetting) QuestionCountSetting {
	switch {
	case job != nil:
		return *job
	case team != nil:
		return *team
	default:
		return DefaultQuestionCount
	}
}
