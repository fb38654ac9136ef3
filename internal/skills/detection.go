package skills

import "github.com/google/uuid"

const (
	// MinSkillWeight and MaxSkillWeight bound a job skill's relevance weight.
	MinSkillWeight = 0.5
	MaxSkillWeight = 3.0
)

// JobSkill associates a skill with a job posting.
type JobSkill struct {
	SkillID       uuid.UUID `json:"skill_id" yaml:"skill_id" mapstructure:"skill_id"`
	SkillName     string    `json:"skill_name" yaml:"skill_name" mapstructure:"skill_name"`
	Weight        float64   `json:"weight" yaml:"weight" mapstructure:"weight"`
	Required      bool      `json:"required" yaml:"required" mapstructure:"required"`
	ManuallyAdded bool      `json:"manually_added" yaml:"manually_added" mapstructure:"manually_added"`
}

// QuestionWeight is the weight of a question within a job skill. A weight of
// exactly 0 makes the question ineligible for selection.
//
// TimeLimitSeconds overrides the team default for this job; the question's
// own limit still takes precedence (see ResolveTimeLimit).
type QuestionWeight struct {
	SkillID          uuid.UUID `json:"skill_id" yaml:"skill_id" mapstructure:"skill_id"`
	QuestionID       uuid.UUID `json:"question_id" yaml:"question_id" mapstructure:"question_id"`
	Weight           float64   `json:"weight" yaml:"weight" mapstructure:"weight"`
	TimeLimitSeconds *int      `json:"time_limit_seconds,omitempty" yaml:"time_limit_seconds,omitempty" mapstructure:"time_limit_seconds"`
}

// Detection is the result of auto-detecting the skills of a job posting.
type Detection struct {
	JobSkills       []JobSkill       `json:"job_skills" yaml:"job_skills" mapstructure:"job_skills"`
	QuestionWeights []QuestionWeight `json:"question_weights" yaml:"question_weights" mapstructure:"question_weights"`
}

// Empty reports whether nothing was detected.
func (d *Detection) Empty() bool {
	return d == nil || len(d.JobSkills) == 0
}

// WeightOf returns the stored weight of a question and whether one exists.
func (d *Detection) WeightOf(questionID uuid.UUID) (QuestionWeight, bool) {
	for _, w := range d.QuestionWeights {
		if w.QuestionID == questionID {
			return w, true
		}
	}
	return QuestionWeight{}, false
}

// JobConfig is a job's persisted quiz configuration.
type JobConfig struct {
	Title         string                `json:"title,omitempty" yaml:"title,omitempty" mapstructure:"title"`
	Detection     `yaml:",inline" mapstructure:",squash"`
	QuestionCount *QuestionCountSetting `json:"question_count,omitempty" yaml:"question_count,omitempty" mapstructure:"question_count"`
}
