package detect

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/skillquiz/internal/logger"
	"github.com/spigell/skillquiz/internal/skills"
)

// AutoDetect detects the skills of a job posting and weights the questions of
// every detected skill by tag relevance. All weights are rounded to two
// decimals. Detected job skills are required and not manually added.
func AutoDetect(
	title, description string,
	available []skills.Skill,
	questionsBySkill map[uuid.UUID][]skills.ChallengeQuestion,
	tagMatchWeight, tagNoMatchWeight float64,
) skills.Detection {
	detected := DetectSkills(title, description, available)

	result := skills.Detection{
		JobSkills:       make([]skills.JobSkill, 0, len(detected)),
		QuestionWeights: make([]skills.QuestionWeight, 0),
	}

	for _, d := range detected {
		result.JobSkills = append(result.JobSkills, skills.JobSkill{
			SkillID:       d.Skill.ID,
			SkillName:     d.Skill.Name,
			Weight:        round2(d.Weight),
			Required:      true,
			ManuallyAdded: false,
		})

		for _, q := range questionsBySkill[d.Skill.ID] {
			result.QuestionWeights = append(result.QuestionWeights, skills.QuestionWeight{
				SkillID:    d.Skill.ID,
				QuestionID: q.ID,
				Weight:     round2(CalculateQuestionWeight(q, title, description, tagMatchWeight, tagNoMatchWeight)),
			})
		}
	}

	return result
}

// Detector runs AutoDetect against a team library with the team's tag weights.
type Detector struct {
	logger           *zap.Logger
	tagMatchWeight   float64
	tagNoMatchWeight float64
}

// New creates a Detector. A nil logger disables logging.
func New(log *zap.Logger, tagMatchWeight, tagNoMatchWeight float64) *Detector {
	return &Detector{
		logger:           logger.WithFields(log, zap.String("component", "detect")),
		tagMatchWeight:   tagMatchWeight,
		tagNoMatchWeight: tagNoMatchWeight,
	}
}

// Detect runs skill detection for a job posting.
func (d *Detector) Detect(title, description string, lib *skills.Library) skills.Detection {
	result := AutoDetect(title, description, lib.Skills, lib.Questions, d.tagMatchWeight, d.tagNoMatchWeight)

	for _, js := range result.JobSkills {
		d.logger.Debug("skill detected", logger.JobSkillFields(js)...)
	}

	d.logger.Info("skill detection completed",
		zap.Int("library_skills", len(lib.Skills)),
		zap.Int("detected_skills", len(result.JobSkills)),
		zap.Int("weighted_questions", len(result.QuestionWeights)),
	)

	return result
}

// ManualJobSkill builds the job configuration entries for a skill assigned by
// a user rather than detected in the text. The skill gets the base weight and
// its questions the usual tag-derived weights.
func (d *Detector) ManualJobSkill(title, description string, skill skills.Skill, questions []skills.ChallengeQuestion) (skills.JobSkill, []skills.QuestionWeight) {
	js := skills.JobSkill{
		SkillID:       skill.ID,
		SkillName:     skill.Name,
		Weight:        baseSkillWeight,
		Required:      true,
		ManuallyAdded: true,
	}

	weights := make([]skills.QuestionWeight, 0, len(questions))
	for _, q := range questions {
		weights = append(weights, skills.QuestionWeight{
			SkillID:    skill.ID,
			QuestionID: q.ID,
			Weight:     round2(CalculateQuestionWeight(q, title, description, d.tagMatchWeight, d.tagNoMatchWeight)),
		})
	}

	d.logger.Debug("skill added manually", logger.JobSkillFields(js)...)

	return js, weights
}
