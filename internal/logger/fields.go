package logger

import (
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/skillquiz/internal/skills"
)

const (
	// FieldProvider is the structured log field key for the AI provider name.
	FieldProvider = "ai_provider"
	// FieldModel is the structured log field key for the AI model identifier.
	FieldModel = "ai_model"

	FieldSkillID    = "skill_id"
	FieldSkillName  = "skill_name"
	FieldWeight     = "weight"
	FieldQuestionID = "question_id"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields safely attaches the provided fields to the logger.
// A nil logger becomes a no-op logger.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// CommonFields returns fields describing the AI provider and model.
func CommonFields(provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)
}

// WithCommonFields attaches the common AI fields to the provided logger.
func WithCommonFields(logger *zap.Logger, provider, model string) *zap.Logger {
	return WithFields(logger, CommonFields(provider, model)...)
}

// JobSkillFields describes a job skill.
func JobSkillFields(js skills.JobSkill) []zap.Field {
	fields := StringFields(
		StringField{Key: FieldSkillID, Value: js.SkillID.String()},
		StringField{Key: FieldSkillName, Value: js.SkillName},
	)
	return append(fields,
		zap.Float64(FieldWeight, js.Weight),
		zap.Bool("manually_added", js.ManuallyAdded),
	)
}

// QuestionFields describes a question picked from a skill.
func QuestionFields(skillName string, questionID string, weight float64) []zap.Field {
	fields := StringFields(
		StringField{Key: FieldSkillName, Value: skillName},
		StringField{Key: FieldQuestionID, Value: questionID},
	)
	return append(fields, zap.Float64(FieldWeight, weight))
}
