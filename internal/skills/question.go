package skills

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
)

type QuestionType string

const (
	QuestionTypeMultipleChoice  QuestionType = "multiple_choice"
	QuestionTypeFillBlankBlocks QuestionType = "fill_blank_blocks"
)

// ChallengeQuestion is a quiz item owned by exactly one skill.
//
// TimeLimitSeconds is nil when the question inherits its limit; a value of 0
// means the question has no limit at all.
type ChallengeQuestion struct {
	ID               uuid.UUID      `json:"id" yaml:"id"`
	SkillID          uuid.UUID      `json:"skill_id" yaml:"skill_id"`
	Prompt           string         `json:"prompt" yaml:"prompt"`
	Type             QuestionType   `json:"type" yaml:"type"`
	Config           QuestionConfig `json:"config" yaml:"config"`
	ImageURL         string         `json:"image_url,omitempty" yaml:"image_url,omitempty"`
	TimeLimitSeconds *int           `json:"time_limit_seconds,omitempty" yaml:"time_limit_seconds,omitempty"`
	Tags             []Tag          `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// QuestionConfig is the type-specific payload of a question. The set of
// implementations is closed: MultipleChoice and FillBlankBlocks.
type QuestionConfig interface {
	Type() QuestionType
	Clone() QuestionConfig
	isQuestionConfig()
}

// MultipleChoice is the payload of a multiple-choice question. CorrectAnswer
// is an index into Options.
type MultipleChoice struct {
	Options       []string `json:"options" yaml:"options" mapstructure:"options"`
	CorrectAnswer int      `json:"correct_answer" yaml:"correct_answer" mapstructure:"correct_answer"`
}

func (MultipleChoice) Type() QuestionType { return QuestionTypeMultipleChoice }

func (c MultipleChoice) Clone() QuestionConfig {
	c.Options = append([]string(nil), c.Options...)
	return c
}

func (MultipleChoice) isQuestionConfig() {}

// FillBlankBlocks is the payload of a fill-in-the-blank question assembled
// from draggable blocks. CorrectAnswer holds, per blank, an index into Blocks.
type FillBlankBlocks struct {
	TemplateSource string   `json:"template_source" yaml:"template_source" mapstructure:"template_source"`
	Segments       []string `json:"segments" yaml:"segments" mapstructure:"segments"`
	ExtraBlanks    int      `json:"extra_blanks,omitempty" yaml:"extra_blanks,omitempty" mapstructure:"extra_blanks"`
	Blocks         []string `json:"blocks" yaml:"blocks" mapstructure:"blocks"`
	CorrectAnswer  []int    `json:"correct_answer" yaml:"correct_answer" mapstructure:"correct_answer"`
}

func (FillBlankBlocks) Type() QuestionType { return QuestionTypeFillBlankBlocks }

func (c FillBlankBlocks) Clone() QuestionConfig {
	c.Segments = append([]string(nil), c.Segments...)
	c.Blocks = append([]string(nil), c.Blocks...)
	c.CorrectAnswer = append([]int(nil), c.CorrectAnswer...)
	return c
}

func (FillBlankBlocks) isQuestionConfig() {}

// DecodeConfig builds the typed payload for a question type from its raw,
// loosely typed form (as read from YAML or JSON).
func DecodeConfig(t QuestionType, raw map[string]any) (QuestionConfig, error) {
	switch t {
	case QuestionTypeMultipleChoice:
		var c MultipleChoice
		if err := weakDecode(raw, &c); err != nil {
			return nil, fmt.Errorf("decode %s config: %w", t, err)
		}
		if c.CorrectAnswer < 0 || c.CorrectAnswer >= len(c.Options) {
			return nil, fmt.Errorf("%s: correct answer %d out of range of %d options", t, c.CorrectAnswer, len(c.Options))
		}
		return c, nil
	case QuestionTypeFillBlankBlocks:
		var c FillBlankBlocks
		if err := weakDecode(raw, &c); err != nil {
			return nil, fmt.Errorf("decode %s config: %w", t, err)
		}
		for _, idx := range c.CorrectAnswer {
			if idx < 0 || idx >= len(c.Blocks) {
				return nil, fmt.Errorf("%s: correct answer block %d out of range of %d blocks", t, idx, len(c.Blocks))
			}
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown question type %q", t)
	}
}

func weakDecode(raw map[string]any, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(raw)
}
