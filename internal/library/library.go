package library

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/spigell/skillquiz/internal/skills"
	"github.com/spigell/skillquiz/internal/textnorm"
)

type rawLibrary struct {
	Tags   []rawTag   `mapstructure:"tags"`
	Skills []rawSkill `mapstructure:"skills"`
}

type rawTag struct {
	ID   uuid.UUID `mapstructure:"id"`
	Name string    `mapstructure:"name"`
}

type rawSkill struct {
	ID        uuid.UUID     `mapstructure:"id"`
	Name      string        `mapstructure:"name"`
	Aliases   []string      `mapstructure:"aliases"`
	Questions []rawQuestion `mapstructure:"questions"`
}

type rawQuestion struct {
	ID               uuid.UUID           `mapstructure:"id"`
	Prompt           string              `mapstructure:"prompt"`
	Type             skills.QuestionType `mapstructure:"type"`
	Config           map[string]any      `mapstructure:"config"`
	ImageURL         string              `mapstructure:"image_url"`
	TimeLimitSeconds *int                `mapstructure:"time_limit_seconds"`
	Tags             []string            `mapstructure:"tags"`
}

// LoadLibrary reads a team skill library file.
//
// Skills and questions without an id get a random one. Question tags refer
// to library tags by name; unknown names become new tags.
func LoadLibrary(path string) (*skills.Library, error) {
	var raw rawLibrary
	if err := readFile(path, &raw); err != nil {
		return nil, err
	}

	lib, err := buildLibrary(raw)
	if err != nil {
		return nil, fmt.Errorf("library %q: %w", path, err)
	}
	return lib, nil
}

func buildLibrary(raw rawLibrary) (*skills.Library, error) {
	tags := make(map[string]skills.Tag)
	for _, t := range raw.Tags {
		if _, err := addTag(tags, t.ID, t.Name); err != nil {
			return nil, err
		}
	}

	lib := &skills.Library{
		Skills:    make([]skills.Skill, 0, len(raw.Skills)),
		Questions: make(map[uuid.UUID][]skills.ChallengeQuestion, len(raw.Skills)),
	}
	names := make(map[string]bool)
	questionIDs := make(map[uuid.UUID]bool)

	for _, rs := range raw.Skills {
		name := strings.TrimSpace(rs.Name)
		normalized := textnorm.NormalizeName(name)
		if normalized == "" {
			return nil, fmt.Errorf("skill %q has an empty name", rs.Name)
		}
		if names[normalized] {
			return nil, fmt.Errorf("duplicate skill %q", name)
		}
		names[normalized] = true

		skill := skills.Skill{
			ID:         orNew(rs.ID),
			Name:       name,
			Normalized: normalized,
			Aliases:    rs.Aliases,
		}

		questions := make([]skills.ChallengeQuestion, 0, len(rs.Questions))
		for i, rq := range rs.Questions {
			q, err := buildQuestion(skill.ID, rq, tags)
			if err != nil {
				return nil, fmt.Errorf("skill %q question %d: %w", name, i+1, err)
			}
			if questionIDs[q.ID] {
				return nil, fmt.Errorf("skill %q: duplicate question id %s", name, q.ID)
			}
			questionIDs[q.ID] = true
			questions = append(questions, q)
		}

		lib.Skills = append(lib.Skills, skill)
		lib.Questions[skill.ID] = questions
	}

	return lib, nil
}

func buildQuestion(skillID uuid.UUID, rq rawQuestion, tags map[string]skills.Tag) (skills.ChallengeQuestion, error) {
	if strings.TrimSpace(rq.Prompt) == "" {
		return skills.ChallengeQuestion{}, fmt.Errorf("empty prompt")
	}
	if rq.TimeLimitSeconds != nil && *rq.TimeLimitSeconds < 0 {
		return skills.ChallengeQuestion{}, fmt.Errorf("negative time limit %d", *rq.TimeLimitSeconds)
	}

	cfg, err := skills.DecodeConfig(rq.Type, rq.Config)
	if err != nil {
		return skills.ChallengeQuestion{}, err
	}

	q := skills.ChallengeQuestion{
		ID:               orNew(rq.ID),
		SkillID:          skillID,
		Prompt:           rq.Prompt,
		Type:             rq.Type,
		Config:           cfg,
		ImageURL:         rq.ImageURL,
		TimeLimitSeconds: rq.TimeLimitSeconds,
	}
	for _, name := range rq.Tags {
		tag, err := addTag(tags, uuid.Nil, name)
		if err != nil {
			return skills.ChallengeQuestion{}, err
		}
		q.Tags = append(q.Tags, tag)
	}
	return q, nil
}

// addTag registers a tag by slug and returns the stored tag. Re-adding an
// existing slug returns the first one.
func addTag(tags map[string]skills.Tag, id uuid.UUID, name string) (skills.Tag, error) {
	name = strings.TrimSpace(name)
	slug := textnorm.Slug(name)
	if slug == "" {
		return skills.Tag{}, fmt.Errorf("tag %q has an empty name", name)
	}
	if tag, ok := tags[slug]; ok {
		return tag, nil
	}

	tag := skills.Tag{ID: orNew(id), Name: name, Slug: slug}
	tags[slug] = tag
	return tag, nil
}

func orNew(id uuid.UUID) uuid.UUID {
	if id == uuid.Nil {
		return uuid.New()
	}
	return id
}
