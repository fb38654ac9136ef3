// Package skills holds the data model shared by skill detection and quiz
// assembly: the team skill library, challenge questions and the job
// configuration produced by detection.
package skills

import (
	"github.com/google/uuid"
)

// Skill is a named capability in a team library. Only Normalized and
// Aliases take part in matching; Name is for display.
type Skill struct {
	ID         uuid.UUID `json:"id" yaml:"id"`
	Name       string    `json:"name" yaml:"name"`
	Normalized string    `json:"skill_normalized" yaml:"skill_normalized"`
	Aliases    []string  `json:"aliases,omitempty" yaml:"aliases,omitempty"`
}

// Tag is a team-wide label attachable to any question.
type Tag struct {
	ID   uuid.UUID `json:"id" yaml:"id"`
	Name string    `json:"name" yaml:"name"`
	Slug string    `json:"slug" yaml:"slug"`
}

// Library is a team's skill library with the question pool of every skill.
type Library struct {
	Skills    []Skill
	Questions map[uuid.UUID][]ChallengeQuestion
}

// FindByName returns the skill with the given normalized name, or nil.
func (l *Library) FindByName(normalized string) *Skill {
	for i := range l.Skills {
		if l.Skills[i].Normalized == normalized {
			return &l.Skills[i]
		}
	}
	return nil
}

// FindByID returns the skill with the given id, or nil.
func (l *Library) FindByID(id uuid.UUID) *Skill {
	for i := range l.Skills {
		if l.Skills[i].ID == id {
			return &l.Skills[i]
		}
	}
	return nil
}

// Names returns the display names of all skills in library order.
func (l *Library) Names() []string {
	names := make([]string, 0, len(l.Skills))
	for _, s := range l.Skills {
		names = append(names, s.Name)
	}
	return names
}

// QuestionCount returns the total number of questions across all skills.
func (l *Library) QuestionCount() int {
	total := 0
	for _, qs := range l.Questions {
		total += len(qs)
	}
	return total
}
