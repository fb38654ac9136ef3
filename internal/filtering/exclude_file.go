package filtering

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/spigell/skillquiz/internal/quiz"
)

// ExcludedQuestions is the content of an exclude file: questions a candidate
// has already seen.
type ExcludedQuestions struct {
	Items []*ExcludedQuestion
}

type ExcludedQuestion struct {
	ID         uuid.UUID
	SkillID    uuid.UUID
	ExcludedAt time.Time
}

// GetExcludedQuestionsFromFile reads an exclude file. A missing or empty file
// holds no questions.
func GetExcludedQuestionsFromFile(path string) (*ExcludedQuestions, error) {
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &ExcludedQuestions{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return &ExcludedQuestions{}, nil
	}

	var excluded ExcludedQuestions
	if err := json.NewDecoder(file).Decode(&excluded); err != nil {
		return nil, err
	}
	return &excluded, nil
}

// ToExcluded converts selected quiz questions into exclude file entries.
func ToExcluded(selected []quiz.Selected, now time.Time) *ExcludedQuestions {
	excluded := &ExcludedQuestions{}
	for _, s := range selected {
		excluded.Items = append(excluded.Items, &ExcludedQuestion{
			ID:         s.Question.ID,
			SkillID:    s.SkillID,
			ExcludedAt: now.UTC(),
		})
	}
	return excluded
}

// Append adds the entries of s that are not already present.
func (e *ExcludedQuestions) Append(s *ExcludedQuestions) {
	ids := e.QuestionIDs()
	for _, item := range s.Items {
		if ids[item.ID] {
			continue
		}
		ids[item.ID] = true
		e.Items = append(e.Items, item)
	}
}

func (e *ExcludedQuestions) QuestionIDs() map[uuid.UUID]bool {
	ids := make(map[uuid.UUID]bool, len(e.Items))
	for _, item := range e.Items {
		ids[item.ID] = true
	}
	return ids
}

func (e *ExcludedQuestions) Len() int {
	return len(e.Items)
}

func (e *ExcludedQuestions) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}

// AppendToFile merges selected questions into the exclude file at path.
func AppendToFile(path string, selected []quiz.Selected, now time.Time) (*ExcludedQuestions, error) {
	excluded, err := GetExcludedQuestionsFromFile(path)
	if err != nil {
		return nil, err
	}

	excluded.Append(ToExcluded(selected, now))
	if err := excluded.ToFile(path); err != nil {
		return nil, err
	}
	return excluded, nil
}
