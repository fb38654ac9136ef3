package headhunter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/spigell/skillquiz/internal/posting"
)

const vacancyPath = "/vacancies"

// ErrVacancyNotFound is returned when hh.ru does not know the vacancy.
var ErrVacancyNotFound = errors.New("vacancy not found")

// Vacancy is the part of an hh.ru vacancy used to build a job posting.
type Vacancy struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name,omitempty"`
	Employer struct {
		ID   string `json:"id,omitempty"`
		Name string `json:"name,omitempty"`
	} `json:"employer,omitempty"`
	AlternateURL string `json:"alternate_url,omitempty"`
	Description  string `json:"description,omitempty"`
	KeySkills    []struct {
		Name string `json:"name,omitempty"`
	} `json:"key_skills,omitempty"`
	Archived bool `json:"archived,omitempty"`
}

// GetVacancy fetches a single vacancy with its full description.
func (c *Client) GetVacancy(ctx context.Context, id string) (*Vacancy, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("vacancy id is required")
	}

	var vacancy Vacancy
	err := c.getJSON(ctx, fmt.Sprintf("%s%s/%s", c.baseURL, vacancyPath, url.PathEscape(id)), nil, &vacancy)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", ErrVacancyNotFound, id)
		}
		return nil, fmt.Errorf("get vacancy %s: %w", id, err)
	}

	return &vacancy, nil
}

// KeySkillNames returns the names of the vacancy's key skills.
func (v *Vacancy) KeySkillNames() []string {
	names := make([]string, 0, len(v.KeySkills))
	for _, s := range v.KeySkills {
		if name := strings.TrimSpace(s.Name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// Posting converts the vacancy into a job posting. Key skills are appended
// as a final paragraph of the description.
func (v *Vacancy) Posting() (*posting.Posting, error) {
	p, err := posting.New(v.Name, v.Description, posting.FormatHTML)
	if err != nil {
		return nil, fmt.Errorf("vacancy %s: %w", v.ID, err)
	}

	if names := v.KeySkillNames(); len(names) > 0 {
		p.AppendParagraph("Key skills: " + strings.Join(names, ", "))
	}
	return p, nil
}
