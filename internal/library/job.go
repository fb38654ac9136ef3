package library

import (
	"fmt"
	"strings"

	"github.com/spigell/skillquiz/internal/posting"
	"github.com/spigell/skillquiz/internal/quiz"
	"github.com/spigell/skillquiz/internal/skills"
	"github.com/spigell/skillquiz/internal/textnorm"
)

type rawPosting struct {
	Title       string         `mapstructure:"title"`
	Description string         `mapstructure:"description"`
	Format      posting.Format `mapstructure:"format"`
}

// LoadPosting reads a job posting file with title, description and an
// optional format (text or html).
func LoadPosting(path string) (*posting.Posting, error) {
	var raw rawPosting
	if err := readFile(path, &raw); err != nil {
		return nil, err
	}

	p, err := posting.New(raw.Title, raw.Description, posting.Format(strings.ToLower(string(raw.Format))))
	if err != nil {
		return nil, fmt.Errorf("posting %q: %w", path, err)
	}
	return p, nil
}

// LoadJobConfig reads a job configuration as written by the detect command.
func LoadJobConfig(path string) (*skills.JobConfig, error) {
	var cfg skills.JobConfig
	if err := readFile(path, &cfg); err != nil {
		return nil, err
	}

	if cfg.QuestionCount != nil {
		if err := cfg.QuestionCount.Validate(); err != nil {
			return nil, fmt.Errorf("job config %q: %w", path, err)
		}
	}
	for _, js := range cfg.JobSkills {
		if js.Weight < 0 {
			return nil, fmt.Errorf("job config %q: skill %q has negative weight", path, js.SkillName)
		}
	}
	return &cfg, nil
}

// BuildPools joins a job configuration with the library into question pools,
// one per job skill, in job skill order.
//
// A question's weight comes from the job configuration. Questions the
// configuration does not mention get fallbackWeight. Job skills missing from
// the library are returned by name.
func BuildPools(lib *skills.Library, cfg *skills.JobConfig, fallbackWeight float64) ([]quiz.Pool, []string) {
	pools := make([]quiz.Pool, 0, len(cfg.JobSkills))
	var missing []string

	for _, js := range cfg.JobSkills {
		skill := lib.FindByID(js.SkillID)
		if skill == nil {
			skill = lib.FindByName(textnorm.NormalizeName(js.SkillName))
		}
		if skill == nil {
			missing = append(missing, js.SkillName)
			continue
		}

		questions := lib.Questions[skill.ID]
		pool := quiz.Pool{
			SkillID:   skill.ID,
			SkillName: skill.Name,
			Weight:    js.Weight,
			Questions: make([]quiz.WeightedQuestion, 0, len(questions)),
		}
		for _, q := range questions {
			wq := quiz.WeightedQuestion{Question: q, Weight: fallbackWeight}
			if w, ok := cfg.WeightOf(q.ID); ok {
				wq.Weight = w.Weight
				wq.TimeLimitSeconds = w.TimeLimitSeconds
			}
			pool.Questions = append(pool.Questions, wq)
		}
		pools = append(pools, pool)
	}

	return pools, missing
}
