package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/skillquiz/internal/ai"
	"github.com/spigell/skillquiz/internal/logger"
	"github.com/spigell/skillquiz/internal/textnorm"
	"github.com/spigell/skillquiz/internal/utils"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}

//go:embed prompt.md
var promptTemplate string

const (
	defaultMaxLogLength = 200
	maxRetryDelay       = 30 * time.Second
	// descriptions beyond this are cut before prompting
	maxDescriptionRunes = 12000
)

// Suggester asks Gemini which library skills a job posting needs.
type Suggester struct {
	generator  contentGenerator
	logger     *zap.Logger
	maxLogLen  int
	maxRetries int
	retryDelay time.Duration
}

var _ ai.SkillSuggester = (*Suggester)(nil)

func NewSuggester(generator contentGenerator, log *zap.Logger, maxRetries, maxLogLength int) *Suggester {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &Suggester{
		generator:  generator,
		logger:     logger.WithCommonFields(log, "gemini", generator.Model()),
		maxLogLen:  maxLogLength,
		maxRetries: maxRetries,
		retryDelay: time.Second,
	}
}

// Suggest returns the library skills Gemini picks for the posting. Names the
// model invents are dropped; the rest are returned in their library spelling.
func (s *Suggester) Suggest(ctx context.Context, title, description string, library []string) (*ai.Suggestion, error) {
	if len(library) == 0 {
		return nil, errors.New("library skills are required")
	}
	if strings.TrimSpace(title) == "" && strings.TrimSpace(description) == "" {
		return nil, errors.New("job posting is empty")
	}

	prompt := buildPrompt(title, description, library)

	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			delay := utils.Backoff(s.retryDelay, maxRetryDelay, attempt)
			s.logger.Info("retrying gemini request",
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
				zap.Error(lastErr),
			)
			if err := utils.WaitFor(ctx, delay); err != nil {
				return nil, err
			}
		}

		suggestion, err := s.suggestOnce(ctx, prompt, library)
		if err == nil {
			return suggestion, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err
	}

	return nil, fmt.Errorf("gemini suggestion failed after %d attempts: %w", s.maxRetries+1, lastErr)
}

func (s *Suggester) suggestOnce(ctx context.Context, prompt string, library []string) (*ai.Suggestion, error) {
	s.logger.Debug("gemini generate content request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, s.maxLogLen)),
	)

	raw, err := s.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("gemini generate content response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, s.maxLogLen)),
	)

	resp, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}

	accepted, rejected := resolveNames(resp.Skills, library)
	if len(rejected) > 0 {
		s.logger.Warn("gemini suggested skills outside the library", zap.Strings("skills", rejected))
	}

	return &ai.Suggestion{Skills: accepted, Reason: resp.Reason, Raw: raw}, nil
}

func buildPrompt(title, description string, library []string) string {
	var list strings.Builder
	for _, name := range library {
		list.WriteString("- ")
		list.WriteString(name)
		list.WriteString("\n")
	}

	if runes := []rune(description); len(runes) > maxDescriptionRunes {
		description = string(runes[:maxDescriptionRunes])
	}

	r := strings.NewReplacer(
		"{{SKILLS}}", strings.TrimRight(list.String(), "\n"),
		"{{TITLE}}", strings.TrimSpace(title),
		"{{DESCRIPTION}}", strings.TrimSpace(description),
	)
	return r.Replace(promptTemplate)
}

// resolveNames maps suggested names onto library names by normalized form.
// Unknown names are returned separately; duplicates are dropped.
func resolveNames(suggested, library []string) (accepted, rejected []string) {
	byName := make(map[string]string, len(library))
	for _, name := range library {
		byName[textnorm.NormalizeName(name)] = name
	}

	seen := make(map[string]bool)
	for _, name := range suggested {
		canonical, ok := byName[textnorm.NormalizeName(name)]
		if !ok {
			rejected = append(rejected, name)
			continue
		}
		if seen[canonical] {
			continue
		}
		seen[canonical] = true
		accepted = append(accepted, canonical)
	}
	return accepted, rejected
}
