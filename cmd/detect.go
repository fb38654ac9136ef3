package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/skillquiz/internal/ai"
	"github.com/spigell/skillquiz/internal/ai/gemini"
	"github.com/spigell/skillquiz/internal/detect"
	"github.com/spigell/skillquiz/internal/headhunter"
	"github.com/spigell/skillquiz/internal/library"
	"github.com/spigell/skillquiz/internal/logger"
	"github.com/spigell/skillquiz/internal/posting"
	"github.com/spigell/skillquiz/internal/secrets"
	"github.com/spigell/skillquiz/internal/skills"
	"github.com/spigell/skillquiz/internal/textnorm"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

var errExit = errors.New("exit requested")

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Detect the skills of a job posting and weight their questions",
	Run: func(cmd *cobra.Command, _ []string) {
		runDetect(cmd)
	},
}

func init() {
	rootCmd.AddCommand(detectCmd)

	detectCmd.Flags().StringP("posting", "p", "", "job posting file with title and description")
	detectCmd.Flags().String("vacancy", "", "hh.ru vacancy id to use as the job posting")
	detectCmd.Flags().StringP("output", "o", "", "write the job configuration to this file instead of stdout")
	detectCmd.Flags().StringP("format", "f", "", "output format: json or yaml (default from --output extension, else json)")
	detectCmd.Flags().BoolP("auto-approve", "y", false, "accept AI suggested skills without confirmation")
}

// runDetect is the entry point of the detect command.
func runDetect(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	if config.Library == "" {
		logger.Fatal("library is required", zap.String("hint", "pass --library or set 'library' in the configuration file"))
	}

	lib, err := library.LoadLibrary(config.Library)
	if err != nil {
		logger.Fatal("loading library", zap.Error(err))
	}

	logger.Info("library loaded",
		zap.String("path", config.Library),
		zap.Int("skills", len(lib.Skills)),
		zap.Int("questions", lib.QuestionCount()),
	)

	postingFile, _ := cmd.Flags().GetString("posting")
	vacancyID, _ := cmd.Flags().GetString("vacancy")

	p, err := loadPosting(ctx, config, logger, postingFile, vacancyID)
	if err != nil {
		logger.Fatal("loading job posting", zap.Error(err))
	}

	detector := detect.New(logger, config.Team.TagMatchWeight, config.Team.TagNoMatchWeight)
	detection := detector.Detect(p.Title, p.Description, lib)

	if detection.Empty() {
		logger.Info("no library skills found in the job posting")

		if config.AI.Enabled {
			autoApprove, _ := cmd.Flags().GetBool("auto-approve")
			confirm := promptConfirm
			if autoApprove {
				confirm = approveAll
			}

			detection, err = suggestWithAI(ctx, config.AI, logger, detector, lib, p, confirm)
			if err != nil && !errors.Is(err, errExit) {
				logger.Warn("ai skill suggestion failed", zap.Error(err))
			}
		}
	}

	setting := skills.EffectiveQuestionCount(nil, config.Team.QuestionCount)
	logger.Info("question count target",
		zap.String("mode", string(setting.Mode)),
		zap.Int("questions", skills.QuestionCount(setting, len(detection.JobSkills))),
	)

	jobConfig := skills.JobConfig{Title: p.Title, Detection: detection}

	output, _ := cmd.Flags().GetString("output")
	format, _ := cmd.Flags().GetString("format")
	if err := writeResult(cmd.OutOrStdout(), output, format, jobConfig); err != nil {
		logger.Fatal("writing job configuration", zap.Error(err))
	}

	if output != "" {
		logger.Info("job configuration written", zap.String("filename", output))
	}
}

func loadPosting(ctx context.Context, config *Config, logger *zap.Logger, postingFile, vacancyID string) (*posting.Posting, error) {
	switch {
	case postingFile != "" && vacancyID != "":
		return nil, errors.New("--posting and --vacancy are mutually exclusive")
	case postingFile != "":
		return library.LoadPosting(postingFile)
	case vacancyID != "":
		token, err := resolveToken(config)
		if err != nil {
			return nil, err
		}

		hh := headhunter.New(logger, token, headhunter.WithUserAgent(config.Headhunter.UserAgent))

		vacancy, err := hh.GetVacancy(ctx, vacancyID)
		if err != nil {
			return nil, err
		}

		logger.Info("vacancy fetched",
			zap.String("vacancy_id", vacancy.ID),
			zap.String("name", vacancy.Name),
			zap.String("employer", vacancy.Employer.Name),
			zap.Int("key_skills", len(vacancy.KeySkills)),
		)
		return vacancy.Posting()
	default:
		return nil, errors.New("either --posting or --vacancy is required")
	}
}

// resolveToken returns the hh.ru token. A missing token is not an error:
// vacancies are public.
func resolveToken(config *Config) (string, error) {
	token, err := secrets.Load(secrets.Source{
		Name: "headhunter token",
		File: config.Headhunter.TokenFile,
		Env:  "HH_TOKEN",
	})
	if errors.Is(err, secrets.ErrNotConfigured) {
		return "", nil
	}
	return token, err
}

type confirmFunc func(label string) (bool, error)

func promptConfirm(label string) (bool, error) {
	prompt := promptui.Select{
		Label: label,
		Items: []string{PromptYes, PromptNo},
	}

	_, answer, err := prompt.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return false, errExit
		}
		return false, err
	}
	return answer == PromptYes, nil
}

func approveAll(string) (bool, error) {
	return true, nil
}

func newSuggester(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.SkillSuggester, error) {
	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model)
	if err != nil {
		return nil, err
	}

	return gemini.NewSuggester(generator, logger, cfg.Gemini.MaxRetries, cfg.Gemini.MaxLogLength), nil
}

func suggestWithAI(ctx context.Context, cfg *AIConfig, logger *zap.Logger, detector *detect.Detector, lib *skills.Library, p *posting.Posting, confirm confirmFunc) (skills.Detection, error) {
	empty := skills.Detection{JobSkills: []skills.JobSkill{}, QuestionWeights: []skills.QuestionWeight{}}

	suggester, err := newSuggester(ctx, cfg, logger)
	if err != nil {
		return empty, err
	}

	suggestion, err := suggester.Suggest(ctx, p.Title, p.Description, lib.Names())
	if err != nil {
		return empty, err
	}

	logger.Info("ai suggested skills",
		zap.Strings("skills", suggestion.Skills),
		zap.String("reason", suggestion.Reason),
	)

	return acceptSuggestions(detector, lib, p, suggestion, confirm)
}

// acceptSuggestions turns confirmed suggestions into manually added job skills.
func acceptSuggestions(detector *detect.Detector, lib *skills.Library, p *posting.Posting, suggestion *ai.Suggestion, confirm confirmFunc) (skills.Detection, error) {
	detection := skills.Detection{JobSkills: []skills.JobSkill{}, QuestionWeights: []skills.QuestionWeight{}}

	for _, name := range suggestion.Skills {
		skill := lib.FindByName(textnorm.NormalizeName(name))
		if skill == nil {
			continue
		}

		label := fmt.Sprintf("Add skill %q suggested by AI", skill.Name)
		if reason := strings.TrimSpace(suggestion.Reason); reason != "" {
			label = fmt.Sprintf("%s (%s)", label, reason)
		}

		ok, err := confirm(label)
		if err != nil {
			return detection, err
		}
		if !ok {
			continue
		}

		js, weights := detector.ManualJobSkill(p.Title, p.Description, *skill, lib.Questions[skill.ID])
		detection.JobSkills = append(detection.JobSkills, js)
		detection.QuestionWeights = append(detection.QuestionWeights, weights...)
	}

	return detection, nil
}

// writeResult encodes v to the output file, or to w when output is empty.
func writeResult(w io.Writer, output, format string, v any) error {
	if format == "" && output != "" {
		format = library.FormatFromPath(output)
	}

	if output == "" {
		return library.Encode(w, v, format)
	}

	file, err := os.Create(output)
	if err != nil {
		return err
	}
	defer file.Close()

	return library.Encode(file, v, format)
}
