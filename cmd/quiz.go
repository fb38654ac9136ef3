package cmd

import (
	"context"
	"log"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/skillquiz/internal/filtering"
	"github.com/spigell/skillquiz/internal/library"
	"github.com/spigell/skillquiz/internal/logger"
	"github.com/spigell/skillquiz/internal/quiz"
	"github.com/spigell/skillquiz/internal/skills"
)

type quizResult struct {
	Title     string      `json:"title,omitempty" yaml:"title,omitempty"`
	Questions []quiz.Item `json:"questions" yaml:"questions"`
}

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Assemble a weighted quiz for a job configuration",
	Run: func(cmd *cobra.Command, _ []string) {
		runQuiz(cmd)
	},
}

func init() {
	rootCmd.AddCommand(quizCmd)

	quizCmd.Flags().String("job", "", "job configuration written by the detect command")
	quizCmd.Flags().IntP("count", "n", 0, "number of questions (default from job or team question count)")
	quizCmd.Flags().Uint64("seed", 0, "random seed for a reproducible quiz")
	quizCmd.Flags().Bool("shuffle", false, "shuffle answer options")
	quizCmd.Flags().Bool("all-questions", false, "give questions without a stored weight the team no-match weight instead of excluding them")
	quizCmd.Flags().StringP("exclude-file", "e", "", "file with questions to exclude. Default is unset.")
	quizCmd.Flags().Bool("append-exclude", false, "append the quiz questions to the exclude file")
	quizCmd.Flags().StringP("output", "o", "", "write the quiz to this file instead of stdout")
	quizCmd.Flags().StringP("format", "f", "", "output format: json or yaml")

	viper.BindPFlag("exclude-file", quizCmd.Flags().Lookup("exclude-file"))
}

// runQuiz is the entry point of the quiz command.
func runQuiz(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	jobFile, _ := cmd.Flags().GetString("job")
	if config.Library == "" || jobFile == "" {
		logger.Fatal("library and job configuration are required", zap.String("hint", "pass --library and --job"))
	}

	lib, err := library.LoadLibrary(config.Library)
	if err != nil {
		logger.Fatal("loading library", zap.Error(err))
	}

	job, err := library.LoadJobConfig(jobFile)
	if err != nil {
		logger.Fatal("loading job configuration", zap.Error(err))
	}

	fallback := 0.0
	if all, _ := cmd.Flags().GetBool("all-questions"); all {
		fallback = config.Team.TagNoMatchWeight
	}

	pools, missing := library.BuildPools(lib, job, fallback)
	if len(missing) > 0 {
		logger.Warn("job skills not found in library", zap.Strings("skills", missing))
	}

	eligible, err := filtering.Run(ctx, &filtering.Config{ExcludeFile: config.ExcludeFile}, filtering.Deps{Logger: logger}, filtering.Default(), pools)
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}

	count, _ := cmd.Flags().GetInt("count")
	if count <= 0 {
		setting := skills.EffectiveQuestionCount(job.QuestionCount, config.Team.QuestionCount)
		count = skills.QuestionCount(setting, len(job.JobSkills))
	}

	var rng quiz.Rand
	if cmd.Flags().Changed("seed") {
		seed, _ := cmd.Flags().GetUint64("seed")
		rng = quiz.NewRand(seed)
	}

	assembler := quiz.NewAssembler(logger, rng)
	selected := assembler.Assemble(eligible, count)
	if len(selected) == 0 {
		logger.Fatal("failed to generate quiz",
			zap.String("reason", "no eligible questions"),
			zap.Int("skills", len(eligible)),
		)
	}

	shuffle, _ := cmd.Flags().GetBool("shuffle")
	result := quizResult{
		Title:     job.Title,
		Questions: quiz.Present(selected, assembler.Rand(), shuffle, config.Team.DefaultTimeLimit),
	}

	output, _ := cmd.Flags().GetString("output")
	format, _ := cmd.Flags().GetString("format")
	if err := writeResult(cmd.OutOrStdout(), output, format, result); err != nil {
		logger.Fatal("writing quiz", zap.Error(err))
	}

	if appendExclude, _ := cmd.Flags().GetBool("append-exclude"); appendExclude {
		if config.ExcludeFile == "" {
			logger.Fatal("exclude file is required to append questions", zap.String("hint", "pass --exclude-file"))
		}

		excluded, err := filtering.AppendToFile(config.ExcludeFile, selected, time.Now())
		if err != nil {
			logger.Fatal("appending to exclude file", zap.Error(err))
		}
		logger.Info("appended to exclude file",
			zap.String("filename", config.ExcludeFile),
			zap.Int("questions", excluded.Len()),
		)
	}
}
