package cmd

import (
	"errors"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/skillquiz/internal/detect"
	"github.com/spigell/skillquiz/internal/skills"
)

const (
	app = "skillquiz"
)

type Config struct {
	Library     string            `mapstructure:"library"`
	ExcludeFile string            `mapstructure:"exclude-file"`
	Team        *TeamConfig       `mapstructure:"team"`
	Headhunter  *HeadhunterConfig `mapstructure:"headhunter"`
	AI          *AIConfig         `mapstructure:"ai"`
}

type TeamConfig struct {
	TagMatchWeight   float64                      `mapstructure:"tag-match-weight"`
	TagNoMatchWeight float64                      `mapstructure:"tag-no-match-weight"`
	QuestionCount    *skills.QuestionCountSetting `mapstructure:"question-count"`
	DefaultTimeLimit *int                         `mapstructure:"default-time-limit"`
}

type HeadhunterConfig struct {
	TokenFile string `mapstructure:"token-file"`
	UserAgent string `mapstructure:"user-agent"`
}

type AIConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Gemini  *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "skillquiz detects the skills a job posting asks for and builds weighted skill quizzes",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	viper.SetEnvPrefix(strings.ToUpper(app))
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.BindEnv("headhunter.token-file", "HH_TOKEN_FILE"); err != nil {
		log.Fatalf("binding HH_TOKEN_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	viper.SetDefault("team.tag-match-weight", detect.DefaultTagMatchWeight)
	viper.SetDefault("team.tag-no-match-weight", detect.DefaultTagNoMatchWeight)
	viper.SetDefault("ai.gemini.max-retries", 2)
	viper.SetDefault("ai.gemini.max-log-length", 200)

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is skillquiz.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().StringP("library", "l", "", "team skill library file (yaml or json)")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("library", rootCmd.PersistentFlags().Lookup("library"))
}

func initConfig() {
	// version does not need a config
	if versionCmd.CalledAs() != "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
	}

	// Without an explicit --config the file is optional: flags and env are enough.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}
	if config.Team == nil {
		config.Team = &TeamConfig{
			TagMatchWeight:   detect.DefaultTagMatchWeight,
			TagNoMatchWeight: detect.DefaultTagNoMatchWeight,
		}
	}
	if config.Headhunter == nil {
		config.Headhunter = &HeadhunterConfig{}
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.AI.Gemini == nil {
		config.AI.Gemini = &GeminiConfig{}
	}

	return config, config.validate()
}

func (c *Config) validate() error {
	if c.Team.TagMatchWeight < 0 || c.Team.TagNoMatchWeight < 0 {
		return errors.New("team tag weights must not be negative")
	}
	if c.Team.QuestionCount != nil {
		if err := c.Team.QuestionCount.Validate(); err != nil {
			return err
		}
	}
	if c.Team.DefaultTimeLimit != nil && *c.Team.DefaultTimeLimit < 0 {
		return errors.New("team default time limit must not be negative")
	}
	return nil
}
