package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/talentgrid/assessment-recommender/internal/ai"
	"github.com/talentgrid/assessment-recommender/internal/ai/gemini"
	"github.com/talentgrid/assessment-recommender/internal/engine"
	"github.com/talentgrid/assessment-recommender/internal/logger"
	"github.com/talentgrid/assessment-recommender/internal/secrets"
)

const (
	app = "assessment-recommender"

	defaultCatalogueFile = "product_catalogue.json"
)

type Config struct {
	Catalogue string        `mapstructure:"catalogue"`
	Server    *ServerConfig `mapstructure:"server"`
	AI        *AIConfig     `mapstructure:"ai"`
}

type ServerConfig struct {
	Listen string `mapstructure:"listen"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
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
		Short: "assessment-recommender is a cli for recommending psychometric assessments from a product catalogue",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is assessment-recommender.yaml in current directory)")
	rootCmd.PersistentFlags().StringP("catalogue", "c", "", "path to the product catalogue JSON file")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("catalogue", rootCmd.PersistentFlags().Lookup("catalogue"))
	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// The config file is optional unless one was named explicitly.
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

	return config, nil
}

func newLogger() *zap.Logger {
	l, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	return l
}

// cataloguePath resolves the catalogue file from the flag, the config, or
// the default, in that order.
func cataloguePath(config *Config) string {
	if path := strings.TrimSpace(viper.GetString("catalogue")); path != "" {
		return path
	}
	if config != nil && strings.TrimSpace(config.Catalogue) != "" {
		return strings.TrimSpace(config.Catalogue)
	}
	return defaultCatalogueFile
}

func newEngine(config *Config, log *zap.Logger) *engine.Engine {
	path := cataloguePath(config)

	eng, err := engine.New(path, log)
	if err != nil {
		log.Fatal("loading the catalogue",
			zap.Error(err),
			zap.String("path", path),
			zap.String("hint", "set the --catalogue flag or the 'catalogue' key in the configuration file"),
		)
	}
	return eng
}

func newExplainer(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.Explainer, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	if cfg.Gemini == nil {
		return nil, errors.New("gemini configuration is required when ai is enabled")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	genLogger := logger.WithProviderFields(log, "gemini", cfg.Gemini.Model).
		With(zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries))

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, genLogger)
	if err != nil {
		return nil, err
	}

	explainerLogger := logger.WithProviderFields(log, "gemini", generator.Model())

	return gemini.NewExplainer(generator, explainerLogger, cfg.Gemini.MaxLogLength), nil
}
