package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spigell/ats-matcher/internal/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	app = "ats-matcher"

	providerGroq   = "groq"
	providerGemini = "gemini"
)

type Config struct {
	Listen         string        `mapstructure:"listen" validate:"required"`
	MaxUploadMB    int64         `mapstructure:"max-upload-mb" validate:"gt=0"`
	RequestTimeout time.Duration `mapstructure:"request-timeout" validate:"gt=0"`
	Debug          bool          `mapstructure:"debug"`
	JSON           bool          `mapstructure:"json"`
	AI             *AIConfig     `mapstructure:"ai" validate:"required"`
}

type AIConfig struct {
	Provider     string        `mapstructure:"provider" validate:"oneof=groq gemini"`
	MaxRetries   int           `mapstructure:"max-retries" validate:"gte=1,lte=10"`
	MaxLogLength int           `mapstructure:"max-log-length" validate:"gte=0"`
	Groq         *GroqConfig   `mapstructure:"groq" validate:"required"`
	Gemini       *GeminiConfig `mapstructure:"gemini" validate:"required"`
}

type GroqConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model" validate:"required"`
	BaseURL    string `mapstructure:"base-url" validate:"omitempty,url"`
}

type GeminiConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model" validate:"required"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:          app,
		Short:        "ats-matcher scores resumes against job descriptions by the skills they mention",
		SilenceUsage: true,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is ats-matcher.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("provider", "", "language model provider: groq or gemini")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("ai.provider", rootCmd.PersistentFlags().Lookup("provider"))

	setDefaults(viper.GetViper())

	viper.SetEnvPrefix("ATS_MATCHER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("listen", ":8080")
	v.SetDefault("max-upload-mb", 10)
	v.SetDefault("request-timeout", "2m")
	v.SetDefault("ai.provider", providerGroq)
	v.SetDefault("ai.max-retries", 3)
	v.SetDefault("ai.max-log-length", 2048)
	v.SetDefault("ai.groq.api-key", "")
	v.SetDefault("ai.groq.api-key-file", "")
	v.SetDefault("ai.groq.model", "llama-3.1-8b-instant")
	v.SetDefault("ai.groq.base-url", "")
	v.SetDefault("ai.gemini.api-key", "")
	v.SetDefault("ai.gemini.api-key-file", "")
	v.SetDefault("ai.gemini.model", "gemini-2.5-flash")
}

func initConfig() {
	// A missing .env is normal outside of local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("loading .env: %s", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		// We can't proceed if the config file parsed with error.
		log.Fatal(err)
	}
}

// setup decodes the configuration and builds the logger every command needs.
func setup() (*Config, *zap.Logger, error) {
	config, err := decodeConfig(viper.AllSettings())
	if err != nil {
		return nil, nil, err
	}

	logger, err := logger.New(config.JSON, config.Debug)
	if err != nil {
		return nil, nil, fmt.Errorf("creating a logger: %w", err)
	}

	return config, logger, nil
}

func decodeConfig(settings map[string]any) (*Config, error) {
	config := &Config{}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
		Result:           config,
	})
	if err != nil {
		return nil, fmt.Errorf("creating config decoder: %w", err)
	}

	if err := decoder.Decode(settings); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if config.AI != nil {
		config.AI.Provider = strings.ToLower(strings.TrimSpace(config.AI.Provider))
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}
