package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	ServerPort string `mapstructure:"SERVER_PORT"`

	DBDriver   string `mapstructure:"DB_DRIVER"`
	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	SQLitePath string `mapstructure:"SQLITE_PATH"`

	MaxParticipants int    `mapstructure:"MAX_PARTICIPANTS"`
	MinPromptWords  int    `mapstructure:"MIN_PROMPT_WORDS"`
	SubmitDelayMS   int    `mapstructure:"SUBMIT_DELAY_MS"`
	RandomSeed      int64  `mapstructure:"RANDOM_SEED"`
	TaxonomyPath    string `mapstructure:"TAXONOMY_PATH"`

	DefaultTargetImage       string `mapstructure:"DEFAULT_TARGET_IMAGE"`
	DefaultTargetDescription string `mapstructure:"DEFAULT_TARGET_DESCRIPTION"`

	OperatorSecret string `mapstructure:"OPERATOR_SECRET"`
	JWTSecret      string `mapstructure:"JWT_SECRET"`

	QwenAPIKey string `mapstructure:"QWEN_API_KEY"`
	QwenAPIURL string `mapstructure:"QWEN_API_URL"`
	QwenModel  string `mapstructure:"QWEN_MODEL"`
}

var defaults = map[string]any{
	"SERVER_PORT":                "8080",
	"DB_DRIVER":                  "sqlite",
	"DB_HOST":                    "localhost",
	"DB_PORT":                    "5432",
	"DB_USER":                    "postgres",
	"DB_PASSWORD":                "postgres",
	"DB_NAME":                    "promptcontest",
	"SQLITE_PATH":                "./data/contest.db",
	"MAX_PARTICIPANTS":           200,
	"MIN_PROMPT_WORDS":           5,
	"SUBMIT_DELAY_MS":            2000,
	"RANDOM_SEED":                0,
	"TAXONOMY_PATH":              "",
	"DEFAULT_TARGET_IMAGE":       "https://picsum.photos/512/512?random=42",
	"DEFAULT_TARGET_DESCRIPTION": "A majestic dragon soaring through a cloudy sunset sky, with golden light illuminating its scales",
	"OPERATOR_SECRET":            "operator-secret-change-me",
	"JWT_SECRET":                 "super-secret-key-change-me",
	"QWEN_API_KEY":               "",
	"QWEN_API_URL":               "https://dashscope-intl.aliyuncs.com/compatible-mode/v1",
	"QWEN_MODEL":                 "qwen-plus",
}

// Load resolves configuration from defaults, an optional config.yaml, a
// .env file and the environment, later sources winning.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("config: no .env file found")
	}

	v := viper.New()
	v.AddConfigPath(".")
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.MaxParticipants <= 0 {
		return fmt.Errorf("MAX_PARTICIPANTS must be positive, got %d", c.MaxParticipants)
	}
	if c.MinPromptWords < 0 {
		c.MinPromptWords = defaults["MIN_PROMPT_WORDS"].(int)
	}
	if c.SubmitDelayMS < 0 {
		c.SubmitDelayMS = defaults["SUBMIT_DELAY_MS"].(int)
	}
	switch c.DBDriver {
	case "memory", "sqlite", "postgres":
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver)
	}
	return nil
}

func (c *Config) SubmitDelay() time.Duration {
	return time.Duration(c.SubmitDelayMS) * time.Millisecond
}
