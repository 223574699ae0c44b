package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from a .env file if present.
// Existing environment variables are not overwritten.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

type Config struct {
	WordLengthMax            int
	EasyGamesCount           int
	GenerateAttemptsMax      int
	MaxUploadBytes           int
	DefaultLanguage          string
	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBConnMaxLifetimeSeconds int
	DBConnMaxIdleTimeSeconds int
	OpenAIAPIKey             string
	OpenAIModel              string
	OpenAIImageModel         string
	PromptConcretePath       string
	PromptAbstractPath       string
	PromptTopicPath          string
	PromptComplimentPath     string
	PromptPicturePath        string
}

func Default() Config {
	return Config{
		WordLengthMax:            12,
		EasyGamesCount:           5,
		GenerateAttemptsMax:      12,
		MaxUploadBytes:           2 * 1024 * 1024,
		DefaultLanguage:          "English",
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           10,
		DBConnMaxLifetimeSeconds: 300,
		DBConnMaxIdleTimeSeconds: 60,
		OpenAIModel:              "gpt-4o-mini",
		OpenAIImageModel:         "dall-e-3",
		PromptConcretePath:       "prompts/word_concrete.txt",
		PromptAbstractPath:       "prompts/word_abstract.txt",
		PromptTopicPath:          "prompts/word_topic.txt",
		PromptComplimentPath:     "prompts/compliment.txt",
		PromptPicturePath:        "prompts/picture.txt",
	}
}

func Load() Config {
	cfg := Default()
	if raw := os.Getenv("WORD_LENGTH_MAX"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.WordLengthMax = value
		}
	}
	if raw := os.Getenv("EASY_GAMES_COUNT"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value >= 0 {
			cfg.EasyGamesCount = value
		}
	}
	if raw := os.Getenv("GENERATE_ATTEMPTS_MAX"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.GenerateAttemptsMax = value
		}
	}
	if raw := os.Getenv("MAX_UPLOAD_BYTES"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.MaxUploadBytes = value
		}
	}
	if raw := os.Getenv("DEFAULT_LANGUAGE"); raw != "" {
		cfg.DefaultLanguage = raw
	}
	if raw := os.Getenv("DB_MAX_OPEN_CONNS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBMaxOpenConns = value
		}
	}
	if raw := os.Getenv("DB_MAX_IDLE_CONNS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBMaxIdleConns = value
		}
	}
	if raw := os.Getenv("DB_CONN_MAX_LIFETIME_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBConnMaxLifetimeSeconds = value
		}
	}
	if raw := os.Getenv("DB_CONN_MAX_IDLE_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBConnMaxIdleTimeSeconds = value
		}
	}
	if raw := os.Getenv("OPENAI_API_KEY"); raw != "" {
		cfg.OpenAIAPIKey = raw
	}
	if raw := os.Getenv("OPENAI_MODEL"); raw != "" {
		cfg.OpenAIModel = raw
	}
	if raw := os.Getenv("OPENAI_IMAGE_MODEL"); raw != "" {
		cfg.OpenAIImageModel = raw
	}
	if raw := os.Getenv("PROMPT_CONCRETE_PATH"); raw != "" {
		cfg.PromptConcretePath = raw
	}
	if raw := os.Getenv("PROMPT_ABSTRACT_PATH"); raw != "" {
		cfg.PromptAbstractPath = raw
	}
	if raw := os.Getenv("PROMPT_TOPIC_PATH"); raw != "" {
		cfg.PromptTopicPath = raw
	}
	if raw := os.Getenv("PROMPT_COMPLIMENT_PATH"); raw != "" {
		cfg.PromptComplimentPath = raw
	}
	if raw := os.Getenv("PROMPT_PICTURE_PATH"); raw != "" {
		cfg.PromptPicturePath = raw
	}
	return cfg
}
