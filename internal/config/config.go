package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything the server needs from the environment.
type Config struct {
	Port            string
	MongoURI        string
	MongoDatabase   string
	GeminiAPIKey    string
	GeminiModel     string
	ClassifyTimeout time.Duration
	UploadBatchSize int
	LogLevel        string
}

// Load reads configuration from the environment, after loading a .env file
// when one exists. MONGO_URI is the only hard requirement; an absent
// GEMINI_API_KEY switches the classifier to the pattern fallback.
func Load() (*Config, error) {
	_ = godotenv.Load()

	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		return nil, fmt.Errorf("MONGO_URI environment variable is not set")
	}

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		MongoURI:        mongoURI,
		MongoDatabase:   getEnv("MONGO_DB", "ledgerlens"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		GeminiModel:     os.Getenv("GEMINI_MODEL"),
		ClassifyTimeout: 30 * time.Second,
		UploadBatchSize: 500,
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}

	var err error
	cfg.UploadBatchSize, err = getEnvAsInt("UPLOAD_BATCH_SIZE", cfg.UploadBatchSize)
	if err != nil {
		return nil, err
	}

	timeoutSecs, err := getEnvAsInt("CLASSIFY_TIMEOUT_SECONDS", int(cfg.ClassifyTimeout.Seconds()))
	if err != nil {
		return nil, err
	}
	cfg.ClassifyTimeout = time.Duration(timeoutSecs) * time.Second

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) (int, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: expected an integer, got '%s'", key, valueStr)
	}

	return value, nil
}
