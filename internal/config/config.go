package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	DBPath          string `yaml:"db_path"`
	ModelDir        string `yaml:"model_dir"`
	ReportOutputDir string `yaml:"report_output_dir"`

	SlackBotToken      string `yaml:"slack_bot_token"`
	RetentionChannelID string `yaml:"retention_channel_id"`

	WorkerCount int `yaml:"worker_count"`
	QueueSize   int `yaml:"queue_size"`

	TrainingLookbackMonths int `yaml:"training_lookback_months"`
	MinTrainingRows        int `yaml:"min_training_rows"`
	SyntheticRows          int `yaml:"synthetic_rows"`

	Timezone string `yaml:"timezone"`
}

func LoadConfig() Config {
	var cfg Config

	// Load from config.yaml if it exists
	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Fatalf("Error parsing %s: %v", configPath, err)
		}
		log.Printf("Loaded config from %s", configPath)
	}

	// Env vars override YAML values
	envOverride(&cfg.DBPath, "DB_PATH")
	envOverride(&cfg.ModelDir, "MODEL_DIR")
	envOverride(&cfg.ReportOutputDir, "REPORT_OUTPUT_DIR")
	envOverride(&cfg.SlackBotToken, "SLACK_BOT_TOKEN")
	envOverride(&cfg.RetentionChannelID, "RETENTION_CHANNEL_ID")
	envOverrideInt(&cfg.WorkerCount, "WORKER_COUNT")
	envOverrideInt(&cfg.QueueSize, "QUEUE_SIZE")
	envOverrideInt(&cfg.TrainingLookbackMonths, "TRAINING_LOOKBACK_MONTHS")
	envOverrideInt(&cfg.MinTrainingRows, "MIN_TRAINING_ROWS")
	envOverrideInt(&cfg.SyntheticRows, "SYNTHETIC_ROWS")
	envOverride(&cfg.Timezone, "TIMEZONE")

	// Defaults
	if cfg.DBPath == "" {
		cfg.DBPath = "./retainbot.db"
	}
	if cfg.ModelDir == "" {
		cfg.ModelDir = "./models"
	}
	if cfg.ReportOutputDir == "" {
		cfg.ReportOutputDir = "./reports"
	}
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 4
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 64
	}
	if cfg.TrainingLookbackMonths == 0 {
		cfg.TrainingLookbackMonths = 12
	}
	if cfg.MinTrainingRows == 0 {
		cfg.MinTrainingRows = 100
	}
	if cfg.SyntheticRows == 0 {
		cfg.SyntheticRows = 1000
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Local"
	}

	// Validate
	if cfg.WorkerCount < 1 {
		log.Fatalf("invalid worker_count '%d': must be >= 1", cfg.WorkerCount)
	}
	if cfg.QueueSize < 1 {
		log.Fatalf("invalid queue_size '%d': must be >= 1", cfg.QueueSize)
	}
	// The training snapshot needs a 90-day feature window plus a 90-day
	// label window inside the lookback.
	if cfg.TrainingLookbackMonths < 6 {
		log.Fatalf("invalid training_lookback_months '%d': must be >= 6", cfg.TrainingLookbackMonths)
	}
	if cfg.MinTrainingRows < 1 {
		log.Fatalf("invalid min_training_rows '%d': must be >= 1", cfg.MinTrainingRows)
	}
	if cfg.SyntheticRows < cfg.MinTrainingRows {
		log.Fatalf("invalid synthetic_rows '%d': must be >= min_training_rows (%d)", cfg.SyntheticRows, cfg.MinTrainingRows)
	}
	if cfg.SlackBotToken != "" && cfg.RetentionChannelID == "" {
		log.Fatalf("retention_channel_id is required when slack_bot_token is set")
	}

	if strings.EqualFold(cfg.Timezone, "Local") {
		cfg.Timezone = time.Local.String()
	} else {
		loc, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			log.Fatalf("invalid timezone '%s': %v", cfg.Timezone, err)
		}
		time.Local = loc
	}

	return cfg
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			log.Fatalf("invalid %s '%s': %v", envKey, val, err)
		}
		*field = parsed
	}
}
