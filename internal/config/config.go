package config

import (
	"fmt"
	"os"
	"time"

	"homework-grader/internal/models"

	"gopkg.in/yaml.v2"
)

// Load reads the configuration from the specified YAML file, expands
// ${VAR} references from the environment, and returns a Config struct.
// Credentials and API keys are expected to come in through env references.
func Load(filepath string) (*models.Config, error) {
	configFile, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}

	expanded := os.ExpandEnv(string(configFile))

	var config models.Config
	if err := yaml.Unmarshal([]byte(expanded), &config); err != nil {
		return nil, err
	}

	applyDefaults(&config)

	if err := validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func applyDefaults(cfg *models.Config) {
	if cfg.Email.RefreshTime == 0 {
		cfg.Email.RefreshTime = time.Minute
	}
	if cfg.Email.MailBox == "" {
		cfg.Email.MailBox = "INBOX"
	}
	if cfg.Extract.Delimiter == "" {
		cfg.Extract.Delimiter = "---answer---"
	}
	if len(cfg.Extract.Extensions) == 0 {
		cfg.Extract.Extensions = []string{".py", ".go", ".c", ".cpp", ".java", ".js"}
	}
	if cfg.Grader.APIURL == "" {
		cfg.Grader.APIURL = "https://api.openai.com/v1/chat/completions"
	}
	if cfg.Grader.Model == "" {
		cfg.Grader.Model = "gpt-4"
	}
	if cfg.Grader.Temperature == 0 {
		cfg.Grader.Temperature = 0.2
	}
	if cfg.Grader.MaxScore == 0 {
		cfg.Grader.MaxScore = 10
	}
	if cfg.Mongo.Database == "" {
		cfg.Mongo.Database = "mails_db"
	}
	if cfg.Mongo.Collection == "" {
		cfg.Mongo.Collection = "mails_info"
	}
	if cfg.Redis.DedupTTL == 0 {
		cfg.Redis.DedupTTL = 7 * 24 * time.Hour
	}
}

func validate(cfg *models.Config) error {
	if cfg.Email.Imap == "" {
		return fmt.Errorf("email.imap is required")
	}
	if cfg.Email.Login == "" || cfg.Email.Password == "" {
		return fmt.Errorf("email.login and email.password are required")
	}
	if cfg.Grader.APIKey == "" {
		return fmt.Errorf("grader.apiKey is required")
	}
	if cfg.Grader.Prompt == "" {
		return fmt.Errorf("grader.prompt is required")
	}
	if cfg.Mongo.URI == "" {
		return fmt.Errorf("mongo.uri is required")
	}
	return nil
}
