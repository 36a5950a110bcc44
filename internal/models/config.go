package models

import "time"

// Config represents the application configuration
type Config struct {
	Email          EmailConfig   `yaml:"email"`
	Extract        ExtractConfig `yaml:"extract"`
	Grader         GraderConfig  `yaml:"grader"`
	Mongo          MongoConfig   `yaml:"mongo"`
	Redis          RedisConfig   `yaml:"redis"`
	MetricsAddr    string        `yaml:"metricsAddr"`
	AllowedSenders []string      `yaml:"allowedSenders"`
	TargetSubject  string        `yaml:"targetSubject"`
}

// EmailConfig represents IMAP email configuration
type EmailConfig struct {
	Imap        string        `yaml:"imap"`
	Login       string        `yaml:"login"`
	Password    string        `yaml:"password"`
	RefreshTime time.Duration `yaml:"refreshTime"` // ex: "30s", "1m"
	MailBox     string        `yaml:"mailbox"`
}

// ExtractConfig controls how the question and the answer are isolated
// from an email. Extensions are attachment suffixes treated as submitted
// code; Delimiter splits body-only submissions.
type ExtractConfig struct {
	Delimiter  string   `yaml:"delimiter"`
	Extensions []string `yaml:"extensions"`
}

// GraderConfig represents the LLM grading endpoint configuration
type GraderConfig struct {
	APIURL      string  `yaml:"apiUrl"`
	APIKey      string  `yaml:"apiKey"`
	Model       string  `yaml:"model"`
	Prompt      string  `yaml:"prompt"`
	Temperature float64 `yaml:"temperature"`
	MaxScore    float64 `yaml:"maxScore"`
}

// MongoConfig represents the grade record database configuration
type MongoConfig struct {
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

// RedisConfig represents the dedup filter backend configuration
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	DedupTTL time.Duration `yaml:"dedupTTL"`
}
