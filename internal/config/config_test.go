package config

import (
	"os"
	"testing"
	"time"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()

	tmpFile, err := os.CreateTemp(t.TempDir(), "config-*.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	if _, err := tmpFile.Write([]byte(content)); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}
	_ = tmpFile.Close()
	return tmpFile.Name()
}

func TestLoad(t *testing.T) {
	t.Setenv("TEST_APP_PASSWORD", "secret-pass")
	t.Setenv("TEST_OPENAI_KEY", "sk-test")

	yamlContent := `email:
  imap: "imap.test.com:993"
  login: "grader@example.com"
  password: "${TEST_APP_PASSWORD}"
  refreshTime: 30s
  mailbox: "INBOX"
grader:
  apiKey: "${TEST_OPENAI_KEY}"
  prompt: "Grade this homework."
  maxScore: 20
mongo:
  uri: "mongodb://localhost:27017"
redis:
  addr: "localhost:6379"
allowedSenders:
  - student1@example.com
  - student2@example.com
targetSubject: "Session 3"
`

	cfg, err := Load(writeTempConfig(t, yamlContent))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Email.Imap != "imap.test.com:993" {
		t.Errorf("Expected imap 'imap.test.com:993', got '%s'", cfg.Email.Imap)
	}

	if cfg.Email.Password != "secret-pass" {
		t.Errorf("Expected env-expanded password 'secret-pass', got '%s'", cfg.Email.Password)
	}

	if cfg.Email.RefreshTime != 30*time.Second {
		t.Errorf("Expected refreshTime 30s, got %v", cfg.Email.RefreshTime)
	}

	if cfg.Grader.APIKey != "sk-test" {
		t.Errorf("Expected env-expanded api key 'sk-test', got '%s'", cfg.Grader.APIKey)
	}

	if cfg.Grader.MaxScore != 20 {
		t.Errorf("Expected maxScore 20, got %v", cfg.Grader.MaxScore)
	}

	if len(cfg.AllowedSenders) != 2 {
		t.Errorf("Expected 2 allowed senders, got %d", len(cfg.AllowedSenders))
	}

	if cfg.TargetSubject != "Session 3" {
		t.Errorf("Expected targetSubject 'Session 3', got '%s'", cfg.TargetSubject)
	}
}

func TestLoadDefaults(t *testing.T) {
	yamlContent := `email:
  imap: "imap.test.com:993"
  login: "grader@example.com"
  password: "pass"
grader:
  apiKey: "sk-test"
  prompt: "Grade this."
mongo:
  uri: "mongodb://localhost:27017"
`

	cfg, err := Load(writeTempConfig(t, yamlContent))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Email.MailBox != "INBOX" {
		t.Errorf("Expected default mailbox INBOX, got '%s'", cfg.Email.MailBox)
	}
	if cfg.Email.RefreshTime != time.Minute {
		t.Errorf("Expected default refreshTime 1m, got %v", cfg.Email.RefreshTime)
	}
	if cfg.Extract.Delimiter != "---answer---" {
		t.Errorf("Expected default delimiter, got '%s'", cfg.Extract.Delimiter)
	}
	if len(cfg.Extract.Extensions) == 0 {
		t.Error("Expected default extensions to be set")
	}
	if cfg.Grader.MaxScore != 10 {
		t.Errorf("Expected default maxScore 10, got %v", cfg.Grader.MaxScore)
	}
	if cfg.Mongo.Database != "mails_db" || cfg.Mongo.Collection != "mails_info" {
		t.Errorf("Expected default mongo names, got %s/%s", cfg.Mongo.Database, cfg.Mongo.Collection)
	}
	if cfg.Redis.DedupTTL != 7*24*time.Hour {
		t.Errorf("Expected default dedup TTL 168h, got %v", cfg.Redis.DedupTTL)
	}
}

func TestLoadMissingRequired(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "missing imap",
			yaml: "email:\n  login: a\n  password: b\ngrader:\n  apiKey: k\n  prompt: p\nmongo:\n  uri: m\n",
		},
		{
			name: "missing credentials",
			yaml: "email:\n  imap: host:993\ngrader:\n  apiKey: k\n  prompt: p\nmongo:\n  uri: m\n",
		},
		{
			name: "missing api key",
			yaml: "email:\n  imap: host:993\n  login: a\n  password: b\ngrader:\n  prompt: p\nmongo:\n  uri: m\n",
		},
		{
			name: "missing prompt",
			yaml: "email:\n  imap: host:993\n  login: a\n  password: b\ngrader:\n  apiKey: k\nmongo:\n  uri: m\n",
		},
		{
			name: "missing mongo uri",
			yaml: "email:\n  imap: host:993\n  login: a\n  password: b\ngrader:\n  apiKey: k\n  prompt: p\n",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeTempConfig(t, tt.yaml)); err == nil {
				t.Error("Load() expected error, got nil")
			}
		})
	}
}
