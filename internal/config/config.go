package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the application's configuration. Connection secrets
// (provider credentials, Slack token) are not kept in the file; they are
// read from the environment so the YAML can be committed.
type Config struct {
	Database struct {
		TrackerURL string `yaml:"tracker_url"`
		AuditURL   string `yaml:"audit_url"`
	} `yaml:"database"`
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Telephony struct {
		BaseURL             string `yaml:"base_url"`
		LookbackDays        int    `yaml:"lookback_days"`
		MinRecordingSeconds int    `yaml:"min_recording_seconds"`
		BatchLimit          int    `yaml:"batch_limit"`
	} `yaml:"telephony"`
	Transcription struct {
		URL      string `yaml:"url"`
		Language string `yaml:"language"`
	} `yaml:"transcription"`
	Sentiment struct {
		URL string `yaml:"url"`
	} `yaml:"sentiment"`
	Pipeline struct {
		Workers     int    `yaml:"workers"`
		RulesetPath string `yaml:"ruleset_path"`
	} `yaml:"pipeline"`
	Report struct {
		Enabled   bool   `yaml:"enabled"`
		OutputDir string `yaml:"output_dir"`
	} `yaml:"report"`
	Notifier struct {
		Enabled bool   `yaml:"enabled"`
		Channel string `yaml:"channel"`
	} `yaml:"notifier"`
}

// Secrets are credentials pulled from the environment, typically via a
// .env file loaded with godotenv.
type Secrets struct {
	TelephonyAccountSID string
	TelephonyAuthToken  string
	SlackToken          string
}

// LoadConfig reads configuration from the specified YAML file.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	config.applyDefaults()
	return config, nil
}

// LoadSecrets reads credentials from the environment.
func LoadSecrets() Secrets {
	return Secrets{
		TelephonyAccountSID: os.Getenv("TELEPHONY_ACCOUNT_SID"),
		TelephonyAuthToken:  os.Getenv("TELEPHONY_AUTH_TOKEN"),
		SlackToken:          os.Getenv("SLACK_TOKEN"),
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = ":8000"
	}
	if c.Telephony.LookbackDays <= 0 {
		c.Telephony.LookbackDays = 30
	}
	if c.Telephony.MinRecordingSeconds <= 0 {
		c.Telephony.MinRecordingSeconds = 10
	}
	if c.Telephony.BatchLimit <= 0 {
		c.Telephony.BatchLimit = 100
	}
	if c.Transcription.Language == "" {
		c.Transcription.Language = "es-CO"
	}
	if c.Pipeline.Workers <= 0 {
		c.Pipeline.Workers = 4
	}
	if c.Report.OutputDir == "" {
		c.Report.OutputDir = "reports"
	}
}
