// Package config provides configuration management for the race-ev application.
package config

import (
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

const (
	validConfigPath              = "testdata/valid_config.yaml"
	expansionConfigPath          = "testdata/expansion_config.yaml"
	nonexistentConfigPath        = "testdata/nonexistent_config.yaml"
	expectedNoErrorLoadingConfig = "expected no error loading config, got %v"
	expectedNoErrorMsg           = "expected no error, got %v"
	raceEVName                   = "race-ev"
	developmentEnv               = "development"
	localhostHost                = "localhost"
	postgresPort                 = 5432
	testAppName                  = "test-app"
	testDBPassword               = "TEST_DB_PASSWORD"
	testInputPath                = "TEST_INPUT_PATH"
	expandedSecretValue          = "expanded_secret_value"
)

func loadValid(t *testing.T) *Config {
	t.Helper()
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}
	return cfg
}

// TestLoadConfigSuccess tests loading a valid configuration file
func TestLoadConfigSuccess(t *testing.T) {
	cfg := loadValid(t)

	if cfg.App.Name != raceEVName {
		t.Errorf("expected app name '%s', got '%s'", raceEVName, cfg.App.Name)
	}
	if cfg.App.Environment != developmentEnv {
		t.Errorf("expected environment '%s', got '%s'", developmentEnv, cfg.App.Environment)
	}
	if cfg.Database.Host != localhostHost {
		t.Errorf("expected database host '%s', got '%s'", localhostHost, cfg.Database.Host)
	}
	if cfg.Database.Port != postgresPort {
		t.Errorf("expected database port %d, got %d", postgresPort, cfg.Database.Port)
	}
	if cfg.Scoring.Weights.Course != 0.30 {
		t.Errorf("expected course weight 0.30, got %v", cfg.Scoring.Weights.Course)
	}
	if cfg.Scoring.Classification.AnchorTopN != 3 {
		t.Errorf("expected anchor_top_n 3, got %d", cfg.Scoring.Classification.AnchorTopN)
	}
	if len(cfg.Scoring.EliteJockeys) != 2 || cfg.Scoring.EliteJockeys[0] != "ルメール" {
		t.Errorf("unexpected elite jockeys %v", cfg.Scoring.EliteJockeys)
	}
	if cfg.Portfolio.PartnerFanOut != 7 {
		t.Errorf("expected partner fan-out 7, got %d", cfg.Portfolio.PartnerFanOut)
	}
}

// TestLoadConfigFileNotFound tests handling of missing configuration file
func TestLoadConfigFileNotFound(t *testing.T) {
	_, err := Load(nonexistentConfigPath)
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

// TestLoadConfigEnvironmentVariables tests environment variable override
func TestLoadConfigEnvironmentVariables(t *testing.T) {
	t.Setenv("RACE_EV_APP_NAME", testAppName)

	cfg := loadValid(t)
	if cfg.App.Name != testAppName {
		t.Errorf("expected app name '%s' from environment, got '%s'", testAppName, cfg.App.Name)
	}
}

// TestLoadConfigEnvironmentVariableExpansion tests ${VAR} expansion in the config file
func TestLoadConfigEnvironmentVariableExpansion(t *testing.T) {
	t.Setenv(testDBPassword, expandedSecretValue)
	t.Setenv(testInputPath, "/data/today.json")

	cfg, err := Load(expansionConfigPath)
	if err != nil {
		t.Fatalf("expected no error loading config with expansion, got %v", err)
	}

	if cfg.Database.Password != expandedSecretValue {
		t.Errorf("expected password '%s' from environment expansion, got '%s'", expandedSecretValue, cfg.Database.Password)
	}
	if cfg.Input.Path != "/data/today.json" {
		t.Errorf("expected expanded input path, got '%s'", cfg.Input.Path)
	}
}

// TestLoadWithDefaultsMissingFile tests that defaults apply without a file
func TestLoadWithDefaultsMissingFile(t *testing.T) {
	cfg, err := LoadWithDefaults(nonexistentConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if cfg.App.Name != raceEVName {
		t.Errorf("expected default app name, got '%s'", cfg.App.Name)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("expected default output format json, got '%s'", cfg.Output.Format)
	}
	if cfg.Batch.Workers != 4 {
		t.Errorf("expected default workers 4, got %d", cfg.Batch.Workers)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

// TestLoadWithDefaultsKeepsFileValues tests that file values win over defaults
func TestLoadWithDefaultsKeepsFileValues(t *testing.T) {
	t.Setenv(testDBPassword, "pw")
	t.Setenv(testInputPath, "in.json")

	cfg, err := LoadWithDefaults(expansionConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
	if cfg.Output.Format != "msgpack" {
		t.Errorf("expected msgpack output format, got '%s'", cfg.Output.Format)
	}
	if cfg.App.LogLevel != "debug" {
		t.Errorf("expected debug log level, got '%s'", cfg.App.LogLevel)
	}
	if cfg.Metrics.Path != "/metrics" {
		t.Errorf("expected default metrics path, got '%s'", cfg.Metrics.Path)
	}
}

// TestValidateSuccess tests validation of a valid configuration
func TestValidateSuccess(t *testing.T) {
	cfg := loadValid(t)
	if err := Validate(cfg); err != nil {
		t.Fatalf("expected no validation error, got %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"environment", func(c *Config) { c.App.Environment = "invalid" }, "Environment"},
		{"log level", func(c *Config) { c.App.LogLevel = "verbose" }, "LogLevel"},
		{"output format", func(c *Config) { c.Output.Format = "xml" }, "json, msgpack"},
		{"cron", func(c *Config) { c.Schedule.Cron = "every tuesday" }, "cron"},
		{"negative weight", func(c *Config) { c.Scoring.Weights.Form = -1 }, "Form"},
		{"floor out of range", func(c *Config) { c.Scoring.ProbabilityFloor = 1.5 }, "ProbabilityFloor"},
		{"database host", func(c *Config) { c.Database.Host = "" }, "Host"},
		{"ssl mode", func(c *Config) { c.Database.SSLMode = "prefer" }, "SSLMode"},
		{"floor above ceiling", func(c *Config) {
			c.Scoring.ProbabilityFloor = 0.5
			c.Scoring.ProbabilityCeiling = 0.4
		}, "probability_floor"},
		{"inverted longshot band", func(c *Config) {
			c.Portfolio.LongshotMinOdds = 60
		}, "longshot_min_odds"},
		{"inverted fallback window", func(c *Config) {
			c.Portfolio.FallbackRankFrom = 9
		}, "fallback_rank_from"},
		{"production without ssl", func(c *Config) {
			c.App.Environment = "production"
		}, "SSL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := loadValid(t)
			tt.mutate(cfg)
			err := Validate(cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error to mention %q, got %v", tt.want, err)
			}
		})
	}
}

// TestValidateDisabledDatabase tests that a disabled sink needs no connection details
func TestValidateDisabledDatabase(t *testing.T) {
	cfg := loadValid(t)
	cfg.Database = DatabaseConfig{}
	if err := Validate(cfg); err != nil {
		t.Fatalf("expected no validation error, got %v", err)
	}
}

func TestValidateCronDescriptor(t *testing.T) {
	cfg := loadValid(t)
	cfg.Schedule.Cron = "@every 30s"
	if err := Validate(cfg); err != nil {
		t.Fatalf("expected descriptor to validate, got %v", err)
	}
}

func TestEnvironmentHelpers(t *testing.T) {
	cfg := &Config{App: AppConfig{Environment: "production"}}
	if !cfg.IsProduction() || cfg.IsDevelopment() {
		t.Error("expected production environment")
	}
	cfg.App.Environment = developmentEnv
	if cfg.IsProduction() || !cfg.IsDevelopment() {
		t.Error("expected development environment")
	}
}

func TestParseSecretData(t *testing.T) {
	secrets, err := parseSecretData(&secretsmanager.GetSecretValueOutput{
		SecretString: aws.String(`{"database_password":"s3cret","database_user":"scorer"}`),
	})
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	cfg := loadValid(t)
	overlaySecretsOnConfig(cfg, secrets)
	if cfg.Database.Password != "s3cret" || cfg.Database.User != "scorer" {
		t.Errorf("expected secrets overlaid, got user=%s password=%s", cfg.Database.User, cfg.Database.Password)
	}

	_, err = parseSecretData(&secretsmanager.GetSecretValueOutput{SecretBinary: []byte("not json")})
	if err == nil {
		t.Error("expected error for malformed binary secret")
	}

	_, err = parseSecretData(&secretsmanager.GetSecretValueOutput{})
	if err != errNoSecretData {
		t.Errorf("expected errNoSecretData, got %v", err)
	}
}

func TestOverlayKeepsUnsetSecrets(t *testing.T) {
	cfg := loadValid(t)
	overlaySecretsOnConfig(cfg, &SecretsOverlay{})
	if cfg.Database.Password != "secret" {
		t.Errorf("expected password unchanged, got '%s'", cfg.Database.Password)
	}
}
