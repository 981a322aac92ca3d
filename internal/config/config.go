// Package config provides configuration management for the race-ev application.
package config

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Scoring   ScoringConfig   `mapstructure:"scoring"`
	Portfolio PortfolioConfig `mapstructure:"portfolio"`
	Input     InputConfig     `mapstructure:"input" validate:"required"`
	Output    OutputConfig    `mapstructure:"output" validate:"required"`
	Batch     BatchConfig     `mapstructure:"batch"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Schedule  ScheduleConfig  `mapstructure:"schedule"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// WeightsConfig represents the composite score weights. Zero keeps the model default.
type WeightsConfig struct {
	Time      float64 `mapstructure:"time" validate:"gte=0"`
	Speed     float64 `mapstructure:"speed" validate:"gte=0"`
	Course    float64 `mapstructure:"course" validate:"gte=0"`
	Form      float64 `mapstructure:"form" validate:"gte=0"`
	Jockey    float64 `mapstructure:"jockey" validate:"gte=0"`
	Condition float64 `mapstructure:"condition" validate:"gte=0"`
}

// ClassificationConfig represents classifier thresholds
type ClassificationConfig struct {
	DangerousEVMax   float64 `mapstructure:"dangerous_ev_max" validate:"gte=0"`
	DangerousOddsMax float64 `mapstructure:"dangerous_odds_max" validate:"gte=0"`
	AnchorEVMin      float64 `mapstructure:"anchor_ev_min" validate:"gte=0"`
	AnchorTopN       int     `mapstructure:"anchor_top_n" validate:"gte=0"`
	LongshotEVMin    float64 `mapstructure:"longshot_ev_min" validate:"gte=0"`
}

// ScoringConfig represents the scoring model policy constants
type ScoringConfig struct {
	Weights             WeightsConfig        `mapstructure:"weights"`
	Classification      ClassificationConfig `mapstructure:"classification"`
	Temperature         float64              `mapstructure:"temperature" validate:"gte=0"`
	ProbabilityFloor    float64              `mapstructure:"probability_floor" validate:"gte=0,lt=1"`
	ProbabilityCeiling  float64              `mapstructure:"probability_ceiling" validate:"gte=0,lt=1"`
	ZClip               float64              `mapstructure:"z_clip" validate:"gte=0"`
	MissingZ            float64              `mapstructure:"missing_z"`
	RelaxationThreshold float64              `mapstructure:"relaxation_threshold" validate:"gte=0"`
	RelaxationFactor    float64              `mapstructure:"relaxation_factor" validate:"gte=0,lte=1"`
	FormPenaltyPosition float64              `mapstructure:"form_penalty_position" validate:"gte=0"`
	HeavyMassThreshold  int                  `mapstructure:"heavy_mass_threshold" validate:"gte=0"`
	HeavyGradientBonus  float64              `mapstructure:"heavy_gradient_bonus" validate:"gte=0"`
	MassGainLimit       int                  `mapstructure:"mass_gain_limit" validate:"gte=0"`
	MassLossLimit       int                  `mapstructure:"mass_loss_limit" validate:"lte=0"`
	EliteJockeys        []string             `mapstructure:"elite_jockeys" validate:"dive,required"`
}

// PortfolioConfig represents wager synthesis policy
type PortfolioConfig struct {
	PartnerFanOut    int     `mapstructure:"partner_fan_out" validate:"gte=0"`
	LongshotMinOdds  float64 `mapstructure:"longshot_min_odds" validate:"gte=0"`
	LongshotMaxOdds  float64 `mapstructure:"longshot_max_odds" validate:"gte=0"`
	FallbackRankFrom int     `mapstructure:"fallback_rank_from" validate:"gte=0"`
	FallbackRankTo   int     `mapstructure:"fallback_rank_to" validate:"gte=0"`
	BoardSize        int     `mapstructure:"board_size" validate:"gte=0"`
}

// InputConfig represents where event fields are read from
type InputConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// OutputConfig represents where scored results are written
type OutputConfig struct {
	Path   string `mapstructure:"path" validate:"required"`
	Format string `mapstructure:"format" validate:"required,outputformat"`
	Pretty bool   `mapstructure:"pretty"`
}

// BatchConfig represents concurrent scoring settings
type BatchConfig struct {
	Workers         int `mapstructure:"workers" validate:"gte=0"`
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds" validate:"gte=0"`
	CacheMaxSize    int `mapstructure:"cache_max_size" validate:"gte=0"`
}

// DatabaseConfig represents the optional Postgres result sink
type DatabaseConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Host           string `mapstructure:"host" validate:"required_if=Enabled true"`
	Port           int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name           string `mapstructure:"name" validate:"required_if=Enabled true"`
	User           string `mapstructure:"user" validate:"required_if=Enabled true"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"gte=0"`
}

// ScheduleConfig represents the watch-mode schedule
type ScheduleConfig struct {
	Cron       string `mapstructure:"cron" validate:"omitempty,cron"`
	HealthPort int    `mapstructure:"health_port" validate:"omitempty,min=1,max=65535"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}
