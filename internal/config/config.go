package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"     validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database"   validate:"required"`
	Profile    ProfileConfig    `mapstructure:"profile"    validate:"required"`
	Study      StudyConfig      `mapstructure:"study"      validate:"required"`
	Generation GenerationConfig `mapstructure:"generation" validate:"required"`
	LLM        LLMConfig        `mapstructure:"llm"        validate:"required"`
	Task       TaskConfig       `mapstructure:"task"       validate:"required"`
	Jobs       JobsConfig       `mapstructure:"jobs"       validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// ProfileConfig selects the learner profile used when a request does not
// name one. A single-user deployment never needs to change this.
type ProfileConfig struct {
	DefaultID string `mapstructure:"default_id" validate:"required"`
}

// StudyConfig contains the tunables of the study flow.
type StudyConfig struct {
	// DailyGoal is the number of graded answers that counts as a full day.
	DailyGoal int `mapstructure:"daily_goal" validate:"required,gt=0"`

	// QueueLimit caps how many entries one queue request returns.
	QueueLimit int `mapstructure:"queue_limit" validate:"required,gt=0"`

	// Timezone defines the learner's local day boundaries for counters and
	// streaks ("Local" or an IANA name like "Europe/Istanbul").
	Timezone string `mapstructure:"timezone" validate:"required"`

	// StreakLookbackDays bounds how far back the streak walk goes.
	StreakLookbackDays int `mapstructure:"streak_lookback_days" validate:"required,gt=0,lte=366"`

	// ReviewPickPool is the number of most-overdue entries the reminder
	// picker randomizes over.
	ReviewPickPool int `mapstructure:"review_pick_pool" validate:"required,gt=0"`
}

// Location resolves the configured timezone.
func (c StudyConfig) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// GenerationConfig governs AI item generation.
type GenerationConfig struct {
	// DailyLimit is the number of generation requests allowed per local day.
	DailyLimit int `mapstructure:"daily_limit" validate:"required,gt=0"`

	// BatchSize is how many items one generation request produces.
	BatchSize int `mapstructure:"batch_size" validate:"required,gt=0,lte=50"`
}

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key" validate:"required"`
	ModelName    string `mapstructure:"model_name"     validate:"required"`

	// PromptTemplatePath optionally overrides the built-in prompt template.
	PromptTemplatePath string `mapstructure:"prompt_template_path"`

	MaxRetries        int `mapstructure:"max_retries"         validate:"gte=0"`
	RetryDelaySeconds int `mapstructure:"retry_delay_seconds" validate:"gte=0"`
}

// TaskConfig tunes the background task runner.
type TaskConfig struct {
	WorkerCount         int `mapstructure:"worker_count"           validate:"required,gt=0"`
	QueueSize           int `mapstructure:"queue_size"             validate:"required,gt=0"`
	StuckTaskAgeMinutes int `mapstructure:"stuck_task_age_minutes" validate:"required,gt=0"`
}

// JobsConfig tunes the cron jobs.
type JobsConfig struct {
	// PurgeTime is the local "HH:MM" at which the daily retention purge runs.
	PurgeTime string `mapstructure:"purge_time" validate:"required"`

	// RetentionDays is how many days of counter rows the purge keeps.
	RetentionDays int `mapstructure:"retention_days" validate:"required,gt=0"`

	// ReminderIntervalMinutes is how often the review-reminder pick runs.
	ReminderIntervalMinutes int `mapstructure:"reminder_interval_minutes" validate:"required,gt=0"`
}
