package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from an optional config.yaml in the working
// directory and from HOCALINGO_-prefixed environment variables, with the
// environment taking precedence. Returns a populated Config struct or an
// error if loading or validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// The config file is optional; only a malformed file is an error.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("HOCALINGO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only resolves keys viper already knows about, so bind the
	// critical ones explicitly: these have no defaults and may come from the
	// environment alone.
	bindEnvs := []struct {
		key    string
		envVar string
	}{
		{"database.url", "HOCALINGO_DATABASE_URL"},
		{"llm.gemini_api_key", "HOCALINGO_LLM_GEMINI_API_KEY"},
		{"server.port", "HOCALINGO_SERVER_PORT"},
		{"server.log_level", "HOCALINGO_SERVER_LOG_LEVEL"},
		{"profile.default_id", "HOCALINGO_PROFILE_DEFAULT_ID"},
		{"study.daily_goal", "HOCALINGO_STUDY_DAILY_GOAL"},
		{"study.timezone", "HOCALINGO_STUDY_TIMEZONE"},
	}
	for _, b := range bindEnvs {
		if err := v.BindEnv(b.key, b.envVar); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable %s: %w", b.envVar, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if _, err := cfg.Study.Location(); err != nil {
		return nil, fmt.Errorf("config validation failed: invalid study timezone %q: %w",
			cfg.Study.Timezone, err)
	}

	return &cfg, nil
}

// setDefaults seeds viper with the values a bare deployment can run on.
// Database URL and Gemini API key have no safe defaults and must be provided.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("profile.default_id", "default")

	v.SetDefault("study.daily_goal", 20)
	v.SetDefault("study.queue_limit", 20)
	v.SetDefault("study.timezone", "Local")
	v.SetDefault("study.streak_lookback_days", 365)
	v.SetDefault("study.review_pick_pool", 5)

	v.SetDefault("generation.daily_limit", 2)
	v.SetDefault("generation.batch_size", 10)

	v.SetDefault("llm.model_name", "gemini-2.0-flash")
	v.SetDefault("llm.max_retries", 3)
	v.SetDefault("llm.retry_delay_seconds", 2)

	v.SetDefault("task.worker_count", 2)
	v.SetDefault("task.queue_size", 50)
	v.SetDefault("task.stuck_task_age_minutes", 30)

	v.SetDefault("jobs.purge_time", "04:00")
	v.SetDefault("jobs.retention_days", 400)
	v.SetDefault("jobs.reminder_interval_minutes", 60)
}
