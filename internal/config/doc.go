// Package config loads and validates the application configuration from a
// YAML file and HOCALINGO_-prefixed environment variables. Every tunable of
// the study flow (daily goal, queue limit, quota) lives here rather than as
// a constant, so deployments can adjust them without a rebuild.
package config
