// Package config loads service configuration for streamkit binaries.
//
// It uses Viper to read a YAML file, layers a .env file (via godotenv) and
// the process environment on top, and decodes the result into a struct with
// mapstructure tags. Environment variables are named after the key path with
// dots replaced by underscores and upper-cased, optionally behind a prefix:
// STREAM_RESERVE_LIMIT overrides stream.reserve_limit.
//
// # Usage
//
//	type Config struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Plans []plan.Spec    `yaml:"plans" mapstructure:"plans"`
//	}
//
//	cfg, err := config.Load[Config]("streamctl")
package config
