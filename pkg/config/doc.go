// Package config loads typed configuration structs from environment
// variables (and an optional .env file) using struct tags understood by
// github.com/caarlos0/env.
//
// Structs that implement Validator are validated right after parsing, so a
// bad value fails start-up instead of surfacing on the first request.
package config
