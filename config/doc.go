// Package config loads kvrest settings from config.yml, .env files,
// environment variables and command-line flags.
//
// Sources are layered with Viper. A config.yml found in the standard
// locations provides the base, every environment variable is bound to its
// nested key variants (KVREST_API_KEY becomes kvrest.api_key) and flags
// registered through WithFlags override both.
//
// # Usage
//
//	var cfg Settings
//	err := config.LoadConfig("kvrest", &cfg,
//	    config.WithFlags(fs, map[string]string{"api-key": "kvrest.api_key"}))
package config
