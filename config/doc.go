// Package config handles configuration loading and validation for the
// metro-watch command.
//
// Configuration is loaded from config.yml and validated using struct tags.
package config
