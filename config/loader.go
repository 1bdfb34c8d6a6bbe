package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Load reads and validates configuration from the first path that exists.
// With no paths given it looks for config.yml in the working directory.
func Load(paths ...string) (AppConfig, error) {
	if len(paths) == 0 {
		paths = []string{"config.yml"}
	}
	var data []byte
	var err error
	for _, p := range paths {
		data, err = os.ReadFile(p)
		if err == nil {
			break
		}
	}
	if err != nil {
		return AppConfig{}, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return AppConfig{}, err
	}
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return AppConfig{}, err
	}
	if cfg.Watch.PollIntervalMS == 0 {
		cfg.Watch.PollIntervalMS = 30000
	}
	return cfg, nil
}
