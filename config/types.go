package config

// APIConfig locates the Metro proxy.
type APIConfig struct {
	BaseURL   string `yaml:"baseURL" validate:"required,url"`
	TimeoutMS int    `yaml:"timeoutMS" validate:"gte=0"`
}

// WatchConfig controls what metro-watch follows.
type WatchConfig struct {
	// Stations to open due-time subscriptions for (three-letter codes).
	Stations []string `yaml:"stations"`
	// Props forwarded to poll requests; empty means full responses.
	Props []string `yaml:"props"`
	// PollIntervalMS is the delay between polls in poll mode.
	PollIntervalMS int `yaml:"pollIntervalMS" validate:"gte=0"`
}

// AppConfig is the root configuration structure.
type AppConfig struct {
	API   APIConfig   `yaml:"api" validate:"required"`
	Watch WatchConfig `yaml:"watch"`
}
