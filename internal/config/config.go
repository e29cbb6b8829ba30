package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// ProviderOverride seeds a provider's settings from config. Stored settings
// rows win over these; auth tokens never live in YAML.
type ProviderOverride struct {
	Endpoint string            `yaml:"endpoint"`
	Headers  map[string]string `yaml:"headers,omitempty"`
}

type Config struct {
	App struct {
		Port    int    `yaml:"port"`
		DataDir string `yaml:"data_dir"`
		Debug   bool   `yaml:"debug"`
	} `yaml:"app"`

	Scheduler struct {
		RefreshHours   int `yaml:"refresh_hours"`    // staleness window for the due decision
		SyncEveryHours int `yaml:"sync_every_hours"` // cron interval for syncDueProviders
	} `yaml:"scheduler"`

	Limits struct {
		RequestsPerSec float64 `yaml:"requests_per_sec"`
		Burst          int     `yaml:"burst"`
	} `yaml:"limits"`

	Providers map[string]ProviderOverride `yaml:"providers,omitempty"`
}

func Default() Config {
	var cfg Config
	cfg.App.Port = 8091
	cfg.Scheduler.RefreshHours = 72
	cfg.Scheduler.SyncEveryHours = 6
	cfg.Limits.RequestsPerSec = 1.0
	cfg.Limits.Burst = 2
	return cfg
}

func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}
