package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

func Validate(cfg Config) error {
	var errs []string

	if cfg.App.Port <= 0 || cfg.App.Port > 65535 {
		errs = append(errs, "app.port must be 1..65535")
	}
	if cfg.Scheduler.RefreshHours <= 0 {
		errs = append(errs, "scheduler.refresh_hours must be > 0")
	}
	if cfg.Scheduler.SyncEveryHours <= 0 {
		errs = append(errs, "scheduler.sync_every_hours must be > 0")
	}
	if cfg.Limits.RequestsPerSec <= 0 {
		errs = append(errs, "limits.requests_per_sec must be > 0")
	}
	if cfg.Limits.Burst <= 0 {
		errs = append(errs, "limits.burst must be > 0")
	}
	for id, p := range cfg.Providers {
		if id == "" {
			errs = append(errs, "providers: empty provider id")
		}
		for k := range p.Headers {
			if k == "" {
				errs = append(errs, fmt.Sprintf("providers.%s: empty header name", id))
			}
		}
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n- " + joinLines(errs))
	}
	return nil
}

func SaveAtomic(path string, cfg Config) error {
	if err := Validate(cfg); err != nil {
		return err
	}

	b, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	bak := path + ".bak"

	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}

	_ = os.Remove(bak)
	_ = os.Rename(path, bak)

	return os.Rename(tmp, path)
}

// EnsureUserConfig writes a default config on first boot and returns the
// user config path.
func EnsureUserConfig(dataDir string) (string, error) {
	userPath := filepath.Join(dataDir, "config.yml")

	_, err := os.Stat(userPath)
	if err == nil {
		return userPath, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	if err := SaveAtomic(userPath, Default()); err != nil {
		return "", err
	}
	return userPath, nil
}

func joinLines(lines []string) string {
	out := ""
	for i, s := range lines {
		if i > 0 {
			out += "\n- "
		}
		out += s
	}
	return out
}
