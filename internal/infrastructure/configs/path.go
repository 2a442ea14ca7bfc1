package configs

import (
	"flag"
	"os"

	"github.com/jinxingedu/kindersync/internal/infrastructure/env"
)

// DetermineConfigPath resolves the config file location: --config flag, then
// KINDERSYNC_CONFIG, then the usual candidates. An empty result means "run on
// defaults and environment overrides only", which is the supported
// offline-only mode.
func DetermineConfigPath() string {
	var configPath string

	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.Parse()

	if configPath == "" {
		configPath = env.GetString("KINDERSYNC_CONFIG", "")
	}

	if configPath == "" {
		candidates := []string{
			"./config.yaml",
			"./config.yml",
			"/etc/kindersync/config.yaml",
			"/app/config.yaml", // common in Docker
		}

		for _, p := range candidates {
			if _, err := os.Stat(p); err == nil {
				configPath = p
				break
			}
		}
	}

	return configPath
}
