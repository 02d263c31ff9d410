package main

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

type Config struct {
	StateDir  string
	ExportDir string
	Theme     string
}

func loadConfig() *Config {
	config := &Config{}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	config.StateDir = filepath.Join(homeDir, ".skein")
	config.ExportDir = homeDir

	configPath := filepath.Join(homeDir, ".skeinrc")
	file, err := os.Open(configPath)
	if err != nil {
		return config
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch strings.ToLower(key) {
		case "statedir", "state_dir":
			config.StateDir = expandPath(value, homeDir)
		case "exportdir", "export_dir":
			config.ExportDir = expandPath(value, homeDir)
		case "theme":
			config.Theme = strings.ToLower(value)
		}
	}

	return config
}

func expandPath(value, homeDir string) string {
	if strings.HasPrefix(value, "~") {
		value = filepath.Join(homeDir, strings.TrimPrefix(value, "~"))
	}
	if !filepath.IsAbs(value) {
		if absPath, err := filepath.Abs(value); err == nil {
			value = absPath
		}
	}
	return value
}
