package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	LogLevel int `yaml:"log_level"`

	Server ServerConfig `yaml:"server"`
	Batch  BatchConfig  `yaml:"batch"`
	Watch  WatchConfig  `yaml:"watch"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type BatchConfig struct {
	// Maximum number of libraries converted concurrently.
	Workers int `yaml:"workers"`
}

type WatchConfig struct {
	InputDir  string `yaml:"input_dir"`
	OutputDir string `yaml:"output_dir"`

	// Milliseconds to wait for a file to settle before converting it.
	SettleMillis int `yaml:"settle_millis"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config *Config

	// Expand ${VAR} references before unmarshalling.
	err = yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &config)
	if err != nil {
		return nil, err
	}

	return withDefaults(config), nil
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	return withDefaults(&Config{})
}

func withDefaults(config *Config) *Config {
	if config == nil {
		config = &Config{}
	}

	if config.Server.Port == "" {
		config.Server.Port = "8080"
	}

	if config.Batch.Workers == 0 {
		config.Batch.Workers = 4
	}

	if config.Watch.InputDir == "" {
		config.Watch.InputDir = "input"
	}

	if config.Watch.OutputDir == "" {
		config.Watch.OutputDir = "output"
	}

	if config.Watch.SettleMillis == 0 {
		config.Watch.SettleMillis = 250
	}

	return config
}
