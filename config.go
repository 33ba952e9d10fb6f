package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults for optional configuration fields.
const (
	defaultAddr              = ":8081"
	defaultHeartbeatInterval = 30 * time.Second
	defaultSendBuffer        = 256
	defaultMaxMessageSize    = 4096
)

type config struct {
	Server  serverConfig `yaml:"server"`
	Relay   relayConfig  `yaml:"relay"`
	Console bool         `yaml:"console"`
}

type serverConfig struct {
	// Addr is the listen address, e.g. ":8081".
	Addr string `yaml:"addr"`
	// Origin restricts websocket upgrades to this scheme://host[:port].
	// Empty allows any origin.
	Origin string `yaml:"origin"`
}

type relayConfig struct {
	HeartbeatInterval time.Duration `yaml:"heartbeat_interval"`
	SendBuffer        int           `yaml:"send_buffer"`
	MaxMessageSize    int64         `yaml:"max_message_size"`
}

// defaultConfig is the configuration used when no file is given.
func defaultConfig() *config {
	cfg := &config{}
	cfg.applyDefaults()
	return cfg
}

// loadConfig reads a YAML configuration file. ${VAR} references are
// expanded from the environment before parsing.
func loadConfig(path string) (*config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config yaml: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func (c *config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = defaultAddr
	}
	if c.Relay.HeartbeatInterval == 0 {
		c.Relay.HeartbeatInterval = defaultHeartbeatInterval
	}
	if c.Relay.SendBuffer == 0 {
		c.Relay.SendBuffer = defaultSendBuffer
	}
	if c.Relay.MaxMessageSize == 0 {
		c.Relay.MaxMessageSize = defaultMaxMessageSize
	}
}

func (c *config) validate() error {
	if c.Relay.HeartbeatInterval < time.Second {
		return fmt.Errorf("relay.heartbeat_interval must be at least 1s, got %s", c.Relay.HeartbeatInterval)
	}
	if c.Relay.SendBuffer < 1 {
		return fmt.Errorf("relay.send_buffer must be positive, got %d", c.Relay.SendBuffer)
	}
	if c.Relay.MaxMessageSize < 1 {
		return fmt.Errorf("relay.max_message_size must be positive, got %d", c.Relay.MaxMessageSize)
	}
	return nil
}
