package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	DatabasePath      string        `mapstructure:"database_path" yaml:"database_path"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
	PublicDir         string        `mapstructure:"public_dir" yaml:"public_dir"`
	BotName           string        `mapstructure:"bot_name" yaml:"bot_name"`
	KeyCost           int           `mapstructure:"key_cost" yaml:"key_cost"`
	AnnounceSecret    string        `mapstructure:"announce_secret" yaml:"announce_secret"`
	TicketSecret      string        `mapstructure:"ticket_secret" yaml:"ticket_secret"`
	TicketTTL         time.Duration `mapstructure:"ticket_ttl" yaml:"ticket_ttl"`
}

// Default returns configuration with reasonable starter defaults.
// Announcement sealing and entry tickets stay disabled until their
// secrets are configured.
func Default() Config {
	return Config{
		Addr:              ":3000",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		DatabasePath:      "chatbox.db",
		LogLevel:          "info",
		PublicDir:         "public",
		BotName:           "Admin",
		KeyCost:           10,
		TicketTTL:         time.Hour,
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.Addr != "" {
		c.Addr = other.Addr
	}
	if other.ReadHeaderTimeout != 0 {
		c.ReadHeaderTimeout = other.ReadHeaderTimeout
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
	if other.DatabasePath != "" {
		c.DatabasePath = other.DatabasePath
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.PublicDir != "" {
		c.PublicDir = other.PublicDir
	}
	if other.BotName != "" {
		c.BotName = other.BotName
	}
	if other.KeyCost != 0 {
		c.KeyCost = other.KeyCost
	}
	if other.AnnounceSecret != "" {
		c.AnnounceSecret = other.AnnounceSecret
	}
	if other.TicketSecret != "" {
		c.TicketSecret = other.TicketSecret
	}
	if other.TicketTTL != 0 {
		c.TicketTTL = other.TicketTTL
	}
}
