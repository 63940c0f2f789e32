package config

import (
	"flag"
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/erain9/tickbook/pkg/core"
	"github.com/erain9/tickbook/pkg/tick"
)

// TickSchemeConfig declares one tick scheme to build at startup. Kind is
// "fixed" or "tiered". Prices are decimal strings.
type TickSchemeConfig struct {
	Name      string       `yaml:"name"`
	Kind      string       `yaml:"kind"`
	MinPrice  string       `yaml:"min_price"`
	MaxPrice  string       `yaml:"max_price"`
	Increment string       `yaml:"increment"`
	Tiers     []TierConfig `yaml:"tiers"`
}

// TierConfig is one band of a tiered scheme.
type TierConfig struct {
	Start     string `yaml:"start"`
	Stop      string `yaml:"stop"`
	Increment string `yaml:"increment"`
}

// Config represents the application configuration
type Config struct {
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Kafka struct {
		BrokerAddr string `yaml:"broker_addr"`
		FeedTopic  string `yaml:"feed_topic"`
		EventTopic string `yaml:"event_topic"`
		GroupID    string `yaml:"group_id"`
	} `yaml:"kafka"`

	TickSchemes []TickSchemeConfig `yaml:"tick_schemes"`
}

// Default configuration values
var (
	configFile = flag.String("config", "", "Path to config file (YAML)")
	logLevel   = flag.String("log_level", "info", "Log level: debug, info, warn, error")
	logFormat  = flag.String("log_format", "pretty", "Log format: json, pretty")
)

// LoadConfig loads the configuration from command line flags and optionally from a config file
func LoadConfig() (*Config, error) {
	// Parse command line flags
	flag.Parse()

	// Create default configuration
	config := &Config{}
	config.Log.Level = *logLevel
	config.Log.Format = *logFormat
	config.Redis.Addr = "localhost:6379"
	config.Kafka.BrokerAddr = "localhost:9092"
	config.Kafka.FeedTopic = "book-feed"
	config.Kafka.EventTopic = "book-events"
	config.Kafka.GroupID = "tickbook"

	// Load configuration from file if specified
	if *configFile != "" {
		yamlFile, err := os.ReadFile(*configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		// Parse YAML configuration
		if err := yaml.Unmarshal(yamlFile, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}

		// Log loaded configuration
		log.Printf("Loaded configuration from %s", *configFile)
	}

	return config, nil
}

// BuildRegistry materializes the configured tick schemes into a
// registry, on top of the built-in defaults.
func (c *Config) BuildRegistry() (*tick.Registry, error) {
	registry := tick.NewRegistry()
	if err := tick.RegisterDefaults(registry); err != nil {
		return nil, err
	}

	for _, sc := range c.TickSchemes {
		scheme, err := buildScheme(sc)
		if err != nil {
			return nil, fmt.Errorf("tick scheme %q: %w", sc.Name, err)
		}
		if err := registry.Register(scheme); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

func buildScheme(sc TickSchemeConfig) (tick.TickScheme, error) {
	switch sc.Kind {
	case "fixed":
		increment, err := core.PriceFromString(sc.Increment)
		if err != nil {
			return nil, err
		}
		minPrice, err := core.PriceFromString(sc.MinPrice)
		if err != nil {
			return nil, err
		}
		maxPrice, err := core.PriceFromString(sc.MaxPrice)
		if err != nil {
			return nil, err
		}
		return tick.NewFixedTickScheme(sc.Name, increment, minPrice, maxPrice)
	case "tiered":
		tiers := make([]tick.Tier, 0, len(sc.Tiers))
		for _, tc := range sc.Tiers {
			start, err := core.PriceFromString(tc.Start)
			if err != nil {
				return nil, err
			}
			stop, err := core.PriceFromString(tc.Stop)
			if err != nil {
				return nil, err
			}
			increment, err := core.PriceFromString(tc.Increment)
			if err != nil {
				return nil, err
			}
			tiers = append(tiers, tick.Tier{Start: start, Stop: stop, Increment: increment})
		}
		return tick.NewTieredTickScheme(sc.Name, tiers)
	default:
		return nil, fmt.Errorf("unknown scheme kind %q", sc.Kind)
	}
}
