package busclient

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML's
// human-readable duration forms ("5s", "1m"), since yaml.v3 has no
// built-in time.Duration support.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("busclient: parse duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Duration returns the value as a standard time.Duration.
func (d Duration) Duration() time.Duration { return time.Duration(d) }

// Config is the full configuration surface consumed by [NATSClient]
// and [Consumer], loaded from YAML by [LoadConfig].
type Config struct {
	URL   string `yaml:"url"`
	Creds string `yaml:"creds"`

	SubscribeDurable   *SubscribeDurableConfig   `yaml:"subscribe_durable"`
	SubscribeEphemeral *SubscribeEphemeralConfig `yaml:"subscribe_ephemeral"`
	Consumer           ConsumerConfig            `yaml:"consumer"`
}

// SubscribeDurableConfig configures [BusClient.SubscribeDurable].
type SubscribeDurableConfig struct {
	Stream        string   `yaml:"stream"`
	Consumer      string   `yaml:"consumer"`
	Batch         int      `yaml:"batch"`
	IdleHeartbeat Duration `yaml:"idle_heartbeat"`
}

// SubscribeEphemeralConfig configures [BusClient.SubscribeEphemeral].
type SubscribeEphemeralConfig struct {
	Stream string `yaml:"stream"`
}

// ConsumerConfig tunes the [Consumer] loop's backoff and resubscribe
// schedule.
type ConsumerConfig struct {
	SuspendInterval       Duration `yaml:"suspend_interval"`
	MaxSuspendInterval    Duration `yaml:"max_suspend_interval"`
	SuspendSentryInterval Duration `yaml:"suspend_sentry_interval"`
	ResubscribeInterval   Duration `yaml:"resubscribe_interval"`
}

// LoadConfig parses already-read YAML config data. Path resolution is
// the caller's job — a calling service typically has its own config
// search path ahead of this bus-specific block — this function only
// parses.
func LoadConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("busclient: parse config: %w", err)
	}
	return cfg, nil
}
