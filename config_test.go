package busclient

import (
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	data := []byte(`
url: nats://localhost:4222
creds: /etc/busclient/creds.jwt
subscribe_durable:
  stream: classrooms
  consumer: my-service
  batch: 32
  idle_heartbeat: 5s
subscribe_ephemeral:
  stream: classrooms
consumer:
  suspend_interval: 2s
  max_suspend_interval: 10s
  suspend_sentry_interval: 30s
  resubscribe_interval: 1s
`)

	cfg, err := LoadConfig(data)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	if cfg.URL != "nats://localhost:4222" {
		t.Errorf("URL = %q", cfg.URL)
	}
	if cfg.SubscribeDurable == nil || cfg.SubscribeDurable.Stream != "classrooms" || cfg.SubscribeDurable.Batch != 32 {
		t.Errorf("SubscribeDurable = %+v", cfg.SubscribeDurable)
	}
	if cfg.SubscribeDurable.IdleHeartbeat.Duration() != 5*time.Second {
		t.Errorf("IdleHeartbeat = %v, want 5s", cfg.SubscribeDurable.IdleHeartbeat.Duration())
	}
	if cfg.SubscribeEphemeral == nil || cfg.SubscribeEphemeral.Stream != "classrooms" {
		t.Errorf("SubscribeEphemeral = %+v", cfg.SubscribeEphemeral)
	}
	if cfg.Consumer.SuspendInterval.Duration() != 2*time.Second {
		t.Errorf("SuspendInterval = %v, want 2s", cfg.Consumer.SuspendInterval.Duration())
	}
	if cfg.Consumer.MaxSuspendInterval.Duration() != 10*time.Second {
		t.Errorf("MaxSuspendInterval = %v, want 10s", cfg.Consumer.MaxSuspendInterval.Duration())
	}
}

func TestLoadConfigInvalidDuration(t *testing.T) {
	data := []byte(`
url: nats://localhost:4222
creds: /etc/busclient/creds.jwt
consumer:
  suspend_interval: not-a-duration
`)
	if _, err := LoadConfig(data); err == nil {
		t.Fatal("expected error for an invalid duration string")
	}
}

func TestLoadConfigWithoutOptionalSubscriptions(t *testing.T) {
	data := []byte(`
url: nats://localhost:4222
creds: /etc/busclient/creds.jwt
`)
	cfg, err := LoadConfig(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SubscribeDurable != nil {
		t.Error("expected SubscribeDurable to be nil when absent from yaml")
	}
	if cfg.SubscribeEphemeral != nil {
		t.Error("expected SubscribeEphemeral to be nil when absent from yaml")
	}
}
