package busclient

import (
	"errors"
	"log/slog"
	"testing"
	"time"
)

type recordingSink struct {
	notifications []error
}

func (s *recordingSink) Notify(err error) { s.notifications = append(s.notifications, err) }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(discardWriter{}, nil))
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestLogSentryForwardsFirstErrorImmediately(t *testing.T) {
	cfg := ConsumerConfig{
		SuspendInterval:       Duration(time.Second),
		SuspendSentryInterval: Duration(time.Minute),
	}
	sink := &recordingSink{}
	s := newLogSentry(cfg, discardLogger(), sink)

	s.logNotify(errors.New("boom"))

	if len(sink.notifications) != 1 {
		t.Fatalf("expected the first error to forward immediately (last_sent seeded in the past), got %d notifications", len(sink.notifications))
	}
}

func TestLogSentryThrottlesSubsequentErrors(t *testing.T) {
	cfg := ConsumerConfig{
		SuspendInterval:       Duration(time.Minute),
		SuspendSentryInterval: Duration(time.Minute),
	}
	sink := &recordingSink{}
	s := newLogSentry(cfg, discardLogger(), sink)

	now := time.Now()
	s.now = func() time.Time { return now }

	s.logNotify(errors.New("first"))
	s.logNotify(errors.New("second"))
	s.logNotify(errors.New("third"))

	if len(sink.notifications) != 1 {
		t.Fatalf("expected only the first of three rapid errors to forward, got %d", len(sink.notifications))
	}

	now = now.Add(2 * time.Minute)
	s.logNotify(errors.New("fourth"))

	if len(sink.notifications) != 2 {
		t.Fatalf("expected a fourth error past suspend_interval to forward, got %d notifications", len(sink.notifications))
	}
}

func TestLogSentryWithoutSinkNeverPanics(t *testing.T) {
	cfg := ConsumerConfig{SuspendInterval: Duration(time.Second), SuspendSentryInterval: Duration(time.Second)}
	s := newLogSentry(cfg, discardLogger(), nil)

	s.logNotify(errors.New("boom"))
	s.logNotify(errors.New("boom again"))
}
