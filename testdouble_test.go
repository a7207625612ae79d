package busclient

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestRecordingClientRecordsPublish(t *testing.T) {
	client := NewRecordingClient()
	ev := NewTestEvent("message", 1, []byte("hi"))

	if err := client.Publish(context.Background(), ev); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := client.PublishRequests()
	if len(got) != 1 || !reflect.DeepEqual(got[0], ev) {
		t.Errorf("PublishRequests() = %+v, want [%+v]", got, ev)
	}
}

func TestRecordingClientRecordsTerminate(t *testing.T) {
	client := NewRecordingClient()
	msg := &fakeMessage{subject: "room." + testClassroomID.String() + ".message"}

	if err := client.Terminate(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := client.TerminateRequests()
	if len(got) != 1 || got[0] != msg {
		t.Errorf("TerminateRequests() = %+v, want [%+v]", got, msg)
	}
}

func TestRecordingClientInjectedErrors(t *testing.T) {
	client := NewRecordingClient()
	wantErr := errors.New("bus unavailable")
	client.SetPublishErr(wantErr)

	if err := client.Publish(context.Background(), NewTestEvent("message", 1, nil)); !errors.Is(err, wantErr) {
		t.Errorf("Publish() error = %v, want %v", err, wantErr)
	}
	if len(client.PublishRequests()) != 0 {
		t.Error("expected no publish request recorded when Publish is configured to fail")
	}
}

func TestRecordingClientSubscribeDurablePanics(t *testing.T) {
	client := NewRecordingClient()
	defer func() {
		if recover() == nil {
			t.Fatal("expected SubscribeDurable to panic on a RecordingClient")
		}
	}()
	_, _ = client.SubscribeDurable(context.Background())
}
