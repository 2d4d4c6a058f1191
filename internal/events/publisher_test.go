package events

import (
	"context"
	"io"
	"log/slog"
	"testing"
)

func TestNewEvent(t *testing.T) {
	event := NewEvent(TypeEnrollmentCreated, map[string]interface{}{"enrollment_id": "e1"})

	if event.ID == "" {
		t.Error("ID should be assigned")
	}
	if event.Type != TypeEnrollmentCreated {
		t.Errorf("Type = %s, want %s", event.Type, TypeEnrollmentCreated)
	}
	if event.Source != "enrollment-service" {
		t.Errorf("Source = %s, want enrollment-service", event.Source)
	}
	if event.Timestamp.IsZero() {
		t.Error("Timestamp should be set")
	}
}

func TestMockEventPublisher(t *testing.T) {
	publisher := NewMockEventPublisher(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	if err := publisher.Publish(ctx, NewEvent(TypeCourseCreated, nil)); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := publisher.Publish(ctx, NewEvent(TypeEnrollmentDeleted, nil)); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	published := publisher.GetPublishedEvents()
	if len(published) != 2 {
		t.Fatalf("len = %d, want 2", len(published))
	}
	if published[0].Type != TypeCourseCreated || published[1].Type != TypeEnrollmentDeleted {
		t.Errorf("events recorded out of order: %s, %s", published[0].Type, published[1].Type)
	}

	publisher.ClearEvents()
	if len(publisher.GetPublishedEvents()) != 0 {
		t.Error("ClearEvents should drop everything")
	}
}
