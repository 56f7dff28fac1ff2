package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"

	"reservio/pkg/events"
	"reservio/pkg/kafka"
	"reservio/pkg/logger"
	"reservio/pkg/model"
)

type captureRepo struct {
	mu            sync.Mutex
	notifications []model.Notification
	failWith      error
}

func (r *captureRepo) Create(_ context.Context, notification *model.Notification) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failWith != nil {
		return "", r.failWith
	}
	r.notifications = append(r.notifications, *notification)
	return "n1", nil
}

func (r *captureRepo) FindByUser(context.Context, string, int, int64) ([]model.Notification, int64, error) {
	return nil, 0, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:  logger.ERROR,
		Format: logger.TEXT,
		Output: io.Discard,
	})
}

func eventMessage(t *testing.T, eventType string) kafka.Message {
	t.Helper()

	event := events.BookingEvent{
		Type:         eventType,
		BookingID:    "booking-1",
		ResourceKind: model.KindRoom,
		ResourceCode: "cse-101",
		Date:         "2026-03-14",
		From:         "09:00",
		To:           "10:00",
		CreatedBy:    "user-1",
		ActorID:      "user-1",
	}

	payload, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}

	return kafka.NewMessage().
		WithKey(event.PartitionKey()).
		WithRawValue(payload).
		WithEventType(eventType).
		Build()
}

func TestBookingEventHandler_Handle(t *testing.T) {
	tests := []struct {
		name      string
		eventType string
		wantText  string
	}{
		{"created", events.BookingCreated, "Your booking for room cse-101 on 2026-03-14 09:00-10:00 is confirmed"},
		{"updated", events.BookingUpdated, "Your booking for room cse-101 on 2026-03-14 09:00-10:00 was updated"},
		{"deleted", events.BookingDeleted, "Your booking for room cse-101 on 2026-03-14 09:00-10:00 was cancelled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &captureRepo{}
			handler := NewBookingEventHandler(repo, testLogger())

			if err := handler.Handle(context.Background(), eventMessage(t, tt.eventType)); err != nil {
				t.Fatalf("Handle() error = %v", err)
			}

			if len(repo.notifications) != 1 {
				t.Fatalf("stored notifications = %d, want 1", len(repo.notifications))
			}

			stored := repo.notifications[0]
			if stored.UserID != "user-1" {
				t.Errorf("UserID = %q, want user-1", stored.UserID)
			}
			if stored.BookingID != "booking-1" {
				t.Errorf("BookingID = %q, want booking-1", stored.BookingID)
			}
			if stored.Message != tt.wantText {
				t.Errorf("Message = %q, want %q", stored.Message, tt.wantText)
			}
		})
	}
}

func TestBookingEventHandler_AdminActionNotifiesCreator(t *testing.T) {
	repo := &captureRepo{}
	handler := NewBookingEventHandler(repo, testLogger())

	// An admin cancelling a member's booking: the member owns the
	// booking and gets the notification, not the admin.
	event := events.BookingEvent{
		Type:         events.BookingDeleted,
		BookingID:    "booking-1",
		ResourceKind: model.KindRoom,
		ResourceCode: "cse-101",
		Date:         "2026-03-14",
		From:         "09:00",
		To:           "10:00",
		CreatedBy:    "user-1",
		ActorID:      "admin-1",
	}

	payload, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}

	msg := kafka.NewMessage().
		WithKey(event.PartitionKey()).
		WithRawValue(payload).
		WithEventType(event.Type).
		Build()

	if err := handler.Handle(context.Background(), msg); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	if len(repo.notifications) != 1 {
		t.Fatalf("stored notifications = %d, want 1", len(repo.notifications))
	}
	if got := repo.notifications[0].UserID; got != "user-1" {
		t.Errorf("UserID = %q, want user-1", got)
	}
}

func TestBookingEventHandler_UnknownEventTypeSkipped(t *testing.T) {
	repo := &captureRepo{}
	handler := NewBookingEventHandler(repo, testLogger())

	msg := eventMessage(t, "booking.archived")
	if err := handler.Handle(context.Background(), msg); err != nil {
		t.Fatalf("Handle() error = %v, want nil for unknown type", err)
	}
	if len(repo.notifications) != 0 {
		t.Errorf("stored notifications = %d, want 0", len(repo.notifications))
	}
}

func TestBookingEventHandler_UndecodablePayloadIsPermanent(t *testing.T) {
	repo := &captureRepo{}
	handler := NewBookingEventHandler(repo, testLogger())

	msg := kafka.NewMessage().
		WithKey("room:cse-101").
		WithRawValue([]byte("not json")).
		Build()

	err := handler.Handle(context.Background(), msg)
	if err == nil {
		t.Fatal("Handle() error = nil, want permanent processing error")
	}

	if kafka.ClassifyError(err) != kafka.ErrorTypePermanent {
		t.Errorf("ClassifyError() = %v, want permanent", kafka.ClassifyError(err))
	}
}

func TestBookingEventHandler_StoreFailurePropagates(t *testing.T) {
	repo := &captureRepo{failWith: errors.New("connection refused")}
	handler := NewBookingEventHandler(repo, testLogger())

	err := handler.Handle(context.Background(), eventMessage(t, events.BookingCreated))
	if err == nil {
		t.Fatal("Handle() error = nil, want store failure")
	}

	// Network-style failures stay transient so the consumer retries.
	if kafka.ClassifyError(err) != kafka.ErrorTypeTransient {
		t.Errorf("ClassifyError() = %v, want transient", kafka.ClassifyError(err))
	}
}
