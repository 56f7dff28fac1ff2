package consumer

import (
	"context"
	"fmt"

	"reservio/internal/notifications/repository"
	"reservio/pkg/events"
	"reservio/pkg/kafka"
	"reservio/pkg/logger"
	"reservio/pkg/model"
)

// BookingEventHandler turns booking lifecycle events into notification
// documents for the booking's creator.
type BookingEventHandler struct {
	repo repository.NotificationRepository
	log  *logger.Logger
}

func NewBookingEventHandler(repo repository.NotificationRepository, log *logger.Logger) *BookingEventHandler {
	return &BookingEventHandler{
		repo: repo,
		log:  log,
	}
}

// Handle implements kafka.MessageHandler.
func (h *BookingEventHandler) Handle(ctx context.Context, msg kafka.Message) error {
	var event events.BookingEvent
	if err := msg.DecodeValue(&event); err != nil {
		// Undecodable payloads never become decodable; fail permanently
		// so the consumer routes them to the DLQ instead of retrying.
		return kafka.NewPermanentError("failed to decode booking event", err)
	}

	message, ok := describe(event)
	if !ok {
		h.log.Warn("Skipping unknown booking event type",
			"event_type", event.Type,
			"booking_id", event.BookingID,
		)
		return nil
	}

	// The booking's creator is the one affected; an admin acting on
	// someone else's booking must notify the owner, not themselves.
	userID := event.CreatedBy
	if userID == "" {
		userID = event.ActorID
	}

	notification := &model.Notification{
		UserID:    userID,
		BookingID: event.BookingID,
		EventType: event.Type,
		Message:   message,
	}

	if _, err := h.repo.Create(ctx, notification); err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}

	h.log.Info("Notification stored",
		"user_id", notification.UserID,
		"booking_id", notification.BookingID,
		"event_type", notification.EventType,
	)

	return nil
}

func describe(event events.BookingEvent) (string, bool) {
	slot := fmt.Sprintf("%s %s on %s %s-%s",
		event.ResourceKind, event.ResourceCode, event.Date, event.From, event.To)

	switch event.Type {
	case events.BookingCreated:
		return fmt.Sprintf("Your booking for %s is confirmed", slot), true
	case events.BookingUpdated:
		return fmt.Sprintf("Your booking for %s was updated", slot), true
	case events.BookingDeleted:
		return fmt.Sprintf("Your booking for %s was cancelled", slot), true
	default:
		return "", false
	}
}
