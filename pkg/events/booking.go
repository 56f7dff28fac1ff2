package events

import (
	"time"

	"reservio/pkg/model"
)

// Event types carried in the event-type message header.
const (
	BookingCreated = "booking.created"
	BookingUpdated = "booking.updated"
	BookingDeleted = "booking.deleted"
)

// BookingEvent is the JSON payload published for every booking
// mutation. Key on resource kind+code so one resource's events stay on
// one partition, in order.
type BookingEvent struct {
	Type         string    `json:"type"`
	BookingID    string    `json:"booking_id"`
	ResourceKind string    `json:"resource_kind"`
	ResourceCode string    `json:"resource_code"`
	Date         string    `json:"date"`
	From         string    `json:"from"`
	To           string    `json:"to"`
	Reason       string    `json:"reason,omitempty"`
	CreatedBy    string    `json:"created_by"`
	ActorID      string    `json:"actor_id"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// NewBookingEvent snapshots a booking into an event payload.
func NewBookingEvent(eventType string, b *model.Booking, actorID string) BookingEvent {
	return BookingEvent{
		Type:         eventType,
		BookingID:    b.ID,
		ResourceKind: b.ResourceKind,
		ResourceCode: b.ResourceCode,
		Date:         b.Date,
		From:         b.From,
		To:           b.To,
		Reason:       b.Reason,
		CreatedBy:    b.CreatedBy,
		ActorID:      actorID,
		OccurredAt:   time.Now().UTC(),
	}
}

// PartitionKey groups events of one resource onto one partition.
func (e BookingEvent) PartitionKey() string {
	return e.ResourceKind + ":" + e.ResourceCode
}
