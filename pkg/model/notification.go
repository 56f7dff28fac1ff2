package model

import "time"

type Notification struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    string    `json:"user_id" bson:"user_id"`
	BookingID string    `json:"booking_id" bson:"booking_id"`
	EventType string    `json:"event_type" bson:"event_type"`
	Message   string    `json:"message" bson:"message"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
