package model

import (
	"time"
)

type Booking struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	ResourceKind string    `json:"resource_kind" bson:"resource_kind" validate:"required,oneof=room resource"`
	ResourceCode string    `json:"resource_code" bson:"resource_code" validate:"required,min=1,max=60"`
	Date         string    `json:"date" bson:"date" validate:"required,calendar_date"`
	From         string    `json:"from" bson:"from" validate:"required,clock_time"`
	To           string    `json:"to" bson:"to" validate:"required,clock_time"`
	Reason       string    `json:"reason,omitempty" bson:"reason,omitempty" validate:"omitempty,max=500"`
	CreatedBy    string    `json:"created_by" bson:"created_by" validate:"required,min=1,max=60"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type BookingUpdate struct {
	ResourceKind string `json:"resource_kind,omitempty" validate:"omitempty,oneof=room resource"`
	ResourceCode string `json:"resource_code,omitempty" validate:"omitempty,min=1,max=60"`
	Date         string `json:"date,omitempty" validate:"omitempty,calendar_date"`
	From         string `json:"from,omitempty" validate:"omitempty,clock_time"`
	To           string `json:"to,omitempty" validate:"omitempty,clock_time"`
	Reason       string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

// Interval returns the booking's time window as a TimeInterval value.
func (b *Booking) Interval() TimeInterval {
	return TimeInterval{Date: b.Date, From: b.From, To: b.To}
}

// ChangesSlot reports whether the patch moves the booking to a different
// resource, date, or time window. A moved booking must pass the conflict
// check again for its target slot.
func (u *BookingUpdate) ChangesSlot() bool {
	return u.ResourceKind != "" || u.ResourceCode != "" || u.Date != "" || u.From != "" || u.To != ""
}
