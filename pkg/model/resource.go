package model

import (
	"strings"
	"time"
)

const (
	// KindRoom marks a bookable room.
	KindRoom = "room"
	// KindEquipment marks a bookable equipment item. The wire value is
	// "resource" for compatibility with existing clients.
	KindEquipment = "resource"
)

type Resource struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Code        string    `json:"code" bson:"code" validate:"required,min=1,max=60"`
	Kind        string    `json:"kind" bson:"kind" validate:"required,oneof=room resource"`
	Name        string    `json:"name" bson:"name" validate:"required,min=1,max=100"`
	Description string    `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=500"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// NormalizeKind canonicalizes a wire kind value; "Room" and "room"
// name the same kind.
func NormalizeKind(kind string) string {
	return strings.ToLower(strings.TrimSpace(kind))
}

// IsValidKind reports whether kind names one of the bookable kinds.
func IsValidKind(kind string) bool {
	return kind == KindRoom || kind == KindEquipment
}
