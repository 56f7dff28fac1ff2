package model

import "time"

// BookingLock is an advisory lock serializing admission for one
// (resource, date) slot. Creating it relies on the unique _id index, so
// at most one request holds a slot at a time; ExpiresAt lets a TTL index
// reap locks abandoned by crashed requests.
type BookingLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
