package validators

import "go.mongodb.org/mongo-driver/bson"

// NotificationValidator is the JSON-schema validator for the
// Notifications collection.
func NotificationValidator() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": []string{"_id", "user_id", "booking_id", "event_type", "message", "created_at"},
			"properties": bson.M{
				"_id": bson.M{
					"bsonType": "string",
				},
				"user_id": bson.M{
					"bsonType":  "string",
					"minLength": 1,
				},
				"booking_id": bson.M{
					"bsonType": "string",
				},
				"event_type": bson.M{
					"enum": []string{"booking.created", "booking.updated", "booking.deleted"},
				},
				"message": bson.M{
					"bsonType": "string",
				},
				"created_at": bson.M{
					"bsonType": "date",
				},
			},
		},
	}
}
