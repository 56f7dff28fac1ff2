package validators

import "go.mongodb.org/mongo-driver/bson"

// BookingValidator is the JSON-schema validator for the Bookings
// collection. The date and clock patterns mirror the application-level
// validation so malformed documents cannot enter through any path.
func BookingValidator() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": []string{"_id", "resource_kind", "resource_code", "date", "from", "to", "created_by", "created_at"},
			"properties": bson.M{
				"_id": bson.M{
					"bsonType": "string",
				},
				"resource_kind": bson.M{
					"enum": []string{"room", "resource"},
				},
				"resource_code": bson.M{
					"bsonType":  "string",
					"minLength": 1,
					"maxLength": 60,
				},
				"date": bson.M{
					"bsonType": "string",
					"pattern":  `^\d{4}-(0[1-9]|1[0-2])-(0[1-9]|[12]\d|3[01])$`,
				},
				"from": bson.M{
					"bsonType": "string",
					"pattern":  `^([01]\d|2[0-3]):[0-5]\d$`,
				},
				"to": bson.M{
					"bsonType": "string",
					"pattern":  `^([01]\d|2[0-3]):[0-5]\d$`,
				},
				"reason": bson.M{
					"bsonType":  "string",
					"maxLength": 500,
				},
				"created_by": bson.M{
					"bsonType":  "string",
					"minLength": 1,
					"maxLength": 60,
				},
				"created_at": bson.M{
					"bsonType": "date",
				},
			},
		},
	}
}
