package validators

import "go.mongodb.org/mongo-driver/bson"

// ResourceValidator is the JSON-schema validator for the Resources
// collection.
func ResourceValidator() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": []string{"_id", "code", "kind", "name", "created_at"},
			"properties": bson.M{
				"_id": bson.M{
					"bsonType": "string",
				},
				"code": bson.M{
					"bsonType":  "string",
					"minLength": 1,
					"maxLength": 60,
				},
				"kind": bson.M{
					"enum": []string{"room", "resource"},
				},
				"name": bson.M{
					"bsonType":  "string",
					"minLength": 1,
					"maxLength": 100,
				},
				"description": bson.M{
					"bsonType":  "string",
					"maxLength": 500,
				},
				"created_at": bson.M{
					"bsonType": "date",
				},
			},
		},
	}
}
