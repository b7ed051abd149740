package utils

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var objectIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// IsObjectIDHex reports whether s is a 24 character hexadecimal identifier.
func IsObjectIDHex(s string) bool {
	return objectIDPattern.MatchString(s)
}

// ParseObjectID is IsObjectIDHex followed by the driver conversion.
func ParseObjectID(s string) (primitive.ObjectID, bool) {
	if !IsObjectIDHex(s) {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}
