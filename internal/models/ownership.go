package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// OwnedBy reports whether a document owned by owner may be touched by requester.
func OwnedBy(owner, requester primitive.ObjectID) bool {
	return !owner.IsZero() && owner == requester
}
