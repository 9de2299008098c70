package mongorepo

import (
	"errors"

	"github.com/nimasrn/ppob-gateway/internal/model"
	"github.com/nimasrn/ppob-gateway/pkg/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return model.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return model.ErrDuplicate
	default:
		return err
	}
}

// Indexes are the unique keys every store relies on.
func Indexes() []mongodb.Index {
	return []mongodb.Index{
		{Collection: CollectionAdmins, Keys: bson.D{{Key: "username", Value: 1}}, Unique: true},
		{Collection: CollectionTransactions, Keys: bson.D{{Key: "id", Value: 1}}, Unique: true},
		{Collection: CollectionTransactions, Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Collection: CollectionPLNCustomers, Keys: bson.D{{Key: "customerNumber", Value: 1}}, Unique: true},
	}
}
