package mongorepo

import (
	"context"
	"regexp"
	"strings"

	"github.com/nimasrn/ppob-gateway/internal/model"
	"github.com/nimasrn/ppob-gateway/pkg/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TransactionRepository struct {
	coll *mongo.Collection
}

func NewTransactionRepository(db *mongodb.DB) *TransactionRepository {
	return &TransactionRepository{coll: db.Collection(CollectionTransactions)}
}

func (r *TransactionRepository) Create(ctx context.Context, txn *model.Transaction) (*model.Transaction, error) {
	doc := toTransactionDocument(txn)
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, translate(err)
	}
	return doc.toModel(), nil
}

func (r *TransactionRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.D{})
}

// MaxDisplayNumber returns the highest number behind a TRXnnn id.
func (r *TransactionRepository) MaxDisplayNumber(ctx context.Context) (int64, error) {
	filter := bson.M{"id": primitive.Regex{Pattern: "^" + model.TransactionIDPrefix}}
	cur, err := r.coll.Find(ctx, filter, options.Find().SetProjection(bson.M{"id": 1, "_id": 0}))
	if err != nil {
		return 0, err
	}

	var docs []struct {
		ID string `bson:"id"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return 0, err
	}

	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	return model.MaxDisplayNumber(ids), nil
}

// List returns transactions newest first.
func (r *TransactionRepository) List(ctx context.Context, f model.TransactionFilter) ([]*model.Transaction, error) {
	filter := bson.D{}
	if term := strings.TrimSpace(f.Query); term != "" {
		quoted := regexp.QuoteMeta(term)
		filter = bson.D{{Key: "$or", Value: bson.A{
			bson.D{{Key: "id", Value: primitive.Regex{Pattern: quoted, Options: "i"}}},
			bson.D{{Key: "customerName", Value: primitive.Regex{Pattern: quoted, Options: "i"}}},
			bson.D{{Key: "customerNumber", Value: primitive.Regex{Pattern: quoted}}},
		}}}
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var docs []*transactionDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	items := make([]*model.Transaction, len(docs))
	for i, d := range docs {
		items[i] = d.toModel()
	}
	return items, nil
}

func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return model.ErrNotFound
	}
	return nil
}
