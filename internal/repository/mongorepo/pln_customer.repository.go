package mongorepo

import (
	"context"
	"time"

	"github.com/nimasrn/ppob-gateway/internal/model"
	"github.com/nimasrn/ppob-gateway/pkg/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PLNCustomerRepository struct {
	coll *mongo.Collection
}

func NewPLNCustomerRepository(db *mongodb.DB) *PLNCustomerRepository {
	return &PLNCustomerRepository{coll: db.Collection(CollectionPLNCustomers)}
}

func (r *PLNCustomerRepository) List(ctx context.Context) ([]*model.PLNCustomer, error) {
	cur, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}

	var docs []*plnCustomerDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	customers := make([]*model.PLNCustomer, len(docs))
	for i, d := range docs {
		customers[i] = d.toModel()
	}
	return customers, nil
}

func (r *PLNCustomerRepository) Get(ctx context.Context, customerNumber string) (*model.PLNCustomer, error) {
	var doc plnCustomerDocument
	if err := r.coll.FindOne(ctx, bson.M{"customerNumber": customerNumber}).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return doc.toModel(), nil
}

func (r *PLNCustomerRepository) Create(ctx context.Context, c *model.PLNCustomer) (*model.PLNCustomer, error) {
	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now

	doc := toPLNCustomerDocument(c)
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, translate(err)
	}
	return doc.toModel(), nil
}

// Update rewrites every mutable field, including the whole bill list, and
// returns the stored document.
func (r *PLNCustomerRepository) Update(ctx context.Context, c *model.PLNCustomer) (*model.PLNCustomer, error) {
	update := bson.M{"$set": bson.M{
		"customerName": c.CustomerName,
		"tariffPower":  c.TariffPower,
		"standMeter":   c.StandMeter,
		"bills":        toBillDocuments(c.Bills),
		"adminFee":     c.AdminFee,
		"updatedAt":    time.Now(),
	}}

	var doc plnCustomerDocument
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"customerNumber": c.CustomerNumber},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, translate(err)
	}
	return doc.toModel(), nil
}

func (r *PLNCustomerRepository) Delete(ctx context.Context, customerNumber string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"customerNumber": customerNumber})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return model.ErrNotFound
	}
	return nil
}
