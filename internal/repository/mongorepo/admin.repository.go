package mongorepo

import (
	"context"
	"time"

	"github.com/nimasrn/ppob-gateway/internal/model"
	"github.com/nimasrn/ppob-gateway/pkg/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type AdminRepository struct {
	coll *mongo.Collection
}

func NewAdminRepository(db *mongodb.DB) *AdminRepository {
	return &AdminRepository{coll: db.Collection(CollectionAdmins)}
}

func (r *AdminRepository) FindByUsername(ctx context.Context, username string) (*model.Admin, error) {
	var doc adminDocument
	if err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return doc.toModel(), nil
}

func (r *AdminRepository) Create(ctx context.Context, admin *model.Admin) error {
	if admin.CreatedAt.IsZero() {
		admin.CreatedAt = time.Now()
	}
	if _, err := r.coll.InsertOne(ctx, toAdminDocument(admin)); err != nil {
		return translate(err)
	}
	return nil
}
