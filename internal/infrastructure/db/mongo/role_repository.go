package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/learnhub/lms-platform/internal/core/domain"
	"github.com/learnhub/lms-platform/internal/core/ports"
)

// RoleRepository implements ports.RoleRepository using MongoDB.
type RoleRepository struct {
	col *mongo.Collection
}

// NewRoleRepository creates a new RoleRepository.
func NewRoleRepository(db *mongo.Database) ports.RoleRepository {
	return &RoleRepository{col: db.Collection(collectionRoles)}
}

type roleDoc struct {
	Name string `bson:"_id"`
}

// Seed inserts any missing roles and reads back the stored vocabulary.
// Unknown names already in the collection are ignored.
func (r *RoleRepository) Seed(ctx context.Context, roles []domain.Role) (domain.RoleSet, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	for _, role := range roles {
		_, err := r.col.UpdateOne(ctx,
			bson.M{"_id": role.String()},
			bson.M{"$setOnInsert": bson.M{"_id": role.String()}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return nil, fmt.Errorf("seed role %s: %w", role, err)
		}
	}

	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("load roles: %w", err)
	}
	defer cur.Close(ctx)

	var docs []roleDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("load roles: %w", err)
	}
	set := domain.NewRoleSet()
	for _, d := range docs {
		if role, err := domain.ParseRole(d.Name); err == nil {
			set[role] = struct{}{}
		}
	}
	return set, nil
}
