package directory

import (
	"context"
	"errors"
	"fmt"
	"roomly/pkg/config"
	"roomly/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	UsersCollection  = "Users"
	GrantsCollection = "Manager_grants"
)

// UserDirectory resolves an acting user into a Principal: role plus, for
// managers, the locations they administer. Admins implicitly hold every
// location so no grants are loaded for them.
type UserDirectory interface {
	FindPrincipal(ctx context.Context, userID string) (*model.Principal, error)
}

type mongoUserDirectory struct {
	cfg    *config.Config
	users  *mongo.Collection
	grants *mongo.Collection
}

func NewMongoUserDirectory(cfg *config.Config) UserDirectory {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoUserDirectory{
		cfg:    cfg,
		users:  db.Collection(UsersCollection),
		grants: db.Collection(GrantsCollection),
	}
}

func (d *mongoUserDirectory) FindPrincipal(ctx context.Context, userID string) (*model.Principal, error) {
	var user model.User
	err := d.users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	principal := &model.Principal{
		ID:   user.ID,
		Role: user.Role,
	}

	if user.Role != model.RoleManager {
		return principal, nil
	}

	cursor, err := d.grants.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to find manager grants: %w", err)
	}
	defer cursor.Close(ctx)

	var grants []model.ManagerGrant
	if err = cursor.All(ctx, &grants); err != nil {
		return nil, fmt.Errorf("failed to decode manager grants: %w", err)
	}

	principal.Locations = make([]string, 0, len(grants))
	for _, grant := range grants {
		principal.Locations = append(principal.Locations, grant.LocationID)
	}

	return principal, nil
}
