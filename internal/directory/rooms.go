package directory

import (
	"context"
	"errors"
	"fmt"
	"roomly/pkg/config"
	"roomly/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const RoomsCollection = "Rooms"

// RoomDirectory maps room ids to their location, capacity and active flag.
// Rooms are owned elsewhere; the booking engine only reads them.
type RoomDirectory interface {
	FindByID(ctx context.Context, id string) (*model.Room, error)
	FindByLocation(ctx context.Context, locationID string) ([]*model.Room, error)
}

type mongoRoomDirectory struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoRoomDirectory(cfg *config.Config) RoomDirectory {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoRoomDirectory{
		cfg:        cfg,
		collection: db.Collection(RoomsCollection),
	}
}

func (d *mongoRoomDirectory) FindByID(ctx context.Context, id string) (*model.Room, error) {
	var room model.Room
	err := d.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&room)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to find room: %w", err)
	}

	return &room, nil
}

func (d *mongoRoomDirectory) FindByLocation(ctx context.Context, locationID string) ([]*model.Room, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := d.collection.Find(ctx, bson.M{"location_id": locationID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find rooms by location: %w", err)
	}
	defer cursor.Close(ctx)

	var rooms []*model.Room
	if err = cursor.All(ctx, &rooms); err != nil {
		return nil, fmt.Errorf("failed to decode rooms: %w", err)
	}

	return rooms, nil
}
