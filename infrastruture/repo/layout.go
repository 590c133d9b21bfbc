package repo

import (
	"context"
	"errors"
	"time"

	"github.com/beka-birhanu/vinom-nav/grid"
	"github.com/beka-birhanu/vinom-nav/service/i"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LayoutRepo handles the persistence of grid layouts.
type LayoutRepo struct {
	collection *mongo.Collection
}

// NewLayoutRepo creates a new LayoutRepo with the given MongoDB client, database name, and collection name.
func NewLayoutRepo(client *mongo.Client, dbName, collectionName string) *LayoutRepo {
	collection := client.Database(dbName).Collection(collectionName)
	return &LayoutRepo{
		collection: collection,
	}
}

// Save inserts or replaces a layout, keyed by its name.
func (r *LayoutRepo) Save(ctx context.Context, layout grid.Layout) error {
	if layout.Name == "" {
		return errors.New("layout name is required")
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	filter := bson.M{"_id": layout.Name}
	update := bson.M{
		"$set": bson.M{
			"name":      layout.Name,
			"rows":      layout.Rows,
			"updatedAt": time.Now(),
		},
	}

	opts := options.Update().SetUpsert(true)
	if _, err := r.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return errors.New("unexpected error: " + err.Error())
	}
	return nil
}

// ByName retrieves a layout by its name.
// Returns i.ErrLayoutNotFound if no layout has that name.
func (r *LayoutRepo) ByName(ctx context.Context, name string) (grid.Layout, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	var layout grid.Layout
	if err := r.collection.FindOne(ctx, bson.M{"_id": name}).Decode(&layout); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return grid.Layout{}, i.ErrLayoutNotFound
		}
		return grid.Layout{}, errors.New("unexpected error: " + err.Error())
	}
	return layout, nil
}
