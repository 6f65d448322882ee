package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shohjahon1code/telegram-parser/internal/core/domain"
)

const collectionLoads = "loads"

type LoadRepository struct {
	col *mongo.Collection
}

func NewLoadRepository(db *mongo.Database) *LoadRepository {
	return &LoadRepository{col: db.Collection(collectionLoads)}
}

// InsertMany stores one message's accepted loads in a single batch. IDs are
// assigned here so callers can reference the stored documents right away.
func (r *LoadRepository) InsertMany(ctx context.Context, loads []*domain.Load) error {
	if len(loads) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	docs := make([]interface{}, 0, len(loads))
	for _, l := range loads {
		if l.ID == "" {
			l.ID = primitive.NewObjectID().Hex()
		}
		docs = append(docs, l)
	}

	if _, err := r.col.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert loads: %w", err)
	}
	return nil
}

// List returns every stored load, newest first.
func (r *LoadRepository) List(ctx context.Context) ([]*domain.Load, error) {
	return r.find(ctx, bson.M{}, bson.D{{Key: "created_at", Value: -1}})
}

// ListUnpublished returns loads not yet pushed to the exchange, oldest first
// so the earliest offers go out first.
func (r *LoadRepository) ListUnpublished(ctx context.Context) ([]*domain.Load, error) {
	filter := bson.M{"exchange_id": bson.M{"$exists": false}}
	return r.find(ctx, filter, bson.D{{Key: "created_at", Value: 1}})
}

// ListPublished returns loads that carry an exchange order id.
func (r *LoadRepository) ListPublished(ctx context.Context) ([]*domain.Load, error) {
	filter := bson.M{"exchange_id": bson.M{"$exists": true}}
	return r.find(ctx, filter, bson.D{{Key: "created_at", Value: 1}})
}

func (r *LoadRepository) find(ctx context.Context, filter bson.M, sort bson.D) ([]*domain.Load, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, fmt.Errorf("find loads: %w", err)
	}
	defer cursor.Close(ctx)

	var loads []*domain.Load
	if err := cursor.All(ctx, &loads); err != nil {
		return nil, fmt.Errorf("decode loads: %w", err)
	}
	return loads, nil
}

// SetExchangeID records the exchange order created for a load.
func (r *LoadRepository) SetExchangeID(ctx context.Context, id string, exchangeID int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"exchange_id": exchangeID}}
	if _, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, update); err != nil {
		return fmt.Errorf("set exchange id: %w", err)
	}
	return nil
}

// ClearExchangeID removes the exchange order mark from a load.
func (r *LoadRepository) ClearExchangeID(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$unset": bson.M{"exchange_id": ""}}
	if _, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, update); err != nil {
		return fmt.Errorf("clear exchange id: %w", err)
	}
	return nil
}

// EnsureIndexes creates the indexes the listener and publisher query by.
func (r *LoadRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "exchange_id", Value: 1}}, Options: options.Index().SetSparse(true)},
		{Keys: bson.D{{Key: "source_chat_id", Value: 1}, {Key: "source_message_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
