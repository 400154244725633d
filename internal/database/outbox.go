package repository

import (
	"HereToHelp/entity"
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SaveOutboxItem stores a new item.
func (m *MongoDB) SaveOutboxItem(ctx context.Context, item *entity.OutboxItem) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(outboxCollection)

	_, err = collection.InsertOne(ctx, item)
	if err != nil {
		return fmt.Errorf("mongodb insert error: %w", err)
	}
	return nil
}

// UpdateOutboxItem replaces the stored item by id.
func (m *MongoDB) UpdateOutboxItem(ctx context.Context, item *entity.OutboxItem) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(outboxCollection)

	item.UpdatedAt = time.Now()
	filter := bson.D{{Key: "id", Value: item.ID}}
	update := bson.D{{Key: "$set", Value: item}}

	_, err = collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("mongodb update error: %w", err)
	}
	return nil
}

// GetOutboxItem returns nil without error when the id is unknown.
func (m *MongoDB) GetOutboxItem(ctx context.Context, id string) (*entity.OutboxItem, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(outboxCollection)
	filter := bson.D{{Key: "id", Value: id}}

	var item entity.OutboxItem
	err = collection.FindOne(ctx, filter).Decode(&item)
	if err != nil {
		return nil, m.findError(err)
	}
	return &item, nil
}

// DueOutboxItems returns pending items whose next attempt is not in the future,
// oldest first.
func (m *MongoDB) DueOutboxItems(ctx context.Context, now time.Time, limit int64) ([]entity.OutboxItem, error) {
	filter := bson.D{
		{Key: "status", Value: entity.OutboxPending},
		{Key: "next_attempt_at", Value: bson.D{{Key: "$lte", Value: now}}},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "next_attempt_at", Value: 1}}).
		SetLimit(limit)
	return m.findOutbox(ctx, filter, opts)
}

// ListOutbox returns the newest items, optionally filtered by status.
func (m *MongoDB) ListOutbox(ctx context.Context, status string, limit int64) ([]entity.OutboxItem, error) {
	filter := bson.D{}
	if status != "" {
		filter = bson.D{{Key: "status", Value: status}}
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)
	return m.findOutbox(ctx, filter, opts)
}

// CountOutbox counts items with the given status.
func (m *MongoDB) CountOutbox(ctx context.Context, status string) (int64, error) {
	connection, err := m.connect()
	if err != nil {
		return 0, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(outboxCollection)
	return collection.CountDocuments(ctx, bson.D{{Key: "status", Value: status}})
}

func (m *MongoDB) findOutbox(ctx context.Context, filter bson.D, opts *options.FindOptions) ([]entity.OutboxItem, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(outboxCollection)

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, m.findError(err)
	}
	defer cursor.Close(ctx)

	items := make([]entity.OutboxItem, 0)
	if err = cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("mongodb decode error: %w", err)
	}
	return items, nil
}
