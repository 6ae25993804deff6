package persist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MaxMongoEntryBytes keeps an entry, plus its key and timestamp, under
// MongoDB's 16 MiB document limit.
const MaxMongoEntryBytes = 16<<20 - 64<<10

var ErrEntryTooLarge = errors.New("entry exceeds the document size limit")

// Mongo is a LocalStore keeping one document per entry in local_state.
// Each collection is one document, so inline photos in the memories entry
// count against MaxMongoEntryBytes.
type Mongo struct {
	coll *mongo.Collection
}

type stateDoc struct {
	Key       string    `bson:"_id"`
	Value     []byte    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{coll: db.Collection("local_state")}
}

func (m *Mongo) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var doc stateDoc
	err := m.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("find %s: %w", key, err)
	}
	return doc.Value, true, nil
}

func (m *Mongo) Put(ctx context.Context, key string, value []byte) error {
	if len(value) > MaxMongoEntryBytes {
		return fmt.Errorf("put %s (%d bytes): %w", key, len(value), ErrEntryTooLarge)
	}
	_, err := m.coll.ReplaceOne(ctx,
		bson.M{"_id": key},
		stateDoc{Key: key, Value: value, UpdatedAt: time.Now()},
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}
