package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const stateCollection = "client_state"

// SessionStorage keeps one document per namespace:
//
//	{_id: <namespace>, values: {token: "...", user: "..."}}
//
// A single-document update is atomic, so every Save and Delete is too.
type SessionStorage struct {
	coll      *mongo.Collection
	namespace string
}

func NewSessionStorage(db *mongo.Database, namespace string) *SessionStorage {
	return &SessionStorage{coll: db.Collection(stateCollection), namespace: namespace}
}

type stateDoc struct {
	ID     string            `bson:"_id"`
	Values map[string]string `bson:"values"`
}

func (s *SessionStorage) Load(ctx context.Context, keys ...string) (map[string]string, error) {
	var doc stateDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": s.namespace}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		if v, ok := doc.Values[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func (s *SessionStorage) Save(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	set := bson.M{}
	for k, v := range values {
		set["values."+k] = v
	}
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": s.namespace},
		bson.M{"$set": set},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *SessionStorage) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	unset := bson.M{}
	for _, k := range keys {
		unset["values."+k] = ""
	}
	if _, err := s.coll.UpdateOne(ctx, bson.M{"_id": s.namespace}, bson.M{"$unset": unset}); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *SessionStorage) Ping(ctx context.Context) error {
	return s.coll.Database().Client().Ping(ctx, nil)
}
