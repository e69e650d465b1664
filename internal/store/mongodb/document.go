package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lhpaul/finadmin/internal/store"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type documentRef struct {
	client *Client
	path   string
	id     string
	name   string // mongo collection name (leaf collection of the path)
}

func (d *documentRef) ID() string   { return d.id }
func (d *documentRef) Path() string { return d.path }

func (d *documentRef) filter() bson.M {
	return bson.M{"path": d.path}
}

func (d *documentRef) Get(ctx context.Context) (*store.Snapshot, error) {
	var doc storedDocument
	err := d.client.db.Collection(d.name).FindOne(ctx, d.filter()).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.NewError(store.CodeNotFound, fmt.Sprintf("no document at %s", d.path))
		}
		return nil, translateError(err)
	}
	return snapshotOf(&doc), nil
}

func (d *documentRef) Create(ctx context.Context, data map[string]interface{}) error {
	now := time.Now().UTC()
	doc := storedDocument{
		Path:       d.path,
		ParentPath: parentPathOf(d.path),
		DocID:      d.id,
		Data:       materialize(data, now),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := d.client.db.Collection(d.name).InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return store.NewError(store.CodeAlreadyExists, fmt.Sprintf("document already exists at %s", d.path))
		}
		return translateError(err)
	}
	return nil
}

func (d *documentRef) Update(ctx context.Context, data map[string]interface{}) error {
	update := buildUpdate(data)
	res, err := d.client.db.Collection(d.name).UpdateOne(ctx, d.filter(), update)
	if err != nil {
		return translateError(err)
	}
	if res.MatchedCount == 0 {
		return store.NewError(store.CodeNotFound, fmt.Sprintf("no document at %s", d.path))
	}
	return nil
}

func (d *documentRef) Delete(ctx context.Context) error {
	res, err := d.client.db.Collection(d.name).DeleteOne(ctx, d.filter())
	if err != nil {
		return translateError(err)
	}
	if res.DeletedCount == 0 {
		return store.NewError(store.CodeNotFound, fmt.Sprintf("no document at %s", d.path))
	}
	return nil
}

func parentPathOf(docPath string) string {
	idx := strings.LastIndex(docPath, "/")
	if idx < 0 {
		return ""
	}
	return docPath[:idx]
}

func snapshotOf(doc *storedDocument) *store.Snapshot {
	data := make(map[string]interface{}, len(doc.Data))
	for k, v := range doc.Data {
		data[k] = normalizeValue(v)
	}
	return &store.Snapshot{
		ID:         doc.DocID,
		Path:       doc.Path,
		Exists:     true,
		Data:       data,
		CreateTime: doc.CreatedAt,
		UpdateTime: doc.UpdatedAt,
	}
}

// normalizeValue converts bson decode artifacts back to the types writes used.
func normalizeValue(v interface{}) interface{} {
	switch t := v.(type) {
	case primitive.DateTime:
		return t.Time()
	case bson.M:
		out := make(map[string]interface{}, len(t))
		for k, inner := range t {
			out[k] = normalizeValue(inner)
		}
		return out
	case bson.A:
		out := make([]interface{}, len(t))
		for i, inner := range t {
			out[i] = normalizeValue(inner)
		}
		return out
	case int32:
		return int64(t)
	default:
		return v
	}
}

// materialize resolves ServerTimestamp sentinels for insert-time writes.
func materialize(data map[string]interface{}, now time.Time) bson.M {
	out := make(bson.M, len(data))
	for k, v := range data {
		if fv, ok := v.(store.FieldValue); ok && fv == store.ServerTimestamp {
			out[k] = now
			continue
		}
		out[k] = v
	}
	return out
}

// buildUpdate splits patch fields into $set values and $currentDate sentinel
// fields so update timestamps come from the server clock.
func buildUpdate(data map[string]interface{}) bson.M {
	set := bson.M{}
	currentDate := bson.M{"updated_at": true}
	for k, v := range data {
		if fv, ok := v.(store.FieldValue); ok && fv == store.ServerTimestamp {
			currentDate["data."+k] = true
			continue
		}
		set["data."+k] = v
	}
	update := bson.M{"$currentDate": currentDate}
	if len(set) > 0 {
		update["$set"] = set
	}
	return update
}

// translateError maps driver failures onto store codes. Timeouts and network
// conditions are transient; everything else is internal. Errors that already
// carry a store code pass through untouched.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var storeErr *store.Error
	if errors.As(err, &storeErr) {
		return err
	}
	if mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		return store.WrapError(store.CodeUnavailable, "mongodb unavailable", err)
	}
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && cmdErr.HasErrorLabel("TransientTransactionError") {
		return store.WrapError(store.CodeAborted, "transaction aborted", err)
	}
	return store.WrapError(store.CodeInternal, "mongodb operation failed", err)
}
