// Package mongodb implements the store client boundary on MongoDB. Documents
// of every collection instance named X live in the mongo collection X, keyed
// by their full hierarchical path, which is what makes cross-ancestor
// collection-group queries a plain scan of one mongo collection.
package mongodb

import (
	"context"
	"strings"
	"time"

	"github.com/lhpaul/finadmin/internal/shared/logger"
	"github.com/lhpaul/finadmin/internal/store"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// storedDocument is the persisted shape of one document.
type storedDocument struct {
	Path       string    `bson:"path"`
	ParentPath string    `bson:"parent_path"`
	DocID      string    `bson:"doc_id"`
	Data       bson.M    `bson:"data"`
	CreatedAt  time.Time `bson:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at"`
}

// Client implements store.Client over a mongo database.
type Client struct {
	db  *mongo.Database
	log logger.Logger
}

// NewClient wraps an already connected mongo database.
func NewClient(db *mongo.Database, log logger.Logger) *Client {
	return &Client{db: db, log: log.WithComponent("mongodb_store")}
}

// EnsureIndexes creates the unique path index each named collection relies on
// for conditional creates. Call once at startup per known collection name.
func (c *Client) EnsureIndexes(ctx context.Context, collectionNames ...string) error {
	for _, name := range collectionNames {
		_, err := c.db.Collection(name).Indexes().CreateMany(ctx, []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "path", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{
				Keys: bson.D{{Key: "parent_path", Value: 1}},
			},
		})
		if err != nil {
			return translateError(err)
		}
	}
	return nil
}

func (c *Client) Collection(path string) store.CollectionRef {
	path = strings.Trim(path, "/")
	segments := strings.Split(path, "/")
	return &collectionRef{
		client: c,
		path:   path,
		name:   segments[len(segments)-1],
	}
}

func (c *Client) CollectionGroup(name string) store.Query {
	return &query{client: c, name: name}
}

func (c *Client) Doc(path string) store.DocumentRef {
	path = strings.Trim(path, "/")
	segments := strings.Split(path, "/")
	return &documentRef{
		client: c,
		path:   path,
		id:     segments[len(segments)-1],
		name:   segments[len(segments)-2],
	}
}

func (c *Client) Batch() store.Batch {
	return &batch{client: c}
}

func (c *Client) Close(ctx context.Context) error {
	return c.db.Client().Disconnect(ctx)
}

var _ store.Client = (*Client)(nil)

// collectionRef

type collectionRef struct {
	client *Client
	path   string
	name   string
}

func (r *collectionRef) Path() string { return r.path }

func (r *collectionRef) Doc(id string) store.DocumentRef {
	return &documentRef{client: r.client, path: r.path + "/" + id, id: id, name: r.name}
}

func (r *collectionRef) NewDoc() store.DocumentRef {
	return r.Doc(uuid.NewString())
}

func (r *collectionRef) Where(field, operator string, value interface{}) store.Query {
	return r.query().Where(field, operator, value)
}

func (r *collectionRef) OrderBy(field string, direction store.Direction) store.Query {
	return r.query().OrderBy(field, direction)
}

func (r *collectionRef) Limit(n int) store.Query  { return r.query().Limit(n) }
func (r *collectionRef) Offset(n int) store.Query { return r.query().Offset(n) }

func (r *collectionRef) Documents(ctx context.Context) ([]*store.Snapshot, error) {
	return r.query().Documents(ctx)
}

func (r *collectionRef) query() *query {
	return &query{client: r.client, name: r.name, parentPath: r.path}
}
