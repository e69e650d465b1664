// Package store defines the document-store client boundary: a hierarchical,
// path-addressed document database with scoped and cross-ancestor queries,
// batches and transactions. Implementations live in the subpackages.
package store

import (
	"context"
	"time"
)

// FieldValue marks special server-side values on write.
type FieldValue string

// ServerTimestamp is a sentinel the store replaces with its own clock when a
// write is applied. Create and update timestamps are always requested through
// it, never supplied by callers.
const ServerTimestamp FieldValue = "ServerTimestamp"

// Direction of an ordering clause.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Query operators understood by Where.
const (
	OperatorEqual              = "=="
	OperatorNotEqual           = "!="
	OperatorLessThan           = "<"
	OperatorLessThanOrEqual    = "<="
	OperatorGreaterThan        = ">"
	OperatorGreaterThanOrEqual = ">="
	OperatorArrayContains      = "array-contains"
	OperatorArrayContainsAny   = "array-contains-any"
	OperatorIn                 = "in"
	OperatorNotIn              = "not-in"
)

// Snapshot is the stored state of a document at read time.
type Snapshot struct {
	ID         string
	Path       string
	Exists     bool
	Data       map[string]interface{}
	CreateTime time.Time
	UpdateTime time.Time
}

// Query builds and executes a document query. Builder methods return derived
// queries and leave the receiver untouched.
type Query interface {
	Where(field, operator string, value interface{}) Query
	OrderBy(field string, direction Direction) Query
	Limit(n int) Query
	Offset(n int) Query
	Documents(ctx context.Context) ([]*Snapshot, error)
}

// CollectionRef addresses one concrete collection instance.
type CollectionRef interface {
	Query
	Path() string
	// Doc addresses a document by id within this collection.
	Doc(id string) DocumentRef
	// NewDoc addresses a document with a fresh store-assigned id.
	NewDoc() DocumentRef
}

// DocumentRef addresses one document.
type DocumentRef interface {
	ID() string
	Path() string
	// Get reads the document. A missing document yields a NOT_FOUND error.
	Get(ctx context.Context) (*Snapshot, error)
	// Create writes a new document and fails with ALREADY_EXISTS if one is present.
	Create(ctx context.Context, data map[string]interface{}) error
	// Update patches an existing document and fails with NOT_FOUND if absent.
	Update(ctx context.Context, data map[string]interface{}) error
	Delete(ctx context.Context) error
}

// WriteTarget enqueues writes for a later atomic commit. It is satisfied by
// both Batch and Transaction so repository write variants can target either
// without caring which.
type WriteTarget interface {
	Create(ref DocumentRef, data map[string]interface{})
	Update(ref DocumentRef, data map[string]interface{})
	Delete(ref DocumentRef)
}

// Batch groups writes into a single atomic commit with no read dependency.
type Batch interface {
	WriteTarget
	Commit(ctx context.Context) error
}

// Transaction groups reads and writes with consistency guarantees. Writes are
// applied on commit by the store; contention surfaces as ABORTED.
type Transaction interface {
	WriteTarget
	Get(ref DocumentRef) (*Snapshot, error)
}

// Client is the root handle of a document store.
type Client interface {
	Collection(path string) CollectionRef
	CollectionGroup(name string) Query
	// Doc addresses a document by its full path ("companies/c1/transactions/t1").
	Doc(path string) DocumentRef
	Batch() Batch
	RunTransaction(ctx context.Context, fn func(ctx context.Context, tx Transaction) error) error
	Close(ctx context.Context) error
}
