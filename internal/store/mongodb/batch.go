package mongodb

import (
	"context"
	"fmt"

	"github.com/lhpaul/finadmin/internal/store"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

type bufferedWrite struct {
	kind string // "create", "update", "delete"
	ref  store.DocumentRef
	data map[string]interface{}
}

// batch buffers writes and commits them inside one mongo transaction so the
// group lands atomically, matching the store contract.
type batch struct {
	client *Client
	writes []bufferedWrite
}

func (b *batch) Create(ref store.DocumentRef, data map[string]interface{}) {
	b.writes = append(b.writes, bufferedWrite{kind: "create", ref: ref, data: data})
}

func (b *batch) Update(ref store.DocumentRef, data map[string]interface{}) {
	b.writes = append(b.writes, bufferedWrite{kind: "update", ref: ref, data: data})
}

func (b *batch) Delete(ref store.DocumentRef) {
	b.writes = append(b.writes, bufferedWrite{kind: "delete", ref: ref})
}

func (b *batch) Commit(ctx context.Context) error {
	writes := b.writes
	b.writes = nil
	if len(writes) == 0 {
		return nil
	}
	return b.client.withSession(ctx, func(ctx context.Context) error {
		return applyWrites(ctx, writes)
	})
}

func applyWrites(ctx context.Context, writes []bufferedWrite) error {
	for i, w := range writes {
		var err error
		switch w.kind {
		case "create":
			err = w.ref.Create(ctx, w.data)
		case "update":
			err = w.ref.Update(ctx, w.data)
		case "delete":
			err = w.ref.Delete(ctx)
		}
		if err != nil {
			return fmt.Errorf("write %d (%s %s): %w", i, w.kind, w.ref.Path(), err)
		}
	}
	return nil
}

// RunTransaction executes fn inside a mongo session transaction. Buffered
// writes apply after fn succeeds, still within the session, so contention
// surfaces as ABORTED and the retry runner can re-drive the whole callback.
func (c *Client) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx store.Transaction) error) error {
	session, err := c.db.Client().StartSession()
	if err != nil {
		return translateError(err)
	}
	defer session.EndSession(ctx)

	txnOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())
	_, err = session.WithTransaction(ctx, func(sctx mongo.SessionContext) (interface{}, error) {
		tx := &transaction{ctx: sctx}
		if err := fn(sctx, tx); err != nil {
			return nil, err
		}
		return nil, applyWrites(sctx, tx.writes)
	}, txnOpts)
	if err != nil {
		return translateError(err)
	}
	return nil
}

func (c *Client) withSession(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := c.db.Client().StartSession()
	if err != nil {
		return translateError(err)
	}
	defer session.EndSession(ctx)

	txnOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())
	_, err = session.WithTransaction(ctx, func(sctx mongo.SessionContext) (interface{}, error) {
		return nil, fn(sctx)
	}, txnOpts)
	if err != nil {
		return translateError(err)
	}
	return nil
}

// transaction buffers writes issued by a RunTransaction callback. Reads go
// straight through on the session context.
type transaction struct {
	ctx    context.Context
	writes []bufferedWrite
}

func (t *transaction) Get(ref store.DocumentRef) (*store.Snapshot, error) {
	return ref.Get(t.ctx)
}

func (t *transaction) Create(ref store.DocumentRef, data map[string]interface{}) {
	t.writes = append(t.writes, bufferedWrite{kind: "create", ref: ref, data: data})
}

func (t *transaction) Update(ref store.DocumentRef, data map[string]interface{}) {
	t.writes = append(t.writes, bufferedWrite{kind: "update", ref: ref, data: data})
}

func (t *transaction) Delete(ref store.DocumentRef) {
	t.writes = append(t.writes, bufferedWrite{kind: "delete", ref: ref})
}
