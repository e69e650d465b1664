package memory

import (
	"context"
	"testing"
	"time"

	"github.com/lhpaul/finadmin/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateGetDelete(t *testing.T) {
	s := New()
	ctx := context.Background()

	ref := s.Collection("companies").Doc("c1")
	require.NoError(t, ref.Create(ctx, map[string]interface{}{"name": "Acme"}))

	snap, err := ref.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "c1", snap.ID)
	assert.Equal(t, "companies/c1", snap.Path)
	assert.Equal(t, "Acme", snap.Data["name"])

	// Duplicate create is rejected with the store's native conflict code.
	err = ref.Create(ctx, map[string]interface{}{"name": "Other"})
	assert.Equal(t, store.CodeAlreadyExists, store.CodeOf(err))

	require.NoError(t, ref.Delete(ctx))
	_, err = ref.Get(ctx)
	assert.Equal(t, store.CodeNotFound, store.CodeOf(err))
}

func TestUpdate(t *testing.T) {
	s := New()
	ctx := context.Background()
	ref := s.Collection("companies").Doc("c1")

	err := ref.Update(ctx, map[string]interface{}{"name": "Acme"})
	assert.Equal(t, store.CodeNotFound, store.CodeOf(err))

	require.NoError(t, ref.Create(ctx, map[string]interface{}{"name": "Acme", "active": true}))
	require.NoError(t, ref.Update(ctx, map[string]interface{}{"name": "Acme Corp"}))

	snap, err := ref.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", snap.Data["name"])
	assert.Equal(t, true, snap.Data["active"])
}

func TestServerTimestampMaterialization(t *testing.T) {
	s := New()
	ctx := context.Background()
	ref := s.Collection("companies").Doc("c1")

	before := time.Now()
	require.NoError(t, ref.Create(ctx, map[string]interface{}{
		"name":      "Acme",
		"createdAt": store.ServerTimestamp,
	}))

	snap, err := ref.Get(ctx)
	require.NoError(t, err)
	created, ok := snap.Data["createdAt"].(time.Time)
	require.True(t, ok, "sentinel should be replaced with a concrete time")
	assert.False(t, created.Before(before))
}

func TestNestedPathsAndCollectionGroup(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.Collection("companies/c1/transactions").Doc("t1").Create(ctx, map[string]interface{}{"amount": 10.0}))
	require.NoError(t, s.Collection("companies/c2/transactions").Doc("t2").Create(ctx, map[string]interface{}{"amount": 20.0}))
	require.NoError(t, s.Collection("companies").Doc("c1").Create(ctx, map[string]interface{}{"name": "Acme"}))

	// Scoped query sees only its own subtree.
	docs, err := s.Collection("companies/c1/transactions").Documents(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "t1", docs[0].ID)

	// The collection group spans every ancestor instance.
	docs, err = s.CollectionGroup("transactions").Documents(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	// Root collections are not swept into the group.
	docs, err = s.CollectionGroup("companies").Documents(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestQueryOperators(t *testing.T) {
	s := New()
	ctx := context.Background()
	col := s.Collection("transactions")
	require.NoError(t, col.Doc("a").Create(ctx, map[string]interface{}{"amount": 5.0, "tags": []interface{}{"food"}}))
	require.NoError(t, col.Doc("b").Create(ctx, map[string]interface{}{"amount": 15.0, "tags": []interface{}{"travel", "work"}}))
	require.NoError(t, col.Doc("c").Create(ctx, map[string]interface{}{"amount": 25.0, "tags": []interface{}{}}))

	cases := []struct {
		name     string
		build    func() store.Query
		expected []string
	}{
		{"equal", func() store.Query { return col.Where("amount", store.OperatorEqual, 15.0) }, []string{"b"}},
		{"not-equal", func() store.Query { return col.Where("amount", store.OperatorNotEqual, 15.0) }, []string{"a", "c"}},
		{"range", func() store.Query {
			return col.Where("amount", store.OperatorGreaterThanOrEqual, 5.0).
				Where("amount", store.OperatorLessThan, 25.0)
		}, []string{"a", "b"}},
		{"in", func() store.Query { return col.Where("amount", store.OperatorIn, []interface{}{5.0, 25.0}) }, []string{"a", "c"}},
		{"not-in", func() store.Query { return col.Where("amount", store.OperatorNotIn, []interface{}{5.0, 25.0}) }, []string{"b"}},
		{"array-contains", func() store.Query { return col.Where("tags", store.OperatorArrayContains, "work") }, []string{"b"}},
		{"array-contains-any", func() store.Query {
			return col.Where("tags", store.OperatorArrayContainsAny, []interface{}{"food", "work"})
		}, []string{"a", "b"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			docs, err := tc.build().Documents(ctx)
			require.NoError(t, err)
			ids := make([]string, 0, len(docs))
			for _, d := range docs {
				ids = append(ids, d.ID)
			}
			assert.ElementsMatch(t, tc.expected, ids)
		})
	}
}

func TestOrderLimitOffset(t *testing.T) {
	s := New()
	ctx := context.Background()
	col := s.Collection("transactions")
	require.NoError(t, col.Doc("a").Create(ctx, map[string]interface{}{"amount": 5.0}))
	require.NoError(t, col.Doc("b").Create(ctx, map[string]interface{}{"amount": 15.0}))
	require.NoError(t, col.Doc("c").Create(ctx, map[string]interface{}{"amount": 25.0}))

	docs, err := col.OrderBy("amount", store.Descending).Limit(2).Documents(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "c", docs[0].ID)
	assert.Equal(t, "b", docs[1].ID)

	docs, err = col.OrderBy("amount", store.Ascending).Offset(1).Limit(1).Documents(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "b", docs[0].ID)

	docs, err = col.Offset(10).Documents(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestQueryBuilderDoesNotMutateReceiver(t *testing.T) {
	s := New()
	ctx := context.Background()
	col := s.Collection("transactions")
	require.NoError(t, col.Doc("a").Create(ctx, map[string]interface{}{"amount": 5.0}))
	require.NoError(t, col.Doc("b").Create(ctx, map[string]interface{}{"amount": 15.0}))

	base := col.Where("amount", store.OperatorGreaterThan, 0.0)
	_ = base.Where("amount", store.OperatorGreaterThan, 10.0)

	docs, err := base.Documents(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, 2, "deriving a query must not narrow the base query")
}

func TestBatchAtomicity(t *testing.T) {
	s := New()
	ctx := context.Background()
	col := s.Collection("transactions")
	require.NoError(t, col.Doc("existing").Create(ctx, map[string]interface{}{"amount": 1.0}))

	b := s.Batch()
	b.Create(col.Doc("new"), map[string]interface{}{"amount": 2.0})
	b.Update(col.Doc("missing"), map[string]interface{}{"amount": 3.0})
	err := b.Commit(ctx)
	assert.Equal(t, store.CodeNotFound, store.CodeOf(err))

	// The failing update must keep the create from landing.
	_, err = col.Doc("new").Get(ctx)
	assert.Equal(t, store.CodeNotFound, store.CodeOf(err))

	b = s.Batch()
	b.Create(col.Doc("new"), map[string]interface{}{"amount": 2.0})
	b.Update(col.Doc("existing"), map[string]interface{}{"amount": 9.0})
	b.Delete(col.Doc("existing"))
	require.NoError(t, b.Commit(ctx))

	_, err = col.Doc("existing").Get(ctx)
	assert.Equal(t, store.CodeNotFound, store.CodeOf(err))
	snap, err := col.Doc("new").Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2.0, snap.Data["amount"])
}

func TestRunTransaction(t *testing.T) {
	s := New()
	ctx := context.Background()
	ref := s.Collection("counters").Doc("c1")
	require.NoError(t, ref.Create(ctx, map[string]interface{}{"value": 1.0}))

	err := s.RunTransaction(ctx, func(ctx context.Context, tx store.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}
		tx.Update(ref, map[string]interface{}{"value": snap.Data["value"].(float64) + 1})
		return nil
	})
	require.NoError(t, err)

	snap, err := ref.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2.0, snap.Data["value"])

	// A failing callback discards buffered writes.
	err = s.RunTransaction(ctx, func(ctx context.Context, tx store.Transaction) error {
		tx.Update(ref, map[string]interface{}{"value": 99.0})
		return store.NewError(store.CodeAborted, "contention")
	})
	assert.Equal(t, store.CodeAborted, store.CodeOf(err))
	snap, err = ref.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2.0, snap.Data["value"])
}

func TestDocByFullPath(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.Collection("companies/c1/transactions").Doc("t1").Create(ctx, map[string]interface{}{"amount": 1.0}))

	snap, err := s.Doc("companies/c1/transactions/t1").Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "t1", snap.ID)
}
