package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lhpaul/finadmin/internal/shared/errors"
	"github.com/lhpaul/finadmin/internal/shared/execlog"
	"github.com/lhpaul/finadmin/internal/shared/logger"
	"github.com/lhpaul/finadmin/internal/store/memory"
)

type testCompany struct {
	Name string `json:"name"`
}

type testTransaction struct {
	CompanyID   string  `json:"companyId"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

func newCompanyRepo(t *testing.T, s *memory.Store) *Repository[testCompany] {
	t.Helper()
	repo, err := New[testCompany](s, "companies", logger.Noop())
	require.NoError(t, err)
	return repo.WithRetryPolicy(fastPolicy)
}

func newTransactionRepo(t *testing.T, s *memory.Store) *Repository[testTransaction] {
	t.Helper()
	repo, err := New[testTransaction](s, "companies/{companyId}/transactions", logger.Noop())
	require.NoError(t, err)
	return repo.WithRetryPolicy(fastPolicy)
}

func mustCreateCompany(t *testing.T, s *memory.Store, id string) {
	t.Helper()
	require.NoError(t, s.Doc("companies/"+id).Create(context.Background(), map[string]interface{}{"name": id}))
}

func TestRepository_CreateAndGet_Root(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	repo := newCompanyRepo(t, s)

	id, err := repo.Create(ctx, execlog.NoopLogger{}, testCompany{Name: "Acme"}, nil)
	require.NoError(t, err)
	require.NotEmpty(t, id)
	assert.NotContains(t, id, IDSeparator+IDSeparator)

	doc, err := repo.Get(ctx, execlog.NoopLogger{}, id)
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, id, doc.ID)
	assert.Equal(t, "Acme", doc.Data.Name)
	assert.False(t, doc.CreatedAt.IsZero())
	assert.False(t, doc.UpdatedAt.IsZero())
}

func TestRepository_Create_PinnedID(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	repo := newCompanyRepo(t, s)

	id, err := repo.Create(ctx, execlog.NoopLogger{}, testCompany{Name: "Acme"}, &CreateOptions{ID: "acme"})
	require.NoError(t, err)
	assert.Equal(t, "acme", id)
}

func TestRepository_Create_Nested(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	mustCreateCompany(t, s, "c1")
	repo := newTransactionRepo(t, s)

	id, err := repo.Create(ctx, execlog.NoopLogger{}, testTransaction{
		CompanyID:   "c1",
		Amount:      99.5,
		Description: "office chairs",
	}, nil)
	require.NoError(t, err)

	ancestors, _, err := DecodeID(id, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"c1"}, ancestors)

	doc, err := repo.Get(ctx, execlog.NoopLogger{}, id)
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "c1", doc.Data.CompanyID)
	assert.Equal(t, 99.5, doc.Data.Amount)
}

func TestRepository_Create_ParentMissing(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	repo := newTransactionRepo(t, s)

	before := s.Len()
	_, err := repo.Create(ctx, execlog.NoopLogger{}, testTransaction{CompanyID: "ghost", Amount: 1}, nil)
	assert.Equal(t, errors.CodeRelatedDocumentNotFound, errors.CodeOf(err))
	// The failed create must not leave a child behind.
	assert.Equal(t, before, s.Len())
}

func TestRepository_Create_MissingAncestorField(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	repo := newTransactionRepo(t, s)

	_, err := repo.Create(ctx, execlog.NoopLogger{}, testTransaction{Amount: 1}, nil)
	assert.Equal(t, errors.CodeMissingAncestorID, errors.CodeOf(err))
}

func TestRepository_Get_Missing(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	repo := newCompanyRepo(t, s)

	doc, err := repo.Get(ctx, execlog.NoopLogger{}, "nope")
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestRepository_Get_MalformedID(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	repo := newTransactionRepo(t, s)

	_, err := repo.Get(ctx, execlog.NoopLogger{}, "missing-separator")
	assert.Equal(t, errors.CodeMalformedID, errors.CodeOf(err))
}

func TestRepository_Update(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	mustCreateCompany(t, s, "c1")
	repo := newTransactionRepo(t, s)

	id, err := repo.Create(ctx, execlog.NoopLogger{}, testTransaction{CompanyID: "c1", Amount: 10, Description: "old"}, nil)
	require.NoError(t, err)
	created, err := repo.Get(ctx, execlog.NoopLogger{}, id)
	require.NoError(t, err)

	time.Sleep(2 * time.Millisecond)
	require.NoError(t, repo.Update(ctx, execlog.NoopLogger{}, id, Patch{"description": "new"}, nil))

	updated, err := repo.Get(ctx, execlog.NoopLogger{}, id)
	require.NoError(t, err)
	assert.Equal(t, "new", updated.Data.Description)
	assert.Equal(t, 10.0, updated.Data.Amount)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
}

func TestRepository_Update_SkipTimestamp(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	repo := newCompanyRepo(t, s)

	id, err := repo.Create(ctx, execlog.NoopLogger{}, testCompany{Name: "Acme"}, nil)
	require.NoError(t, err)
	created, err := repo.Get(ctx, execlog.NoopLogger{}, id)
	require.NoError(t, err)

	time.Sleep(2 * time.Millisecond)
	require.NoError(t, repo.Update(ctx, execlog.NoopLogger{}, id, Patch{"name": "Acme Corp"}, &UpdateOptions{SkipUpdateTimestamp: true}))

	updated, err := repo.Get(ctx, execlog.NoopLogger{}, id)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", updated.Data.Name)
	assert.Equal(t, created.UpdatedAt, updated.UpdatedAt)
}

func TestRepository_Update_Missing(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	repo := newCompanyRepo(t, s)

	err := repo.Update(ctx, execlog.NoopLogger{}, "ghost", Patch{"name": "x"}, nil)
	assert.Equal(t, errors.CodeDocumentNotFound, errors.CodeOf(err))
}

func TestRepository_Delete(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	repo := newCompanyRepo(t, s)

	id, err := repo.Create(ctx, execlog.NoopLogger{}, testCompany{Name: "Acme"}, nil)
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, execlog.NoopLogger{}, id))

	doc, err := repo.Get(ctx, execlog.NoopLogger{}, id)
	require.NoError(t, err)
	assert.Nil(t, doc)

	err = repo.Delete(ctx, execlog.NoopLogger{}, id)
	assert.Equal(t, errors.CodeDocumentNotFound, errors.CodeOf(err))
}

func TestRepository_List_Scoped(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	mustCreateCompany(t, s, "c1")
	mustCreateCompany(t, s, "c2")
	repo := newTransactionRepo(t, s)

	_, err := repo.Create(ctx, execlog.NoopLogger{}, testTransaction{CompanyID: "c1", Amount: 10}, nil)
	require.NoError(t, err)
	_, err = repo.Create(ctx, execlog.NoopLogger{}, testTransaction{CompanyID: "c1", Amount: 20}, nil)
	require.NoError(t, err)
	_, err = repo.Create(ctx, execlog.NoopLogger{}, testTransaction{CompanyID: "c2", Amount: 30}, nil)
	require.NoError(t, err)

	docs, err := repo.List(ctx, execlog.NoopLogger{}, Query{"companyId": Equal("c1")}, nil)
	require.NoError(t, err)
	assert.Len(t, docs, 2)
	for _, doc := range docs {
		assert.Equal(t, "c1", doc.Data.CompanyID)
		ancestors, _, err := DecodeID(doc.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, []string{"c1"}, ancestors)
	}
}

func TestRepository_List_CollectionGroup(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	mustCreateCompany(t, s, "c1")
	mustCreateCompany(t, s, "c2")
	repo := newTransactionRepo(t, s)

	_, err := repo.Create(ctx, execlog.NoopLogger{}, testTransaction{CompanyID: "c1", Amount: 10}, nil)
	require.NoError(t, err)
	_, err = repo.Create(ctx, execlog.NoopLogger{}, testTransaction{CompanyID: "c2", Amount: 30}, nil)
	require.NoError(t, err)

	docs, err := repo.List(ctx, execlog.NoopLogger{}, Query{}, nil)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	// Compound ids carry each document's own ancestor chain.
	seen := map[string]bool{}
	for _, doc := range docs {
		ancestors, _, err := DecodeID(doc.ID, 1)
		require.NoError(t, err)
		require.Len(t, ancestors, 1)
		seen[ancestors[0]] = true
	}
	assert.True(t, seen["c1"])
	assert.True(t, seen["c2"])
}

func TestRepository_SyncVariants_Batch(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	mustCreateCompany(t, s, "c1")
	repo := newTransactionRepo(t, s)

	existing, err := repo.Create(ctx, execlog.NoopLogger{}, testTransaction{CompanyID: "c1", Amount: 5, Description: "keep"}, nil)
	require.NoError(t, err)
	doomed, err := repo.Create(ctx, execlog.NoopLogger{}, testTransaction{CompanyID: "c1", Amount: 6, Description: "drop"}, nil)
	require.NoError(t, err)

	b := s.Batch()
	createdID, err := repo.CreateSync(execlog.NoopLogger{}, testTransaction{CompanyID: "c1", Amount: 7, Description: "added"}, b, nil)
	require.NoError(t, err)
	require.NoError(t, repo.UpdateSync(execlog.NoopLogger{}, existing, Patch{"description": "kept"}, b, nil))
	require.NoError(t, repo.DeleteSync(execlog.NoopLogger{}, doomed, b))

	// Nothing is visible until the caller commits.
	doc, err := repo.Get(ctx, execlog.NoopLogger{}, createdID)
	require.NoError(t, err)
	assert.Nil(t, doc)

	require.NoError(t, b.Commit(ctx))

	doc, err = repo.Get(ctx, execlog.NoopLogger{}, createdID)
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "added", doc.Data.Description)

	doc, err = repo.Get(ctx, execlog.NoopLogger{}, existing)
	require.NoError(t, err)
	assert.Equal(t, "kept", doc.Data.Description)

	doc, err = repo.Get(ctx, execlog.NoopLogger{}, doomed)
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestRegistry(t *testing.T) {
	s := memory.New()
	reg := NewRegistry()

	companies := newCompanyRepo(t, s)
	require.NoError(t, Register(reg, companies))

	err := Register(reg, companies)
	assert.Equal(t, errors.CodeConflict, errors.CodeOf(err))

	got, err := Lookup[testCompany](reg, "companies")
	require.NoError(t, err)
	assert.Same(t, companies, got)

	_, err = Lookup[testCompany](reg, "unknown")
	assert.Equal(t, errors.CodeInternal, errors.CodeOf(err))

	_, err = Lookup[testTransaction](reg, "companies")
	assert.Equal(t, errors.CodeInternal, errors.CodeOf(err))
}
