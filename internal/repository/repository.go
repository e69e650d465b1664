// Package repository implements the generic CRUD facade over the document
// store: compound-id addressing of nested documents, transient-error retries,
// abstract-to-native query translation and batch/transaction write variants.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lhpaul/finadmin/internal/shared/errors"
	"github.com/lhpaul/finadmin/internal/shared/execlog"
	"github.com/lhpaul/finadmin/internal/shared/logger"
	"github.com/lhpaul/finadmin/internal/store"
)

const (
	createdAtField = "createdAt"
	updatedAtField = "updatedAt"

	stepCheckParent = "check_parent"
	stepWrite       = "write"
	stepRead        = "read"
	stepQuery       = "query"
)

// Document is a stored entity: the compound id, the store-assigned
// timestamps and the entity payload.
type Document[T any] struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time
	Data      T
}

// CreateOptions tunes document creation.
type CreateOptions struct {
	// ID pins the leaf document id instead of letting the store assign one.
	ID string
}

// UpdateOptions tunes document updates.
type UpdateOptions struct {
	// SkipUpdateTimestamp suppresses the automatic updatedAt refresh.
	SkipUpdateTimestamp bool
}

// Patch is a partial update: field name to new value.
type Patch map[string]interface{}

// Repository is the CRUD facade for one collection path template. Ancestor
// ids travel inside the entity payload (for creates) or the compound id (for
// reads and writes by id); the repository itself holds no per-call state.
type Repository[T any] struct {
	client store.Client
	path   CollectionPath
	policy RetryPolicy
	log    logger.Logger
}

// New builds a repository for a collection path template such as
// "companies/{companyId}/transactions". The template is parsed once here;
// a malformed template fails fast with INVALID_COLLECTION_PATH.
func New[T any](client store.Client, collectionPath string, log logger.Logger) (*Repository[T], error) {
	parsed, err := ParseCollectionPath(collectionPath)
	if err != nil {
		return nil, err
	}
	return &Repository[T]{
		client: client,
		path:   parsed,
		policy: DefaultRetryPolicy,
		log:    log.WithComponent("repository." + parsed.LeafCollection()),
	}, nil
}

// WithRetryPolicy overrides the default transient-error retry policy.
func (r *Repository[T]) WithRetryPolicy(policy RetryPolicy) *Repository[T] {
	r.policy = policy
	return r
}

// Path exposes the parsed template, mainly for registries and diagnostics.
func (r *Repository[T]) Path() CollectionPath { return r.path }

// Create writes a new document and returns its compound id. For nested
// templates the immediate parent document must exist; otherwise the create
// fails with RELATED_DOCUMENT_NOT_FOUND and nothing is written.
func (r *Repository[T]) Create(ctx context.Context, el execlog.ExecutionLogger, data T, opts *CreateOptions) (string, error) {
	payload, ancestors, err := r.prepareCreate(data)
	if err != nil {
		return "", err
	}

	return RunWithRetry(ctx, el, r.policy, func(ctx context.Context) (string, error) {
		if r.path.IsNested() {
			el.StartStep(stepCheckParent)
			parentPath, err := r.path.ParentDocumentPath(ancestors)
			if err != nil {
				el.EndStep(stepCheckParent)
				return "", err
			}
			_, err = r.client.Doc(parentPath).Get(ctx)
			el.EndStep(stepCheckParent)
			if store.IsNotFound(err) {
				return "", errors.NewRelatedDocumentNotFound(parentPath)
			}
			if err != nil {
				return "", err
			}
		}

		el.StartStep(stepWrite)
		defer el.EndStep(stepWrite)
		ref, err := r.docRefForCreate(ancestors, opts)
		if err != nil {
			return "", err
		}
		if err := ref.Create(ctx, payload); err != nil {
			return "", err
		}
		ordered, err := r.path.AncestorValues(ancestors)
		if err != nil {
			return "", err
		}
		return EncodeID(ordered, ref.ID()), nil
	})
}

// CreateSync prepares the same write as Create but enqueues it on the
// caller's batch or transaction. The caller owns commit and retry, so no
// parent check, retry wrapper or error translation applies here.
func (r *Repository[T]) CreateSync(el execlog.ExecutionLogger, data T, target store.WriteTarget, opts *CreateOptions) (string, error) {
	payload, ancestors, err := r.prepareCreate(data)
	if err != nil {
		return "", err
	}
	ref, err := r.docRefForCreate(ancestors, opts)
	if err != nil {
		return "", err
	}
	target.Create(ref, payload)
	ordered, err := r.path.AncestorValues(ancestors)
	if err != nil {
		return "", err
	}
	return EncodeID(ordered, ref.ID()), nil
}

// Get reads a document by compound id. A missing document yields (nil, nil).
func (r *Repository[T]) Get(ctx context.Context, el execlog.ExecutionLogger, id string) (*Document[T], error) {
	ref, err := r.docRef(id)
	if err != nil {
		return nil, err
	}
	snap, err := RunWithRetry(ctx, el, r.policy, func(ctx context.Context) (*store.Snapshot, error) {
		el.StartStep(stepRead)
		defer el.EndStep(stepRead)
		return ref.Get(ctx)
	})
	if store.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r.decodeSnapshot(snap)
}

// List runs an abstract query against the collection. Ancestor-label
// equality conditions scope the path; with none present on a nested
// template the query spans every ancestor instance (collection group).
func (r *Repository[T]) List(ctx context.Context, el execlog.ExecutionLogger, q Query, opts *ListOptions) ([]*Document[T], error) {
	native, err := translateQuery(r.client, r.path, q, opts)
	if err != nil {
		return nil, err
	}
	snaps, err := RunWithRetry(ctx, el, r.policy, func(ctx context.Context) ([]*store.Snapshot, error) {
		el.StartStep(stepQuery)
		defer el.EndStep(stepQuery)
		return native.Documents(ctx)
	})
	if err != nil {
		return nil, err
	}
	docs := make([]*Document[T], 0, len(snaps))
	for _, snap := range snaps {
		doc, err := r.decodeSnapshot(snap)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// Update patches a document by compound id, refreshing updatedAt unless
// suppressed. A missing target surfaces as DOCUMENT_NOT_FOUND; every other
// store error passes through unmodified.
func (r *Repository[T]) Update(ctx context.Context, el execlog.ExecutionLogger, id string, patch Patch, opts *UpdateOptions) error {
	ref, err := r.docRef(id)
	if err != nil {
		return err
	}
	payload := preparePatch(patch, opts)
	_, err = RunWithRetry(ctx, el, r.policy, func(ctx context.Context) (struct{}, error) {
		el.StartStep(stepWrite)
		defer el.EndStep(stepWrite)
		return struct{}{}, ref.Update(ctx, payload)
	})
	if store.IsNotFound(err) {
		return errors.NewDocumentNotFound(id)
	}
	return err
}

// UpdateSync enqueues the same patch on the caller's batch or transaction.
func (r *Repository[T]) UpdateSync(el execlog.ExecutionLogger, id string, patch Patch, target store.WriteTarget, opts *UpdateOptions) error {
	ref, err := r.docRef(id)
	if err != nil {
		return err
	}
	target.Update(ref, preparePatch(patch, opts))
	return nil
}

// Delete removes a document by compound id through the retry wrapper.
func (r *Repository[T]) Delete(ctx context.Context, el execlog.ExecutionLogger, id string) error {
	ref, err := r.docRef(id)
	if err != nil {
		return err
	}
	_, err = RunWithRetry(ctx, el, r.policy, func(ctx context.Context) (struct{}, error) {
		el.StartStep(stepWrite)
		defer el.EndStep(stepWrite)
		return struct{}{}, ref.Delete(ctx)
	})
	if store.IsNotFound(err) {
		return errors.NewDocumentNotFound(id)
	}
	return err
}

// DeleteSync enqueues the delete on the caller's batch or transaction.
func (r *Repository[T]) DeleteSync(el execlog.ExecutionLogger, id string, target store.WriteTarget) error {
	ref, err := r.docRef(id)
	if err != nil {
		return err
	}
	target.Delete(ref)
	return nil
}

// internals

// prepareCreate encodes the entity and pulls the ancestor ids out of its own
// fields: a nested template expects the payload to carry every ancestor
// label (e.g. companyId) as a non-empty string.
func (r *Repository[T]) prepareCreate(data T) (map[string]interface{}, map[string]string, error) {
	payload, err := structToMap(data)
	if err != nil {
		return nil, nil, err
	}
	ancestors := make(map[string]string)
	for _, label := range r.path.AncestorLabels() {
		id, _ := payload[label].(string)
		if id == "" {
			return nil, nil, errors.NewMissingAncestorID(label)
		}
		ancestors[label] = id
	}
	payload[createdAtField] = store.ServerTimestamp
	payload[updatedAtField] = store.ServerTimestamp
	return payload, ancestors, nil
}

func (r *Repository[T]) docRefForCreate(ancestors map[string]string, opts *CreateOptions) (store.DocumentRef, error) {
	concrete, err := r.path.Resolve(ancestors)
	if err != nil {
		return nil, err
	}
	col := r.client.Collection(concrete)
	if opts != nil && opts.ID != "" {
		return col.Doc(opts.ID), nil
	}
	return col.NewDoc(), nil
}

// docRef resolves a compound id to its document reference.
func (r *Repository[T]) docRef(id string) (store.DocumentRef, error) {
	ancestors, leaf, err := DecodeID(id, r.path.Depth())
	if err != nil {
		return nil, err
	}
	concrete, err := r.path.ResolveOrdered(ancestors)
	if err != nil {
		return nil, err
	}
	return r.client.Collection(concrete).Doc(leaf), nil
}

// decodeSnapshot maps a store snapshot back into a typed document. Ancestor
// ids for the compound id come from the snapshot path, which also covers
// collection-group results where the query carried no ancestor scope.
func (r *Repository[T]) decodeSnapshot(snap *store.Snapshot) (*Document[T], error) {
	doc := &Document[T]{}
	data := make(map[string]interface{}, len(snap.Data))
	for k, v := range snap.Data {
		data[k] = v
	}
	doc.CreatedAt = extractTime(data, createdAtField, snap.CreateTime)
	doc.UpdatedAt = extractTime(data, updatedAtField, snap.UpdateTime)
	delete(data, createdAtField)
	delete(data, updatedAtField)

	if err := mapToStruct(data, &doc.Data); err != nil {
		return nil, err
	}
	doc.ID = EncodeID(ancestorIDsFromPath(snap.Path), snap.ID)
	return doc, nil
}

// ancestorIDsFromPath pulls the ancestor document ids out of a full document
// path: for "companies/c1/transactions/t1" that is ["c1"].
func ancestorIDsFromPath(docPath string) []string {
	segments := strings.Split(strings.Trim(docPath, "/"), "/")
	var ids []string
	// Document ids sit at odd positions; the last one is the leaf itself.
	for i := 1; i < len(segments)-1; i += 2 {
		ids = append(ids, segments[i])
	}
	return ids
}

func preparePatch(patch Patch, opts *UpdateOptions) map[string]interface{} {
	payload := make(map[string]interface{}, len(patch)+1)
	for k, v := range patch {
		payload[k] = v
	}
	if opts == nil || !opts.SkipUpdateTimestamp {
		payload[updatedAtField] = store.ServerTimestamp
	}
	return payload
}

func extractTime(data map[string]interface{}, field string, fallback time.Time) time.Time {
	switch v := data[field].(type) {
	case time.Time:
		return v
	case string:
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return t
		}
	}
	return fallback
}

// structToMap and mapToStruct round-trip entities through their JSON field
// names so the stored shape matches the API schema field-for-field.
func structToMap(v interface{}) (map[string]interface{}, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding entity: %w", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("encoding entity: %w", err)
	}
	return m, nil
}

func mapToStruct(m map[string]interface{}, out interface{}) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("decoding entity: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding entity: %w", err)
	}
	return nil
}
