package memory

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/lhpaul/finadmin/internal/store"
)

type filter struct {
	field    string
	operator string
	value    interface{}
}

type order struct {
	field     string
	direction store.Direction
}

// query evaluates filters over the store under a read lock. Builder methods
// copy the receiver so derived queries never alias each other's clauses.
type query struct {
	store      *Store
	collection string // exact collection path; empty for group queries
	group      string // leaf collection name for cross-ancestor queries
	filters    []filter
	orders     []order
	limit      int
	offset     int
}

func (q *query) clone() *query {
	cp := *q
	cp.filters = append([]filter(nil), q.filters...)
	cp.orders = append([]order(nil), q.orders...)
	return &cp
}

func (q *query) Where(field, operator string, value interface{}) store.Query {
	cp := q.clone()
	cp.filters = append(cp.filters, filter{field: field, operator: operator, value: value})
	return cp
}

func (q *query) OrderBy(field string, direction store.Direction) store.Query {
	cp := q.clone()
	cp.orders = append(cp.orders, order{field: field, direction: direction})
	return cp
}

func (q *query) Limit(n int) store.Query {
	cp := q.clone()
	cp.limit = n
	return cp
}

func (q *query) Offset(n int) store.Query {
	cp := q.clone()
	cp.offset = n
	return cp
}

func (q *query) Documents(ctx context.Context) ([]*store.Snapshot, error) {
	q.store.mu.RLock()
	var matched []*store.Snapshot
	for path, rec := range q.store.docs {
		if !q.inScope(path) {
			continue
		}
		ok, err := q.matches(rec.data)
		if err != nil {
			q.store.mu.RUnlock()
			return nil, err
		}
		if ok {
			ref := &documentRef{store: q.store, path: path, id: path[strings.LastIndex(path, "/")+1:]}
			matched = append(matched, ref.snapshot(rec))
		}
	}
	q.store.mu.RUnlock()

	q.sortDocs(matched)
	if q.offset > 0 {
		if q.offset >= len(matched) {
			return nil, nil
		}
		matched = matched[q.offset:]
	}
	if q.limit > 0 && len(matched) > q.limit {
		matched = matched[:q.limit]
	}
	return matched, nil
}

func (q *query) inScope(docPath string) bool {
	if q.collection != "" {
		rest, found := strings.CutPrefix(docPath, q.collection+"/")
		return found && !strings.Contains(rest, "/")
	}
	segments := strings.Split(docPath, "/")
	// Document paths alternate collection/document; the parent collection name
	// sits immediately before the leaf id.
	return len(segments) >= 2 && segments[len(segments)-2] == q.group
}

func (q *query) matches(data map[string]interface{}) (bool, error) {
	for _, f := range q.filters {
		ok, err := evaluate(data[f.field], f.operator, f.value)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func (q *query) sortDocs(docs []*store.Snapshot) {
	if len(q.orders) == 0 {
		// Deterministic fallback ordering by path.
		sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })
		return
	}
	sort.SliceStable(docs, func(i, j int) bool {
		for _, o := range q.orders {
			cmp, ok := compareValues(docs[i].Data[o.field], docs[j].Data[o.field])
			if !ok || cmp == 0 {
				continue
			}
			if o.direction == store.Descending {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
}

func evaluate(fieldValue interface{}, operator string, expected interface{}) (bool, error) {
	switch operator {
	case store.OperatorEqual:
		return valuesEqual(fieldValue, expected), nil
	case store.OperatorNotEqual:
		return !valuesEqual(fieldValue, expected), nil
	case store.OperatorLessThan, store.OperatorLessThanOrEqual,
		store.OperatorGreaterThan, store.OperatorGreaterThanOrEqual:
		cmp, ok := compareValues(fieldValue, expected)
		if !ok {
			return false, nil
		}
		switch operator {
		case store.OperatorLessThan:
			return cmp < 0, nil
		case store.OperatorLessThanOrEqual:
			return cmp <= 0, nil
		case store.OperatorGreaterThan:
			return cmp > 0, nil
		default:
			return cmp >= 0, nil
		}
	case store.OperatorArrayContains:
		for _, item := range asSlice(fieldValue) {
			if valuesEqual(item, expected) {
				return true, nil
			}
		}
		return false, nil
	case store.OperatorArrayContainsAny:
		for _, item := range asSlice(fieldValue) {
			for _, want := range asSlice(expected) {
				if valuesEqual(item, want) {
					return true, nil
				}
			}
		}
		return false, nil
	case store.OperatorIn:
		for _, want := range asSlice(expected) {
			if valuesEqual(fieldValue, want) {
				return true, nil
			}
		}
		return false, nil
	case store.OperatorNotIn:
		for _, want := range asSlice(expected) {
			if valuesEqual(fieldValue, want) {
				return false, nil
			}
		}
		return true, nil
	default:
		return false, store.NewError(store.CodeInvalidArgument, fmt.Sprintf("unsupported operator %q", operator))
	}
}

func asSlice(v interface{}) []interface{} {
	if v == nil {
		return nil
	}
	if s, ok := v.([]interface{}); ok {
		return s
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil
	}
	out := make([]interface{}, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

func valuesEqual(a, b interface{}) bool {
	if cmp, ok := compareValues(a, b); ok {
		return cmp == 0
	}
	return reflect.DeepEqual(a, b)
}

// compareValues orders two values of compatible type. Numeric types compare
// across int/float representations the way the backing store would.
func compareValues(a, b interface{}) (int, bool) {
	if at, ok := a.(time.Time); ok {
		if bt, ok := b.(time.Time); ok {
			return at.Compare(bt), true
		}
		return 0, false
	}
	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			return strings.Compare(as, bs), true
		}
		return 0, false
	}
	if ab, ok := a.(bool); ok {
		if bb, ok := b.(bool); ok {
			switch {
			case ab == bb:
				return 0, true
			case !ab:
				return -1, true
			default:
				return 1, true
			}
		}
		return 0, false
	}
	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	if aok && bok {
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		default:
			return 0, true
		}
	}
	return 0, false
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
