package repository

import (
	"github.com/lhpaul/finadmin/internal/store"
)

// Condition is one field predicate. Operator values are the store operators.
type Condition struct {
	Operator string
	Value    interface{}
}

// Query maps field names to one or more conditions, all ANDed. Multiple
// conditions on the same field express ranges, e.g. date >= X and date <= Y.
type Query map[string][]Condition

// Order is one ordering clause.
type Order struct {
	Field     string
	Direction store.Direction
}

// ListOptions carries ordering and pagination for list operations.
type ListOptions struct {
	OrderBy []Order
	Limit   int
	Offset  int
}

// Equal is shorthand for a single equality condition.
func Equal(value interface{}) []Condition {
	return []Condition{{Operator: store.OperatorEqual, Value: value}}
}

// splitAncestorConditions extracts ancestor-scoping ids from a query: an
// equality condition whose field is one of the template's ancestor labels is
// used for path scoping instead of being passed through as a where clause.
func splitAncestorConditions(labels []string, q Query) (map[string]string, Query) {
	labelSet := make(map[string]bool, len(labels))
	for _, l := range labels {
		labelSet[l] = true
	}
	ancestors := make(map[string]string)
	rest := make(Query, len(q))
	for field, conditions := range q {
		if labelSet[field] {
			var kept []Condition
			for _, c := range conditions {
				if id, ok := c.Value.(string); ok && c.Operator == store.OperatorEqual && id != "" {
					ancestors[field] = id
					continue
				}
				kept = append(kept, c)
			}
			if len(kept) > 0 {
				rest[field] = kept
			}
			continue
		}
		rest[field] = conditions
	}
	return ancestors, rest
}

// translateQuery converts an abstract query into a native store query.
// A nested template with zero extractable ancestor ids becomes a
// cross-ancestor collection-group query over the leaf collection name;
// any extractable ancestor id switches to a scoped collection query.
func translateQuery(client store.Client, path CollectionPath, q Query, opts *ListOptions) (store.Query, error) {
	ancestors, rest := splitAncestorConditions(path.AncestorLabels(), q)

	var native store.Query
	switch {
	case !path.IsNested():
		native = client.Collection(path.Raw())
	case len(ancestors) == 0:
		native = client.CollectionGroup(path.LeafCollection())
	default:
		concrete, err := path.Resolve(ancestors)
		if err != nil {
			return nil, err
		}
		native = client.Collection(concrete)
	}

	for field, conditions := range rest {
		for _, c := range conditions {
			native = native.Where(field, c.Operator, c.Value)
		}
	}
	if opts != nil {
		for _, o := range opts.OrderBy {
			native = native.OrderBy(o.Field, o.Direction)
		}
		if opts.Limit > 0 {
			native = native.Limit(opts.Limit)
		}
		if opts.Offset > 0 {
			native = native.Offset(opts.Offset)
		}
	}
	return native, nil
}
