package mongodb

import (
	"context"

	"github.com/lhpaul/finadmin/internal/store"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type whereClause struct {
	field    string
	operator string
	value    interface{}
}

type orderClause struct {
	field     string
	direction store.Direction
}

// query translates the store query surface into a mongo Find. A non-empty
// parentPath scopes the query to one collection instance; without it the
// query spans the whole mongo collection, which holds every instance of the
// leaf collection name (the collection-group case).
type query struct {
	client     *Client
	name       string
	parentPath string
	wheres     []whereClause
	orders     []orderClause
	limit      int
	offset     int
}

func (q *query) clone() *query {
	cp := *q
	cp.wheres = append([]whereClause(nil), q.wheres...)
	cp.orders = append([]orderClause(nil), q.orders...)
	return &cp
}

func (q *query) Where(field, operator string, value interface{}) store.Query {
	cp := q.clone()
	cp.wheres = append(cp.wheres, whereClause{field: field, operator: operator, value: value})
	return cp
}

func (q *query) OrderBy(field string, direction store.Direction) store.Query {
	cp := q.clone()
	cp.orders = append(cp.orders, orderClause{field: field, direction: direction})
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
	filter := q.buildFilter()
	cur, err := q.client.db.Collection(q.name).Find(ctx, filter, q.buildFindOptions())
	if err != nil {
		return nil, translateError(err)
	}
	defer cur.Close(ctx)

	var snapshots []*store.Snapshot
	for cur.Next(ctx) {
		var doc storedDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, translateError(err)
		}
		snapshots = append(snapshots, snapshotOf(&doc))
	}
	if err := cur.Err(); err != nil {
		return nil, translateError(err)
	}
	return snapshots, nil
}

func (q *query) buildFilter() bson.M {
	var clauses []bson.M
	if q.parentPath != "" {
		clauses = append(clauses, bson.M{"parent_path": q.parentPath})
	}
	for _, w := range q.wheres {
		clauses = append(clauses, singleFilter(w))
	}
	switch len(clauses) {
	case 0:
		return bson.M{}
	case 1:
		return clauses[0]
	default:
		return bson.M{"$and": clauses}
	}
}

func singleFilter(w whereClause) bson.M {
	fieldPath := "data." + w.field
	switch w.operator {
	case store.OperatorEqual:
		return bson.M{fieldPath: w.value}
	case store.OperatorNotEqual:
		return bson.M{fieldPath: bson.M{"$ne": w.value}}
	case store.OperatorGreaterThan:
		return bson.M{fieldPath: bson.M{"$gt": w.value}}
	case store.OperatorGreaterThanOrEqual:
		return bson.M{fieldPath: bson.M{"$gte": w.value}}
	case store.OperatorLessThan:
		return bson.M{fieldPath: bson.M{"$lt": w.value}}
	case store.OperatorLessThanOrEqual:
		return bson.M{fieldPath: bson.M{"$lte": w.value}}
	case store.OperatorIn:
		return bson.M{fieldPath: bson.M{"$in": w.value}}
	case store.OperatorNotIn:
		return bson.M{fieldPath: bson.M{"$nin": w.value}}
	case store.OperatorArrayContains:
		return bson.M{fieldPath: bson.M{"$elemMatch": bson.M{"$eq": w.value}}}
	case store.OperatorArrayContainsAny:
		return bson.M{fieldPath: bson.M{"$in": w.value}}
	default:
		return bson.M{fieldPath: w.value}
	}
}

func (q *query) buildFindOptions() *options.FindOptions {
	opts := options.Find()
	if len(q.orders) > 0 {
		sort := bson.D{}
		for _, o := range q.orders {
			dir := 1
			if o.direction == store.Descending {
				dir = -1
			}
			sort = append(sort, bson.E{Key: "data." + o.field, Value: dir})
		}
		opts.SetSort(sort)
	}
	if q.offset > 0 {
		opts.SetSkip(int64(q.offset))
	}
	if q.limit > 0 {
		opts.SetLimit(int64(q.limit))
	}
	return opts
}
