package usecase

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/lhpaul/finadmin/internal/admin/adapter/feed"
	"github.com/lhpaul/finadmin/internal/admin/domain/model"
	"github.com/lhpaul/finadmin/internal/events"
	"github.com/lhpaul/finadmin/internal/repository"
	"github.com/lhpaul/finadmin/internal/shared/execlog"
	"github.com/lhpaul/finadmin/internal/shared/logger"
	"github.com/lhpaul/finadmin/internal/store"
)

// Store write costs per logical operation. Creates carry both server
// timestamps, updates one, deletes none.
const (
	createWriteCost = 3
	updateWriteCost = 2
	deleteWriteCost = 1
)

// DefaultMaxBatchSize is the store's write quota per batch commit.
const DefaultMaxBatchSize = 500

// The external feed does not distinguish direction, so records created from
// it get this fixed type.
const assumedFeedType = model.TransactionTypeDebit

// SyncRequest selects one reconciliation run: a company, one of its
// financial institutions and an inclusive date window.
type SyncRequest struct {
	CompanyID              string
	FinancialInstitutionID string
	FromDate               string // YYYY-MM-DD
	ToDate                 string // YYYY-MM-DD
}

// TransactionUpdate is one queued update action.
type TransactionUpdate struct {
	ID    string
	Patch repository.Patch
}

// SyncActionSet is the outcome of the diff phase: the writes that would
// bring the stored transactions in line with the external feed. It is
// transient and never persisted.
type SyncActionSet struct {
	ToCreate []model.Transaction
	ToUpdate []TransactionUpdate
	ToDelete []string
}

// Empty reports whether the set holds no actions.
func (s SyncActionSet) Empty() bool {
	return len(s.ToCreate) == 0 && len(s.ToUpdate) == 0 && len(s.ToDelete) == 0
}

// SyncResult summarizes one committed run.
type SyncResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Deleted int `json:"deleted"`
	Commits int `json:"commits"`
}

// SyncService reconciles a company's stored transactions against an external
// financial-institution feed: fetch both sides concurrently, diff by source
// transaction id, commit the difference as quota-respecting batches.
type SyncService struct {
	transactions *repository.Repository[model.Transaction]
	feed         feed.Client
	store        store.Client
	events       events.Publisher
	maxBatchSize int
	log          logger.Logger
}

func NewSyncService(transactions *repository.Repository[model.Transaction], feedClient feed.Client, st store.Client, pub events.Publisher, maxBatchSize int, log logger.Logger) *SyncService {
	if maxBatchSize <= createWriteCost {
		maxBatchSize = DefaultMaxBatchSize
	}
	return &SyncService{
		transactions: transactions,
		feed:         feedClient,
		store:        st,
		events:       pub,
		maxBatchSize: maxBatchSize,
		log:          log.WithComponent("usecase.sync"),
	}
}

// Run executes one full reconciliation: plan, commit, notify.
func (s *SyncService) Run(ctx context.Context, req SyncRequest) (*SyncResult, error) {
	el := execlog.NewStepLogger(s.log, "sync.run")

	actions, err := s.Plan(ctx, el, req)
	if err != nil {
		return nil, err
	}

	commits, err := s.commit(ctx, el, actions)
	if err != nil {
		s.log.WithContext(ctx).Errorf("sync commit failed for company %s: %v", req.CompanyID, err)
		return nil, err
	}

	result := &SyncResult{
		Created: len(actions.ToCreate),
		Updated: len(actions.ToUpdate),
		Deleted: len(actions.ToDelete),
		Commits: commits,
	}
	s.events.Publish(ctx, events.Event{
		Type:      events.TypeSyncCompleted,
		CompanyID: req.CompanyID,
		Payload: map[string]interface{}{
			"financialInstitutionId": req.FinancialInstitutionID,
			"created":                result.Created,
			"updated":                result.Updated,
			"deleted":                result.Deleted,
		},
	})
	s.log.WithFields(map[string]interface{}{
		"company_id": req.CompanyID,
		"created":    result.Created,
		"updated":    result.Updated,
		"deleted":    result.Deleted,
		"commits":    result.Commits,
	}).Info("sync finished")
	return result, nil
}

// Plan runs the fetch and diff phases and returns the action set without
// committing anything.
func (s *SyncService) Plan(ctx context.Context, el execlog.ExecutionLogger, req SyncRequest) (SyncActionSet, error) {
	el.StartStep("fetch")
	var (
		external []feed.Transaction
		internal []*repository.Document[model.Transaction]
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		records, err := s.feed.GetTransactions(gctx, feed.Query{
			CompanyID: req.CompanyID,
			FromDate:  req.FromDate,
			ToDate:    req.ToDate,
		})
		if err != nil {
			return err
		}
		external = filterByWindow(records, req.FromDate, req.ToDate)
		return nil
	})
	g.Go(func() error {
		docs, err := s.transactions.List(gctx, el, repository.Query{
			"companyId":              repository.Equal(req.CompanyID),
			"financialInstitutionId": repository.Equal(req.FinancialInstitutionID),
			"date": {
				{Operator: store.OperatorGreaterThanOrEqual, Value: req.FromDate},
				{Operator: store.OperatorLessThanOrEqual, Value: req.ToDate},
			},
		}, nil)
		if err != nil {
			return err
		}
		internal = docs
		return nil
	})
	err := g.Wait()
	el.EndStep("fetch")
	if err != nil {
		return SyncActionSet{}, err
	}

	el.StartStep("diff")
	actions := diff(external, internal, req)
	el.EndStep("diff")
	return actions, nil
}

// filterByWindow keeps the records whose calendar date falls inside the
// inclusive window. The feed's own date filtering is not trusted.
func filterByWindow(records []feed.Transaction, fromDate, toDate string) []feed.Transaction {
	kept := make([]feed.Transaction, 0, len(records))
	for _, r := range records {
		date := r.Date()
		if date >= fromDate && date <= toDate {
			kept = append(kept, r)
		}
	}
	return kept
}

// diff matches external records to stored transactions by source transaction
// id. Unmatched external records become creates, diverging matches become
// updates, stored transactions never matched become deletes.
func diff(external []feed.Transaction, internal []*repository.Document[model.Transaction], req SyncRequest) SyncActionSet {
	bySource := make(map[string]*repository.Document[model.Transaction], len(internal))
	deleteCandidates := make(map[string]bool, len(internal))
	for _, doc := range internal {
		bySource[doc.Data.SourceTransactionID] = doc
		deleteCandidates[doc.ID] = true
	}

	var actions SyncActionSet
	for _, record := range external {
		doc, ok := bySource[record.ID]
		if !ok {
			actions.ToCreate = append(actions.ToCreate, model.Transaction{
				CompanyID:              req.CompanyID,
				FinancialInstitutionID: req.FinancialInstitutionID,
				SourceTransactionID:    record.ID,
				Type:                   assumedFeedType,
				Amount:                 record.Amount,
				Description:            record.Description,
				Date:                   record.Date(),
			})
			continue
		}
		delete(deleteCandidates, doc.ID)

		patch := repository.Patch{}
		if doc.Data.Date != record.Date() {
			patch["date"] = record.Date()
		}
		if doc.Data.Amount != record.Amount {
			patch["amount"] = record.Amount
		}
		if doc.Data.Description != record.Description {
			patch["description"] = record.Description
		}
		if len(patch) > 0 {
			actions.ToUpdate = append(actions.ToUpdate, TransactionUpdate{ID: doc.ID, Patch: patch})
		}
	}

	// Iterate the fetched order, not the map, to keep deletes deterministic.
	for _, doc := range internal {
		if deleteCandidates[doc.ID] {
			actions.ToDelete = append(actions.ToDelete, doc.ID)
		}
	}
	return actions
}

// commit applies creates, then updates, then deletes, each phase as its own
// sequence of batches. A failed batch commit aborts the remaining phases;
// already committed batches stay in place.
func (s *SyncService) commit(ctx context.Context, el execlog.ExecutionLogger, actions SyncActionSet) (int, error) {
	el.StartStep("commit")
	defer el.EndStep("commit")

	commits := 0

	n, err := s.commitPhase(ctx, createWriteCost, len(actions.ToCreate), func(i int, b store.Batch) error {
		_, err := s.transactions.CreateSync(el, actions.ToCreate[i], b, nil)
		return err
	})
	commits += n
	if err != nil {
		return commits, err
	}

	n, err = s.commitPhase(ctx, updateWriteCost, len(actions.ToUpdate), func(i int, b store.Batch) error {
		return s.transactions.UpdateSync(el, actions.ToUpdate[i].ID, actions.ToUpdate[i].Patch, b, nil)
	})
	commits += n
	if err != nil {
		return commits, err
	}

	n, err = s.commitPhase(ctx, deleteWriteCost, len(actions.ToDelete), func(i int, b store.Batch) error {
		return s.transactions.DeleteSync(el, actions.ToDelete[i], b)
	})
	commits += n
	return commits, err
}

// commitPhase enqueues count operations of uniform write cost, committing
// the running batch whenever its write counter reaches quota minus one
// operation's cost, and flushing the final partial batch. Batches commit
// strictly sequentially so the counter stays deterministic.
func (s *SyncService) commitPhase(ctx context.Context, cost, count int, enqueue func(i int, b store.Batch) error) (int, error) {
	if count == 0 {
		return 0, nil
	}
	commits := 0
	batch := s.store.Batch()
	writeCount := 0
	for i := 0; i < count; i++ {
		if writeCount >= s.maxBatchSize-cost {
			if err := batch.Commit(ctx); err != nil {
				return commits, err
			}
			commits++
			batch = s.store.Batch()
			writeCount = 0
		}
		if err := enqueue(i, batch); err != nil {
			return commits, err
		}
		writeCount += cost
	}
	if writeCount > 0 {
		if err := batch.Commit(ctx); err != nil {
			return commits, err
		}
		commits++
	}
	return commits, nil
}
