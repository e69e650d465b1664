package usecase

import (
	"context"

	"github.com/lhpaul/finadmin/internal/admin/domain/model"
	"github.com/lhpaul/finadmin/internal/events"
	"github.com/lhpaul/finadmin/internal/repository"
	"github.com/lhpaul/finadmin/internal/shared/errors"
	"github.com/lhpaul/finadmin/internal/shared/execlog"
	"github.com/lhpaul/finadmin/internal/shared/logger"
)

// TransactionService is the CRUD service for transactions. Transactions are
// nested under their company, so creates require the company to exist and
// ids are compound (companyId_transactionId).
type TransactionService struct {
	repo   *repository.Repository[model.Transaction]
	events events.Publisher
	log    logger.Logger
}

func NewTransactionService(repo *repository.Repository[model.Transaction], pub events.Publisher, log logger.Logger) *TransactionService {
	return &TransactionService{repo: repo, events: pub, log: log.WithComponent("usecase.transactions")}
}

func (s *TransactionService) Create(ctx context.Context, tx model.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", err
	}
	el := execlog.NewStepLogger(s.log, "transactions.create")
	id, err := s.repo.Create(ctx, el, tx, nil)
	if err != nil {
		s.log.WithContext(ctx).Errorf("creating transaction: %v", err)
		return "", err
	}
	s.events.Publish(ctx, events.Event{Type: events.TypeTransactionCreated, EntityID: id, CompanyID: tx.CompanyID})
	return id, nil
}

func (s *TransactionService) Get(ctx context.Context, id string) (*repository.Document[model.Transaction], error) {
	el := execlog.NewStepLogger(s.log, "transactions.get")
	doc, err := s.repo.Get(ctx, el, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, errors.NewDocumentNotFound(id)
	}
	return doc, nil
}

// List queries transactions. A companyId equality condition scopes the query
// to one company; without it the query spans all companies.
func (s *TransactionService) List(ctx context.Context, q repository.Query, opts *repository.ListOptions) ([]*repository.Document[model.Transaction], error) {
	el := execlog.NewStepLogger(s.log, "transactions.list")
	return s.repo.List(ctx, el, q, opts)
}

func (s *TransactionService) Update(ctx context.Context, id string, patch repository.Patch) error {
	el := execlog.NewStepLogger(s.log, "transactions.update")
	if err := s.repo.Update(ctx, el, id, patch, nil); err != nil {
		return err
	}
	s.events.Publish(ctx, events.Event{Type: events.TypeTransactionUpdated, EntityID: id})
	return nil
}

func (s *TransactionService) Delete(ctx context.Context, id string) error {
	el := execlog.NewStepLogger(s.log, "transactions.delete")
	if err := s.repo.Delete(ctx, el, id); err != nil {
		return err
	}
	s.events.Publish(ctx, events.Event{Type: events.TypeTransactionDeleted, EntityID: id})
	return nil
}
