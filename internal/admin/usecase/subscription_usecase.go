package usecase

import (
	"context"
	"time"

	"github.com/lhpaul/finadmin/internal/admin/domain/model"
	"github.com/lhpaul/finadmin/internal/repository"
	"github.com/lhpaul/finadmin/internal/shared/errors"
	"github.com/lhpaul/finadmin/internal/shared/execlog"
	"github.com/lhpaul/finadmin/internal/shared/logger"
	"github.com/lhpaul/finadmin/internal/store"
)

// SubscriptionService is the CRUD service for company subscriptions. The
// backing repository runs on the in-process store.
type SubscriptionService struct {
	repo *repository.Repository[model.Subscription]
	log  logger.Logger
}

func NewSubscriptionService(repo *repository.Repository[model.Subscription], log logger.Logger) *SubscriptionService {
	return &SubscriptionService{repo: repo, log: log.WithComponent("usecase.subscriptions")}
}

func (s *SubscriptionService) Create(ctx context.Context, sub model.Subscription) (string, error) {
	if err := sub.Validate(); err != nil {
		return "", err
	}
	el := execlog.NewStepLogger(s.log, "subscriptions.create")
	return s.repo.Create(ctx, el, sub, nil)
}

func (s *SubscriptionService) Get(ctx context.Context, id string) (*repository.Document[model.Subscription], error) {
	el := execlog.NewStepLogger(s.log, "subscriptions.get")
	doc, err := s.repo.Get(ctx, el, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, errors.NewDocumentNotFound(id)
	}
	return doc, nil
}

func (s *SubscriptionService) List(ctx context.Context, q repository.Query, opts *repository.ListOptions) ([]*repository.Document[model.Subscription], error) {
	el := execlog.NewStepLogger(s.log, "subscriptions.list")
	return s.repo.List(ctx, el, q, opts)
}

func (s *SubscriptionService) Update(ctx context.Context, id string, patch repository.Patch) error {
	el := execlog.NewStepLogger(s.log, "subscriptions.update")
	return s.repo.Update(ctx, el, id, patch, nil)
}

func (s *SubscriptionService) Delete(ctx context.Context, id string) error {
	el := execlog.NewStepLogger(s.log, "subscriptions.delete")
	return s.repo.Delete(ctx, el, id)
}

// ActiveForCompany returns the company's subscriptions covering the instant.
func (s *SubscriptionService) ActiveForCompany(ctx context.Context, companyID string, at time.Time) ([]*repository.Document[model.Subscription], error) {
	el := execlog.NewStepLogger(s.log, "subscriptions.active")
	docs, err := s.repo.List(ctx, el, repository.Query{
		"companyId": repository.Equal(companyID),
		"status":    {{Operator: store.OperatorEqual, Value: string(model.SubscriptionStatusActive)}},
	}, nil)
	if err != nil {
		return nil, err
	}
	var active []*repository.Document[model.Subscription]
	for _, doc := range docs {
		if doc.Data.IsActiveAt(at) {
			active = append(active, doc)
		}
	}
	return active, nil
}
