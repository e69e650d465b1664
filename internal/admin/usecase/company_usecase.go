// Package usecase holds the admin services: CRUD over the domain entities
// and the transaction reconciliation engine.
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

// CompanyService is the CRUD service for companies.
type CompanyService struct {
	repo   *repository.Repository[model.Company]
	events events.Publisher
	log    logger.Logger
}

func NewCompanyService(repo *repository.Repository[model.Company], pub events.Publisher, log logger.Logger) *CompanyService {
	return &CompanyService{repo: repo, events: pub, log: log.WithComponent("usecase.companies")}
}

func (s *CompanyService) Create(ctx context.Context, company model.Company) (string, error) {
	if err := company.Validate(); err != nil {
		return "", err
	}
	el := execlog.NewStepLogger(s.log, "companies.create")
	id, err := s.repo.Create(ctx, el, company, nil)
	if err != nil {
		s.log.WithContext(ctx).Errorf("creating company: %v", err)
		return "", err
	}
	s.events.Publish(ctx, events.Event{Type: events.TypeCompanyCreated, EntityID: id, CompanyID: id})
	return id, nil
}

func (s *CompanyService) Get(ctx context.Context, id string) (*repository.Document[model.Company], error) {
	el := execlog.NewStepLogger(s.log, "companies.get")
	doc, err := s.repo.Get(ctx, el, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, errors.NewDocumentNotFound(id)
	}
	return doc, nil
}

func (s *CompanyService) List(ctx context.Context, q repository.Query, opts *repository.ListOptions) ([]*repository.Document[model.Company], error) {
	el := execlog.NewStepLogger(s.log, "companies.list")
	return s.repo.List(ctx, el, q, opts)
}

func (s *CompanyService) Update(ctx context.Context, id string, patch repository.Patch) error {
	el := execlog.NewStepLogger(s.log, "companies.update")
	if err := s.repo.Update(ctx, el, id, patch, nil); err != nil {
		return err
	}
	s.events.Publish(ctx, events.Event{Type: events.TypeCompanyUpdated, EntityID: id, CompanyID: id})
	return nil
}

func (s *CompanyService) Delete(ctx context.Context, id string) error {
	el := execlog.NewStepLogger(s.log, "companies.delete")
	if err := s.repo.Delete(ctx, el, id); err != nil {
		return err
	}
	s.events.Publish(ctx, events.Event{Type: events.TypeCompanyDeleted, EntityID: id, CompanyID: id})
	return nil
}
