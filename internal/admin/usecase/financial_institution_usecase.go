package usecase

import (
	"context"

	"github.com/lhpaul/finadmin/internal/admin/domain/model"
	"github.com/lhpaul/finadmin/internal/repository"
	"github.com/lhpaul/finadmin/internal/shared/errors"
	"github.com/lhpaul/finadmin/internal/shared/execlog"
	"github.com/lhpaul/finadmin/internal/shared/logger"
)

// FinancialInstitutionService is the CRUD service for financial
// institutions. The backing repository runs on the in-process store.
type FinancialInstitutionService struct {
	repo *repository.Repository[model.FinancialInstitution]
	log  logger.Logger
}

func NewFinancialInstitutionService(repo *repository.Repository[model.FinancialInstitution], log logger.Logger) *FinancialInstitutionService {
	return &FinancialInstitutionService{repo: repo, log: log.WithComponent("usecase.financial_institutions")}
}

func (s *FinancialInstitutionService) Create(ctx context.Context, fi model.FinancialInstitution) (string, error) {
	if err := fi.Validate(); err != nil {
		return "", err
	}
	el := execlog.NewStepLogger(s.log, "financial_institutions.create")
	return s.repo.Create(ctx, el, fi, nil)
}

func (s *FinancialInstitutionService) Get(ctx context.Context, id string) (*repository.Document[model.FinancialInstitution], error) {
	el := execlog.NewStepLogger(s.log, "financial_institutions.get")
	doc, err := s.repo.Get(ctx, el, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, errors.NewDocumentNotFound(id)
	}
	return doc, nil
}

func (s *FinancialInstitutionService) List(ctx context.Context, q repository.Query, opts *repository.ListOptions) ([]*repository.Document[model.FinancialInstitution], error) {
	el := execlog.NewStepLogger(s.log, "financial_institutions.list")
	return s.repo.List(ctx, el, q, opts)
}

func (s *FinancialInstitutionService) Update(ctx context.Context, id string, patch repository.Patch) error {
	el := execlog.NewStepLogger(s.log, "financial_institutions.update")
	return s.repo.Update(ctx, el, id, patch, nil)
}

func (s *FinancialInstitutionService) Delete(ctx context.Context, id string) error {
	el := execlog.NewStepLogger(s.log, "financial_institutions.delete")
	return s.repo.Delete(ctx, el, id)
}
