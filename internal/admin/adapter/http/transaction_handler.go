package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lhpaul/finadmin/internal/admin/domain/model"
	"github.com/lhpaul/finadmin/internal/admin/usecase"
	"github.com/lhpaul/finadmin/internal/repository"
	"github.com/lhpaul/finadmin/internal/store"
)

// TransactionHandler serves /transactions. Transaction ids are compound
// (companyId_transactionId).
type TransactionHandler struct {
	transactions *usecase.TransactionService
}

func NewTransactionHandler(transactions *usecase.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactions: transactions}
}

func (h *TransactionHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/transactions", h.Create)
	router.Get("/transactions", h.List)
	router.Get("/transactions/:id", h.Get)
	router.Patch("/transactions/:id", h.Update)
	router.Delete("/transactions/:id", h.Delete)
}

func (h *TransactionHandler) Create(c *fiber.Ctx) error {
	var body model.Transaction
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	id, err := h.transactions.Create(c.UserContext(), body)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

func (h *TransactionHandler) Get(c *fiber.Ctx) error {
	doc, err := h.transactions.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toResponse(doc))
}

// List filters by companyId, financialInstitutionId, fromDate and toDate
// query parameters. Without companyId the query spans all companies.
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	q := repository.Query{}
	if companyID := c.Query("companyId"); companyID != "" {
		q["companyId"] = repository.Equal(companyID)
	}
	if fi := c.Query("financialInstitutionId"); fi != "" {
		q["financialInstitutionId"] = repository.Equal(fi)
	}
	var dateConditions []repository.Condition
	if from := c.Query("fromDate"); from != "" {
		dateConditions = append(dateConditions, repository.Condition{Operator: store.OperatorGreaterThanOrEqual, Value: from})
	}
	if to := c.Query("toDate"); to != "" {
		dateConditions = append(dateConditions, repository.Condition{Operator: store.OperatorLessThanOrEqual, Value: to})
	}
	if len(dateConditions) > 0 {
		q["date"] = dateConditions
	}

	docs, err := h.transactions.List(c.UserContext(), q, listOptions(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"transactions": toResponses(docs)})
}

func (h *TransactionHandler) Update(c *fiber.Ctx) error {
	var patch repository.Patch
	if err := c.BodyParser(&patch); err != nil {
		return badRequest(c, "invalid request body")
	}
	if len(patch) == 0 {
		return badRequest(c, "empty patch")
	}
	if err := h.transactions.Update(c.UserContext(), c.Params("id"), patch); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *TransactionHandler) Delete(c *fiber.Ctx) error {
	if err := h.transactions.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
