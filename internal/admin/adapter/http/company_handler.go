package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lhpaul/finadmin/internal/admin/domain/model"
	"github.com/lhpaul/finadmin/internal/admin/usecase"
	"github.com/lhpaul/finadmin/internal/repository"
)

// CompanyHandler serves /companies.
type CompanyHandler struct {
	companies *usecase.CompanyService
}

func NewCompanyHandler(companies *usecase.CompanyService) *CompanyHandler {
	return &CompanyHandler{companies: companies}
}

func (h *CompanyHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/companies", h.Create)
	router.Get("/companies", h.List)
	router.Get("/companies/:id", h.Get)
	router.Patch("/companies/:id", h.Update)
	router.Delete("/companies/:id", h.Delete)
}

func (h *CompanyHandler) Create(c *fiber.Ctx) error {
	var body model.Company
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	id, err := h.companies.Create(c.UserContext(), body)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

func (h *CompanyHandler) Get(c *fiber.Ctx) error {
	doc, err := h.companies.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toResponse(doc))
}

func (h *CompanyHandler) List(c *fiber.Ctx) error {
	docs, err := h.companies.List(c.UserContext(), repository.Query{}, listOptions(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"companies": toResponses(docs)})
}

func (h *CompanyHandler) Update(c *fiber.Ctx) error {
	var patch repository.Patch
	if err := c.BodyParser(&patch); err != nil {
		return badRequest(c, "invalid request body")
	}
	if len(patch) == 0 {
		return badRequest(c, "empty patch")
	}
	if err := h.companies.Update(c.UserContext(), c.Params("id"), patch); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *CompanyHandler) Delete(c *fiber.Ctx) error {
	if err := h.companies.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
