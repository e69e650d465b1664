package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lhpaul/finadmin/internal/admin/domain/model"
	"github.com/lhpaul/finadmin/internal/admin/usecase"
	"github.com/lhpaul/finadmin/internal/repository"
)

// InstitutionHandler serves /financial-institutions.
type InstitutionHandler struct {
	institutions *usecase.FinancialInstitutionService
}

func NewInstitutionHandler(institutions *usecase.FinancialInstitutionService) *InstitutionHandler {
	return &InstitutionHandler{institutions: institutions}
}

func (h *InstitutionHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/financial-institutions", h.Create)
	router.Get("/financial-institutions", h.List)
	router.Get("/financial-institutions/:id", h.Get)
	router.Patch("/financial-institutions/:id", h.Update)
	router.Delete("/financial-institutions/:id", h.Delete)
}

func (h *InstitutionHandler) Create(c *fiber.Ctx) error {
	var body model.FinancialInstitution
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	id, err := h.institutions.Create(c.UserContext(), body)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

func (h *InstitutionHandler) Get(c *fiber.Ctx) error {
	doc, err := h.institutions.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toResponse(doc))
}

func (h *InstitutionHandler) List(c *fiber.Ctx) error {
	docs, err := h.institutions.List(c.UserContext(), repository.Query{}, listOptions(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"financialInstitutions": toResponses(docs)})
}

func (h *InstitutionHandler) Update(c *fiber.Ctx) error {
	var patch repository.Patch
	if err := c.BodyParser(&patch); err != nil {
		return badRequest(c, "invalid request body")
	}
	if len(patch) == 0 {
		return badRequest(c, "empty patch")
	}
	if err := h.institutions.Update(c.UserContext(), c.Params("id"), patch); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *InstitutionHandler) Delete(c *fiber.Ctx) error {
	if err := h.institutions.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
