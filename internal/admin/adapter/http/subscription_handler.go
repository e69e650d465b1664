package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lhpaul/finadmin/internal/admin/domain/model"
	"github.com/lhpaul/finadmin/internal/admin/usecase"
	"github.com/lhpaul/finadmin/internal/repository"
)

// SubscriptionHandler serves /subscriptions.
type SubscriptionHandler struct {
	subscriptions *usecase.SubscriptionService
}

func NewSubscriptionHandler(subscriptions *usecase.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptions: subscriptions}
}

func (h *SubscriptionHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/subscriptions", h.Create)
	router.Get("/subscriptions", h.List)
	router.Get("/subscriptions/:id", h.Get)
	router.Patch("/subscriptions/:id", h.Update)
	router.Delete("/subscriptions/:id", h.Delete)
}

func (h *SubscriptionHandler) Create(c *fiber.Ctx) error {
	var body model.Subscription
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	id, err := h.subscriptions.Create(c.UserContext(), body)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

func (h *SubscriptionHandler) Get(c *fiber.Ctx) error {
	doc, err := h.subscriptions.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toResponse(doc))
}

func (h *SubscriptionHandler) List(c *fiber.Ctx) error {
	q := repository.Query{}
	if companyID := c.Query("companyId"); companyID != "" {
		q["companyId"] = repository.Equal(companyID)
	}
	if status := c.Query("status"); status != "" {
		q["status"] = repository.Equal(status)
	}
	docs, err := h.subscriptions.List(c.UserContext(), q, listOptions(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"subscriptions": toResponses(docs)})
}

func (h *SubscriptionHandler) Update(c *fiber.Ctx) error {
	var patch repository.Patch
	if err := c.BodyParser(&patch); err != nil {
		return badRequest(c, "invalid request body")
	}
	if len(patch) == 0 {
		return badRequest(c, "empty patch")
	}
	if err := h.subscriptions.Update(c.UserContext(), c.Params("id"), patch); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *SubscriptionHandler) Delete(c *fiber.Ctx) error {
	if err := h.subscriptions.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
