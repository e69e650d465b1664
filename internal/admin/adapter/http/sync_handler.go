package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/lhpaul/finadmin/internal/admin/domain/model"
	"github.com/lhpaul/finadmin/internal/admin/usecase"
)

// SyncHandler triggers transaction reconciliation runs.
type SyncHandler struct {
	sync *usecase.SyncService
}

func NewSyncHandler(sync *usecase.SyncService) *SyncHandler {
	return &SyncHandler{sync: sync}
}

func (h *SyncHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/companies/:companyId/sync", h.Run)
}

type syncRequestBody struct {
	FinancialInstitutionID string `json:"financialInstitutionId"`
	FromDate               string `json:"fromDate"`
	ToDate                 string `json:"toDate"`
}

func (h *SyncHandler) Run(c *fiber.Ctx) error {
	var body syncRequestBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if body.FinancialInstitutionID == "" {
		return badRequest(c, "financialInstitutionId is required")
	}
	for _, date := range []string{body.FromDate, body.ToDate} {
		if _, err := time.Parse(model.DateLayout, date); err != nil {
			return badRequest(c, "fromDate and toDate must be formatted as "+model.DateLayout)
		}
	}
	if body.FromDate > body.ToDate {
		return badRequest(c, "fromDate must not be after toDate")
	}

	result, err := h.sync.Run(c.UserContext(), usecase.SyncRequest{
		CompanyID:              c.Params("companyId"),
		FinancialInstitutionID: body.FinancialInstitutionID,
		FromDate:               body.FromDate,
		ToDate:                 body.ToDate,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}
