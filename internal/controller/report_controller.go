package controller

import (
	"bytes"
	"fmt"

	"shiftdesk-be/internal/dto"
	"shiftdesk-be/internal/pkg/serverutils"
	"shiftdesk-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IReportController interface {
	RegisterRoutes(r fiber.Router)
	ShiftSummary(ctx *fiber.Ctx) error
	ShiftsCSV(ctx *fiber.Ctx) error
	TicketSummary(ctx *fiber.Ctx) error
}

type reportController struct {
	service service.IReportService
}

func NewReportController(service service.IReportService) IReportController {
	return &reportController{service: service}
}

func (c *reportController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/reports")
	h.Use(serverutils.JwtMiddleware)
	h.Get("/shifts", c.ShiftSummary)
	h.Get("/shifts.csv", c.ShiftsCSV)
	h.Get("/tickets", c.TicketSummary)
}

func rangeRequest(ctx *fiber.Ctx) (*dto.ReportRangeRequest, error) {
	orgID, err := organizationQuery(ctx)
	if err != nil {
		return nil, err
	}
	from, to, err := rangeQuery(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.ReportRangeRequest{OrganizationId: orgID, From: from, To: to}, nil
}

func (c *reportController) ShiftSummary(ctx *fiber.Ctx) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	req, err := rangeRequest(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.ShiftSummary(ctx.UserContext(), actor, req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get shift report", res))
}

func (c *reportController) ShiftsCSV(ctx *fiber.Ctx) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	req, err := rangeRequest(ctx)
	if err != nil {
		return err
	}

	// Buffered so a failure still yields a JSON error instead of a half-written file.
	var buf bytes.Buffer
	if err := c.service.ExportShiftsCSV(ctx.UserContext(), actor, req, &buf); err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="shifts-%s.csv"`, req.OrganizationId))
	return ctx.Send(buf.Bytes())
}

func (c *reportController) TicketSummary(ctx *fiber.Ctx) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	req, err := rangeRequest(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.TicketSummary(ctx.UserContext(), actor, req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get ticket report", res))
}
