package controller

import (
	"shiftdesk-be/internal/dto"
	"shiftdesk-be/internal/pkg/serverutils"
	"shiftdesk-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IShiftController interface {
	RegisterRoutes(r fiber.Router)
	ClockIn(ctx *fiber.Ctx) error
	ClockOut(ctx *fiber.Ctx) error
	Current(ctx *fiber.Ctx) error
	ListMine(ctx *fiber.Ctx) error
}

type shiftController struct {
	service service.IShiftService
}

func NewShiftController(service service.IShiftService) IShiftController {
	return &shiftController{service: service}
}

func (c *shiftController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/shifts")
	h.Use(serverutils.JwtMiddleware)
	h.Post("/clock-in", c.ClockIn)
	h.Post("/clock-out", c.ClockOut)
	h.Get("/current", c.Current)
	h.Get("", c.ListMine)
}

func (c *shiftController) ClockIn(ctx *fiber.Ctx) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	var req dto.ClockInRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.ClockIn(ctx.UserContext(), actor, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Shift started", res))
}

func (c *shiftController) ClockOut(ctx *fiber.Ctx) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	var req dto.ClockOutRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.ClockOut(ctx.UserContext(), actor, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Shift ended", res))
}

func (c *shiftController) Current(ctx *fiber.Ctx) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	orgID, err := organizationQuery(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Current(ctx.UserContext(), actor, orgID)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get current shift", res))
}

func (c *shiftController) ListMine(ctx *fiber.Ctx) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	orgID, err := organizationQuery(ctx)
	if err != nil {
		return err
	}
	from, to, err := rangeQuery(ctx)
	if err != nil {
		return err
	}

	req := &dto.ListShiftsRequest{
		OrganizationId: orgID,
		From:           from,
		To:             to,
		Limit:          ctx.QueryInt("limit", 0),
		Offset:         ctx.QueryInt("offset", 0),
	}
	res, err := c.service.ListMine(ctx.UserContext(), actor, req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get shifts", res))
}
