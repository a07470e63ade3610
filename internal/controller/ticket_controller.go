package controller

import (
	"shiftdesk-be/internal/dto"
	"shiftdesk-be/internal/pkg/serverutils"
	"shiftdesk-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ITicketController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	ListMine(ctx *fiber.Ctx) error
	ListByOrganization(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	UpdateStatus(ctx *fiber.Ctx) error
}

type ticketController struct {
	service service.ITicketService
}

func NewTicketController(service service.ITicketService) ITicketController {
	return &ticketController{service: service}
}

func (c *ticketController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/tickets")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Create)
	h.Get("/mine", c.ListMine)
	h.Get("", c.ListByOrganization)
	h.Get("/:id", c.Show)
	h.Patch("/:id/status", c.UpdateStatus)
}

func (c *ticketController) Create(ctx *fiber.Ctx) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	var req dto.CreateTicketRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.UserContext(), actor, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Ticket created", res))
}

// listRequest reads the shared list filters from the query string.
func (c *ticketController) listRequest(ctx *fiber.Ctx) (*dto.ListTicketsRequest, error) {
	orgID, err := organizationQuery(ctx)
	if err != nil {
		return nil, err
	}
	req := &dto.ListTicketsRequest{
		OrganizationId: orgID,
		Status:         ctx.Query("status"),
		Limit:          ctx.QueryInt("limit", 0),
		Offset:         ctx.QueryInt("offset", 0),
	}
	serviceID, err := serverutils.QueryUUID(ctx, "service_id")
	if err != nil {
		return nil, err
	}
	if serviceID != uuid.Nil {
		req.ServiceId = &serviceID
	}
	return req, nil
}

func (c *ticketController) ListMine(ctx *fiber.Ctx) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	req, err := c.listRequest(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.ListMine(ctx.UserContext(), actor, req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get tickets", res))
}

func (c *ticketController) ListByOrganization(ctx *fiber.Ctx) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	req, err := c.listRequest(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.ListByOrganization(ctx.UserContext(), actor, req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get tickets", res))
}

func (c *ticketController) Show(ctx *fiber.Ctx) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	orgID, err := organizationQuery(ctx)
	if err != nil {
		return err
	}
	ticketID, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.service.Get(ctx.UserContext(), actor, orgID, ticketID)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get ticket", res))
}

func (c *ticketController) UpdateStatus(ctx *fiber.Ctx) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	orgID, err := organizationQuery(ctx)
	if err != nil {
		return err
	}
	ticketID, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateTicketStatusRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	req.OrganizationId = orgID
	req.TicketId = ticketID

	res, err := c.service.UpdateStatus(ctx.UserContext(), actor, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Ticket status updated", res))
}
