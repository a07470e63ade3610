package controller

import (
	"shiftdesk-be/internal/dto"
	"shiftdesk-be/internal/pkg/serverutils"
	"shiftdesk-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Message(ctx *fiber.Ctx) error
	Classify(ctx *fiber.Ctx) error
	Reset(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IChatService
}

func NewChatController(service service.IChatService) IChatController {
	return &chatController{service: service}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat")
	h.Use(serverutils.JwtMiddleware)
	h.Post("/message", c.Message)
	h.Post("/classify", c.Classify)
	h.Delete("/session", c.Reset)
}

func (c *chatController) Message(ctx *fiber.Ctx) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	var req dto.ChatMessageRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.HandleMessage(ctx.UserContext(), actor, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success", res))
}

func (c *chatController) Classify(ctx *fiber.Ctx) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	var req dto.ClassifyRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Classify(ctx.UserContext(), actor, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success", res))
}

func (c *chatController) Reset(ctx *fiber.Ctx) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	orgID, err := organizationQuery(ctx)
	if err != nil {
		return err
	}

	if err := c.service.Reset(ctx.UserContext(), actor, orgID); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Conversation reset", nil))
}
