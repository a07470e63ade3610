package controller

import (
	"shiftdesk-be/internal/dto"
	"shiftdesk-be/internal/entity"
	"shiftdesk-be/internal/pkg/serverutils"
	"shiftdesk-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IOrganizationController interface {
	RegisterRoutes(r fiber.Router)

	// super-admin
	Create(ctx *fiber.Ctx) error
	ListAll(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	UpdateChatSettings(ctx *fiber.Ctx) error

	// members and org admins
	ListMine(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	ListServices(ctx *fiber.Ctx) error
	CreateService(ctx *fiber.Ctx) error
	DeleteService(ctx *fiber.Ctx) error
	ListMembers(ctx *fiber.Ctx) error
	AddMember(ctx *fiber.Ctx) error
	UpdateMemberRole(ctx *fiber.Ctx) error
	RemoveMember(ctx *fiber.Ctx) error
}

type organizationController struct {
	service service.IOrganizationService
}

func NewOrganizationController(service service.IOrganizationService) IOrganizationController {
	return &organizationController{service: service}
}

func (c *organizationController) RegisterRoutes(r fiber.Router) {
	admin := r.Group("/admin/organizations")
	admin.Use(serverutils.JwtMiddleware, serverutils.RequireRole(string(entity.UserRoleSuperAdmin)))
	admin.Post("", c.Create)
	admin.Get("", c.ListAll)
	admin.Delete("/:orgId", c.Delete)
	admin.Put("/:orgId/chat-settings", c.UpdateChatSettings)

	h := r.Group("/organizations")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.ListMine)
	h.Get("/:orgId", c.Show)
	h.Get("/:orgId/services", c.ListServices)
	h.Post("/:orgId/services", c.CreateService)
	h.Delete("/:orgId/services/:serviceId", c.DeleteService)
	h.Get("/:orgId/members", c.ListMembers)
	h.Post("/:orgId/members", c.AddMember)
	h.Put("/:orgId/members/:userId", c.UpdateMemberRole)
	h.Delete("/:orgId/members/:userId", c.RemoveMember)
}

func (c *organizationController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateOrganizationRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Organization created", res))
}

func (c *organizationController) ListAll(ctx *fiber.Ctx) error {
	res, err := c.service.ListAll(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get organizations", res))
}

func (c *organizationController) Delete(ctx *fiber.Ctx) error {
	orgID, err := serverutils.ParamUUID(ctx, "orgId")
	if err != nil {
		return err
	}
	if err := c.service.Delete(ctx.UserContext(), orgID); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Organization deleted", nil))
}

func (c *organizationController) UpdateChatSettings(ctx *fiber.Ctx) error {
	orgID, err := serverutils.ParamUUID(ctx, "orgId")
	if err != nil {
		return err
	}
	var req dto.UpdateChatSettingsRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	req.OrganizationId = orgID

	res, err := c.service.UpdateChatSettings(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Chat settings updated", res))
}

func (c *organizationController) ListMine(ctx *fiber.Ctx) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	res, err := c.service.ListMine(ctx.UserContext(), actor)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get organizations", res))
}

func (c *organizationController) Show(ctx *fiber.Ctx) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	orgID, err := serverutils.ParamUUID(ctx, "orgId")
	if err != nil {
		return err
	}

	res, err := c.service.Get(ctx.UserContext(), actor, orgID)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get organization", res))
}

func (c *organizationController) ListServices(ctx *fiber.Ctx) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	orgID, err := serverutils.ParamUUID(ctx, "orgId")
	if err != nil {
		return err
	}

	res, err := c.service.ListServices(ctx.UserContext(), actor, orgID)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get services", res))
}

func (c *organizationController) CreateService(ctx *fiber.Ctx) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	orgID, err := serverutils.ParamUUID(ctx, "orgId")
	if err != nil {
		return err
	}
	var req dto.CreateServiceRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	req.OrganizationId = orgID

	res, err := c.service.CreateService(ctx.UserContext(), actor, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Service created", res))
}

func (c *organizationController) DeleteService(ctx *fiber.Ctx) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	orgID, err := serverutils.ParamUUID(ctx, "orgId")
	if err != nil {
		return err
	}
	serviceID, err := serverutils.ParamUUID(ctx, "serviceId")
	if err != nil {
		return err
	}

	if err := c.service.DeleteService(ctx.UserContext(), actor, orgID, serviceID); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Service deleted", nil))
}

func (c *organizationController) ListMembers(ctx *fiber.Ctx) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	orgID, err := serverutils.ParamUUID(ctx, "orgId")
	if err != nil {
		return err
	}

	res, err := c.service.ListMembers(ctx.UserContext(), actor, orgID)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get members", res))
}

func (c *organizationController) AddMember(ctx *fiber.Ctx) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	orgID, err := serverutils.ParamUUID(ctx, "orgId")
	if err != nil {
		return err
	}
	var req dto.AddMemberRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	req.OrganizationId = orgID

	res, err := c.service.AddMember(ctx.UserContext(), actor, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Member added", res))
}

func (c *organizationController) UpdateMemberRole(ctx *fiber.Ctx) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	orgID, err := serverutils.ParamUUID(ctx, "orgId")
	if err != nil {
		return err
	}
	userID, err := serverutils.ParamUUID(ctx, "userId")
	if err != nil {
		return err
	}
	var req dto.UpdateMemberRoleRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	req.OrganizationId = orgID
	req.UserId = userID

	res, err := c.service.UpdateMemberRole(ctx.UserContext(), actor, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Member role updated", res))
}

func (c *organizationController) RemoveMember(ctx *fiber.Ctx) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	orgID, err := serverutils.ParamUUID(ctx, "orgId")
	if err != nil {
		return err
	}
	userID, err := serverutils.ParamUUID(ctx, "userId")
	if err != nil {
		return err
	}

	if err := c.service.RemoveMember(ctx.UserContext(), actor, orgID, userID); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Member removed", nil))
}
