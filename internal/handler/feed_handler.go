package handler

import (
	"shiftdesk-be/internal/entity"
	"shiftdesk-be/internal/pkg/apperror"
	"shiftdesk-be/internal/pkg/logger"
	"shiftdesk-be/internal/pkg/serverutils"
	"shiftdesk-be/internal/service"
	internalWS "shiftdesk-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// FeedHandler upgrades org admins to the live activity feed.
type FeedHandler struct {
	organizations service.IOrganizationService
	hub           *internalWS.Hub
	logger        logger.ILogger
}

func NewFeedHandler(organizations service.IOrganizationService, hub *internalWS.Hub, log logger.ILogger) *FeedHandler {
	return &FeedHandler{
		organizations: organizations,
		hub:           hub,
		logger:        log,
	}
}

// authorize resolves the caller from the token (query or header) and checks
// admin rights on the requested organization. Browsers cannot set headers on
// a websocket handshake, hence the query fallback.
func (h *FeedHandler) authorize(c *fiber.Ctx) (uuid.UUID, uuid.UUID, error) {
	tokenStr := serverutils.BearerToken(c)
	if tokenStr == "" {
		return uuid.Nil, uuid.Nil, apperror.Unauthorized("missing token")
	}
	claims, err := serverutils.ParseToken(tokenStr)
	if err != nil {
		h.logger.Warn("FeedHandler", "Invalid token in feed handshake", map[string]interface{}{"error": err.Error()})
		return uuid.Nil, uuid.Nil, apperror.Unauthorized("invalid token")
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, uuid.Nil, apperror.Unauthorized("invalid token")
	}

	orgID, err := serverutils.QueryUUID(c, "organization_id")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	if orgID == uuid.Nil {
		return uuid.Nil, uuid.Nil, apperror.BadRequest("organization_id is required")
	}

	actor := service.Actor{UserID: userID, Role: entity.UserRole(claims.Role)}
	if err := h.organizations.RequireAdmin(c.UserContext(), actor, orgID); err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return orgID, userID, nil
}

// ServeWs authorizes before the upgrade so failures are plain JSON errors.
func (h *FeedHandler) ServeWs(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	orgID, userID, err := h.authorize(c)
	if err != nil {
		return err
	}

	return websocket.New(func(conn *websocket.Conn) {
		details := map[string]interface{}{"organization_id": orgID, "user_id": userID}
		h.logger.Info("FeedHandler", "Feed session started", details)
		internalWS.ServeWs(h.hub, conn, orgID, userID)
		h.logger.Info("FeedHandler", "Feed session ended", details)
	})(c)
}

// Status reports how many feed connections this instance holds for an org.
func (h *FeedHandler) Status(c *fiber.Ctx) error {
	orgID, _, err := h.authorize(c)
	if err != nil {
		return err
	}
	return c.JSON(serverutils.SuccessResponse("Success", fiber.Map{
		"organization_id": orgID,
		"connections":     h.hub.ClientCount(orgID),
	}))
}

func (h *FeedHandler) RegisterRoutes(router fiber.Router) {
	feed := router.Group("/feed")
	feed.Get("/ws", h.ServeWs)
	feed.Get("/status", h.Status)
}
