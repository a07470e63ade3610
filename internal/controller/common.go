package controller

import (
	"strconv"
	"time"

	"shiftdesk-be/internal/entity"
	"shiftdesk-be/internal/pkg/apperror"
	"shiftdesk-be/internal/pkg/serverutils"
	"shiftdesk-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// actorFrom reads the caller set by JwtMiddleware.
func actorFrom(ctx *fiber.Ctx) (service.Actor, error) {
	userID, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return service.Actor{}, err
	}
	return service.Actor{UserID: userID, Role: entity.UserRole(serverutils.CurrentRole(ctx))}, nil
}

// parseBody decodes and validates a JSON body.
func parseBody(ctx *fiber.Ctx, req interface{}) error {
	if err := ctx.BodyParser(req); err != nil {
		return apperror.BadRequest("invalid request body")
	}
	return serverutils.ValidateRequest(req)
}

// organizationQuery reads the mandatory organization_id query parameter.
func organizationQuery(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := serverutils.QueryUUID(ctx, "organization_id")
	if err != nil {
		return uuid.Nil, err
	}
	if id == uuid.Nil {
		return uuid.Nil, apperror.BadRequest("organization_id is required")
	}
	return id, nil
}

// timeQuery accepts RFC 3339 or a plain date (midnight UTC). Absent is zero.
func timeQuery(ctx *fiber.Ctx, name string) (time.Time, error) {
	raw := ctx.Query(name)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Time{}, apperror.BadRequest("invalid " + name + ", expected RFC 3339 or YYYY-MM-DD")
}

func rangeQuery(ctx *fiber.Ctx) (time.Time, time.Time, error) {
	from, err := timeQuery(ctx, "from")
	if err != nil {
		return from, time.Time{}, err
	}
	to, err := timeQuery(ctx, "to")
	if err != nil {
		return from, to, err
	}
	if !from.IsZero() && !to.IsZero() && !from.Before(to) {
		return from, to, apperror.BadRequest("from must be before to")
	}
	return from, to, nil
}

func floatQuery(ctx *fiber.Ctx, name string) (float64, error) {
	raw := ctx.Query(name)
	if raw == "" {
		return 0, apperror.BadRequest(name + " is required")
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, apperror.BadRequest("invalid " + name)
	}
	return v, nil
}
