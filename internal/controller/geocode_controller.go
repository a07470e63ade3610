package controller

import (
	"shiftdesk-be/internal/dto"
	"shiftdesk-be/internal/pkg/serverutils"
	"shiftdesk-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IGeocodeController interface {
	RegisterRoutes(r fiber.Router)
	Reverse(ctx *fiber.Ctx) error
}

type geocodeController struct {
	service service.IGeocodeService
}

func NewGeocodeController(service service.IGeocodeService) IGeocodeController {
	return &geocodeController{service: service}
}

func (c *geocodeController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/geocode")
	h.Use(serverutils.JwtMiddleware)
	h.Get("/reverse", c.Reverse)
}

func (c *geocodeController) Reverse(ctx *fiber.Ctx) error {
	lat, err := floatQuery(ctx, "lat")
	if err != nil {
		return err
	}
	lng, err := floatQuery(ctx, "lng")
	if err != nil {
		return err
	}
	req := dto.ReverseGeocodeRequest{Latitude: lat, Longitude: lng}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	res, err := c.service.Reverse(ctx.UserContext(), req.Latitude, req.Longitude)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success", res))
}
