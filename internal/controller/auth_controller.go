package controller

import (
	"fubot-be/internal/dto"
	"fubot-be/internal/pkg/serverutils"
	"fubot-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
	Auth(ctx *fiber.Ctx) error
}

type authController struct {
	service service.IPasscodeService
}

func NewAuthController(service service.IPasscodeService) IAuthController {
	return &authController{service: service}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	r.Post("/auth", c.Auth)
}

func (c *authController) Auth(ctx *fiber.Ctx) error {
	var req dto.AuthRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewValidationError("invalid request body")
	}
	if err := serverutils.Validate(&req); err != nil {
		return err
	}

	if _, err := c.service.Authenticate(ctx.UserContext(), req.Passcode); err != nil {
		return err
	}

	return ctx.JSON(dto.MessageResponse{Message: "Authenticated"})
}
