package controller

import (
	"fmt"

	"fubot-be/internal/dto"
	"fubot-be/internal/pkg/serverutils"
	"fubot-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IPasscodeController interface {
	RegisterRoutes(r fiber.Router)
	Add(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type passcodeController struct {
	service service.IPasscodeService
}

func NewPasscodeController(service service.IPasscodeService) IPasscodeController {
	return &passcodeController{service: service}
}

func (c *passcodeController) RegisterRoutes(r fiber.Router) {
	r.Post("/add_passcode", c.Add)
	r.Get("/list_passcodes", c.List)
	r.Delete("/delete_passcode", c.Delete)
}

func parsePasscodeQuery(ctx *fiber.Ctx) (*dto.PasscodeQuery, error) {
	var q dto.PasscodeQuery
	if err := ctx.QueryParser(&q); err != nil {
		return nil, serverutils.NewValidationError("invalid query")
	}
	if err := serverutils.Validate(&q); err != nil {
		return nil, err
	}
	return &q, nil
}

func (c *passcodeController) Add(ctx *fiber.Ctx) error {
	q, err := parsePasscodeQuery(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Register(ctx.UserContext(), q.Passcode)
	if err != nil {
		return err
	}

	msg := fmt.Sprintf("Passcode '%s' added successfully!", q.Passcode)
	if !res.Created {
		msg = fmt.Sprintf("Passcode '%s' already exists; last login updated.", q.Passcode)
	}
	return ctx.JSON(dto.MessageResponse{Message: msg})
}

func (c *passcodeController) List(ctx *fiber.Ctx) error {
	passcodes, err := c.service.List(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(dto.ListPasscodesResponse{Passcodes: passcodes})
}

func (c *passcodeController) Delete(ctx *fiber.Ctx) error {
	q, err := parsePasscodeQuery(ctx)
	if err != nil {
		return err
	}

	if err := c.service.Remove(ctx.UserContext(), q.Passcode); err != nil {
		return err
	}
	return ctx.JSON(dto.MessageResponse{Message: fmt.Sprintf("Passcode '%s' deleted successfully!", q.Passcode)})
}
