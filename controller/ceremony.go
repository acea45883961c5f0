package controller

import (
	"errors"

	"github.com/ghareeshmiti/workerconnection-backend/domain"
	"github.com/ghareeshmiti/workerconnection-backend/dtos/request"
	"github.com/ghareeshmiti/workerconnection-backend/services"

	"github.com/gofiber/fiber/v2"
)

type ICeremonyController interface {
	BeginRegistration(c *fiber.Ctx) error
	FinishRegistration(c *fiber.Ctx) error
	BeginAuthentication(c *fiber.Ctx) error
	FinishAuthentication(c *fiber.Ctx) error
	GetStatus(c *fiber.Ctx) error
}

type CeremonyController struct {
	registration   services.IRegistrationService
	authentication services.IAuthenticationService
	attendance     services.IAttendanceService
}

func NewCeremonyController(
	registration services.IRegistrationService,
	authentication services.IAuthenticationService,
	attendance services.IAttendanceService,
) ICeremonyController {
	return &CeremonyController{
		registration:   registration,
		authentication: authentication,
		attendance:     attendance,
	}
}

func (cc *CeremonyController) BeginRegistration(c *fiber.Ctx) error {
	req := c.Locals("body").(*request.BeginRegistrationRequest)

	creation, err := cc.registration.Begin(c.Get("Origin"), req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusOK).JSON(creation)
}

func (cc *CeremonyController) FinishRegistration(c *fiber.Ctx) error {
	req := c.Locals("body").(*request.FinishRegistrationRequest)

	result, err := cc.registration.Finish(c.Get("Origin"), req)
	if err != nil {
		// A credential bound elsewhere is a conflict, never silently
		// re-bound.
		if errors.Is(err, domain.ErrCredentialAlreadyRegistered) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"verified": false,
			"error":    err.Error(),
		})
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

func (cc *CeremonyController) BeginAuthentication(c *fiber.Ctx) error {
	req := c.Locals("body").(*request.BeginAuthenticationRequest)

	assertion, err := cc.authentication.Begin(c.Get("Origin"), req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusOK).JSON(assertion)
}

func (cc *CeremonyController) FinishAuthentication(c *fiber.Ctx) error {
	req := c.Locals("body").(*request.FinishAuthenticationRequest)

	result, err := cc.authentication.Finish(c.Get("Origin"), req)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"verified": false,
			"error":    err.Error(),
		})
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

func (cc *CeremonyController) GetStatus(c *fiber.Ctx) error {
	workerID := c.Params("workerId")
	if workerID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "worker id is required",
		})
	}

	status, err := cc.attendance.Status(workerID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusOK).JSON(status)
}
