package controller

import (
	"errors"

	"github.com/ghareeshmiti/workerconnection-backend/domain"
	"github.com/ghareeshmiti/workerconnection-backend/dtos/request"
	"github.com/ghareeshmiti/workerconnection-backend/services"

	"github.com/gofiber/fiber/v2"
)

type IAdminController interface {
	GetDashboard(c *fiber.Ctx) error
	GetAuditTrail(c *fiber.Ctx) error
	ExportData(c *fiber.Ctx) error
	ListStations(c *fiber.Ctx) error
	CreateStation(c *fiber.Ctx) error
	DeleteStation(c *fiber.Ctx) error
	DeleteWorker(c *fiber.Ctx) error
}

type AdminController struct {
	admin services.IAdminService
}

func NewAdminController(admin services.IAdminService) IAdminController {
	return &AdminController{admin: admin}
}

func (ac *AdminController) GetDashboard(c *fiber.Ctx) error {
	workers, err := ac.admin.Dashboard()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"workers": workers,
	})
}

func (ac *AdminController) GetAuditTrail(c *fiber.Ctx) error {
	workerID := c.Params("workerId")
	events, err := ac.admin.AuditTrail(workerID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"worker_id": workerID,
		"events":    events,
	})
}

func (ac *AdminController) ExportData(c *fiber.Ctx) error {
	events, err := ac.admin.ExportEvents()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"events": events,
	})
}

func (ac *AdminController) ListStations(c *fiber.Ctx) error {
	stations, err := ac.admin.ListStations()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusOK).JSON(stations)
}

func (ac *AdminController) CreateStation(c *fiber.Ctx) error {
	req := c.Locals("body").(*request.CreateStationRequest)

	station, err := ac.admin.CreateStation(req.Name)
	if err != nil {
		if errors.Is(err, domain.ErrEstablishmentExists) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(station)
}

func (ac *AdminController) DeleteStation(c *fiber.Ctx) error {
	name := c.Params("name")
	if err := ac.admin.DeleteStation(name); err != nil {
		if errors.Is(err, domain.ErrEstablishmentNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "station deleted",
	})
}

func (ac *AdminController) DeleteWorker(c *fiber.Ctx) error {
	workerID := c.Params("workerId")
	if err := ac.admin.DeleteWorker(workerID); err != nil {
		if errors.Is(err, domain.ErrWorkerNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "worker deleted",
	})
}
