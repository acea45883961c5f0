package main

import (
	"time"

	"github.com/ghareeshmiti/workerconnection-backend/config"
	"github.com/ghareeshmiti/workerconnection-backend/controller"
	"github.com/ghareeshmiti/workerconnection-backend/dtos/request"
	"github.com/ghareeshmiti/workerconnection-backend/metrics"
	"github.com/ghareeshmiti/workerconnection-backend/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Server struct {
	CeremonyController controller.ICeremonyController
	AdminController    controller.IAdminController
	Logger             *zap.Logger
}

// NOTE: Server Constructor
func NewServer(
	ceremonyController controller.ICeremonyController,
	adminController controller.IAdminController,
	logger *zap.Logger,
) *Server {
	return &Server{
		CeremonyController: ceremonyController,
		AdminController:    adminController,
		Logger:             logger,
	}
}

// NOTE: Start Fiber Server
func (s *Server) Start() *fiber.App {
	// NOTE: Initialize Fiber Server
	app := fiber.New()

	app.Use(middleware.RecoveryMiddleware())
	app.Use(middleware.LoggingMiddleware(s.Logger))
	app.Use(middleware.GlobalRateLimiter())

	app.Get("/metrics", metrics.Handler())

	// NOTE: Define API paths (context path and grouping by version)
	contextPath := app.Group(config.Conf.Application.Server.ContextPath)
	apiVersion := contextPath.Group(config.Conf.Application.Server.ApiVersion)

	beginLimiter := middleware.RouteRateLimiter(10, 30*time.Second)

	registerGroup := apiVersion.Group("/register")
	registerGroup.Post("/begin", beginLimiter,
		middleware.ValidateBody[request.BeginRegistrationRequest](),
		s.CeremonyController.BeginRegistration)
	registerGroup.Post("/finish",
		middleware.ValidateBody[request.FinishRegistrationRequest](),
		s.CeremonyController.FinishRegistration)

	loginGroup := apiVersion.Group("/login")
	loginGroup.Post("/begin", beginLimiter,
		middleware.ValidateBody[request.BeginAuthenticationRequest](),
		s.CeremonyController.BeginAuthentication)
	loginGroup.Post("/finish",
		middleware.ValidateBody[request.FinishAuthenticationRequest](),
		s.CeremonyController.FinishAuthentication)

	apiVersion.Get("/status/:workerId", s.CeremonyController.GetStatus)

	adminGroup := apiVersion.Group("/admin", middleware.AuthMiddleware())
	adminGroup.Get("/data", s.AdminController.GetDashboard)
	adminGroup.Get("/audit/:workerId", s.AdminController.GetAuditTrail)
	adminGroup.Get("/export", s.AdminController.ExportData)
	adminGroup.Get("/stations", s.AdminController.ListStations)
	adminGroup.Post("/stations",
		middleware.ValidateBody[request.CreateStationRequest](),
		s.AdminController.CreateStation)
	adminGroup.Delete("/stations/:name", s.AdminController.DeleteStation)
	adminGroup.Delete("/user/:workerId", s.AdminController.DeleteWorker)

	return app
}
