package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ghareeshmiti/workerconnection-backend/config"
	"github.com/ghareeshmiti/workerconnection-backend/controller"
	"github.com/ghareeshmiti/workerconnection-backend/middleware"
	"github.com/ghareeshmiti/workerconnection-backend/repository"
	"github.com/ghareeshmiti/workerconnection-backend/services"

	"github.com/IBM/sarama"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type service struct {
	//DB
	dbConnection *gorm.DB

	//Redis Client
	redisClient *redis.Client

	//Kafka producer
	kafkaProducer sarama.SyncProducer

	//WebAuthn relying party
	relyingParty *config.RelyingParty

	//Logger
	logger *zap.Logger

	// Repository
	workerRepository     repository.IWorkerRepository
	attendanceRepository repository.IAttendanceRepository
	adminRepository      repository.IAdminRepository

	// Service
	redisService          services.IRedisService
	challengeService      services.IChallengeService
	sessionService        services.ISessionService
	publisher             services.IAttendancePublisher
	attendanceService     services.IAttendanceService
	registrationService   services.IRegistrationService
	authenticationService services.IAuthenticationService
	adminService          services.IAdminService

	// Controller
	ceremonyController controller.ICeremonyController
	adminController    controller.IAdminController
}

// NOTE: Service Start
func (s *service) Start() {
	log.Info("Opening database connection...")
	s.dbConnection = config.OpenDatabaseConnection(config.Conf.Application.Datasource.PrimaryURL)
	config.Migrate(config.Conf.Application.Datasource.PrimaryURL)

	log.Info("Opening redis connection...")
	s.redisClient = config.ConnectToRedis(config.Conf.Application.Redis.Host)

	log.Info("Connecting to kafka...")
	s.kafkaProducer = config.ConnectToKafka(config.Conf.Application.Kafka.Brokers)

	log.Info("WebAuthn config")
	s.relyingParty = config.NewRelyingParty()

	s.logger = config.InitLogger()
	middleware.InitValidator()

	// NOTE: Dependency Injections
	s.DependencyInjection()

	// NOTE: Start Fiber server...
	app := NewServer(s.ceremonyController, s.adminController, s.logger).Start()

	log.Info("Server starting..")
	// NOTE: Server start with goroutine
	go func() {
		if err := app.Listen(config.Conf.Application.Server.Port); err != nil {
			log.Fatal("Server failed to start")
		}
	}()
	// NOTE: Keep OS signals for graceful shutdown
	s.gracefulShutdown(app)
}

// NOTE: Depency Injection Operation
func (s *service) DependencyInjection() {
	security := config.Conf.Application.Security
	s.sessionService = services.NewSessionService(
		[]byte(security.Secret),
		security.Issuer,
		time.Duration(security.TokenValidityInSeconds)*time.Second,
		time.Duration(security.TokenValidityInSecondsForRememberMe)*time.Second,
	)

	// NOTE: Repositories Injections
	s.workerRepository = repository.NewWorkerRepository()
	s.attendanceRepository = repository.NewAttendanceRepository()
	s.adminRepository = repository.NewAdminRepository()

	// NOTE: Services Injections
	s.redisService = services.NewRedisService(s.redisClient)
	s.challengeService = services.NewChallengeService(s.workerRepository, s.redisService)
	s.publisher = services.NewAttendancePublisher(s.kafkaProducer, config.Conf.Application.Kafka.AttendanceTopic)
	s.attendanceService = services.NewAttendanceService(s.dbConnection, s.attendanceRepository, s.publisher, s.logger)

	providerFactory := services.NewProviderFactory(s.relyingParty)
	s.registrationService = services.NewRegistrationService(
		s.dbConnection, s.workerRepository, s.challengeService, providerFactory, s.logger)
	s.authenticationService = services.NewAuthenticationService(
		s.dbConnection, s.workerRepository, s.challengeService, providerFactory,
		s.attendanceService, s.sessionService,
		config.Conf.Application.WebAuthn.AllowAllCredentials, s.logger)
	s.adminService = services.NewAdminService(
		s.dbConnection, s.adminRepository, s.workerRepository, s.attendanceRepository, s.logger)

	// NOTE: Controllers Injections
	s.ceremonyController = controller.NewCeremonyController(
		s.registrationService, s.authenticationService, s.attendanceService)
	s.adminController = controller.NewAdminController(s.adminService)
}

// NOTE: Graceful shutdown operation
func (s *service) gracefulShutdown(app *fiber.App) {

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// NOTE:Server Shutdown when keep signal
	<-sigChan
	log.Info("Shutting down server...")
	// NOTE: Creating context with timeout for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// NOTE: Shutdown Fiber server
	if err := app.Shutdown(); err != nil {
		log.Error("error while shutting down app", err)
	}

	if s.kafkaProducer != nil {
		if err := s.kafkaProducer.Close(); err != nil {
			log.Error("error while closing kafka producer", err)
		}
	}

	// NOTE: Shutdown Database connection
	done := make(chan bool)
	go func() {
		config.CloseDatabaseConnection(s.dbConnection)
		done <- true
	}()

	select {
	case <-ctx.Done():
		log.Error("timeout while shutting down database", ctx.Err())
	case <-done:
		log.Info("database is gracefully shutdown", ctx.Err())
	}
}
