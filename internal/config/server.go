package config

import (
	"testa/database/postgres"
	authHandler "testa/internal/api/auth/handler"
	authRepository "testa/internal/api/auth/repository"
	authService "testa/internal/api/auth/service"
	examHandler "testa/internal/api/exam/handler"
	examRepository "testa/internal/api/exam/repository"
	examService "testa/internal/api/exam/service"
	verificationHandler "testa/internal/api/verification/handler"
	verificationService "testa/internal/api/verification/service"
	"testa/internal/middleware"
	"testa/pkg/bcrypt"
	facePkg "testa/pkg/face"
	"testa/pkg/redis"
	"testa/pkg/s3"
	"testa/pkg/utils"

	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type ServerOption func(*Server) error

type Server struct {
	engine      *fiber.App
	db          *sqlx.DB
	log         *logrus.Logger
	middleware  middleware.Middleware
	validator   *validator.Validate
	utils       utils.IUtils
	bcryptUtils bcrypt.IBcrypt
	handlers    []handler
	redisServer redis.IRedis
	faceEngine  facePkg.ItfFace
	s3Client    s3.ItfS3
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithDatabase() ServerOption {
	return func(s *Server) error {
		db, err := postgres.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}
		s.db = db
		return nil
	}
}

func WithRedisServer(redisServer redis.IRedis) ServerOption {
	return func(s *Server) error {
		s.redisServer = redisServer
		return nil
	}
}

func WithFaceEngine() ServerOption {
	return func(s *Server) error {
		engine, err := facePkg.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to initialize face engine: %v", err)
			}
			return fmt.Errorf("failed to create face engine: %w", err)
		}
		s.faceEngine = engine
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log)
		return nil
	}
}

func WithS3Client() ServerOption {
	return func(s *Server) error {
		client, err := s3.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to initialize S3 client: %v", err)
			}
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		s.s3Client = client
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func WithBcryptUtils() ServerOption {
	return func(s *Server) error {
		s.bcryptUtils = bcrypt.New()
		return nil
	}
}

func (s *Server) RegisterHandler() {
	// Auth Domain
	authRepo := authRepository.New(s.db, s.log)
	authServices := authService.New(s.log, authRepo, s.s3Client, s.bcryptUtils, s.utils)
	authHandlers := authHandler.New(s.log, authServices, s.validator, s.middleware)

	// Exam Domain
	examRepo := examRepository.New(s.db, s.log)
	examServices := examService.New(s.log, examRepo, s.redisServer, s.utils)
	examHandlers := examHandler.New(s.log, examServices, s.validator, s.middleware)

	// Verification Domain
	verificationServices := verificationService.NewVerificationService(s.log, s.faceEngine, authRepo, s.redisServer, s.s3Client)
	verificationHandlers := verificationHandler.New(s.log, s.validator, s.middleware, verificationServices)

	s.setupHealthCheck()
	s.handlers = append(s.handlers, authHandlers, examHandlers, verificationHandlers)
}

func (s *Server) Run() error {
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(middleware.LoggerConfig())
	router := s.engine.Group("/api/v1")

	for _, h := range s.handlers {
		h.Start(router)
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

// Shutdown releases resources the server owns. The face engine holds
// cgo-allocated model memory and must be closed explicitly.
func (s *Server) Shutdown() {
	if s.faceEngine != nil {
		s.faceEngine.Close()
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.log.Errorf("Failed to close database: %v", err)
		}
	}
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
		})
	})
}
