package verificationHandler

import (
	verificationService "testa/internal/api/verification/service"
	"testa/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type VerificationHandler struct {
	log                 *logrus.Logger
	validator           *validator.Validate
	middleware          middleware.Middleware
	verificationService verificationService.IVerificationService
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	vs verificationService.IVerificationService,
) *VerificationHandler {
	return &VerificationHandler{
		log:                 log,
		validator:           validator,
		middleware:          middleware,
		verificationService: vs,
	}
}

func (h *VerificationHandler) Start(srv fiber.Router) {
	wsMiddleware := func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}

	verify := srv.Group("/verification")
	verify.Use("/ws", wsMiddleware)
	verify.Get("/ws", websocket.New(h.handleVerificationWebSocket))
}
