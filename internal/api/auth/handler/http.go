package authHandler

import (
	authService "testa/internal/api/auth/service"
	"testa/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	log         *logrus.Logger
	authService authService.AuthService
	validator   *validator.Validate
	middleware  middleware.Middleware
}

func New(
	log *logrus.Logger,
	as authService.AuthService,
	validate *validator.Validate,
	middleware middleware.Middleware,
) *AuthHandler {
	return &AuthHandler{
		log:         log,
		authService: as,
		validator:   validate,
		middleware:  middleware,
	}
}

func (h *AuthHandler) Start(srv fiber.Router) {
	auth := srv.Group("/auth")
	auth.Post("/register", h.middleware.NewRateLimiter, h.HandleRegister)
	auth.Post("/login", h.middleware.NewRateLimiter, h.HandleLogin)
	auth.Post("/admin/login", h.middleware.NewRateLimiter, h.HandleAdminLogin)
	auth.Post("/logout", h.middleware.NewRateLimiter, h.middleware.NewTokenMiddleware, h.HandleLogout)
	auth.Post("/refresh-access-token", h.middleware.NewRateLimiter, h.HandleRefreshAccessToken)

	users := srv.Group("/users")
	users.Get("/me", h.middleware.NewTokenMiddleware, h.HandleGetCurrentUser)
	users.Get("/:id", h.middleware.NewTokenMiddleware, h.HandleGetUserByID)
	users.Patch("/:id", h.middleware.NewTokenMiddleware, h.HandleUpdateUser)
	users.Post("/avatar", h.middleware.NewTokenMiddleware, h.HandleUpdateAvatar)
	users.Delete("/:id", h.middleware.NewTokenMiddleware, h.middleware.NewAdminMiddleware, h.HandleDeleteUser)
}
