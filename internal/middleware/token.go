package middleware

import (
	jwtPkg "testa/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

func (m *middleware) NewTokenMiddleware(ctx *fiber.Ctx) error {
	authHeader := ctx.Get("Authorization")
	if authHeader == "" {
		m.log.WithFields(logrus.Fields{
			"path":  ctx.Path(),
			"error": "Authorization header is missing",
		}).Warn("Authorization header check")
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized, access token invalid or expired",
		})
	}

	userToken, err := jwtPkg.VerifyTokenHeader(ctx, jwtPkg.AccessTokenSecretEnv)
	if err != nil {
		m.log.WithFields(logrus.Fields{
			"path":  ctx.Path(),
			"error": err.Error(),
		}).Warn("Token verification failed")
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized, access token invalid or expired",
		})
	}

	user, err := jwtPkg.UserFromClaims(userToken)
	if err != nil {
		m.log.WithFields(logrus.Fields{
			"path":  ctx.Path(),
			"error": err.Error(),
		}).Warn("Token claims check")
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized, access token invalid or expired",
		})
	}

	ctx.Locals("user", user)

	return ctx.Next()
}

// NewAdminMiddleware must run after NewTokenMiddleware.
func (m *middleware) NewAdminMiddleware(ctx *fiber.Ctx) error {
	user, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized, access token invalid or expired",
		})
	}

	if !user.IsAdmin {
		m.log.WithFields(logrus.Fields{
			"path":    ctx.Path(),
			"user_id": user.ID,
		}).Warn("Non-admin attempted admin route")
		return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "User does not have admin privileges",
		})
	}

	return ctx.Next()
}
