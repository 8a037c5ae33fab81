package jwtPkg

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"testa/internal/entity"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

const (
	AccessTokenSecretEnv  = "JWT_ACCESS_TOKEN_SECRET"
	RefreshTokenSecretEnv = "JWT_REFRESH_TOKEN_SECRET"
)

func Sign(Data map[string]interface{}, ExpiredAt time.Duration) (string, int64, error) {
	return signWithSecret(Data, ExpiredAt, AccessTokenSecretEnv)
}

func SignRefresh(Data map[string]interface{}, ExpiredAt time.Duration) (string, int64, error) {
	return signWithSecret(Data, ExpiredAt, RefreshTokenSecretEnv)
}

func signWithSecret(Data map[string]interface{}, ExpiredAt time.Duration, secretEnvKey string) (string, int64, error) {
	expiredAt := time.Now().Add(ExpiredAt).Unix()

	JWTSecretKey := os.Getenv(secretEnvKey)
	if JWTSecretKey == "" {
		return "", 0, fmt.Errorf("%s not set", secretEnvKey)
	}

	claims := jwt.MapClaims{}
	claims["exp"] = expiredAt
	claims["authorization"] = true

	for i, v := range Data {
		claims[i] = v
	}

	to := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	accessToken, err := to.SignedString([]byte(JWTSecretKey))
	if err != nil {
		logrus.WithError(err).Error("Failed to sign token")
		return "", 0, err
	}

	return accessToken, expiredAt, nil
}

func VerifyTokenHeader(c *fiber.Ctx, secretEnvKey string) (*jwt.Token, error) {
	header := c.Get("Authorization")
	if header == "" {
		return nil, errors.New("empty Authorization header")
	}

	parts := strings.Split(header, "Bearer ")
	if len(parts) != 2 {
		return nil, errors.New("invalid Authorization format")
	}

	accessToken := strings.TrimSpace(parts[1])
	if accessToken == "" {
		return nil, errors.New("empty token")
	}

	return VerifyTokenString(accessToken, secretEnvKey)
}

// VerifyTokenString parses and validates a raw token. The websocket
// handshake and the refresh-token cookie carry tokens outside the
// Authorization header, so this is split out of VerifyTokenHeader.
func VerifyTokenString(tokenString string, secretEnvKey string) (*jwt.Token, error) {
	log := logrus.WithField("func", "VerifyTokenString")

	JWTSecretKey := os.Getenv(secretEnvKey)
	if JWTSecretKey == "" {
		log.Errorf("%s environment variable not set", secretEnvKey)
		return nil, errors.New("JWT secret not configured")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			log.WithField("method", token.Header["alg"]).Error("Unexpected signing method")
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(JWTSecretKey), nil
	})

	if err != nil {
		log.WithError(err).Error("Failed to parse JWT token")
		return nil, err
	}

	return token, nil
}

// UserFromClaims extracts the login identity out of verified claims.
func UserFromClaims(token *jwt.Token) (entity.UserLoginData, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return entity.UserLoginData{}, errors.New("invalid token claims")
	}

	if claims["id"] == nil || claims["email"] == nil {
		return entity.UserLoginData{}, errors.New("token claims missing required fields")
	}

	user := entity.UserLoginData{
		ID:    claims["id"].(string),
		Email: claims["email"].(string),
	}
	if isAdmin, ok := claims["is_admin"].(bool); ok {
		user.IsAdmin = isAdmin
	}

	return user, nil
}

func GetUserLoginData(c *fiber.Ctx) (entity.UserLoginData, error) {
	userData := c.Locals("user")

	user, ok := userData.(entity.UserLoginData)
	if !ok {
		return entity.UserLoginData{}, fiber.ErrUnauthorized
	}

	return user, nil
}
