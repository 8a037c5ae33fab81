package authService

import (
	"testa/internal/api/auth"
	"testa/internal/entity"
	contextPkg "testa/pkg/context"
	jwtPkg "testa/pkg/jwt"

	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	accessTokenTTL  = time.Hour * 1
	refreshTokenTTL = time.Hour * 24 * 30
)

func (s *authDomainImpl) Login(c context.Context, req auth.LoginUserRequest) (auth.LoginUserResponse, string, error) {
	return s.login(c, req, false)
}

// AdminLogin is Login plus an admin check on the resolved account.
func (s *authDomainImpl) AdminLogin(c context.Context, req auth.LoginUserRequest) (auth.LoginUserResponse, string, error) {
	return s.login(c, req, true)
}

func (s *authDomainImpl) login(c context.Context, req auth.LoginUserRequest, requireAdmin bool) (auth.LoginUserResponse, string, error) {
	requestID := contextPkg.GetRequestID(c)
	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return auth.LoginUserResponse{}, "", err
	}

	user, err := repo.Users.GetByEmail(c, req.Email)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Warn("Failed to get user by email")
			return auth.LoginUserResponse{}, "", auth.ErrInvalidUserCredentials
		}
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to get user by email")
		return auth.LoginUserResponse{}, "", err
	}

	if err := s.bcryptUtils.ComparePassword(user.Password, req.Password); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Password comparison failed")
		return auth.LoginUserResponse{}, "", auth.ErrInvalidUserCredentials
	}

	if requireAdmin && !user.IsAdmin {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"user_id":    user.ID,
		}).Warn("Non-admin user attempted admin login")
		return auth.LoginUserResponse{}, "", auth.ErrNotAuthorized
	}

	return s.issueTokens(c, user)
}

// RefreshAccessToken exchanges a valid refresh token, read from the HTTP
// only cookie, for a fresh token pair.
func (s *authDomainImpl) RefreshAccessToken(c context.Context, refreshToken string) (auth.LoginUserResponse, string, error) {
	requestID := contextPkg.GetRequestID(c)

	if refreshToken == "" {
		return auth.LoginUserResponse{}, "", auth.ErrorRefreshTokenExpired
	}

	token, err := jwtPkg.VerifyTokenString(refreshToken, jwtPkg.RefreshTokenSecretEnv)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Refresh token verification failed")
		return auth.LoginUserResponse{}, "", auth.ErrorRefreshTokenExpired
	}

	loginData, err := jwtPkg.UserFromClaims(token)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Refresh token claims invalid")
		return auth.LoginUserResponse{}, "", auth.ErrorInvalidToken
	}

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return auth.LoginUserResponse{}, "", err
	}

	user, err := repo.Users.GetByID(c, loginData.ID)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Refresh token user lookup failed")
		return auth.LoginUserResponse{}, "", auth.ErrorInvalidToken
	}

	return s.issueTokens(c, user)
}

func (s *authDomainImpl) issueTokens(c context.Context, user entity.User) (auth.LoginUserResponse, string, error) {
	requestID := contextPkg.GetRequestID(c)
	userData := MakeUserData(user)

	accessToken, expired, err := jwtPkg.Sign(userData, accessTokenTTL)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to sign access token")
		return auth.LoginUserResponse{}, "", err
	}

	refreshToken, _, err := jwtPkg.SignRefresh(userData, refreshTokenTTL)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to sign refresh token")
		return auth.LoginUserResponse{}, "", err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
	}).Info("Token pair created")

	res := auth.LoginUserResponse{
		AccessToken:      accessToken,
		ExpiresInMinutes: time.Until(time.Unix(expired, 0)).Minutes(),
		User:             MakeUserResponse(user),
	}

	return res, refreshToken, nil
}
