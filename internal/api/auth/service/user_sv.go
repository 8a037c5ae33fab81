package authService

import (
	"testa/internal/api/auth"
	"testa/internal/entity"
	contextPkg "testa/pkg/context"
	jwtPkg "testa/pkg/jwt"

	"context"
	"mime/multipart"
	"time"

	"github.com/sirupsen/logrus"
)

func (s *userDomainImpl) RegisterUser(c context.Context, req auth.RegisterUserRequest) (auth.LoginUserResponse, string, error) {
	requestID := contextPkg.GetRequestID(c)
	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return auth.LoginUserResponse{}, "", err
	}

	hashedPassword, err := s.bcryptUtils.HashPassword(req.Password)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to hash password")
		return auth.LoginUserResponse{}, "", err
	}

	id, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate user ID")
		return auth.LoginUserResponse{}, "", err
	}

	user := entity.User{
		ID:          id,
		Email:       req.Email,
		Password:    hashedPassword,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		ICANNumber:  req.ICANNumber,
		IsActive:    true,
	}

	if err := repo.Users.CreateUser(c, user); err != nil {
		return auth.LoginUserResponse{}, "", err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"user_id":    user.ID,
	}).Info("User registered")

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

	res := auth.LoginUserResponse{
		AccessToken:      accessToken,
		ExpiresInMinutes: time.Until(time.Unix(expired, 0)).Minutes(),
		User:             MakeUserResponse(user),
	}

	return res, refreshToken, nil
}

func (s *userDomainImpl) GetByID(c context.Context, id string) (entity.User, error) {
	requestID := contextPkg.GetRequestID(c)
	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return entity.User{}, err
	}

	return repo.Users.GetByID(c, id)
}

// UpdateUser lets a user edit their own profile; admins may edit anyone.
func (s *userDomainImpl) UpdateUser(c context.Context, actor entity.UserLoginData, targetID string, req auth.UpdateUserRequest) (entity.User, error) {
	requestID := contextPkg.GetRequestID(c)

	if actor.ID != targetID && !actor.IsAdmin {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"actor_id":   actor.ID,
			"target_id":  targetID,
		}).Warn("User attempted to update another user's profile")
		return entity.User{}, auth.ErrNotAuthorized
	}

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return entity.User{}, err
	}

	dbUser, err := repo.Users.GetByID(c, targetID)
	if err != nil {
		return entity.User{}, err
	}

	updated := GetUserDifferenceData(dbUser, req)

	if err := repo.Users.UpdateUser(c, updated); err != nil {
		return entity.User{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"user_id":    targetID,
	}).Info("User profile updated")

	return updated, nil
}

// UpdateAvatar stores the portrait the verification flow later matches
// against, so the upload is validated before anything is written.
func (s *userDomainImpl) UpdateAvatar(c context.Context, userID string, photoFile *multipart.FileHeader) (*auth.AvatarResponse, error) {
	requestID := contextPkg.GetRequestID(c)

	if err := s.utils.ValidateImageFile(photoFile); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Avatar file validation failed")
		return nil, err
	}

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, err
	}

	user, err := repo.Users.GetByID(c, userID)
	if err != nil {
		return nil, err
	}

	avatarURL, err := s.s3Client.UploadAvatar(photoFile)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to upload avatar to S3")
		return nil, auth.ErrFailedToUploadFile
	}

	if err := repo.Users.UpdateAvatar(c, user.ID, avatarURL); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"user_id":    userID,
	}).Info("Avatar updated")

	return &auth.AvatarResponse{
		ID:        user.ID,
		AvatarURL: avatarURL,
	}, nil
}

func (s *userDomainImpl) DeleteUser(c context.Context, id string) error {
	requestID := contextPkg.GetRequestID(c)
	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return err
	}

	if _, err := repo.Users.GetByID(c, id); err != nil {
		return err
	}

	if err := repo.Users.DeleteUser(c, id); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"user_id":    id,
	}).Info("User deleted")

	return nil
}
