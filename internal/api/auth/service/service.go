package authService

import (
	"testa/internal/api/auth"
	authRepository "testa/internal/api/auth/repository"
	"testa/internal/entity"
	"testa/pkg/bcrypt"
	"testa/pkg/s3"
	"testa/pkg/utils"

	"context"
	"mime/multipart"

	"github.com/sirupsen/logrus"
)

type AuthService interface {
	User() UserDomain
	Auth() AuthDomain
	GetRepository() authRepository.Repository
}

type UserDomain interface {
	RegisterUser(c context.Context, req auth.RegisterUserRequest) (auth.LoginUserResponse, string, error)
	GetByID(c context.Context, id string) (entity.User, error)
	UpdateUser(c context.Context, actor entity.UserLoginData, targetID string, req auth.UpdateUserRequest) (entity.User, error)
	UpdateAvatar(c context.Context, userID string, photoFile *multipart.FileHeader) (*auth.AvatarResponse, error)
	DeleteUser(c context.Context, id string) error
}

type AuthDomain interface {
	Login(c context.Context, req auth.LoginUserRequest) (auth.LoginUserResponse, string, error)
	AdminLogin(c context.Context, req auth.LoginUserRequest) (auth.LoginUserResponse, string, error)
	RefreshAccessToken(c context.Context, refreshToken string) (auth.LoginUserResponse, string, error)
}

type authService struct {
	log            *logrus.Logger
	authRepository authRepository.Repository
	s3Client       s3.ItfS3
	bcryptUtils    bcrypt.IBcrypt
	utils          utils.IUtils

	userDomain UserDomain
	authDomain AuthDomain
}

func (a *authService) User() UserDomain {
	return a.userDomain
}

func (a *authService) Auth() AuthDomain {
	return a.authDomain
}

func (a *authService) GetRepository() authRepository.Repository {
	return a.authRepository
}

type userDomainImpl struct {
	log         *logrus.Logger
	repo        authRepository.Repository
	s3Client    s3.ItfS3
	bcryptUtils bcrypt.IBcrypt
	utils       utils.IUtils
}

type authDomainImpl struct {
	log         *logrus.Logger
	repo        authRepository.Repository
	bcryptUtils bcrypt.IBcrypt
}

func New(log *logrus.Logger,
	authRepo authRepository.Repository,
	s3Client s3.ItfS3,
	bcryptUtils bcrypt.IBcrypt,
	utils utils.IUtils,
) AuthService {
	return &authService{
		log:            log,
		authRepository: authRepo,
		s3Client:       s3Client,
		bcryptUtils:    bcryptUtils,
		utils:          utils,

		userDomain: &userDomainImpl{log: log, repo: authRepo, s3Client: s3Client, bcryptUtils: bcryptUtils, utils: utils},
		authDomain: &authDomainImpl{log: log, repo: authRepo, bcryptUtils: bcryptUtils},
	}
}
