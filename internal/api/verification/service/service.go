package verificationService

import (
	authRepository "testa/internal/api/auth/repository"
	facePkg "testa/pkg/face"
	redisPkg "testa/pkg/redis"
	s3Pkg "testa/pkg/s3"

	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type IVerificationService interface {
	NewSessionForUser(ctx context.Context, userID string) (*Session, error)
	MarkVerified(ctx context.Context, userID string) error
}

type verificationService struct {
	log         *logrus.Logger
	engine      facePkg.ItfFace
	authRepo    authRepository.Repository
	redisServer redisPkg.IRedis
	s3          s3Pkg.ItfS3
	httpClient  *http.Client
	cfg         Config
}

// verifiedFlagTTL bounds how long a passed verification lets the user
// start an exam session before having to verify again.
const verifiedFlagTTL = 5 * time.Minute

func NewVerificationService(
	log *logrus.Logger,
	engine facePkg.ItfFace,
	authRepo authRepository.Repository,
	redisServer redisPkg.IRedis,
	s3 s3Pkg.ItfS3,
) IVerificationService {
	return &verificationService{
		log:         log,
		engine:      engine,
		authRepo:    authRepo,
		redisServer: redisServer,
		s3:          s3,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		cfg:         ConfigFromEnv(),
	}
}

func (s *verificationService) MarkVerified(ctx context.Context, userID string) error {
	return s.redisServer.SetVerificationPassed(ctx, userID, verifiedFlagTTL)
}
