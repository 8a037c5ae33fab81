package examService

import (
	"testa/internal/api/exam"
	examRepository "testa/internal/api/exam/repository"
	"testa/internal/entity"
	redisPkg "testa/pkg/redis"
	"testa/pkg/utils"

	"context"

	"github.com/sirupsen/logrus"
)

type ExamService interface {
	Exam() ExamDomain
	Admin() AdminDomain
}

type ExamDomain interface {
	GetAvailableExams(c context.Context, userID string) ([]exam.ExamResponse, error)
	StartSession(c context.Context, user entity.UserLoginData, examID string) (exam.StartSessionResponse, error)
	SubmitAnswers(c context.Context, user entity.UserLoginData, sessionID string, submission exam.ExamSubmission) (exam.SubmitExamResponse, error)
}

type AdminDomain interface {
	CreatePaper(c context.Context, req exam.CreatePaperRequest) (exam.PaperResponse, error)
	CreateExam(c context.Context, req exam.CreateExamRequest) (exam.ExamResponse, error)
	AddQuestion(c context.Context, examID string, req exam.CreateQuestionRequest) (exam.QuestionResponse, error)
}

type examService struct {
	log            *logrus.Logger
	examRepository examRepository.Repository
	redisServer    redisPkg.IRedis
	utils          utils.IUtils

	examDomain  ExamDomain
	adminDomain AdminDomain
}

func (s *examService) Exam() ExamDomain {
	return s.examDomain
}

func (s *examService) Admin() AdminDomain {
	return s.adminDomain
}

type examDomainImpl struct {
	log         *logrus.Logger
	repo        examRepository.Repository
	redisServer redisPkg.IRedis
	utils       utils.IUtils
}

type adminDomainImpl struct {
	log   *logrus.Logger
	repo  examRepository.Repository
	utils utils.IUtils
}

func New(log *logrus.Logger,
	examRepo examRepository.Repository,
	redisServer redisPkg.IRedis,
	utils utils.IUtils,
) ExamService {
	return &examService{
		log:            log,
		examRepository: examRepo,
		redisServer:    redisServer,
		utils:          utils,

		examDomain:  &examDomainImpl{log: log, repo: examRepo, redisServer: redisServer, utils: utils},
		adminDomain: &adminDomainImpl{log: log, repo: examRepo, utils: utils},
	}
}
