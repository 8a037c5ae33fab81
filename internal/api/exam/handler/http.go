package examHandler

import (
	examService "testa/internal/api/exam/service"
	"testa/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type ExamHandler struct {
	log         *logrus.Logger
	examService examService.ExamService
	validator   *validator.Validate
	middleware  middleware.Middleware
}

func New(
	log *logrus.Logger,
	es examService.ExamService,
	validate *validator.Validate,
	middleware middleware.Middleware,
) *ExamHandler {
	return &ExamHandler{
		log:         log,
		examService: es,
		validator:   validate,
		middleware:  middleware,
	}
}

func (h *ExamHandler) Start(srv fiber.Router) {
	exams := srv.Group("/exams", h.middleware.NewTokenMiddleware)
	exams.Get("/available", h.HandleGetAvailableExams)
	exams.Post("/:id/start", h.HandleStartSession)
	exams.Post("/:id/submit", h.HandleSubmitAnswers)

	admin := srv.Group("/admin", h.middleware.NewTokenMiddleware, h.middleware.NewAdminMiddleware)
	admin.Post("/papers", h.HandleCreatePaper)
	admin.Post("/exams", h.HandleCreateExam)
	admin.Post("/exams/:id/questions", h.HandleAddQuestion)
}
