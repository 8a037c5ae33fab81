package examService

import (
	"testa/internal/api/exam"
	"testa/internal/entity"
	contextPkg "testa/pkg/context"

	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultDurationMinutes = 180
	defaultTotalScore      = 100
	defaultPassMark        = 50
)

func (s *adminDomainImpl) CreatePaper(c context.Context, req exam.CreatePaperRequest) (exam.PaperResponse, error) {
	requestID := contextPkg.GetRequestID(c)
	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return exam.PaperResponse{}, err
	}

	id, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		return exam.PaperResponse{}, err
	}

	paper := entity.Paper{
		ID:    id,
		Title: req.Title,
		Level: entity.ExamLevel(req.Level),
	}

	if err := repo.Papers.CreatePaper(c, paper); err != nil {
		return exam.PaperResponse{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"paper_id":   id,
	}).Info("Paper created")

	return exam.PaperResponse{
		ID:        paper.ID,
		Title:     paper.Title,
		Level:     string(paper.Level),
		CreatedAt: time.Now(),
	}, nil
}

func (s *adminDomainImpl) CreateExam(c context.Context, req exam.CreateExamRequest) (exam.ExamResponse, error) {
	requestID := contextPkg.GetRequestID(c)
	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return exam.ExamResponse{}, err
	}

	paper, err := repo.Papers.GetPaperByID(c, req.PaperID)
	if err != nil {
		return exam.ExamResponse{}, err
	}

	id, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		return exam.ExamResponse{}, err
	}

	e := entity.Exam{
		ID:              id,
		PaperID:         paper.ID,
		Diet:            entity.ExamDiet(req.Diet),
		Year:            req.Year,
		DurationMinutes: req.DurationMinutes,
		TotalScore:      req.TotalScore,
		PassMark:        req.PassMark,
	}

	if e.DurationMinutes == 0 {
		e.DurationMinutes = defaultDurationMinutes
	}
	if e.TotalScore == 0 {
		e.TotalScore = defaultTotalScore
	}
	if e.PassMark == 0 {
		e.PassMark = defaultPassMark
	}

	if err := repo.Exams.CreateExam(c, e); err != nil {
		return exam.ExamResponse{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"exam_id":    id,
		"paper_id":   paper.ID,
	}).Info("Exam created")

	return exam.ExamResponse{
		ID:              e.ID,
		PaperID:         e.PaperID,
		PaperTitle:      paper.Title,
		Diet:            string(e.Diet),
		Year:            e.Year,
		DurationMinutes: e.DurationMinutes,
		TotalScore:      e.TotalScore,
		PassMark:        e.PassMark,
	}, nil
}

func (s *adminDomainImpl) AddQuestion(c context.Context, examID string, req exam.CreateQuestionRequest) (exam.QuestionResponse, error) {
	requestID := contextPkg.GetRequestID(c)
	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return exam.QuestionResponse{}, err
	}

	if _, err := repo.Exams.GetExamByID(c, examID); err != nil {
		return exam.QuestionResponse{}, err
	}

	id, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		return exam.QuestionResponse{}, err
	}

	var options []byte
	if len(req.Options) > 0 {
		options, err = json.Marshal(req.Options)
		if err != nil {
			return exam.QuestionResponse{}, err
		}
	}

	q := entity.Question{
		ID:            id,
		ExamID:        examID,
		QuestionText:  req.QuestionText,
		QuestionType:  entity.QuestionType(req.QuestionType),
		Options:       options,
		CorrectAnswer: req.CorrectAnswer,
	}

	if err := repo.Exams.CreateQuestion(c, q); err != nil {
		return exam.QuestionResponse{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id":  requestID,
		"exam_id":     examID,
		"question_id": id,
	}).Info("Question added to exam")

	return exam.QuestionResponse{
		ID:           q.ID,
		QuestionText: q.QuestionText,
		QuestionType: string(q.QuestionType),
		Options:      q.Options,
	}, nil
}
