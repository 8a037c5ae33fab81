package examService

import (
	"testa/internal/api/exam"
	examRepository "testa/internal/api/exam/repository"
	"testa/internal/entity"
	contextPkg "testa/pkg/context"

	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"math"
	"time"

	"github.com/sirupsen/logrus"
)

// GetAvailableExams resolves the user's current level from their paper
// credits and returns every exam at that level the user has not already
// passed. Foundation is completed before Skills, Skills before
// Professional.
func (s *examDomainImpl) GetAvailableExams(c context.Context, userID string) ([]exam.ExamResponse, error) {
	requestID := contextPkg.GetRequestID(c)
	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, err
	}

	level, err := s.resolveCurrentLevel(c, repo, userID)
	if err != nil {
		return nil, err
	}

	return repo.Exams.GetAvailableExams(c, userID, level)
}

func (s *examDomainImpl) resolveCurrentLevel(c context.Context, repo examRepository.Client, userID string) (entity.ExamLevel, error) {
	level := entity.LevelFoundation

	foundationTotal, err := repo.Papers.CountPapersByLevel(c, entity.LevelFoundation)
	if err != nil {
		return level, err
	}
	foundationPassed, err := repo.Papers.CountPassedPapersByLevel(c, userID, entity.LevelFoundation)
	if err != nil {
		return level, err
	}

	if foundationPassed >= foundationTotal {
		level = entity.LevelSkills

		skillsTotal, err := repo.Papers.CountPapersByLevel(c, entity.LevelSkills)
		if err != nil {
			return level, err
		}
		skillsPassed, err := repo.Papers.CountPassedPapersByLevel(c, userID, entity.LevelSkills)
		if err != nil {
			return level, err
		}

		if skillsPassed >= skillsTotal {
			level = entity.LevelProfessional
		}
	}

	return level, nil
}

// StartSession opens an exam session. The user must have passed a
// biometric verification recently, holds the exam in their available set
// and must not already have an open session on it.
func (s *examDomainImpl) StartSession(c context.Context, user entity.UserLoginData, examID string) (exam.StartSessionResponse, error) {
	requestID := contextPkg.GetRequestID(c)

	verified, err := s.redisServer.IsVerificationPassed(c, user.ID)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to check verification flag")
		return exam.StartSessionResponse{}, err
	}
	if !verified {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"user_id":    user.ID,
		}).Warn("Exam start blocked, verification flag not set")
		return exam.StartSessionResponse{}, exam.ErrVerificationRequired
	}

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return exam.StartSessionResponse{}, err
	}

	examEntity, err := repo.Exams.GetExamByID(c, examID)
	if err != nil {
		return exam.StartSessionResponse{}, err
	}

	if _, err := repo.Sessions.GetActiveSessionByExam(c, user.ID, examID); err == nil {
		return exam.StartSessionResponse{}, exam.ErrActiveSessionExists
	} else if !errors.Is(err, exam.ErrSessionNotFound) {
		return exam.StartSessionResponse{}, err
	}

	paper, err := repo.Papers.GetPaperByID(c, examEntity.PaperID)
	if err != nil {
		return exam.StartSessionResponse{}, err
	}

	sessionID, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate session ID")
		return exam.StartSessionResponse{}, err
	}

	session := entity.ExamSession{
		ID:        sessionID,
		UserID:    user.ID,
		ExamID:    examID,
		StartTime: time.Now(),
	}

	if err := repo.Sessions.CreateSession(c, session); err != nil {
		return exam.StartSessionResponse{}, err
	}

	// One verification admits one exam start.
	if err := s.redisServer.ClearVerificationPassed(c, user.ID); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"user_id":    user.ID,
			"error":      err.Error(),
		}).Warn("Failed to clear verification flag")
	}

	questions, err := repo.Exams.GetQuestionsByExamID(c, examID)
	if err != nil {
		return exam.StartSessionResponse{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"user_id":    user.ID,
		"exam_id":    examID,
		"session_id": sessionID,
	}).Info("Exam session started")

	return exam.StartSessionResponse{
		SessionID:       sessionID,
		ExamTitle:       paper.Title,
		DurationMinutes: examEntity.DurationMinutes,
		Questions:       makeQuestionResponses(questions),
	}, nil
}

// SubmitAnswers grades an open session, finalizes it and awards a paper
// credit on a pass. The session update and the credit insert share one
// transaction.
func (s *examDomainImpl) SubmitAnswers(c context.Context, user entity.UserLoginData, sessionID string, submission exam.ExamSubmission) (exam.SubmitExamResponse, error) {
	requestID := contextPkg.GetRequestID(c)

	repo, err := s.repo.NewClient(true)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return exam.SubmitExamResponse{}, err
	}
	defer func() {
		if err := repo.Rollback(); err != nil && err != sql.ErrTxDone {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Warn("Rollback failed")
		}
	}()

	session, err := repo.Sessions.GetActiveSessionByID(c, sessionID, user.ID)
	if err != nil {
		return exam.SubmitExamResponse{}, err
	}

	examEntity, err := repo.Exams.GetExamByID(c, session.ExamID)
	if err != nil {
		return exam.SubmitExamResponse{}, err
	}

	questions, err := repo.Exams.GetQuestionsByExamID(c, session.ExamID)
	if err != nil {
		return exam.SubmitExamResponse{}, err
	}

	finalScore := gradeSubmission(questions, submission)
	passed := finalScore >= float64(examEntity.PassMark)

	submittedJSON, err := json.Marshal(submission)
	if err != nil {
		return exam.SubmitExamResponse{}, err
	}

	session.Score = sql.NullInt64{Int64: int64(math.Round(finalScore)), Valid: true}
	session.SubmittedAnswers = submittedJSON
	session.EndTime = sql.NullTime{Time: time.Now(), Valid: true}

	if err := repo.Sessions.FinalizeSession(c, session); err != nil {
		return exam.SubmitExamResponse{}, err
	}

	if passed {
		exists, err := repo.Sessions.CreditExists(c, user.ID, examEntity.PaperID)
		if err != nil {
			return exam.SubmitExamResponse{}, err
		}

		if !exists {
			creditID, err := s.utils.NewULIDFromTimestamp(time.Now())
			if err != nil {
				return exam.SubmitExamResponse{}, err
			}

			credit := entity.PaperCredit{
				ID:         creditID,
				UserID:     user.ID,
				PaperID:    examEntity.PaperID,
				Passed:     true,
				PassedDate: time.Now(),
			}

			if err := repo.Sessions.CreateCredit(c, credit); err != nil {
				return exam.SubmitExamResponse{}, err
			}
		}
	}

	if err := repo.Commit(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to commit exam submission")
		return exam.SubmitExamResponse{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"user_id":    user.ID,
		"session_id": sessionID,
		"score":      finalScore,
		"passed":     passed,
	}).Info("Exam submitted")

	return exam.SubmitExamResponse{
		Message: "Exam submitted successfully!",
		Score:   finalScore,
		Passed:  passed,
	}, nil
}

// gradeSubmission scores one point per correctly answered question and
// scales to a percentage. No questions means a zero score.
func gradeSubmission(questions []entity.Question, submission exam.ExamSubmission) float64 {
	if len(questions) == 0 {
		return 0
	}

	correct := make(map[string]string, len(questions))
	for _, q := range questions {
		correct[q.ID] = q.CorrectAnswer
	}

	score := 0
	for _, answer := range submission.Answers {
		if want, ok := correct[answer.QuestionID]; ok && answer.Answer == want {
			score++
		}
	}

	return float64(score) / float64(len(questions)) * 100
}

func makeQuestionResponses(questions []entity.Question) []exam.QuestionResponse {
	responses := make([]exam.QuestionResponse, 0, len(questions))
	for _, q := range questions {
		responses = append(responses, exam.QuestionResponse{
			ID:           q.ID,
			QuestionText: q.QuestionText,
			QuestionType: string(q.QuestionType),
			Options:      q.Options,
		})
	}
	return responses
}
