package examRepository

import (
	"testa/internal/api/exam"
	"testa/internal/entity"
	contextPkg "testa/pkg/context"

	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

func (r *examSubRepository) CreateExam(c context.Context, e entity.Exam) error {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"id":               e.ID,
		"paper_id":         e.PaperID,
		"diet":             e.Diet,
		"year":             e.Year,
		"duration_minutes": e.DurationMinutes,
		"total_score":      e.TotalScore,
		"pass_mark":        e.PassMark,
		"created_at":       time.Now(),
		"updated_at":       time.Now(),
	}

	query, args, err := sqlx.Named(queryCreateExam, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CreateExam named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(c, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CreateExam execution err")
		return err
	}

	return nil
}

func (r *examSubRepository) GetExamByID(c context.Context, id string) (entity.Exam, error) {
	requestID := contextPkg.GetRequestID(c)
	var e entity.Exam

	argsKV := map[string]interface{}{
		"id": id,
	}

	query, args, err := sqlx.Named(queryGetExamByID, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetExamByID named query preparation err")
		return entity.Exam{}, err
	}
	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(c, query, args...).StructScan(&e); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Exam{}, exam.ErrExamNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetExamByID execution err")
		return entity.Exam{}, err
	}

	return e, nil
}

func (r *examSubRepository) GetAvailableExams(c context.Context, userID string, level entity.ExamLevel) ([]exam.ExamResponse, error) {
	requestID := contextPkg.GetRequestID(c)

	argsKV := map[string]interface{}{
		"user_id": userID,
		"level":   level,
	}

	query, args, err := sqlx.Named(queryGetAvailableExams, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetAvailableExams named query preparation err")
		return nil, err
	}
	query = r.q.Rebind(query)

	rows, err := r.q.QueryxContext(c, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetAvailableExams execution err")
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Warn("GetAvailableExams rows close err")
		}
	}()

	exams := make([]exam.ExamResponse, 0)
	for rows.Next() {
		var row availableExamDB
		if err := rows.StructScan(&row); err != nil {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Error("GetAvailableExams scan err")
			return nil, err
		}

		exams = append(exams, exam.ExamResponse{
			ID:              row.ID,
			PaperID:         row.PaperID,
			PaperTitle:      row.PaperTitle,
			Diet:            string(row.Diet),
			Year:            row.Year,
			DurationMinutes: row.DurationMinutes,
			TotalScore:      row.TotalScore,
			PassMark:        row.PassMark,
		})
	}

	return exams, rows.Err()
}

type availableExamDB struct {
	ID              string          `db:"id"`
	PaperID         string          `db:"paper_id"`
	PaperTitle      string          `db:"paper_title"`
	Diet            entity.ExamDiet `db:"diet"`
	Year            int             `db:"year"`
	DurationMinutes int             `db:"duration_minutes"`
	TotalScore      int             `db:"total_score"`
	PassMark        int             `db:"pass_mark"`
}

func (r *examSubRepository) CreateQuestion(c context.Context, q entity.Question) error {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"id":             q.ID,
		"exam_id":        q.ExamID,
		"question_text":  q.QuestionText,
		"question_type":  q.QuestionType,
		"options":        q.Options,
		"correct_answer": q.CorrectAnswer,
		"created_at":     time.Now(),
	}

	query, args, err := sqlx.Named(queryCreateQuestion, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CreateQuestion named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(c, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CreateQuestion execution err")
		return err
	}

	return nil
}

func (r *examSubRepository) GetQuestionsByExamID(c context.Context, examID string) ([]entity.Question, error) {
	requestID := contextPkg.GetRequestID(c)

	argsKV := map[string]interface{}{
		"exam_id": examID,
	}

	query, args, err := sqlx.Named(queryGetQuestionsByExamID, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetQuestionsByExamID named query preparation err")
		return nil, err
	}
	query = r.q.Rebind(query)

	rows, err := r.q.QueryxContext(c, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetQuestionsByExamID execution err")
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Warn("GetQuestionsByExamID rows close err")
		}
	}()

	questions := make([]entity.Question, 0)
	for rows.Next() {
		var q entity.Question
		if err := rows.StructScan(&q); err != nil {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Error("GetQuestionsByExamID scan err")
			return nil, err
		}
		questions = append(questions, q)
	}

	return questions, rows.Err()
}
