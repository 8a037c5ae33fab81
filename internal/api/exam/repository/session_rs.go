package examRepository

import (
	"testa/internal/api/exam"
	"testa/internal/entity"
	contextPkg "testa/pkg/context"

	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

func (r *sessionRepository) CreateSession(c context.Context, session entity.ExamSession) error {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"id":         session.ID,
		"user_id":    session.UserID,
		"exam_id":    session.ExamID,
		"start_time": session.StartTime,
	}

	query, args, err := sqlx.Named(queryCreateSession, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CreateSession named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(c, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CreateSession execution err")
		return err
	}

	return nil
}

func (r *sessionRepository) GetActiveSessionByExam(c context.Context, userID string, examID string) (entity.ExamSession, error) {
	return r.getActiveSession(c, queryGetActiveSessionByExam, map[string]interface{}{
		"user_id": userID,
		"exam_id": examID,
	})
}

func (r *sessionRepository) GetActiveSessionByID(c context.Context, sessionID string, userID string) (entity.ExamSession, error) {
	return r.getActiveSession(c, queryGetActiveSessionByID, map[string]interface{}{
		"id":      sessionID,
		"user_id": userID,
	})
}

func (r *sessionRepository) getActiveSession(c context.Context, namedQuery string, argsKV map[string]interface{}) (entity.ExamSession, error) {
	requestID := contextPkg.GetRequestID(c)
	var session entity.ExamSession

	query, args, err := sqlx.Named(namedQuery, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("getActiveSession named query preparation err")
		return entity.ExamSession{}, err
	}
	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(c, query, args...).StructScan(&session); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.ExamSession{}, exam.ErrSessionNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("getActiveSession execution err")
		return entity.ExamSession{}, err
	}

	return session, nil
}

func (r *sessionRepository) FinalizeSession(c context.Context, session entity.ExamSession) error {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"id":                session.ID,
		"score":             session.Score,
		"submitted_answers": session.SubmittedAnswers,
		"end_time":          session.EndTime,
	}

	query, args, err := sqlx.Named(queryFinalizeSession, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("FinalizeSession named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(c, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("FinalizeSession execution err")
		return err
	}

	return nil
}

func (r *sessionRepository) CreditExists(c context.Context, userID string, paperID string) (bool, error) {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"user_id":  userID,
		"paper_id": paperID,
	}

	query, args, err := sqlx.Named(queryCreditExists, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CreditExists named query preparation err")
		return false, err
	}
	query = r.q.Rebind(query)

	var count int
	if err := r.q.QueryRowxContext(c, query, args...).Scan(&count); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CreditExists execution err")
		return false, err
	}

	return count > 0, nil
}

func (r *sessionRepository) CreateCredit(c context.Context, credit entity.PaperCredit) error {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"id":          credit.ID,
		"user_id":     credit.UserID,
		"paper_id":    credit.PaperID,
		"passed":      credit.Passed,
		"passed_date": credit.PassedDate,
	}

	query, args, err := sqlx.Named(queryCreateCredit, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CreateCredit named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(c, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CreateCredit execution err")
		return err
	}

	return nil
}
