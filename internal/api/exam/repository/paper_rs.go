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
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

func (r *paperRepository) CreatePaper(c context.Context, paper entity.Paper) error {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"id":         paper.ID,
		"title":      paper.Title,
		"level":      paper.Level,
		"created_at": time.Now(),
		"updated_at": time.Now(),
	}

	query, args, err := sqlx.Named(queryCreatePaper, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CreatePaper named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(c, query, args...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Warn("Paper title already exists")
			return exam.ErrPaperTitleExists
		}

		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CreatePaper execution err")
		return err
	}

	return nil
}

func (r *paperRepository) GetPaperByID(c context.Context, id string) (entity.Paper, error) {
	requestID := contextPkg.GetRequestID(c)
	var paper entity.Paper

	argsKV := map[string]interface{}{
		"id": id,
	}

	query, args, err := sqlx.Named(queryGetPaperByID, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetPaperByID named query preparation err")
		return entity.Paper{}, err
	}
	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(c, query, args...).StructScan(&paper); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Paper{}, exam.ErrPaperNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetPaperByID execution err")
		return entity.Paper{}, err
	}

	return paper, nil
}

func (r *paperRepository) CountPapersByLevel(c context.Context, level entity.ExamLevel) (int, error) {
	return r.countByLevel(c, queryCountPapersByLevel, map[string]interface{}{
		"level": level,
	})
}

func (r *paperRepository) CountPassedPapersByLevel(c context.Context, userID string, level entity.ExamLevel) (int, error) {
	return r.countByLevel(c, queryCountPassedPapersByLevel, map[string]interface{}{
		"user_id": userID,
		"level":   level,
	})
}

func (r *paperRepository) countByLevel(c context.Context, namedQuery string, argsKV map[string]interface{}) (int, error) {
	requestID := contextPkg.GetRequestID(c)

	query, args, err := sqlx.Named(namedQuery, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("countByLevel named query preparation err")
		return 0, err
	}
	query = r.q.Rebind(query)

	var count int
	if err := r.q.QueryRowxContext(c, query, args...).Scan(&count); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("countByLevel execution err")
		return 0, err
	}

	return count, nil
}
