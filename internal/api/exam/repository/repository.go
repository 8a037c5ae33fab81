package examRepository

import (
	"testa/internal/api/exam"
	"testa/internal/entity"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

func New(db *sqlx.DB, log *logrus.Logger) Repository {
	return &repository{
		DB:  db,
		log: log,
	}
}

type repository struct {
	DB  *sqlx.DB
	log *logrus.Logger
}

type Repository interface {
	NewClient(tx bool) (Client, error)
}

func (r *repository) NewClient(tx bool) (Client, error) {
	var db sqlx.ExtContext
	var commitFunc, rollbackFunc func() error

	db = r.DB

	if tx {
		txx, err := r.DB.Beginx()
		if err != nil {
			return Client{}, err
		}

		db = txx
		commitFunc = txx.Commit
		rollbackFunc = txx.Rollback
	} else {
		commitFunc = func() error { return nil }
		rollbackFunc = func() error { return nil }
	}

	return Client{
		Papers:   &paperRepository{q: db, log: r.log},
		Exams:    &examSubRepository{q: db, log: r.log},
		Sessions: &sessionRepository{q: db, log: r.log},
		Commit:   commitFunc,
		Rollback: rollbackFunc,
	}, nil
}

type Client struct {
	Papers interface {
		CreatePaper(ctx context.Context, paper entity.Paper) error
		GetPaperByID(ctx context.Context, id string) (entity.Paper, error)
		CountPapersByLevel(ctx context.Context, level entity.ExamLevel) (int, error)
		CountPassedPapersByLevel(ctx context.Context, userID string, level entity.ExamLevel) (int, error)
	}

	Exams interface {
		CreateExam(ctx context.Context, e entity.Exam) error
		GetExamByID(ctx context.Context, id string) (entity.Exam, error)
		GetAvailableExams(ctx context.Context, userID string, level entity.ExamLevel) ([]exam.ExamResponse, error)
		CreateQuestion(ctx context.Context, q entity.Question) error
		GetQuestionsByExamID(ctx context.Context, examID string) ([]entity.Question, error)
	}

	Sessions interface {
		CreateSession(ctx context.Context, session entity.ExamSession) error
		GetActiveSessionByExam(ctx context.Context, userID string, examID string) (entity.ExamSession, error)
		GetActiveSessionByID(ctx context.Context, sessionID string, userID string) (entity.ExamSession, error)
		FinalizeSession(ctx context.Context, session entity.ExamSession) error
		CreditExists(ctx context.Context, userID string, paperID string) (bool, error)
		CreateCredit(ctx context.Context, credit entity.PaperCredit) error
	}

	Commit   func() error
	Rollback func() error
}

type paperRepository struct {
	q   sqlx.ExtContext
	log *logrus.Logger
}

type examSubRepository struct {
	q   sqlx.ExtContext
	log *logrus.Logger
}

type sessionRepository struct {
	q   sqlx.ExtContext
	log *logrus.Logger
}
