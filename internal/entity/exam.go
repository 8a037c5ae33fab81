package entity

import (
	"database/sql"
	"time"
)

type ExamLevel string

const (
	LevelFoundation   ExamLevel = "Foundation"
	LevelSkills       ExamLevel = "Skills"
	LevelProfessional ExamLevel = "Professional"
)

type QuestionType string

const (
	QuestionObjective QuestionType = "Objective"
	QuestionTheory    QuestionType = "Theory"
)

type ExamDiet string

const (
	DietMarch    ExamDiet = "March"
	DietJuly     ExamDiet = "July"
	DietNovember ExamDiet = "November"
)

type Paper struct {
	ID        string    `db:"id"`
	Title     string    `db:"title"`
	Level     ExamLevel `db:"level"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type Exam struct {
	ID              string    `db:"id"`
	PaperID         string    `db:"paper_id"`
	Diet            ExamDiet  `db:"diet"`
	Year            int       `db:"year"`
	DurationMinutes int       `db:"duration_minutes"`
	TotalScore      int       `db:"total_score"`
	PassMark        int       `db:"pass_mark"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

type Question struct {
	ID            string       `db:"id"`
	ExamID        string       `db:"exam_id"`
	QuestionText  string       `db:"question_text"`
	QuestionType  QuestionType `db:"question_type"`
	Options       []byte       `db:"options"` // JSONB, option label -> text
	CorrectAnswer string       `db:"correct_answer"`
	CreatedAt     time.Time    `db:"created_at"`
}

type ExamSession struct {
	ID               string        `db:"id"`
	UserID           string        `db:"user_id"`
	ExamID           string        `db:"exam_id"`
	Score            sql.NullInt64 `db:"score"`
	SubmittedAnswers []byte        `db:"submitted_answers"` // JSONB
	StartTime        time.Time     `db:"start_time"`
	EndTime          sql.NullTime  `db:"end_time"`
}

type PaperCredit struct {
	ID         string    `db:"id"`
	UserID     string    `db:"user_id"`
	PaperID    string    `db:"paper_id"`
	Passed     bool      `db:"passed"`
	PassedDate time.Time `db:"passed_date"`
}
