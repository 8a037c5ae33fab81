package exam

import (
	"encoding/json"
	"time"
)

type CreatePaperRequest struct {
	Title string `json:"title" validate:"required,min=3,max=255"`
	Level string `json:"level" validate:"required,oneof=Foundation Skills Professional"`
}

type PaperResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Level     string    `json:"level"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateExamRequest struct {
	PaperID         string `json:"paper_id" validate:"required"`
	Diet            string `json:"diet" validate:"required,oneof=March July November"`
	Year            int    `json:"year" validate:"required,min=2000,max=2100"`
	DurationMinutes int    `json:"duration_minutes" validate:"omitempty,min=1"`
	TotalScore      int    `json:"total_score" validate:"omitempty,min=1"`
	PassMark        int    `json:"pass_mark" validate:"omitempty,min=1"`
}

type ExamResponse struct {
	ID              string `json:"id"`
	PaperID         string `json:"paper_id"`
	PaperTitle      string `json:"paper_title"`
	Diet            string `json:"diet"`
	Year            int    `json:"year"`
	DurationMinutes int    `json:"duration_minutes"`
	TotalScore      int    `json:"total_score"`
	PassMark        int    `json:"pass_mark"`
}

type CreateQuestionRequest struct {
	QuestionText  string            `json:"question_text" validate:"required"`
	QuestionType  string            `json:"question_type" validate:"required,oneof=Objective Theory"`
	Options       map[string]string `json:"options" validate:"omitempty"`
	CorrectAnswer string            `json:"correct_answer" validate:"required"`
}

// QuestionResponse never carries the correct answer.
type QuestionResponse struct {
	ID           string          `json:"id"`
	QuestionText string          `json:"question_text"`
	QuestionType string          `json:"question_type"`
	Options      json.RawMessage `json:"options,omitempty"`
}

type StartSessionResponse struct {
	SessionID       string             `json:"session_id"`
	ExamTitle       string             `json:"exam_title"`
	DurationMinutes int                `json:"duration_minutes"`
	Questions       []QuestionResponse `json:"questions"`
}

type AnswerSubmission struct {
	QuestionID string `json:"question_id" validate:"required"`
	Answer     string `json:"answer" validate:"required"`
}

type ExamSubmission struct {
	Answers []AnswerSubmission `json:"answers" validate:"required,dive"`
}

type SubmitExamResponse struct {
	Message string  `json:"message"`
	Score   float64 `json:"score"`
	Passed  bool    `json:"passed"`
}
