package examService

import (
	"testa/internal/api/exam"
	examRepository "testa/internal/api/exam/repository"
	"testa/internal/entity"

	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestGradeSubmission(t *testing.T) {
	questions := []entity.Question{
		{ID: "q1", CorrectAnswer: "A"},
		{ID: "q2", CorrectAnswer: "C"},
		{ID: "q3", CorrectAnswer: "B"},
		{ID: "q4", CorrectAnswer: "D"},
	}

	tests := []struct {
		name       string
		questions  []entity.Question
		submission exam.ExamSubmission
		want       float64
	}{
		{
			name:       "no questions",
			questions:  nil,
			submission: exam.ExamSubmission{Answers: []exam.AnswerSubmission{{QuestionID: "q1", Answer: "A"}}},
			want:       0,
		},
		{
			name:      "all correct",
			questions: questions,
			submission: exam.ExamSubmission{Answers: []exam.AnswerSubmission{
				{QuestionID: "q1", Answer: "A"},
				{QuestionID: "q2", Answer: "C"},
				{QuestionID: "q3", Answer: "B"},
				{QuestionID: "q4", Answer: "D"},
			}},
			want: 100,
		},
		{
			name:      "half correct",
			questions: questions,
			submission: exam.ExamSubmission{Answers: []exam.AnswerSubmission{
				{QuestionID: "q1", Answer: "A"},
				{QuestionID: "q2", Answer: "B"},
				{QuestionID: "q3", Answer: "B"},
				{QuestionID: "q4", Answer: "A"},
			}},
			want: 50,
		},
		{
			name:      "unknown question ids score nothing",
			questions: questions,
			submission: exam.ExamSubmission{Answers: []exam.AnswerSubmission{
				{QuestionID: "q9", Answer: "A"},
				{QuestionID: "q1", Answer: "A"},
			}},
			want: 25,
		},
		{
			name:       "empty submission",
			questions:  questions,
			submission: exam.ExamSubmission{},
			want:       0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := gradeSubmission(tc.questions, tc.submission); got != tc.want {
				t.Errorf("gradeSubmission() = %v; want %v", got, tc.want)
			}
		})
	}
}

// fakePapers serves the level-progression counts without a database.
type fakePapers struct {
	totals map[entity.ExamLevel]int
	passed map[entity.ExamLevel]int
}

func (f *fakePapers) CreatePaper(ctx context.Context, paper entity.Paper) error {
	return nil
}

func (f *fakePapers) GetPaperByID(ctx context.Context, id string) (entity.Paper, error) {
	return entity.Paper{}, exam.ErrPaperNotFound
}

func (f *fakePapers) CountPapersByLevel(ctx context.Context, level entity.ExamLevel) (int, error) {
	return f.totals[level], nil
}

func (f *fakePapers) CountPassedPapersByLevel(ctx context.Context, userID string, level entity.ExamLevel) (int, error) {
	return f.passed[level], nil
}

func TestResolveCurrentLevel(t *testing.T) {
	tests := []struct {
		name   string
		totals map[entity.ExamLevel]int
		passed map[entity.ExamLevel]int
		want   entity.ExamLevel
	}{
		{
			name:   "fresh user starts at foundation",
			totals: map[entity.ExamLevel]int{entity.LevelFoundation: 4, entity.LevelSkills: 6},
			passed: map[entity.ExamLevel]int{},
			want:   entity.LevelFoundation,
		},
		{
			name:   "partial foundation stays at foundation",
			totals: map[entity.ExamLevel]int{entity.LevelFoundation: 4, entity.LevelSkills: 6},
			passed: map[entity.ExamLevel]int{entity.LevelFoundation: 3},
			want:   entity.LevelFoundation,
		},
		{
			name:   "foundation complete moves to skills",
			totals: map[entity.ExamLevel]int{entity.LevelFoundation: 4, entity.LevelSkills: 6},
			passed: map[entity.ExamLevel]int{entity.LevelFoundation: 4},
			want:   entity.LevelSkills,
		},
		{
			name:   "skills complete moves to professional",
			totals: map[entity.ExamLevel]int{entity.LevelFoundation: 4, entity.LevelSkills: 6},
			passed: map[entity.ExamLevel]int{entity.LevelFoundation: 4, entity.LevelSkills: 6},
			want:   entity.LevelProfessional,
		},
	}

	log := logrus.New()
	log.SetOutput(io.Discard)
	domain := &examDomainImpl{log: log}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := examRepository.Client{
				Papers: &fakePapers{totals: tc.totals, passed: tc.passed},
			}

			got, err := domain.resolveCurrentLevel(context.Background(), client, "user-1")
			if err != nil {
				t.Fatalf("resolveCurrentLevel: %v", err)
			}
			if got != tc.want {
				t.Errorf("level = %q; want %q", got, tc.want)
			}
		})
	}
}
