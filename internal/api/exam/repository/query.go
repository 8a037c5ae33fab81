package examRepository

const (
	queryCreatePaper = `
INSERT INTO papers (id, title, level, created_at, updated_at)
VALUES (:id, :title, :level, :created_at, :updated_at)`

	queryGetPaperByID = `
SELECT id, title, level, created_at, updated_at
FROM papers
    WHERE id = :id`

	queryCountPapersByLevel = `
SELECT COUNT(*) FROM papers
    WHERE level = :level`

	queryCountPassedPapersByLevel = `
SELECT COUNT(*)
FROM papers p
         JOIN user_paper_credits c ON c.paper_id = p.id
WHERE c.user_id = :user_id
  AND p.level = :level`

	queryGetAvailableExams = `
SELECT e.id, e.paper_id, p.title AS paper_title, e.diet, e.year,
       e.duration_minutes, e.total_score, e.pass_mark
FROM exams e
         JOIN papers p ON p.id = e.paper_id
WHERE p.level = :level
  AND p.id NOT IN (SELECT paper_id FROM user_paper_credits WHERE user_id = :user_id)
ORDER BY e.year, e.diet`

	queryCreateExam = `
INSERT INTO exams (id, paper_id, diet, year, duration_minutes, total_score, pass_mark, created_at, updated_at)
VALUES (:id, :paper_id, :diet, :year, :duration_minutes, :total_score, :pass_mark, :created_at, :updated_at)`

	queryGetExamByID = `
SELECT id, paper_id, diet, year, duration_minutes, total_score, pass_mark, created_at, updated_at
FROM exams
    WHERE id = :id`

	queryCreateQuestion = `
INSERT INTO questions (id, exam_id, question_text, question_type, options, correct_answer, created_at)
VALUES (:id, :exam_id, :question_text, :question_type, :options, :correct_answer, :created_at)`

	queryGetQuestionsByExamID = `
SELECT id, exam_id, question_text, question_type, options, correct_answer, created_at
FROM questions
WHERE exam_id = :exam_id
ORDER BY created_at`

	queryCreateSession = `
INSERT INTO user_exam_sessions (id, user_id, exam_id, start_time)
VALUES (:id, :user_id, :exam_id, :start_time)`

	queryGetActiveSessionByExam = `
SELECT id, user_id, exam_id, score, submitted_answers, start_time, end_time
FROM user_exam_sessions
WHERE user_id = :user_id
  AND exam_id = :exam_id
  AND end_time IS NULL`

	queryGetActiveSessionByID = `
SELECT id, user_id, exam_id, score, submitted_answers, start_time, end_time
FROM user_exam_sessions
WHERE id = :id
  AND user_id = :user_id
  AND end_time IS NULL`

	queryFinalizeSession = `
UPDATE user_exam_sessions
SET score             = :score,
    submitted_answers = :submitted_answers,
    end_time          = :end_time
WHERE id = :id`

	queryCreditExists = `
SELECT COUNT(*)
FROM user_paper_credits
WHERE user_id = :user_id
  AND paper_id = :paper_id`

	queryCreateCredit = `
INSERT INTO user_paper_credits (id, user_id, paper_id, passed, passed_date)
VALUES (:id, :user_id, :paper_id, :passed, :passed_date)`
)
