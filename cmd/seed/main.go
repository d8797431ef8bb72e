package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/stemsi/exstem-console/internal/config"
	"github.com/stemsi/exstem-console/internal/database"
	"github.com/stemsi/exstem-console/internal/logger"
	"github.com/stemsi/exstem-console/internal/model"
	"github.com/stemsi/exstem-console/internal/repository"
	"github.com/stemsi/exstem-console/internal/service"
)

type seedExam struct {
	title       string
	description string
	startsIn    time.Duration
	duration    int
	questions   []model.QuestionCreate
}

func main() {
	var exams int
	flag.IntVar(&exams, "exams", 25, "Number of demo exams to create")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	examService := service.NewExamService(repository.NewExamRepository(pool), log)
	questionService := service.NewQuestionService(repository.NewQuestionRepository(pool), log)

	existing, err := examService.List(ctx, model.ExamFilter{}, 1, 1)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to count exams")
	}
	if existing.TotalCount > 0 {
		fmt.Printf("Database already holds %d exams, nothing to seed.\n", existing.TotalCount)
		return
	}

	fmt.Printf("=== Seeding %d Exams ===\n", exams)

	base := time.Now().UTC().Truncate(time.Hour).Add(24 * time.Hour)
	created, questionCount := 0, 0
	for i := 0; i < exams; i++ {
		tpl := templates[i%len(templates)]
		start := base.Add(time.Duration(i) * 24 * time.Hour).Add(tpl.startsIn)

		exam, err := examService.Create(ctx, model.ExamCreate{
			Title:           fmt.Sprintf("%s %d", tpl.title, i/len(templates)+1),
			Description:     tpl.description,
			StartDate:       start.Format(time.RFC3339),
			EndDate:         start.Add(time.Duration(tpl.duration+30) * time.Minute).Format(time.RFC3339),
			DurationMinutes: tpl.duration,
			CreatedBy:       cfg.ConsoleUserID,
		})
		if err != nil {
			fmt.Printf("Error creating exam %q: %v\n", tpl.title, err)
			continue
		}
		created++

		for _, q := range tpl.questions {
			q.ExamID = exam.ID
			if _, err := questionService.Create(ctx, q); err != nil {
				fmt.Printf("Error creating question for exam %d: %v\n", exam.ID, err)
				continue
			}
			questionCount++
		}

		if created%10 == 0 {
			fmt.Printf("Created %d exams...\n", created)
		}
	}

	fmt.Printf("\nSeed completed! Added %d/%d exams and %d questions.\n", created, exams, questionCount)
}

var templates = []seedExam{
	{
		title:       "Mathematics Midterm",
		description: "Algebra and geometry, chapters 1-6.",
		startsIn:    8 * time.Hour,
		duration:    90,
		questions: []model.QuestionCreate{
			{Text: "What is 7 x 8?", Type: model.QuestionTypeMultipleChoice, Options: []string{"54", "56", "58", "64"}, CorrectAnswer: "56", Points: 2},
			{Text: "The sum of the angles of a triangle is 180 degrees.", Type: model.QuestionTypeTrueFalse, CorrectAnswer: "True", Points: 1},
			{Text: "Prove that the square root of 2 is irrational.", Type: model.QuestionTypeEssay, Points: 10},
		},
	},
	{
		title:       "Physics Quiz",
		description: "Kinematics and Newton's laws.",
		startsIn:    10 * time.Hour,
		duration:    30,
		questions: []model.QuestionCreate{
			{Text: "Unit of force in SI?", Type: model.QuestionTypeShortAnswer, CorrectAnswer: "newton", Points: 1},
			{Text: "Which quantity is a vector?", Type: model.QuestionTypeMultipleChoice, Options: []string{"Mass", "Speed", "Velocity", "Energy"}, CorrectAnswer: "Velocity", Points: 2},
		},
	},
	{
		title:       "Computer Networks Final",
		description: "OSI model, routing and subnetting.",
		startsIn:    13 * time.Hour,
		duration:    120,
		questions: []model.QuestionCreate{
			{Text: "How many layers does the OSI model have?", Type: model.QuestionTypeMultipleChoice, Options: []string{"4", "5", "7", "9"}, CorrectAnswer: "7", Points: 2},
			{Text: "TCP is a connectionless protocol.", Type: model.QuestionTypeTrueFalse, CorrectAnswer: "False", Points: 1},
			{Text: "Explain the difference between a switch and a router.", Type: model.QuestionTypeEssay, Points: 8},
		},
	},
}
