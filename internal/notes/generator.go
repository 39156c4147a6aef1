package notes

import (
	"context"
	"fmt"
	"strings"

	"studyflow-backend/internal/models"
)

// Result is the study material generated for one note.
type Result struct {
	Summary    string
	Flashcards []models.Flashcard
	Quiz       []models.QuizQuestion
}

// Generator turns an uploaded note into study material.
type Generator interface {
	Generate(ctx context.Context, note models.UploadedNote) (Result, error)
}

// MockGenerator returns the same canned material for every note, naming it
// in the summary.
type MockGenerator struct{}

func (MockGenerator) Generate(ctx context.Context, note models.UploadedNote) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	topic, _, _ := strings.Cut(note.Name, ".")

	return Result{
		Summary: fmt.Sprintf("This note covers key concepts in %s. Main topics include fundamental principles, practical applications, and important definitions. The content provides a comprehensive overview suitable for exam preparation and quick review.", topic),
		Flashcards: []models.Flashcard{
			{
				Question: "What is the main concept discussed?",
				Answer:   "The fundamental principles and applications covered in the study material.",
			},
			{
				Question: "Key takeaway from this topic?",
				Answer:   "Understanding the practical applications and theoretical foundations.",
			},
			{
				Question: "Important definition to remember?",
				Answer:   "Core terminology and concepts essential for mastery.",
			},
		},
		Quiz: []models.QuizQuestion{
			{
				Question: "Which of the following best describes the main concept?",
				Options: []string{
					"Option A: Basic principle",
					"Option B: Advanced theory",
					"Option C: Practical application",
					"Option D: All of the above",
				},
				Correct: 3,
			},
			{
				Question: "What is the most important aspect to remember?",
				Options:  []string{"Memorization", "Understanding", "Application", "All three"},
				Correct:  3,
			},
		},
	}, nil
}
