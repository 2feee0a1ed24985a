package lesson2pdf_test

import (
	"context"
	"errors"
	"fmt"
	"strings"

	lesson2pdf "github.com/alnah/go-lesson2pdf"
)

// stubCompiler stands in for a real LaTeX engine so the examples run
// without a TeX installation. Production code passes the result of
// lesson2pdf.DetectCompiler instead.
type stubCompiler struct{}

func (stubCompiler) Compile(_ context.Context, _ string) ([]byte, error) {
	return []byte("%PDF-1.5 example"), nil
}

// Example demonstrates the full pipeline: decode a lesson from JSON,
// then generate the PDF.
func Example() {
	body := `{
		"topic_title": "Fractions",
		"theory_content": "A fraction names part of a whole.",
		"exercises": [
			{"question": "Simplify 4/8.", "hints": ["divide both parts"], "difficulty": "easy"}
		]
	}`

	lesson, err := lesson2pdf.DecodeLesson(strings.NewReader(body), lesson2pdf.DefaultLimits())
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	svc := lesson2pdf.New(lesson2pdf.WithCompiler(stubCompiler{}))
	pdf, err := svc.Generate(context.Background(), lesson)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(strings.HasPrefix(string(pdf), "%PDF-"))
	// Output: true
}

// ExampleDecodeLesson demonstrates validation and defaulting.
func ExampleDecodeLesson() {
	body := `{"exercises": [{"question": "What is 2+2?"}]}`

	lesson, err := lesson2pdf.DecodeLesson(strings.NewReader(body), lesson2pdf.DefaultLimits())
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(lesson.TopicTitle)
	fmt.Println(len(lesson.Exercises))
	// Output:
	// Daily Lesson
	// 1
}

// ExampleDecodeLesson_validation demonstrates reading the machine-readable
// code off a rejected lesson.
func ExampleDecodeLesson_validation() {
	body := `{"topic_title": "No exercises here", "exercises": []}`

	_, err := lesson2pdf.DecodeLesson(strings.NewReader(body), lesson2pdf.DefaultLimits())

	var ve *lesson2pdf.ValidationError
	if errors.As(err, &ve) {
		fmt.Println(ve.Code)
	}
	// Output: MissingExercises
}

// ExampleService_Generate demonstrates handling a compile timeout.
func ExampleService_Generate() {
	svc := lesson2pdf.New(lesson2pdf.WithCompiler(stubCompiler{}))

	lesson := &lesson2pdf.Lesson{
		Exercises: []lesson2pdf.Exercise{{Question: "Name the largest planet."}},
	}

	pdf, err := svc.Generate(context.Background(), lesson)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			fmt.Println("compilation timed out")
		}
		return
	}

	fmt.Printf("generated %d bytes\n", len(pdf))
	// Output: generated 16 bytes
}
