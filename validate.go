package lesson2pdf

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// DecodeLesson reads one JSON-encoded lesson from r and validates it against
// limits. Checks run in order and stop at the first failure: body size, JSON
// shape, exercises presence, exercises count, then per-exercise fields. On
// success the returned lesson has defaults applied and is ready for
// Service.Generate.
func DecodeLesson(r io.Reader, limits Limits) (*Lesson, error) {
	limits = limits.withDefaults()

	body, err := io.ReadAll(io.LimitReader(r, limits.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading lesson body: %w", err)
	}
	if int64(len(body)) > limits.MaxBytes {
		return nil, newValidationError(CodePayloadTooLarge, ErrPayloadTooLarge,
			"request body exceeds %d bytes", limits.MaxBytes)
	}

	// json.Unmarshal accepts "null" and bare scalars without complaint, so
	// require an object before handing the body over.
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, newValidationError(CodeMalformedInput, ErrMalformedInput,
			"request body must be a JSON object")
	}

	var lesson Lesson
	if err := json.Unmarshal(trimmed, &lesson); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field == "exercises" {
			return nil, newValidationError(CodeMissingExercises, ErrMissingExercises,
				"exercises must be an array with at least one entry")
		}
		return nil, newValidationError(CodeMalformedInput, ErrMalformedInput,
			"request body is not a valid lesson object")
	}

	if err := lesson.validate(limits); err != nil {
		return nil, err
	}
	lesson.applyDefaults()

	return &lesson, nil
}

// validate enforces the lesson rules that JSON decoding cannot express.
func (l *Lesson) validate(limits Limits) error {
	if r, ok := controlCharIn(l.TopicTitle); ok {
		return newValidationError(CodeMalformedInput, ErrMalformedInput,
			"topic_title contains control character %U", r)
	}
	if r, ok := controlCharIn(l.TheoryContent); ok {
		return newValidationError(CodeMalformedInput, ErrMalformedInput,
			"theory_content contains control character %U", r)
	}

	if len(l.Exercises) == 0 {
		return newValidationError(CodeMissingExercises, ErrMissingExercises,
			"at least one exercise is required")
	}
	if len(l.Exercises) > limits.MaxExercises {
		return newValidationError(CodeTooManyExercises, ErrTooManyExercises,
			"exercise count %d exceeds the limit of %d", len(l.Exercises), limits.MaxExercises)
	}

	for i, ex := range l.Exercises {
		idx := i + 1
		if strings.TrimSpace(ex.Question) == "" {
			return newValidationError(CodeInvalidExercise, ErrInvalidExercise,
				"exercise %d is missing a question", idx)
		}
		if r, ok := controlCharIn(ex.Question); ok {
			return newValidationError(CodeInvalidExercise, ErrInvalidExercise,
				"exercise %d question contains control character %U", idx, r)
		}
		if r, ok := controlCharIn(ex.Difficulty); ok {
			return newValidationError(CodeInvalidExercise, ErrInvalidExercise,
				"exercise %d difficulty contains control character %U", idx, r)
		}
		for _, hint := range ex.Hints {
			if r, ok := controlCharIn(hint); ok {
				return newValidationError(CodeInvalidExercise, ErrInvalidExercise,
					"exercise %d hints contain control character %U", idx, r)
			}
		}
	}

	return nil
}

// applyDefaults fills the optional lesson fields with their documented
// defaults. Only the title needs materializing; empty theory, difficulty,
// and hints already render as absent sections.
func (l *Lesson) applyDefaults() {
	if strings.TrimSpace(l.TopicTitle) == "" {
		l.TopicTitle = DefaultTopicTitle
	}
}

// controlCharIn returns the first control character in s that has no
// printable rendering, if any. Tab, line feed, and carriage return are
// permitted since they translate to spacing and paragraph breaks.
func controlCharIn(s string) (rune, bool) {
	for _, r := range s {
		switch r {
		case '\n', '\r', '\t':
			continue
		}
		if unicode.IsControl(r) {
			return r, true
		}
	}
	return 0, false
}
