package lesson2pdf

import (
	"time"

	"go.uber.org/zap"
)

// Default validation limits.
const (
	// DefaultMaxExercises caps the exercises accepted per lesson.
	DefaultMaxExercises = 50

	// DefaultMaxContentLength caps the serialized request size (1 MiB).
	DefaultMaxContentLength = 1 << 20
)

// DefaultTopicTitle is used when a lesson omits its title.
const DefaultTopicTitle = "Daily Lesson"

// Lesson is the validated input for PDF generation.
type Lesson struct {
	TopicTitle    string     `json:"topic_title"`    // Optional, defaults to DefaultTopicTitle
	TheoryContent string     `json:"theory_content"` // Optional, section omitted when blank
	Exercises     []Exercise `json:"exercises"`      // Required, 1..MaxExercises, order preserved
}

// Exercise is a single question block in a lesson.
type Exercise struct {
	Question   string   `json:"question"`   // Required, non-empty after trimming
	Difficulty string   `json:"difficulty"` // Optional, rendered only when present
	Hints      []string `json:"hints"`      // Optional, order preserved, blanks skipped
}

// Limits bounds what DecodeLesson accepts. Zero values mean the defaults.
type Limits struct {
	MaxBytes     int64 // Maximum serialized request size in bytes
	MaxExercises int   // Maximum number of exercises per lesson
}

// DefaultLimits returns the standard validation limits.
func DefaultLimits() Limits {
	return Limits{
		MaxBytes:     DefaultMaxContentLength,
		MaxExercises: DefaultMaxExercises,
	}
}

// withDefaults fills zero fields with the default limits.
func (l Limits) withDefaults() Limits {
	if l.MaxBytes <= 0 {
		l.MaxBytes = DefaultMaxContentLength
	}
	if l.MaxExercises <= 0 {
		l.MaxExercises = DefaultMaxExercises
	}
	return l
}

// Option configures a Service.
type Option func(*Service)

// serviceConfig holds internal configuration for Service.
type serviceConfig struct {
	timeout       time.Duration
	maxConcurrent int
}

// defaultTimeout is used when no compile timeout is specified.
const defaultTimeout = 30 * time.Second

// WithTimeout sets the per-compile wall-clock timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("lesson2pdf: WithTimeout duration must be positive")
	}
	return func(s *Service) {
		s.cfg.timeout = d
	}
}

// WithMaxConcurrent bounds how many compilations may run at once.
// Zero or negative means auto (see ResolveCompileSlots).
func WithMaxConcurrent(n int) Option {
	return func(s *Service) {
		s.cfg.maxConcurrent = n
	}
}

// WithCompiler injects the Compiler used for PDF generation, bypassing
// tectonic/pdflatex auto-detection. Servers pass the result of
// DetectCompiler or ResolveCompiler here so detection happens once at
// startup.
func WithCompiler(c Compiler) Option {
	return func(s *Service) {
		if c != nil {
			s.compiler = c
		}
	}
}

// WithLogger attaches a structured logger for pipeline diagnostics.
// The default is a no-op logger; the library never logs unless asked to.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}
