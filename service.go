package lesson2pdf

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Service orchestrates the lesson-to-PDF pipeline: assemble LaTeX source
// from a validated lesson, then compile it with a bounded number of
// concurrent engine subprocesses.
//
// A Service is safe for concurrent use. Requests share nothing but the
// read-only configuration and the compile slots; per-request state lives in
// each compilation's scoped working directory.
type Service struct {
	cfg       serviceConfig
	assembler Assembler
	compiler  Compiler
	limiter   *compileLimiter
	log       *zap.Logger
}

// New creates a Service with default configuration.
// Use options to customize behavior (e.g., WithTimeout, WithCompiler,
// WithMaxConcurrent).
func New(opts ...Option) *Service {
	s := &Service{
		cfg:       serviceConfig{timeout: defaultTimeout},
		assembler: newTexAssembler(),
		log:       zap.NewNop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	// Detect the engine lazily if none was injected (e.g., by tests)
	if s.compiler == nil {
		s.compiler = &autoCompiler{}
	}
	s.limiter = newCompileLimiter(ResolveCompileSlots(s.cfg.maxConcurrent))

	return s
}

// Generate runs the full pipeline and returns the PDF bytes.
// The configured timeout applies on top of any caller deadline.
// Recovers from internal panics to prevent crashes from propagating to
// callers.
func (s *Service) Generate(ctx context.Context, lesson *Lesson) (pdf []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if lesson == nil {
		return nil, ErrNilLesson
	}
	if len(lesson.Exercises) == 0 {
		return nil, ErrMissingExercises
	}

	source := s.assembler.Assemble(lesson)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.timeout)
	defer cancel()

	if err := s.limiter.acquire(ctx); err != nil {
		return nil, fmt.Errorf("waiting for compile slot: %w", err)
	}
	defer s.limiter.release()

	start := time.Now()
	pdfBytes, err := s.compiler.Compile(ctx, source)
	if err != nil {
		s.log.Warn("compilation failed",
			zap.Error(err),
			zap.Int("exercises", len(lesson.Exercises)),
			zap.Duration("elapsed", time.Since(start)))
		return nil, fmt.Errorf("compiling document: %w", err)
	}

	s.log.Debug("lesson compiled",
		zap.Int("exercises", len(lesson.Exercises)),
		zap.Int("pdf_bytes", len(pdfBytes)),
		zap.Duration("elapsed", time.Since(start)))

	return pdfBytes, nil
}

// CompilerInfo describes the engine Generate will use, running detection if
// it has not happened yet. The error reports an unusable toolchain.
func (s *Service) CompilerInfo(ctx context.Context) (CompilerInfo, error) {
	if ip, ok := s.compiler.(infoReporter); ok {
		return ip.Info(ctx)
	}
	return CompilerInfo{}, nil
}
