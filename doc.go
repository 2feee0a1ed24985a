// Package lesson2pdf renders structured lesson data to PDF using a LaTeX compiler.
//
// # Quick Start
//
// Create a service, generate a PDF, and write it out:
//
//	svc := lesson2pdf.New()
//
//	pdf, err := svc.Generate(ctx, &lesson2pdf.Lesson{
//	    TopicTitle: "Algebra Basics",
//	    Exercises: []lesson2pdf.Exercise{
//	        {Question: "Solve for x: 2x + 3 = 7", Difficulty: "Easy"},
//	    },
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("lesson.pdf", pdf, 0644)
//
// # Generation Pipeline
//
// Generation follows these stages:
//
//  1. Validation (exercise count, non-empty questions, text sanity)
//  2. LaTeX escaping (single-pass, order-safe replacement of reserved characters)
//  3. Document assembly (fixed preamble, theory section, exercise blocks)
//  4. Compilation via an external LaTeX engine (tectonic or pdflatex)
//
// Untrusted text never reaches the LaTeX source unescaped: every user-supplied
// string passes through the escaper before assembly.
//
// # Configuration
//
// Use functional options to customize the service:
//
//	svc := lesson2pdf.New(
//	    lesson2pdf.WithTimeout(time.Minute),
//	    lesson2pdf.WithMaxConcurrent(4),
//	)
//
// To pin a specific engine instead of relying on detection, resolve it first:
//
//	compiler, err := lesson2pdf.ResolveCompiler(ctx, "/usr/bin/pdflatex")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svc := lesson2pdf.New(lesson2pdf.WithCompiler(compiler))
//
// Validation limits are passed per decode via Limits (see DecodeLesson), since
// they belong to the caller's policy, not the pipeline.
//
// # Compiler Requirements
//
// Compilation requires tectonic or pdflatex on PATH. Detection prefers
// tectonic (self-contained, fetches packages on demand); pdflatex needs a
// TeX Live installation with amsmath, geometry, parskip, and fancyhdr.
// Each compile runs in its own scoped temporary directory, removed on every
// exit path including timeouts.
package lesson2pdf
