package lesson2pdf

import (
	"fmt"
	"strings"
)

// documentFontSize is the base font size option for the article class.
const documentFontSize = "12pt"

// pageMargin is the margin applied to every side of the letter page.
const pageMargin = "1.0in"

// paragraphSkip is the vertical space inserted between paragraphs.
const paragraphSkip = "1em"

// solutionPlaceholder is printed at the bottom of each exercise page.
const solutionPlaceholder = `\textit{(Space for solution...)}`

// buildPreamble generates the document class, packages, page geometry, and
// header/footer styling up to \begin{document}. The escaped title lands in
// the left header with the compile date on the right.
func buildPreamble(title string) string {
	return fmt.Sprintf(`\documentclass[%s]{article}
\usepackage[utf8]{inputenc}
\usepackage{amsmath, amssymb}
\usepackage{geometry}
\geometry{letterpaper, margin=%s}
\usepackage{parskip}
\setlength{\parskip}{%s}
\usepackage{fancyhdr}

\pagestyle{fancy}
\fancyhead[L]{%s}
\fancyhead[R]{\today}
\fancyfoot[C]{Page \thepage}

\begin{document}

`, documentFontSize, pageMargin, paragraphSkip, escapeLatex(title))
}

// buildTheorySection generates the theory section followed by a page break,
// or an empty string when the content is blank.
func buildTheorySection(content string) string {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return ""
	}

	return `\section*{Theory}` + "\n" +
		escapeLatex(trimmed) + "\n" +
		`\newpage` + "\n\n"
}

// buildExerciseBlock generates one exercise: the numbered question heading
// with its difficulty label when present, the question text, the hint list
// when any hint is non-blank, and bottom-pinned space for a handwritten
// solution.
func buildExerciseBlock(number int, ex Exercise) string {
	var buf strings.Builder

	if difficulty := strings.TrimSpace(ex.Difficulty); difficulty == "" {
		buf.WriteString(fmt.Sprintf(`\subsection*{Question %d}`, number) + "\n")
	} else {
		buf.WriteString(fmt.Sprintf(`\subsection*{Question %d (%s)}`, number, escapeLatex(difficulty)) + "\n")
	}
	buf.WriteString(escapeLatex(ex.Question) + "\n\n")

	if hints := presentHints(ex.Hints); len(hints) > 0 {
		buf.WriteString(`\textbf{Hints:}` + "\n")
		buf.WriteString(`\begin{itemize}` + "\n")
		for _, hint := range hints {
			buf.WriteString(`\item ` + escapeLatex(hint) + "\n")
		}
		buf.WriteString(`\end{itemize}` + "\n\n")
	}

	buf.WriteString(`\vfill` + "\n")
	buf.WriteString(solutionPlaceholder + "\n")

	return buf.String()
}

// presentHints filters out blank hints while preserving order. An itemize
// with no \item entries is a LaTeX error, so the hint block is rendered only
// when this returns a non-empty slice.
func presentHints(hints []string) []string {
	out := make([]string, 0, len(hints))
	for _, hint := range hints {
		if strings.TrimSpace(hint) != "" {
			out = append(out, hint)
		}
	}
	return out
}
