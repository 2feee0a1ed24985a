package lesson2pdf

import "strings"

// Assembler produces a complete LaTeX document from a validated lesson.
type Assembler interface {
	Assemble(lesson *Lesson) string
}

// texAssembler renders the fixed lesson layout: title header, optional
// theory page, then one page per exercise.
type texAssembler struct{}

// Compile-time interface implementation check.
var _ Assembler = (*texAssembler)(nil)

// newTexAssembler creates the default document assembler.
func newTexAssembler() *texAssembler {
	return &texAssembler{}
}

// Assemble renders lesson into LaTeX source. Output is deterministic:
// identical lessons produce byte-identical documents, and exercises and
// hints keep their input order. Every user-supplied string is escaped
// before it reaches the document.
func (a *texAssembler) Assemble(lesson *Lesson) string {
	title := lesson.TopicTitle
	if strings.TrimSpace(title) == "" {
		title = DefaultTopicTitle
	}

	var buf strings.Builder
	buf.WriteString(buildPreamble(title))
	buf.WriteString(buildTheorySection(lesson.TheoryContent))
	buf.WriteString(`\section*{Exercises}` + "\n\n")

	for i, ex := range lesson.Exercises {
		buf.WriteString(buildExerciseBlock(i+1, ex))
		if i < len(lesson.Exercises)-1 {
			buf.WriteString(`\newpage` + "\n\n")
		}
	}

	buf.WriteString(`\end{document}` + "\n")

	return buf.String()
}
