package lesson2pdf

import (
	"regexp"
	"strings"
)

// latexReplacer maps LaTeX reserved characters to their escaped forms.
// strings.Replacer substitutes in a single pass and never rescans replaced
// text, so the backslash rule cannot corrupt the escaped form of any other
// character regardless of rule order.
var latexReplacer = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`&`, `\&`,
	`%`, `\%`,
	`$`, `\$`,
	`#`, `\#`,
	`_`, `\_`,
	`{`, `\{`,
	`}`, `\}`,
	`~`, `\textasciitilde{}`,
	`^`, `\textasciicircum{}`,
)

// newlineRuns matches one or more consecutive line feeds.
var newlineRuns = regexp.MustCompile(`\n+`)

// escapeLatex maps arbitrary text to text safe to embed as literal LaTeX
// content. Reserved characters are escaped, newline runs become paragraph
// breaks, and every other code point passes through unchanged.
//
// \par is used instead of \\ or \newline because it is valid at any
// position; the line-break commands error at paragraph starts, which
// arbitrary user text would trigger.
func escapeLatex(text string) string {
	if text == "" {
		return ""
	}

	escaped := latexReplacer.Replace(text)
	escaped = strings.ReplaceAll(escaped, "\r\n", "\n")
	escaped = strings.ReplaceAll(escaped, "\r", "\n")
	return newlineRuns.ReplaceAllString(escaped, `\par `)
}
