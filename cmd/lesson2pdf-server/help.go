package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: lesson2pdf-server [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "HTTP service that turns structured lesson JSON into typeset PDF worksheets.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -p, --port <n>        Listen port (overrides config and PORT)")
	fmt.Fprintln(w, "  -c, --config <name>   Config file name or path")
	fmt.Fprintln(w, "      --debug           Development logging and richer error bodies")
	fmt.Fprintln(w, "      --print-config    Print effective configuration as YAML and exit")
	fmt.Fprintln(w, "      --doctor          Check compiler and environment, then exit")
	fmt.Fprintln(w, "      --json            With --doctor, emit JSON")
	fmt.Fprintln(w, "      --version         Print version and exit")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  PORT, API_SECRET, MAX_EXERCISES, MAX_CONTENT_LENGTH, DEBUG,")
	fmt.Fprintln(w, "  COMPILE_TIMEOUT, LATEX_COMPILER, MAX_CONCURRENT, ALLOWED_ORIGINS, LOG_LEVEL")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Precedence: CLI flags > environment variables > config file > defaults.")
}
