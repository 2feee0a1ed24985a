package main

import (
	"os"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across run modes.
type commonFlags struct {
	config string
	debug  bool
}

// serveFlags holds all flags for the server binary.
type serveFlags struct {
	common      commonFlags
	port        int
	version     bool
	doctor      bool
	doctorJSON  bool
	printConfig bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVar(&f.debug, "debug", false, "development logging and richer error bodies")
}

// parseServeFlags parses the server flags from args (without the binary name).
func parseServeFlags(args []string) (*serveFlags, error) {
	fs := flag.NewFlagSet("lesson2pdf-server", flag.ContinueOnError)
	f := &serveFlags{}

	fs.IntVarP(&f.port, "port", "p", 0, "listen port (0 = config or PORT env)")
	addCommonFlags(fs, &f.common)

	fs.BoolVar(&f.version, "version", false, "print version and exit")
	fs.BoolVar(&f.doctor, "doctor", false, "check the environment and exit")
	fs.BoolVar(&f.doctorJSON, "json", false, "with --doctor, emit JSON")
	fs.BoolVar(&f.printConfig, "print-config", false, "print effective configuration as YAML and exit")

	fs.Usage = func() { printUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return f, nil
}
