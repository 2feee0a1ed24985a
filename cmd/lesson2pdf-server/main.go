package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// Parse flags first to get debug mode and run-mode switches
	flags, err := parseServeFlags(os.Args[1:])
	if err != nil {
		os.Exit(ExitUsage)
	}

	if flags.version {
		fmt.Fprintf(os.Stdout, "lesson2pdf-server %s\n", Version)
		os.Exit(ExitSuccess)
	}

	// Configure GOMAXPROCS with conditional logging
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if flags.common.debug {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	env := DefaultEnv()
	warnUnknownEnvVars(env.Stderr)

	if flags.doctor {
		os.Exit(runDoctorCmd(flags, env))
	}

	cfg, err := resolveConfig(flags, loadEnvConfig())
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		os.Exit(exitCodeFor(err))
	}

	if flags.printConfig {
		if err := printConfigYAML(env.Stdout, cfg); err != nil {
			fmt.Fprintln(env.Stderr, err)
			os.Exit(ExitGeneral)
		}
		os.Exit(ExitSuccess)
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	if err := runServe(ctx, cfg); err != nil {
		fmt.Fprintln(env.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}
