package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/socgen/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("socgen", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
socgen - synthesizes the bus interconnect of a hardware description.

Usage:
  socgen [options] PATH...

Arguments:
  PATH
    A description file or a directory of .hcl files. Several may be given.

Options:
`)
		flagSet.PrintDefaults()
	}

	topFlag := flagSet.String("top", "", "Subsystem to build. Defaults to the last subsystem declared.")
	outFlag := flagSet.String("o", "", "Write the report to this file instead of standard output.")
	formatFlag := flagSet.String("format", "yaml", "Report format. Options: 'yaml' or 'json'.")
	listFlag := flagSet.Bool("list-files", false, "Print the files generation would produce and exit.")
	outDirFlag := flagSet.String("outdir", "", "Directory prefix for listed files.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	params := make(map[string]string)
	flagSet.Func("param", "Override a top-level parameter, as NAME=EXPR. May be repeated.", func(s string) error {
		name, expr, ok := strings.Cut(s, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return fmt.Errorf("expected NAME=EXPR, got %q", s)
		}
		params[name] = expr
		return nil
	})

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if flagSet.NArg() == 0 {
		slog.Debug("No description path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	config, err := app.NewConfig(app.Config{
		Paths:      flagSet.Args(),
		Top:        *topFlag,
		OutputPath: *outFlag,
		OutDir:     *outDirFlag,
		Format:     strings.ToLower(*formatFlag),
		ListFiles:  *listFlag,
		Params:     params,
		LogFormat:  strings.ToLower(*logFormatFlag),
		LogLevel:   strings.ToLower(*logLevelFlag),
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
