package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/ixdecode/internal/app"
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

// Parse processes command-line arguments on top of the environment defaults.
// It returns a populated Config, a boolean indicating if the program should
// exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	env, err := LoadEnv()
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	return ParseWithEnv(args, env, output)
}

// ParseWithEnv is Parse with explicit environment defaults.
func ParseWithEnv(args []string, env *Env, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("ixdecode", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
ixdecode - Decode Solana program instruction data against Anchor IDLs and HCL schemas.

Usage:
  ixdecode [options] DATA...
  ixdecode [options] -serve ADDR

Arguments:
  DATA
    Instruction data, hex encoded unless -encoding says otherwise.

Environment:
  IXDECODE_IDL, IXDECODE_LOG_LEVEL, IXDECODE_LOG_FORMAT, IXDECODE_LISTEN,
  IXDECODE_HEALTHCHECK_PORT provide defaults for the matching options.

Options:
`)
		flagSet.PrintDefaults()
	}

	idlPaths := pathList{paths: splitList(env.IDL)}
	flagSet.Var(&idlPaths, "idl", "Anchor IDL (.json) or HCL schema (.hcl) file or directory. Repeatable, comma separated.")
	builtinFlag := flagSet.Bool("builtin", true, "Register the builtin program schemas (Jupiter v6, Raydium AMM v4).")
	encodingFlag := flagSet.String("encoding", "hex", "Encoding of DATA. Options: 'hex', 'base58', 'base64'.")
	outputFlag := flagSet.String("output", "json", "Output format. Options: 'json' or 'hcl'.")
	programFlag := flagSet.String("program", "", "Program id or schema name. Optional when one schema is loaded.")
	accountsFlag := flagSet.String("accounts", "", "Comma separated base58 account keys of the instruction.")
	serveFlag := flagSet.String("serve", env.Listen, "Serve HTTP and socket.io decode requests on this address.")
	watchFlag := flagSet.Bool("watch", false, "Reload -idl schemas when they change. Requires -serve.")
	healthPortFlag := flagSet.Int("healthcheck-port", env.HealthcheckPort, "Port for the HTTP health check server. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", env.LogFormat, "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", env.LogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	schemaFlag := flagSet.Bool("print-idl-schema", false, "Print the JSON Schema of accepted Anchor IDL documents and exit.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if flagSet.NArg() == 0 && *serveFlag == "" && !*schemaFlag {
		slog.Debug("Nothing to do, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	var data []string
	if flagSet.NArg() > 0 {
		data = flagSet.Args()
	}

	config, err := app.NewConfig(app.Config{
		IDLPaths:        idlPaths.paths,
		Builtin:         *builtinFlag,
		Encoding:        strings.ToLower(*encodingFlag),
		Output:          strings.ToLower(*outputFlag),
		Program:         *programFlag,
		Accounts:        splitList(*accountsFlag),
		Data:            data,
		Listen:          *serveFlag,
		Watch:           *watchFlag,
		HealthcheckPort: *healthPortFlag,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
		PrintIDLSchema:  *schemaFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

// pathList collects a repeatable, comma separated flag. The first Set
// replaces the environment default.
type pathList struct {
	paths    []string
	explicit bool
}

func (p *pathList) String() string { return strings.Join(p.paths, ",") }

func (p *pathList) Set(s string) error {
	if !p.explicit {
		p.paths, p.explicit = nil, true
	}
	p.paths = append(p.paths, splitList(s)...)
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
